// Package prep contains the preprocessors that produce the input the
// engines expect: the sorter, the frequency relabeler and the DIMACS
// CNF converter. All of them emit packed binary datasets.
package prep

import (
	"bufio"
	"os"
	"sort"

	pb "github.com/cheggaaa/pb"
	"github.com/ovlad32/ams/misc/serde"
	"github.com/ovlad32/ams/sets"
	"github.com/ovlad32/ams/sources"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var logger = log.StandardLogger()

func SetLogger(l *log.Logger) {
	logger = l
}

type iSizedSource interface {
	sources.IRecordSource
	Size() int64
}

func newReadBar(src sources.IRecordSource) *pb.ProgressBar {
	sized, ok := src.(iSizedSource)
	if !ok {
		return nil
	}
	bar := pb.New64(sized.Size())
	bar.SetUnits(pb.U_BYTES)
	bar.ShowPercent = true
	bar.ShowBar = true
	bar.ShowSpeed = true
	bar.ShowTimeLeft = true
	bar.Output = os.Stderr
	return bar.Start()
}

func sortSets(sortUs []*sets.Set, byCardinality bool) {
	if byCardinality {
		logger.Info("sorting by cardinality...")
		sort.Slice(sortUs, func(i, j int) bool {
			return sets.CardinalityLess(sortUs[i], sortUs[j])
		})
	} else {
		logger.Info("sorting lexicographically...")
		sort.Slice(sortUs, func(i, j int) bool {
			return sets.Less(sortUs[i], sortUs[j])
		})
	}
}

func writeSets(outPath string, sortUs []*sets.Set) (err error) {
	logger.Infof("writing %v itemsets to %v...", len(sortUs), outPath)
	fl, err := os.Create(outPath)
	if err != nil {
		err = errors.Wrapf(err, "couldn't open output file %v for writing", outPath)
		return
	}
	defer func() {
		if cerr := fl.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "couldn't close output file %v", outPath)
		}
	}()
	w := bufio.NewWriter(fl)
	for _, s := range sortUs {
		_, err = serde.SetWriteTo(w, s.ID, s.Items)
		if err != nil {
			err = errors.Wrapf(err, "couldn't write set %v", s.ID)
			return
		}
	}
	err = errors.Wrap(w.Flush(), "couldn't flush output")
	return
}
