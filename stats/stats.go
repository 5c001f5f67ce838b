// Package stats inspects a dataset in a single scan and reports the
// figures an engine run needs up front, most importantly the max item id
// hint used to size the candidate index.
package stats

import (
	"encoding/binary"
	"hash/fnv"
	"os"

	"github.com/RoaringBitmap/roaring"
	pb "github.com/cheggaaa/pb"
	hll "github.com/clarkduvall/hyperloglog"
	"github.com/ovlad32/ams/sources"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var logger = log.StandardLogger()

func SetLogger(l *log.Logger) {
	logger = l
}

const precision = uint8(14)

// Summary describes one dataset scan.
type Summary struct {
	Records         int64
	ItemOccurrences int64
	MinSetSize      int
	MaxSetSize      int
	MaxItemID       uint32
	DistinctItems   uint64
	// Approximate marks DistinctItems as a HyperLogLog++ estimate
	// rather than an exact bitmap count.
	Approximate bool
}

type itemCounter interface {
	add(item uint32)
	count() uint64
}

type exactItemCounter struct {
	bm *roaring.Bitmap
}

func (c exactItemCounter) add(item uint32) {
	c.bm.Add(item)
}
func (c exactItemCounter) count() uint64 {
	return c.bm.GetCardinality()
}

type approxItemCounter struct {
	state *hll.HyperLogLogPlus
}

func (c approxItemCounter) add(item uint32) {
	var buffer [4]byte
	binary.LittleEndian.PutUint32(buffer[:], item)
	h := fnv.New64()
	h.Write(buffer[:])
	c.state.Add(h)
}
func (c approxItemCounter) count() uint64 {
	return c.state.Count()
}

// Inspect scans the whole dataset. With approximate set, distinct items
// are estimated with constant memory instead of an exact bitmap.
func Inspect(src sources.IRecordSource, approximate bool) (s Summary, err error) {
	var counter itemCounter
	if approximate {
		var state *hll.HyperLogLogPlus
		state, err = hll.NewPlus(precision)
		if err != nil {
			err = errors.WithStack(err)
			return
		}
		counter = approxItemCounter{state}
	} else {
		counter = exactItemCounter{roaring.NewBitmap()}
	}
	s.Approximate = approximate

	var bar *pb.ProgressBar
	if sized, ok := src.(interface{ Size() int64 }); ok {
		bar = pb.New64(sized.Size())
		bar.SetUnits(pb.U_BYTES)
		bar.ShowPercent = true
		bar.ShowBar = true
		bar.ShowSpeed = true
		bar.Output = os.Stderr
		bar.Start()
	}

	for {
		_, items, ok, rerr := src.Next()
		if rerr != nil {
			err = rerr
			return
		}
		if !ok {
			break
		}
		s.Records++
		s.ItemOccurrences += int64(len(items))
		if s.MinSetSize == 0 || len(items) < s.MinSetSize {
			s.MinSetSize = len(items)
		}
		if len(items) > s.MaxSetSize {
			s.MaxSetSize = len(items)
		}
		for _, item := range items {
			counter.add(item)
		}
		// Items are sorted, the last one is the largest.
		if last := items[len(items)-1]; last > s.MaxItemID {
			s.MaxItemID = last
		}
		if bar != nil {
			bar.Set64(src.Tell())
		}
	}
	if bar != nil {
		bar.Finish()
	}
	s.DistinctItems = counter.count()
	return
}
