package prep

import (
	"github.com/ovlad32/ams/sets"
	"github.com/ovlad32/ams/sources"
)

// Sort reads a whole dataset, orders it lexicographically or by
// cardinality, and writes it back in packed binary form. Sets whose
// items are not strictly increasing are skipped with a warning.
func Sort(src sources.IRecordSource, outPath string, byCardinality bool) error {
	bar := newReadBar(src)
	var sortUs []*sets.Set
	logger.Info("reading data...")
	for {
		id, items, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !sets.IsStrictlyIncreasing(items) {
			logger.Warnf("skipping invalid set %v: items are not strictly increasing", id)
			continue
		}
		sortUs = append(sortUs, sets.New(id, items))
		if bar != nil {
			bar.Set64(src.Tell())
		}
	}
	if bar != nil {
		bar.Finish()
	}
	sortSets(sortUs, byCardinality)
	return writeSets(outPath, sortUs)
}
