package prep

import (
	"sort"

	"github.com/ovlad32/ams/sets"
	"github.com/ovlad32/ams/sources"
)

// assignFrequencyIDs maps every key of counts to an item id starting at
// 1, assigned in ascending frequency order so that rarer items receive
// smaller ids. Ties are broken by the original value, which keeps the
// relabeling deterministic.
func assignFrequencyIDs(counts map[uint32]uint32) map[uint32]uint32 {
	type frequencyToItem struct {
		frequency uint32
		value     uint32
	}
	pairs := make([]frequencyToItem, 0, len(counts))
	for value, frequency := range counts {
		pairs = append(pairs, frequencyToItem{frequency, value})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].frequency != pairs[j].frequency {
			return pairs[i].frequency < pairs[j].frequency
		}
		return pairs[i].value < pairs[j].value
	})
	ids := make(map[uint32]uint32, len(pairs))
	itemID := uint32(1)
	for _, pair := range pairs {
		ids[pair.value] = itemID
		itemID++
	}
	return ids
}

// FixItems re-keys every item id by ascending frequency, re-sorts the
// items of every set under the new ids, orders the dataset, and writes
// it in packed binary form.
func FixItems(src sources.IRecordSource, outPath string, byCardinality bool) error {
	bar := newReadBar(src)
	logger.Info("reading data...")
	counts := make(map[uint32]uint32)
	var loaded []*sets.Set
	for {
		id, items, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		for _, item := range items {
			counts[item]++
		}
		loaded = append(loaded, sets.New(id, items))
		if bar != nil {
			bar.Set64(src.Tell())
		}
	}
	if bar != nil {
		bar.Finish()
	}
	logger.Info("done reading data")

	ids := assignFrequencyIDs(counts)
	for _, s := range loaded {
		for i, item := range s.Items {
			s.Items[i] = ids[item]
		}
		sort.Slice(s.Items, func(i, j int) bool { return s.Items[i] < s.Items[j] })
	}

	sortSets(loaded, byCardinality)
	return writeSets(outPath, loaded)
}
