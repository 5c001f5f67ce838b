package prep

import (
	"sort"

	"github.com/ovlad32/ams/sets"
	"github.com/ovlad32/ams/sources"
)

// DimacsToApriori converts DIMACS CNF clauses into a packed binary
// itemset dataset: each distinct literal becomes an item id assigned by
// ascending frequency, each clause becomes a set whose id is its 0-based
// ordinal, and the result is sorted for the chosen engine.
func DimacsToApriori(scanner *sources.DimacsScanner, outPath string, byCardinality bool) error {
	logger.Info("reading data...")
	counts := make(map[int32]uint32)
	var clauses [][]int32
	for {
		clause, ok, err := scanner.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		for _, literal := range clause {
			counts[literal]++
		}
		owned := make([]int32, len(clause))
		copy(owned, clause)
		clauses = append(clauses, owned)
	}
	logger.Info("done reading data")

	type frequencyToLiteral struct {
		frequency uint32
		literal   int32
	}
	pairs := make([]frequencyToLiteral, 0, len(counts))
	for literal, frequency := range counts {
		pairs = append(pairs, frequencyToLiteral{frequency, literal})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].frequency != pairs[j].frequency {
			return pairs[i].frequency < pairs[j].frequency
		}
		return pairs[i].literal < pairs[j].literal
	})
	ids := make(map[int32]uint32, len(pairs))
	itemID := uint32(1)
	for _, pair := range pairs {
		ids[pair.literal] = itemID
		itemID++
	}

	sortUs := make([]*sets.Set, 0, len(clauses))
	items := make([]uint32, 0, 64)
	for i, clause := range clauses {
		items = items[:0]
		for _, literal := range clause {
			items = append(items, ids[literal])
		}
		sort.Slice(items, func(a, b int) bool { return items[a] < items[b] })
		sortUs = append(sortUs, sets.New(uint32(i), items))
	}

	sortSets(sortUs, byCardinality)
	return writeSets(outPath, sortUs)
}
