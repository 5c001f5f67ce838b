package engine

import (
	"github.com/ovlad32/ams/sets"
	"github.com/ovlad32/ams/sources"
	"github.com/pkg/errors"
)

// Cardinality finds all maximal sets in a dataset sorted by
// non-decreasing set cardinality. Previously seen sets are held in a
// sparse index keyed on their first item; each incoming set deletes the
// indexed candidates it subsumes. Sets of equal cardinality are staged
// outside the index until the cardinality advances, so they are never
// checked against each other. When the item budget is exhausted the scan
// keeps checking but stops retaining, and another pass resumes from the
// recorded offset.
type Cardinality struct {
	emitter *Emitter

	// candidates[v] holds retained sets whose first item is v, in
	// arrival (hence cardinality) order. Deleted entries become nil so
	// the ordering of survivors is preserved.
	candidates [][]*sets.Set

	maximalSetsCount       int64
	inputSetsCount         int64
	subsumptionChecksCount int64
}

func NewCardinality(emitter *Emitter) *Cardinality {
	return &Cardinality{emitter: emitter}
}

// MaximalSetsCount returns the number of maximal sets found by the last
// run.
func (a *Cardinality) MaximalSetsCount() int64 { return a.maximalSetsCount }

// InputSetsCount returns the number of sets retained for indexing.
// Passes retain disjoint ranges of the input, so after a completed run
// the total equals the number of records in the dataset.
func (a *Cardinality) InputSetsCount() int64 { return a.inputSetsCount }

// SubsumptionChecksCount returns the number of explicit subsumption
// checks performed by the last run.
func (a *Cardinality) SubsumptionChecksCount() int64 { return a.subsumptionChecksCount }

// FindAllMaximalSets streams every maximal set of the dataset to the
// emitter. maxItemID pre-sizes the candidate index; the output is correct
// even if the estimate is low. maxItemsInRAM bounds the number of item
// occurrences retained in memory; exceeding it triggers additional
// passes, not an error. The engine does not own the source, and a source
// error aborts the run.
func (a *Cardinality) FindAllMaximalSets(src sources.IRecordSource, maxItemID uint32, maxItemsInRAM uint32) error {
	a.maximalSetsCount = 0
	a.inputSetsCount = 0
	a.subsumptionChecksCount = 0

	// Sets of the currently observed cardinality, staged for indexing
	// at the next cardinality change.
	var indexUs []*sets.Set

	// As long as resumeOffset == 0 the scan retains sets in RAM.
	// Otherwise the remaining records of the pass only perform
	// subsumption checks against existing candidates, and are indexed
	// during a subsequent pass.
	resumeOffset := int64(0)
	for {
		if err := a.prepareForDataScan(src, maxItemID, resumeOffset); err != nil {
			return err
		}
		resumeOffset = 0
		itemsInRAM := uint32(0)
		currentSetSize := -1
		previousSize := 0

		for {
			id, items, ok, err := src.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if len(items) < previousSize {
				return errors.Wrapf(sources.ErrMalformed,
					"set %v of size %v after a set of size %v violates the cardinality ordering",
					id, len(items), previousSize)
			}
			previousSize = len(items)

			// Incoming cardinality changed: the staged sets can now be
			// subsumed, starting with this very record. They must be
			// indexed before the prune below or a set whose only
			// superset opens the next cardinality group would survive.
			if len(items) != currentSetSize {
				a.indexSets(indexUs)
				indexUs = indexUs[:0]
				currentSetSize = len(items)
			}

			a.deleteSubsumedCandidates(items)

			if resumeOffset == 0 {
				indexUs = append(indexUs, sets.New(id, items))
				itemsInRAM += uint32(len(items))
				a.inputSetsCount++
				if itemsInRAM >= maxItemsInRAM {
					resumeOffset = src.Tell()
					logger.Infof("halting indexing at input set number %v with id %v", a.inputSetsCount, id)
					// Force the staged sets into the index on the next
					// record regardless of its cardinality.
					currentSetSize = -1
				}
			}
		}

		// Every remaining candidate and staged set is maximal.
		if err := a.dumpMaximalSets(&indexUs); err != nil {
			return err
		}
		if resumeOffset == 0 {
			return nil
		}
	}
}

func (a *Cardinality) prepareForDataScan(src sources.IRecordSource, maxItemID uint32, resumeOffset int64) error {
	a.candidates = make([][]*sets.Set, maxItemID)
	logger.Infof("starting new dataset scan at offset %v", resumeOffset)
	return src.Seek(resumeOffset)
}

func (a *Cardinality) indexSets(indexUs []*sets.Set) {
	for _, s := range indexUs {
		first := int(s.Items[0])
		if first >= len(a.candidates) {
			grown := make([][]*sets.Set, first+1)
			copy(grown, a.candidates)
			a.candidates = grown
		}
		a.candidates[first] = append(a.candidates[first], s)
	}
}

// nextCandidate advances candidateIndex to the next live bucket entry.
// It returns nil at the end of the bucket, or as soon as a candidate is
// larger than maxSize: the bucket is cardinality-ordered, so no later
// entry fits into the remaining suffix of the current set either.
func nextCandidate(bucket []*sets.Set, maxSize int, candidateIndex *int) *sets.Set {
	for {
		*candidateIndex++
		if *candidateIndex == len(bucket) {
			return nil
		}
		if bucket[*candidateIndex] != nil {
			break
		}
	}
	candidate := bucket[*candidateIndex]
	if maxSize < candidate.Size() {
		return nil
	}
	return candidate
}

func (a *Cardinality) deleteSubsumedCandidates(current []uint32) {
	for i := 0; i < len(current); i++ {
		if int(current[i]) >= len(a.candidates) {
			return
		}
		bucket := a.candidates[current[i]]
		candidateIndex := -1
		for {
			candidate := nextCandidate(bucket, len(current)-i, &candidateIndex)
			if candidate == nil {
				break
			}
			// The candidate cannot contain any of current[0..i-1] (it
			// would have been found under an earlier bucket) and its
			// first item equals current[i], so both prefixes are
			// skipped.
			if sets.Subsumes(current[i:], candidate.Items[1:]) {
				bucket[candidateIndex] = nil
			}
			a.subsumptionChecksCount++
		}
	}
}

func (a *Cardinality) dumpMaximalSets(indexUs *[]*sets.Set) error {
	for _, s := range *indexUs {
		if err := a.found(s); err != nil {
			return err
		}
	}
	*indexUs = (*indexUs)[:0]
	for _, bucket := range a.candidates {
		for _, s := range bucket {
			if s != nil {
				if err := a.found(s); err != nil {
					return err
				}
			}
		}
	}
	a.candidates = nil
	return a.emitter.Flush()
}

func (a *Cardinality) found(s *sets.Set) error {
	a.maximalSetsCount++
	return a.emitter.Emit(s)
}
