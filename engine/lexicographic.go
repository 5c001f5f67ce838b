package engine

import (
	"github.com/ovlad32/ams/sets"
	"github.com/ovlad32/ams/sources"
	"github.com/pkg/errors"
)

// Lexicographic finds all maximal sets in a dataset sorted in increasing
// lexicographic order. The input is consumed in bounded-memory chunks; a
// chunk is pruned of trivially subsumed prefixes, compacted under a dense
// first-item index, and then swept by a recursive prefix descent. Under
// lex order a set's proper prefixes precede it, and the pruning step
// removes them; every other set it can subsume follows it, so the in-chunk
// sweep for position i starts at i+1; records from earlier chunks are
// replayed against the chunk to close the cross-chunk gap.
type Lexicographic struct {
	emitter *Emitter

	// The current chunk, in read order. Deleted entries become nil so
	// the lex ordering of survivors is preserved.
	candidates []*sets.Set

	// index[v] is the position of the first chunk entry whose first
	// item is >= v. Values above the last first item are out of range
	// and handled by the bound helpers.
	index []int

	// The probing set of the descent in progress.
	currentSet *sets.Set

	itemsInRAM    uint32
	maxItemsInRAM uint32

	maximalSetsCount   int64
	inputSetsCount     int64
	candidateSeekCount int64
}

func NewLexicographic(emitter *Emitter) *Lexicographic {
	return &Lexicographic{emitter: emitter}
}

// MaximalSetsCount returns the number of maximal sets found by the last
// run.
func (a *Lexicographic) MaximalSetsCount() int64 { return a.maximalSetsCount }

// InputSetsCount returns the number of records loaded into chunks.
// Cross-chunk replays do not double-count, so after a completed run it
// equals the number of records in the dataset.
func (a *Lexicographic) InputSetsCount() int64 { return a.inputSetsCount }

// CandidateSeekCount returns the number of candidate range bounds
// computed by the last run.
func (a *Lexicographic) CandidateSeekCount() int64 { return a.candidateSeekCount }

// FindAllMaximalSets streams every maximal set of the dataset to the
// emitter. maxItemsInRAM bounds the number of item occurrences held in a
// chunk; a dataset beyond the bound is processed as multiple chunks with
// a replay of the preceding records against each. The maxItemID hint is
// accepted for symmetry with the cardinality engine; the prefix index is
// sized from the chunk itself. The engine does not own the source, and a
// source error aborts the run.
func (a *Lexicographic) FindAllMaximalSets(src sources.IRecordSource, maxItemID uint32, maxItemsInRAM uint32) error {
	a.maximalSetsCount = 0
	a.inputSetsCount = 0
	a.candidateSeekCount = 0
	a.maxItemsInRAM = maxItemsInRAM

	resumeOffset := int64(0)
	for {
		logger.Infof("starting new dataset scan at offset %v", resumeOffset)
		if err := src.Seek(resumeOffset); err != nil {
			return err
		}
		startOffset := resumeOffset

		var err error
		resumeOffset, err = a.readNextChunk(src)
		if err != nil {
			return err
		}
		if len(a.candidates) == 0 {
			// Nothing was read: empty input, or the previous chunk
			// boundary landed exactly on EOF.
			return a.emitter.Flush()
		}

		a.deleteTriviallySubsumedCandidates()
		a.buildIndex()

		logger.Infof("potential maximal sets: %v; beginning subsumption checking scan", len(a.candidates))
		for i := 0; i+1 < len(a.candidates); i++ {
			if a.candidates[i] != nil {
				a.deleteSubsumedByCandidate(i)
			}
		}

		if startOffset != 0 {
			// Sets residing in this chunk may still be subsumed by
			// lex-earlier sets from previous chunks; replay them as
			// read-only probes.
			if err := src.Seek(0); err != nil {
				return err
			}
			for src.Tell() < startOffset {
				_, items, ok, err := src.Next()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				a.deleteSubsumedByProbe(items)
			}
		}

		if err := a.dumpMaximalSets(); err != nil {
			return err
		}
		if resumeOffset == 0 {
			return nil
		}
	}
}

// readNextChunk loads records until EOF or the RAM budget is reached.
// It returns the offset the next chunk must resume from, or 0 when the
// dataset is exhausted.
func (a *Lexicographic) readNextChunk(src sources.IRecordSource) (resumeOffset int64, err error) {
	a.itemsInRAM = 0
	a.candidates = a.candidates[:0]
	var previous *sets.Set
	for {
		id, items, ok, rerr := src.Next()
		if rerr != nil {
			err = rerr
			return
		}
		if !ok {
			return
		}
		if previous != nil && sets.Compare(previous.Items, items) > 0 {
			err = errors.Wrapf(sources.ErrMalformed,
				"set %v violates the lexicographic ordering", id)
			return
		}
		s := sets.New(id, items)
		a.candidates = append(a.candidates, s)
		a.itemsInRAM += uint32(len(items))
		a.inputSetsCount++
		previous = s
		if a.itemsInRAM >= a.maxItemsInRAM {
			resumeOffset = src.Tell()
			logger.Infof("halted scan at input set number %v with id %v", a.inputSetsCount, id)
			// The only record that can still subsume the chunk's last
			// entry from a later chunk is its immediate successor,
			// and only by extending it: peek one record and drop the
			// entry if it is a proper prefix. The successor itself is
			// re-read as the start of the next chunk.
			_, nextItems, nok, nerr := src.Next()
			if nerr != nil {
				err = nerr
				return
			}
			if nok && s.Size() < len(nextItems) && sets.Compare(s.Items, nextItems[:s.Size()]) == 0 {
				a.itemsInRAM -= uint32(s.Size())
				a.candidates[len(a.candidates)-1] = nil
			}
			return
		}
	}
}

// deleteTriviallySubsumedCandidates walks the chunk backwards and drops
// every entry that is a proper prefix of its nearest non-prefix
// successor. Under lex order this is the complete characterization of
// prefix subsumption by the successor chain. The initial sentinel is
// the last live entry; only the final entry can be a tombstone here,
// left by the chunk-boundary peek.
func (a *Lexicographic) deleteTriviallySubsumedCandidates() {
	last := len(a.candidates) - 1
	for last >= 0 && a.candidates[last] == nil {
		last--
	}
	if last < 0 {
		return
	}
	notAPrefix := a.candidates[last]
	for i := last - 1; i >= 0; i-- {
		candidate := a.candidates[i]
		subsumed := false
		if candidate.Size() < notAPrefix.Size() {
			subsumed = true
			for j := range candidate.Items {
				if candidate.Items[j] != notAPrefix.Items[j] {
					subsumed = false
					break
				}
			}
		}
		if subsumed {
			a.itemsInRAM -= uint32(candidate.Size())
			a.candidates[i] = nil
		} else {
			notAPrefix = candidate
		}
	}
}

// buildIndex compacts deleted entries out of the chunk and populates the
// dense first-item index in a single pass.
func (a *Lexicographic) buildIndex() {
	lastLive := len(a.candidates) - 1
	for lastLive >= 0 && a.candidates[lastLive] == nil {
		lastLive--
	}
	if lastLive < 0 {
		a.index = nil
		a.candidates = a.candidates[:0]
		return
	}
	blanks := 0
	a.index = make([]int, int(a.candidates[lastLive].Items[0])+1)
	beginCandidateIndex := -1
	var beginCandidate *sets.Set
	previousItem := uint32(0)
	for i := 0; i < len(a.candidates); i++ {
		candidate := a.candidates[i]
		if candidate == nil {
			blanks++
			continue
		}
		a.candidates[i-blanks] = candidate
		if beginCandidate == nil {
			beginCandidate = candidate
			beginCandidateIndex = i - blanks
		} else if candidate.Items[0] != beginCandidate.Items[0] {
			// A new first-item block starts here; index the previous
			// block, propagating over absent first-item values.
			for item := previousItem + 1; item <= beginCandidate.Items[0]; item++ {
				a.index[item] = beginCandidateIndex
			}
			previousItem = beginCandidate.Items[0]
			beginCandidate = candidate
			beginCandidateIndex = i - blanks
		}
	}
	for item := previousItem + 1; item <= beginCandidate.Items[0]; item++ {
		a.index[item] = beginCandidateIndex
	}
	a.candidates = a.candidates[:len(a.candidates)-blanks]
}

// deleteSubsumedByCandidate uses the chunk entry at the given position
// as the probe. Only entries following it can be subsumed by it.
func (a *Lexicographic) deleteSubsumedByCandidate(candidateIndex int) {
	current := a.candidates[candidateIndex]
	if current.Size() <= 1 {
		return
	}
	a.currentSet = current
	a.deleteSubsumedFromRange(candidateIndex+1, len(a.candidates), current.Items, 0)
}

// deleteSubsumedByProbe uses a record from an earlier chunk as a
// read-only probe against the whole chunk.
func (a *Lexicographic) deleteSubsumedByProbe(items []uint32) {
	if len(items) <= 1 {
		return
	}
	a.currentSet = sets.New(0, items)
	a.deleteSubsumedFromRange(0, len(a.candidates), a.currentSet.Items, 0)
	a.currentSet = nil
}

// deleteSubsumedSets advances *begin over deleted entries, and — when
// the probe still has items beyond this depth — over live entries whose
// size equals the depth: those share their entire item run with the
// probe's prefix and are properly subsumed, so they are deleted as they
// are passed. When the probe is exhausted at this depth it cannot
// properly subsume anything, and only deleted entries are skipped.
func (a *Lexicographic) deleteSubsumedSets(begin *int, end int, depth int) {
	if a.currentSet.Size() > depth {
		for *begin != end && (a.candidates[*begin] == nil || a.candidates[*begin].Size() == depth) {
			if candidate := a.candidates[*begin]; candidate != nil {
				a.itemsInRAM -= uint32(candidate.Size())
				a.candidates[*begin] = nil
			}
			*begin++
		}
	} else {
		for *begin != end && a.candidates[*begin] == nil {
			*begin++
		}
	}
}

// findNewBound is a binary search over [first, last) that skips deleted
// entries. It returns the first position holding a live entry for which
// comp(currentItem, entry.Items[depth]) no longer holds, or last.
func (a *Lexicographic) findNewBound(first, last int, currentItem uint32, depth int, comp func(uint32, uint32) bool) int {
	for first != last && a.candidates[first] == nil {
		first++
	}
	length := last - first
	for length > 0 {
		half := length >> 1
		current := first + half
		for current < last && a.candidates[current] == nil {
			current++
		}
		if current == last {
			length = half
		} else if comp(currentItem, a.candidates[current].Items[depth]) {
			// Not far enough along yet.
			first += half + 1
			length = length - half - 1
			for first < last && a.candidates[first] == nil {
				first++
				length--
			}
			if first == last {
				return last
			}
		} else {
			// We may be too far along.
			length = half
		}
	}
	return first
}

// newBeginRange returns the position of the first live entry in
// [begin, end) whose item at depth is >= currentItem.
func (a *Lexicographic) newBeginRange(begin, end int, currentItem uint32, depth int) int {
	a.candidateSeekCount++
	if depth == 0 {
		if int(currentItem) >= len(a.index) {
			return end
		}
		if a.index[currentItem] > begin {
			begin = a.index[currentItem]
		}
		for begin != end && a.candidates[begin] == nil {
			begin++
		}
		return begin
	}
	return a.findNewBound(begin, end, currentItem, depth, func(x, y uint32) bool { return x > y })
}

// newEndRange returns the position just past the last entry in
// [begin, end) whose item at depth equals currentItem.
func (a *Lexicographic) newEndRange(begin, end int, currentItem uint32, depth int) int {
	a.candidateSeekCount++
	if depth == 0 {
		if int(currentItem)+1 < len(a.index) {
			return a.index[currentItem+1]
		}
		return end
	}
	return a.findNewBound(begin, end, currentItem, depth, func(x, y uint32) bool { return x == y })
}

// deleteSubsumedFromRange deletes every entry of [begin, end) that the
// probe properly subsumes. Preconditions: all live entries in the range
// share the same length-depth prefix, every element of that prefix is in
// the probe, and cursor[0] <= entry.Items[depth] for every live entry
// with more than depth items.
func (a *Lexicographic) deleteSubsumedFromRange(begin, end int, cursor []uint32, depth int) {
	a.deleteSubsumedSets(&begin, end, depth)
	if begin == end || len(cursor) == 0 {
		return
	}

	for {
		// Find the next probe item that, appended to the prefix, could
		// subsume some candidate within the remaining range.
		candidateItem := a.candidates[begin].Items[depth]
		if cursor[0] < candidateItem {
			cursor = cursor[lowerBound(cursor, candidateItem):]
		}
		if len(cursor) == 0 {
			return
		}

		if cursor[0] == candidateItem {
			// The probe matches the next candidate item: the shared
			// prefix extends. Bound the equal-item sub-range and
			// recurse one level deeper.
			newEnd := a.newEndRange(begin, end, candidateItem, depth)
			if begin != newEnd {
				a.deleteSubsumedFromRange(begin, newEnd, cursor[1:], depth+1)
			}
			begin = newEnd
			for begin != end && a.candidates[begin] == nil {
				begin++
			}
		} else {
			// No candidate at this depth matches before cursor[0];
			// skip ahead to the first one that might.
			begin = a.newBeginRange(begin, end, cursor[0], depth)
		}
		if begin == end {
			return
		}
	}
}

func (a *Lexicographic) dumpMaximalSets() error {
	for _, s := range a.candidates {
		if s != nil {
			a.maximalSetsCount++
			if err := a.emitter.Emit(s); err != nil {
				return err
			}
		}
	}
	a.candidates = a.candidates[:0]
	a.index = nil
	return a.emitter.Flush()
}

// lowerBound returns the position of the first element of run >= item.
func lowerBound(run []uint32, item uint32) int {
	lo, hi := 0, len(run)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if run[mid] < item {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
