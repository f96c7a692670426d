// Package ivlindex implements IntervalIndex: a contig-sharded, sorted-by-
// start overlap index for VolumeIntervals. It is a hand-written design
// (SPEC_FULL.md Design Notes (i)) generalized from the paired
// start/end-array union this module's teacher keeps per chromosome
// (interval.BEDUnion's nameMap) to full interval values carrying volume and
// annotations.
package ivlindex

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/genomepart/ivl"
)

// Side selects which edge of an interval Closest should search from.
type Side int

const (
	// Left searches for the closest interval at or before the query.
	Left Side = 1 << iota
	// Right searches for the closest interval at or after the query.
	Right
	// Both searches in both directions, returning every tied nearest match
	// (see Closest).
	Both = Left | Right
)

type contigShard struct {
	intervals []ivl.VolumeInterval
	maxLen    int
}

// IntervalIndex is a queryable, contig-sharded set of VolumeIntervals. It
// must be built with Add/AddAll and then finalized with Commit before any
// query method (Find, Intersect, Closest) is used. Querying before Commit
// returns a Precondition error; calling Add after Commit panics.
type IntervalIndex struct {
	shards    map[string]*contigShard
	committed bool
}

// New returns an empty IntervalIndex.
func New() *IntervalIndex {
	return &IntervalIndex{shards: make(map[string]*contigShard)}
}

// Add inserts a single interval. Panics if called after Commit.
func (idx *IntervalIndex) Add(v ivl.VolumeInterval) {
	if idx.committed {
		panic("ivlindex: Add called after Commit")
	}
	shard, ok := idx.shards[v.Contig]
	if !ok {
		shard = &contigShard{}
		idx.shards[v.Contig] = shard
	}
	shard.intervals = append(shard.intervals, v)
}

// AddAll inserts every interval in vs.
func (idx *IntervalIndex) AddAll(vs []ivl.VolumeInterval) {
	for _, v := range vs {
		idx.Add(v)
	}
}

// Commit sorts each contig's intervals by start and computes the
// maximum-length cache Find relies on for its bisection bound. It must be
// called exactly once, after all Add/AddAll calls and before any query.
func (idx *IntervalIndex) Commit() {
	for _, shard := range idx.shards {
		sort.Slice(shard.intervals, func(i, j int) bool {
			return ivl.Less(shard.intervals[i].Interval, shard.intervals[j].Interval)
		})
		shard.refreshMaxLen()
	}
	idx.committed = true
}

func (s *contigShard) refreshMaxLen() {
	maxLen := 0
	for _, v := range s.intervals {
		if l := v.Len(); l > maxLen {
			maxLen = l
		}
	}
	s.maxLen = maxLen
}

func (idx *IntervalIndex) requireCommitted() error {
	if !idx.committed {
		return errors.E(errors.Precondition, "ivlindex: index has not been committed")
	}
	return nil
}

// lowerBound returns the index of the first interval whose Start is >=
// pos - maxLen, so no interval starting before pos but overlapping it is
// missed.
func (s *contigShard) lowerBound(pos int) int {
	bound := pos - s.maxLen
	return sort.Search(len(s.intervals), func(i int) bool {
		return s.intervals[i].Start >= bound
	})
}

// Find returns every interval on q's contig overlapping q, in sorted order.
func (idx *IntervalIndex) Find(q ivl.Interval) ([]ivl.VolumeInterval, error) {
	if err := idx.requireCommitted(); err != nil {
		return nil, err
	}
	shard, ok := idx.shards[q.Contig]
	if !ok {
		return nil, nil
	}
	start := shard.lowerBound(q.Start)
	var out []ivl.VolumeInterval
	for i := start; i < len(shard.intervals); i++ {
		v := shard.intervals[i]
		if v.Start >= q.End {
			break
		}
		if q.Contains(v.Interval) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Intersect slices every interval in the index down to its overlap with q,
// in sorted order. Unlike Find, the returned intervals are clamped to q's
// bounds (and their volumes pro-rated accordingly).
func (idx *IntervalIndex) Intersect(q ivl.Interval) ([]ivl.VolumeInterval, error) {
	hits, err := idx.Find(q)
	if err != nil {
		return nil, err
	}
	out := make([]ivl.VolumeInterval, len(hits))
	for i, v := range hits {
		start, end := q.Start, q.End
		out[i] = ivl.VSlice(v, &start, &end)
	}
	return out, nil
}

// Closest returns every interval on q's contig nearest to q in the
// requested direction(s). Under Both, if any candidate overlaps q, every
// overlapping candidate is returned; otherwise every candidate tied for
// the minimum |distance| is returned, in sorted order. Never returns an
// interval equal to q. The bool result is false iff no candidate exists
// (e.g. q's contig is absent or has no non-equal neighbors).
func (idx *IntervalIndex) Closest(q ivl.Interval, side Side) ([]ivl.VolumeInterval, bool, error) {
	if err := idx.requireCommitted(); err != nil {
		return nil, false, err
	}
	shard, ok := idx.shards[q.Contig]
	if !ok || len(shard.intervals) == 0 {
		return nil, false, nil
	}
	ivls := shard.intervals

	// leftBisect is the first index whose Start >= q.Start; leftGroup
	// anchors one step left of it and expands while End ties the anchor,
	// per spec.md §4.2.
	leftBisect := sort.Search(len(ivls), func(i int) bool { return ivls[i].Start >= q.Start })
	var leftGroup []ivl.VolumeInterval
	if side&Left != 0 {
		leftGroup = leftNeighbors(ivls, leftBisect, q)
	}

	// rightBisect is the first index whose Start >= q.End -- the first
	// candidate guaranteed not to overlap q on the right; rightGroup
	// anchors there and expands while Start ties the anchor.
	rightBisect := sort.Search(len(ivls), func(i int) bool { return ivls[i].Start >= q.End })
	var rightGroup []ivl.VolumeInterval
	if side&Right != 0 {
		rightGroup = rightNeighbors(ivls, rightBisect, q)
	}

	if side == Left {
		return dropEqual(leftGroup, q), len(leftGroup) > 0, nil
	}
	if side == Right {
		return dropEqual(rightGroup, q), len(rightGroup) > 0, nil
	}

	// Both: overlapping candidates take priority over non-overlapping
	// nearest neighbors.
	var overlapping []ivl.VolumeInterval
	for _, v := range ivls {
		if q.Contains(v.Interval) {
			overlapping = append(overlapping, v)
		}
	}
	overlapping = dropEqual(overlapping, q)
	if len(overlapping) > 0 {
		return overlapping, true, nil
	}

	candidates := append(append([]ivl.VolumeInterval{}, leftGroup...), rightGroup...)
	candidates = dropEqual(candidates, q)
	if len(candidates) == 0 {
		return nil, false, nil
	}
	best := minAbsDist(candidates, q)
	var out []ivl.VolumeInterval
	for _, v := range candidates {
		if abs(ivl.Compare(v.Interval, q).Dist) == best {
			out = append(out, v)
		}
	}
	return out, true, nil
}

// leftNeighbors anchors one step left of leftBisect (the first interval
// whose Start >= q.Start), then expands leftward while each further
// candidate's End ties the anchor's End.
func leftNeighbors(ivls []ivl.VolumeInterval, leftBisect int, q ivl.Interval) []ivl.VolumeInterval {
	i := leftBisect - 1
	if i < 0 {
		return nil
	}
	anchor := ivls[i]
	out := []ivl.VolumeInterval{anchor}
	for j := i - 1; j >= 0; j-- {
		if ivls[j].End != anchor.End {
			break
		}
		out = append([]ivl.VolumeInterval{ivls[j]}, out...)
	}
	return out
}

// rightNeighbors anchors at rightBisect (the first interval whose
// Start >= q.End, guaranteed not to overlap q), then expands rightward
// while each further candidate's Start ties the anchor's Start.
func rightNeighbors(ivls []ivl.VolumeInterval, rightBisect int, q ivl.Interval) []ivl.VolumeInterval {
	i := rightBisect
	if i >= len(ivls) {
		return nil
	}
	anchor := ivls[i]
	out := []ivl.VolumeInterval{anchor}
	for j := i + 1; j < len(ivls); j++ {
		if ivls[j].Start != anchor.Start {
			break
		}
		out = append(out, ivls[j])
	}
	return out
}

func dropEqual(vs []ivl.VolumeInterval, q ivl.Interval) []ivl.VolumeInterval {
	var out []ivl.VolumeInterval
	for _, v := range vs {
		if !v.Interval.Equal(q) {
			out = append(out, v)
		}
	}
	return out
}

func minAbsDist(vs []ivl.VolumeInterval, q ivl.Interval) int {
	best := abs(ivl.Compare(vs[0].Interval, q).Dist)
	for _, v := range vs[1:] {
		if d := abs(ivl.Compare(v.Interval, q).Dist); d < best {
			best = d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
