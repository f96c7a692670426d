// Package ivl implements the interval algebra this module is built on: an
// immutable half-open genomic interval, and the compare/contains/add/
// subtract/slice/intersect/divide/merge operations over it. See
// VolumeInterval (volume.go) and IndexInterval (index_interval.go) for the
// volume-aware and tile-identity-aware variants.
package ivl

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Interval is an immutable, half-open [Start, End) region of a contig.
// Start >= 0 and End > Start are enforced at construction; violating them
// is a programmer error, not a user error, and panics.
//
// ChildIntervals carries derived data produced by Add; it is not considered
// by Equal or sorting.
type Interval struct {
	Contig string
	Start  int
	End    int

	// ChildIntervals, if non-nil, is the ordered list of source intervals
	// that were merged (via Add) into this one.
	ChildIntervals []Interval
}

// New constructs an Interval, panicking if the half-open bounds are
// ill-formed.
func New(contig string, start, end int) Interval {
	if start < 0 {
		log.Panicf("ivl: start must be >= 0, got %d", start)
	}
	if end <= start {
		log.Panicf("ivl: end must be > start: [%d, %d)", start, end)
	}
	return Interval{Contig: contig, Start: start, End: end}
}

// Len returns End - Start.
func (a Interval) Len() int { return a.End - a.Start }

// Equal reports whether a and b have the same (contig, start, end);
// annotations are ignored.
func (a Interval) Equal(b Interval) bool {
	return a.Contig == b.Contig && a.Start == b.Start && a.End == b.End
}

func (a Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", a.Contig, a.Start, a.End)
}

// Comparison is the result of Compare(a, b): the contig ordering, the
// signed base-pair distance between a and b (zero when they overlap), and
// the fraction of each interval covered by the other.
type Comparison struct {
	Contig   int
	Dist     int
	OverlapA float64
	OverlapB float64
}

// Compare implements spec.md §4.1's compare(a, b). Negative Dist means a is
// to the left of b; positive means a is to the right; zero means overlap.
func Compare(a, b Interval) Comparison {
	var contigCmp int
	switch {
	case a.Contig < b.Contig:
		contigCmp = -1
	case a.Contig > b.Contig:
		contigCmp = 1
	}

	var dist, overlap int
	switch {
	case a.Start >= b.End:
		dist = (a.Start + 1) - b.End
	case a.End <= b.Start:
		dist = a.End - (b.Start + 1)
	default:
		overlap = min(a.End, b.End) - max(a.Start, b.Start)
	}

	overlapA := float64(overlap) / float64(a.Len())
	overlapB := float64(overlap) / float64(b.Len())
	return Comparison{Contig: contigCmp, Dist: dist, OverlapA: overlapA, OverlapB: overlapB}
}

// Contains reports whether x overlaps a by at least one base. Per spec.md
// Design Notes (iii), this is "any overlap", not strict containment.
func (a Interval) Contains(x Interval) bool {
	cmp := Compare(a, x)
	return cmp.Contig == 0 && abs(cmp.OverlapA) > 0
}

// ContainsPos reports whether pos (on contig) falls within [a.Start, a.End).
func (a Interval) ContainsPos(contig string, pos int) bool {
	return a.Contig == contig && a.Start <= pos && pos < a.End
}

func (a Interval) requireSameContig(b Interval) error {
	if a.Contig != b.Contig {
		return errors.E(errors.Precondition, fmt.Sprintf(
			"ivl: intervals are on different contigs: %s != %s", a.Contig, b.Contig))
	}
	return nil
}

func (a Interval) mergeAnnotations(b Interval) []Interval {
	if a.ChildIntervals != nil {
		children := make([]Interval, len(a.ChildIntervals), len(a.ChildIntervals)+1)
		copy(children, a.ChildIntervals)
		return append(children, b)
	}
	return []Interval{a, b}
}

// Add merges a and b, which must be on the same contig and overlapping or
// immediately adjacent (|dist| <= 1). The result's ChildIntervals records
// the merge history.
func Add(a, b Interval) (Interval, error) {
	if err := a.requireSameContig(b); err != nil {
		return Interval{}, err
	}
	cmp := Compare(a, b)
	if abs(cmp.Dist) > 1 {
		return Interval{}, errors.E(errors.Precondition, fmt.Sprintf(
			"ivl: cannot merge non-overlapping/non-adjacent intervals %v, %v", a, b))
	}
	return Interval{
		Contig:         a.Contig,
		Start:          min(a.Start, b.Start),
		End:            max(a.End, b.End),
		ChildIntervals: a.mergeAnnotations(b),
	}, nil
}

// Subtract removes b from a, where b must overlap a. Returns up to two
// fragments: the portion of a left of b, and the portion right of b. Either
// may be nil if there is no such fragment.
func Subtract(a, b Interval) (left, right *Interval, err error) {
	if err = a.requireSameContig(b); err != nil {
		return nil, nil, err
	}
	if !a.Contains(b) {
		return nil, nil, errors.E(errors.Precondition, fmt.Sprintf("ivl: intervals do not overlap: %v, %v", a, b))
	}
	if b.Start > a.Start {
		l := New(a.Contig, a.Start, b.Start)
		left = &l
	}
	if b.End < a.End {
		r := New(a.Contig, b.End, a.End)
		right = &r
	}
	return left, right, nil
}

// Slice returns the sub-interval of a clamped to [start, end). A nil bound
// defaults to a's own bound.
func Slice(a Interval, start, end *int) Interval {
	s, e := a.Start, a.End
	if start != nil && *start > s {
		s = *start
	}
	if end != nil && *end < e {
		e = *end
	}
	return New(a.Contig, s, e)
}

// Intersect merges overlapping/adjacent members of others, then yields
// ivl.Slice(o) for each surviving o that overlaps ivl. Fails if others is
// empty or spans more than one contig.
func Intersect(ivl Interval, others []Interval) ([]Interval, error) {
	if len(others) == 0 {
		return nil, errors.E(errors.Precondition, "ivl: must specify at least one other interval to intersect")
	}
	sorted := sortedCopy(others)
	if err := ivl.requireSameContig(sorted[0]); err != nil {
		return nil, err
	}
	merged, err := mergeAdjacent(sorted)
	if err != nil {
		return nil, err
	}
	var out []Interval
	for _, o := range merged {
		if ivl.Contains(o) {
			out = append(out, Slice(ivl, &o.Start, &o.End))
		}
	}
	return out, nil
}

// Divide yields the fragments of ivl outside the union of others: ivl minus
// each member of others, in sorted order.
func Divide(ivl Interval, others []Interval) ([]Interval, error) {
	remaining := ivl
	var out []Interval
	for _, o := range sortedCopy(others) {
		left, right, err := Subtract(remaining, o)
		if err != nil {
			return nil, err
		}
		if left != nil {
			out = append(out, *left)
		}
		if right == nil {
			return out, nil
		}
		remaining = *right
	}
	out = append(out, remaining)
	return out, nil
}

// Merge folds Add over the sorted sequence of intervals; fails if any
// adjacent pair is not overlapping/adjacent.
func Merge(intervals []Interval) (Interval, error) {
	if len(intervals) == 0 {
		return Interval{}, errors.E(errors.Precondition, "ivl: cannot merge an empty interval set")
	}
	sorted := sortedCopy(intervals)
	merged := sorted[0]
	var err error
	for _, next := range sorted[1:] {
		merged, err = Add(merged, next)
		if err != nil {
			return Interval{}, err
		}
	}
	return merged, nil
}

// mergeAdjacent merges overlapping/adjacent intervals in a sorted sequence.
// All inputs must share the same contig.
func mergeAdjacent(sorted []Interval) ([]Interval, error) {
	if len(sorted) == 1 {
		return sorted, nil
	}
	var out []Interval
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if cur.Contig != next.Contig {
			return nil, errors.E(errors.Precondition, fmt.Sprintf(
				"ivl: cannot intersect intervals on different contigs: %s != %s", cur.Contig, next.Contig))
		}
		cmp := Compare(cur, next)
		if abs(cmp.OverlapA) > 0 || abs(cmp.Dist) <= 1 {
			merged, err := Add(cur, next)
			if err != nil {
				return nil, err
			}
			cur = merged
		} else {
			out = append(out, cur)
			cur = next
		}
	}
	out = append(out, cur)
	return out, nil
}

// Less implements the sort order used throughout this module: contig name
// ascending, then start ascending, then end ascending.
func Less(a, b Interval) bool {
	if a.Contig != b.Contig {
		return a.Contig < b.Contig
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}

func sortedCopy(intervals []Interval) []Interval {
	out := make([]Interval, len(intervals))
	copy(out, intervals)
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
