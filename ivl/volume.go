package ivl

import (
	"math"
	"sort"

	"github.com/grailbio/base/errors"
)

// VolumeInterval is an Interval annotated with an estimated on-disk
// compressed-byte volume. Operations that shrink a VolumeInterval (Slice,
// Subtract) pro-rate the volume by the fraction of the original length kept:
// ceil((newLen / oldLen) * oldVolume). Operations that grow or merge one
// (VAdd, VMerge) add to the first operand's volume the pro-rated volume of
// the part of the second operand lying outside it.
type VolumeInterval struct {
	Interval
	Volume int
}

// NewVolume constructs a VolumeInterval. volume must be >= 0.
func NewVolume(contig string, start, end, volume int) VolumeInterval {
	if volume < 0 {
		panic("ivl: volume must be >= 0")
	}
	return VolumeInterval{Interval: New(contig, start, end), Volume: volume}
}

// prorate implements the volume pro-rating rule: ceil(subLen/fullLen * v).
func prorate(v, fullLen, subLen int) int {
	if subLen >= fullLen {
		return v
	}
	if subLen <= 0 {
		return 0
	}
	return int(math.Ceil(float64(subLen) / float64(fullLen) * float64(v)))
}

// VSlice returns the sub-interval of v clamped to [start, end), with Volume
// pro-rated to the fraction of v's length retained.
func VSlice(v VolumeInterval, start, end *int) VolumeInterval {
	sliced := Slice(v.Interval, start, end)
	return VolumeInterval{Interval: sliced, Volume: prorate(v.Volume, v.Len(), sliced.Len())}
}

// VAdd merges a and b as Add does. The merged volume is a.Volume plus the
// pro-rated volume of the portion of b that does not overlap a, so the
// overlapping slice is never double-counted (spec.md §4.1).
func VAdd(a, b VolumeInterval) (VolumeInterval, error) {
	merged, err := Add(a.Interval, b.Interval)
	if err != nil {
		return VolumeInterval{}, err
	}
	bNonOverlap := 0
	if a.Interval.Contains(b.Interval) {
		left, right, err := VSubtract(b, a)
		if err != nil {
			return VolumeInterval{}, err
		}
		if left != nil {
			bNonOverlap += left.Volume
		}
		if right != nil {
			bNonOverlap += right.Volume
		}
	} else {
		// a and b are merely adjacent (|dist| == 1): b contributes in full.
		bNonOverlap = b.Volume
	}
	return VolumeInterval{Interval: merged, Volume: a.Volume + bNonOverlap}, nil
}

// VSubtract removes b from a as Subtract does, pro-rating the remaining
// fragments' volumes by the fraction of a's length each retains.
func VSubtract(a, b VolumeInterval) (left, right *VolumeInterval, err error) {
	l, r, err := Subtract(a.Interval, b.Interval)
	if err != nil {
		return nil, nil, err
	}
	if l != nil {
		lv := VolumeInterval{Interval: *l, Volume: prorate(a.Volume, a.Len(), l.Len())}
		left = &lv
	}
	if r != nil {
		rv := VolumeInterval{Interval: *r, Volume: prorate(a.Volume, a.Len(), r.Len())}
		right = &rv
	}
	return left, right, nil
}

// VIntersect mirrors Intersect, pro-rating volumes of the slices it returns.
func VIntersect(v VolumeInterval, others []VolumeInterval) ([]VolumeInterval, error) {
	if len(others) == 0 {
		return nil, errors.E(errors.Precondition, "ivl: must specify at least one other interval to intersect")
	}
	sorted := sortedVolumeCopy(others)
	merged, err := vMergeAdjacent(sorted)
	if err != nil {
		return nil, err
	}
	var out []VolumeInterval
	for _, o := range merged {
		if v.Interval.Contains(o.Interval) {
			out = append(out, VSlice(v, &o.Start, &o.End))
		}
	}
	return out, nil
}

// VDivide mirrors Divide, pro-rating the volume of each remaining fragment.
func VDivide(v VolumeInterval, others []VolumeInterval) ([]VolumeInterval, error) {
	remaining := v
	var out []VolumeInterval
	for _, o := range sortedVolumeCopy(others) {
		left, right, err := VSubtract(remaining, o)
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

// VMerge folds VAdd over the sorted sequence of intervals.
func VMerge(intervals []VolumeInterval) (VolumeInterval, error) {
	if len(intervals) == 0 {
		return VolumeInterval{}, errors.E(errors.Precondition, "ivl: cannot merge an empty interval set")
	}
	sorted := sortedVolumeCopy(intervals)
	merged := sorted[0]
	var err error
	for _, next := range sorted[1:] {
		merged, err = VAdd(merged, next)
		if err != nil {
			return VolumeInterval{}, err
		}
	}
	return merged, nil
}

// VSplit breaks v into numPieces roughly-equal-length, volume-pro-rated
// pieces whose lengths differ by at most one base. If v is shorter than
// numPieces bases, it is split into single-base pieces instead.
func VSplit(v VolumeInterval, numPieces int) []VolumeInterval {
	if numPieces < 1 {
		numPieces = 1
	}
	totalLen := v.Len()
	if numPieces > totalLen {
		numPieces = totalLen
	}
	out := make([]VolumeInterval, 0, numPieces)
	for i := 0; i < numPieces; i++ {
		start := v.Start + i*totalLen/numPieces
		end := v.Start + (i+1)*totalLen/numPieces
		vol := prorate(v.Volume, totalLen, end-start)
		out = append(out, NewVolume(v.Contig, start, end, vol))
	}
	return out
}

// VSplitByTargetVolume breaks v into enough equal-length pieces that each
// is expected to have at most targetVolume.
func VSplitByTargetVolume(v VolumeInterval, targetVolume int) []VolumeInterval {
	numPieces := 1
	if targetVolume > 0 {
		numPieces = int(math.Ceil(float64(v.Volume) / float64(targetVolume)))
		if numPieces < 1 {
			numPieces = 1
		}
	}
	return VSplit(v, numPieces)
}

// MergePrecomputed merges a group of intervals whose combined volume has
// already been computed elsewhere (e.g. summed incrementally while
// scanning), rather than recomputing it via VAdd. intervals need not be
// pre-sorted, and need not be contiguous; the result simply spans from the
// earliest start to the latest end.
func MergePrecomputed(intervals []VolumeInterval, volume int) VolumeInterval {
	sorted := sortedVolumeCopy(intervals)
	first := sorted[0]
	end := first.End
	for _, v := range sorted[1:] {
		if v.End > end {
			end = v.End
		}
	}
	return NewVolume(first.Contig, first.Start, end, volume)
}

func vMergeAdjacent(sorted []VolumeInterval) ([]VolumeInterval, error) {
	if len(sorted) == 1 {
		return sorted, nil
	}
	var out []VolumeInterval
	cur := sorted[0]
	for _, next := range sorted[1:] {
		cmp := Compare(cur.Interval, next.Interval)
		if cmp.Contig != 0 {
			return nil, errors.E(errors.Precondition, "ivl: cannot intersect intervals on different contigs")
		}
		if abs(cmp.Dist) <= 1 {
			merged, err := VAdd(cur, next)
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

func sortedVolumeCopy(intervals []VolumeInterval) []VolumeInterval {
	out := make([]VolumeInterval, len(intervals))
	copy(out, intervals)
	sort.Slice(out, func(i, j int) bool { return Less(out[i].Interval, out[j].Interval) })
	return out
}
