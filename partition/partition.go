// Package partition groups a set of VolumeIntervals into a fixed number of
// equal-volume partitions for parallel processing, grounded on
// original_source/indextools/index.py's group_intervals.
package partition

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/genomepart/ivl"
	"github.com/grailbio/genomepart/region"
)

// Strategy selects how intervals are distributed across groups once there
// are at least as many intervals as requested groups.
type Strategy int

const (
	// None returns one interval per group, without merging; len(groups) may
	// exceed numGroups requested if no grouping was applied.
	None Strategy = iota
	// Consecutive merges equal-sized runs of adjacent same-contig intervals
	// into numGroups contiguous groups -- few, large groups.
	Consecutive
	// RoundRobin distributes intervals to groups round-robin -- many,
	// small groups per partition.
	RoundRobin
)

// Options configures Partition.
type Options struct {
	Strategy Strategy
	// Regions, if set, restricts and fragments intervals to the allowed
	// regions before grouping.
	Regions *region.Regions
}

// Partition splits intervals (as produced by reduce.Reduce) into numGroups
// groups of roughly equal total volume. With Strategy == None, each
// returned group contains exactly one interval, and there may be more than
// numGroups of them once intervals have been split to reach that count.
func Partition(intervals []ivl.VolumeInterval, numGroups int, opts Options) ([][]ivl.VolumeInterval, error) {
	if numGroups < 1 {
		return nil, errors.E(errors.Precondition, "partition: numGroups must be >= 1")
	}
	if len(intervals) == 0 {
		return nil, errors.E(errors.Precondition, "partition: no intervals to partition")
	}

	ivls := intervals
	if opts.Regions != nil {
		plain := make([]ivl.Interval, len(ivls))
		for i, v := range ivls {
			plain[i] = v.Interval
		}
		restricted, err := opts.Regions.Intersect(plain)
		if err != nil {
			return nil, err
		}
		ivls = make([]ivl.VolumeInterval, len(restricted))
		for i, iv := range restricted {
			// A region-restricted fragment may be a strict subset of its
			// source interval; pro-rate the volume accordingly using the
			// interval it came from, found by containment.
			ivls[i] = reattachVolume(iv, intervals)
		}
	}

	for len(ivls) < numGroups {
		var next []ivl.VolumeInterval
		for _, v := range ivls {
			next = append(next, ivl.VSplit(v, 2)...)
		}
		ivls = next
	}

	switch opts.Strategy {
	case None:
		groups := make([][]ivl.VolumeInterval, len(ivls))
		for i, v := range ivls {
			groups[i] = []ivl.VolumeInterval{v}
		}
		return groups, nil
	case RoundRobin:
		return groupRoundRobin(ivls, numGroups), nil
	case Consecutive:
		return groupConsecutive(ivls, numGroups)
	default:
		return nil, errors.E(errors.Precondition, "partition: unsupported grouping strategy")
	}
}

// reattachVolume finds the source VolumeInterval that contains iv and
// pro-rates its volume down to iv's length.
func reattachVolume(iv ivl.Interval, sources []ivl.VolumeInterval) ivl.VolumeInterval {
	for _, src := range sources {
		if src.Interval.Contains(iv) {
			return ivl.VSlice(src, &iv.Start, &iv.End)
		}
	}
	return ivl.NewVolume(iv.Contig, iv.Start, iv.End, 0)
}

func groupRoundRobin(ivls []ivl.VolumeInterval, numGroups int) [][]ivl.VolumeInterval {
	groups := make([][]ivl.VolumeInterval, numGroups)
	for i, v := range ivls {
		g := i % numGroups
		groups[g] = append(groups[g], v)
	}
	return groups
}

// groupConsecutive distributes equal runs of consecutive intervals into
// numGroups contiguous groups, merging adjacent same-contig intervals
// within a group via VAdd.
func groupConsecutive(ivls []ivl.VolumeInterval, numGroups int) ([][]ivl.VolumeInterval, error) {
	numIntervals := len(ivls)
	groups := make([][]ivl.VolumeInterval, numGroups)
	intervalsPerGroup := numIntervals / numGroups
	remainder := numIntervals - intervalsPerGroup*numGroups

	curGroup := 0
	var curIvl *ivl.VolumeInterval
	curGroupCount := 0
	targetCount := intervalsPerGroup
	if remainder > 0 {
		targetCount++
	}

	for _, v := range ivls {
		adjacent := false
		if curIvl != nil && v.Contig == curIvl.Contig {
			d := ivl.Compare(curIvl.Interval, v.Interval).Dist
			adjacent = d >= -1 && d <= 1
		}
		if adjacent {
			merged, err := ivl.VAdd(*curIvl, v)
			if err != nil {
				return nil, err
			}
			curIvl = &merged
		} else {
			if curIvl != nil {
				groups[curGroup] = append(groups[curGroup], *curIvl)
			}
			vv := v
			curIvl = &vv
		}

		curGroupCount++

		if curGroupCount >= targetCount && curGroup < numGroups-1 {
			if curIvl != nil {
				groups[curGroup] = append(groups[curGroup], *curIvl)
				curIvl = nil
			}
			curGroup++
			curGroupCount = 0
			targetCount = intervalsPerGroup
			if curGroup < remainder {
				targetCount++
			}
		}
	}

	if curIvl != nil {
		groups[curGroup] = append(groups[curGroup], *curIvl)
	}

	return groups, nil
}
