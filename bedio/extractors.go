package bedio

import (
	"strconv"
	"strings"

	"github.com/grailbio/genomepart/ivl"
)

// ChildLengths is an ExtraColumns function that appends a single
// comma-separated column of the lengths of v's ChildIntervals -- the
// source intervals merged (via ivl.Add/ivl.VAdd) to produce v. "." if v has
// no recorded children.
func ChildLengths(v ivl.VolumeInterval) []string {
	if len(v.ChildIntervals) == 0 {
		return []string{"."}
	}
	lengths := make([]string, len(v.ChildIntervals))
	for i, c := range v.ChildIntervals {
		lengths[i] = strconv.Itoa(c.Len())
	}
	return []string{strings.Join(lengths, ",")}
}

// ChildVolumes is an ExtraColumns function that appends a single
// comma-separated column of volumes for v's child VolumeIntervals, if v
// was produced from VolumeIntervals with volume information (as opposed to
// plain Intervals). "." if none are available.
func ChildVolumes(childVolumes func(ivl.Interval) (int, bool)) ExtraColumns {
	return func(v ivl.VolumeInterval) []string {
		if len(v.ChildIntervals) == 0 || childVolumes == nil {
			return []string{"."}
		}
		volumes := make([]string, len(v.ChildIntervals))
		for i, c := range v.ChildIntervals {
			if vol, ok := childVolumes(c); ok {
				volumes[i] = strconv.Itoa(vol)
			} else {
				volumes[i] = "."
			}
		}
		return []string{strings.Join(volumes, ",")}
	}
}
