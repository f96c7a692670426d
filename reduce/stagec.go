package reduce

import (
	"github.com/grailbio/genomepart/ivl"
)

const defaultBatchVolumeCoeff = 1.5

// stageC coalesces runs of small consecutive tiles and splits oversized
// ones so that each output VolumeInterval's volume is close to a target
// batch volume.
func stageC(tiles []ivl.IndexInterval, opts Options) ([]ivl.VolumeInterval, error) {
	batchVolume := opts.BatchVolume
	if batchVolume <= 0 {
		var nonZero []int
		for _, t := range tiles {
			if t.Volume != 0 {
				nonZero = append(nonZero, t.Volume)
			}
		}
		if len(nonZero) > 0 {
			batchVolume = median(nonZero)
		} else {
			batchVolume = 1
		}
	}
	coeff := opts.BatchVolumeCoeff
	if coeff <= 0 {
		coeff = defaultBatchVolumeCoeff
	}
	maxBatchVolume := float64(batchVolume) * coeff

	var out []ivl.VolumeInterval
	var group []ivl.VolumeInterval
	groupVolume := 0
	curIvlNum := tiles[0].IvlNum - 1

	flush := func() {
		if len(group) > 0 {
			out = append(out, ivl.MergePrecomputed(group, groupVolume))
			group = nil
			groupVolume = 0
		}
	}

	for _, t := range tiles {
		large := float64(t.Volume) >= maxBatchVolume

		if len(group) > 0 && (large || t.IvlNum-1 != curIvlNum) {
			flush()
		}

		if large {
			out = append(out, ivl.VSplitByTargetVolume(t.VolumeInterval, batchVolume)...)
			continue
		}

		if len(group) > 0 && float64(groupVolume+t.Volume) > maxBatchVolume {
			flush()
		}

		group = append(group, t.VolumeInterval)
		groupVolume += t.Volume
		curIvlNum = t.IvlNum

		if t.ContigEnd {
			flush()
		}
	}
	flush()

	return out, nil
}
