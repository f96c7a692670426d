// Package reduce turns a coordinate index into a small number of
// equal-volume VolumeIntervals spanning the genome. It runs in three
// stages, mirroring original_source/indextools/index.py:
//
//   Stage A (stagea.go): walk each reference's tiles and emit one
//   IndexInterval per non-empty tile, carrying the file/block offset deltas
//   relative to the previous non-empty tile.
//
//   Stage B (stageb.go): estimate each IndexInterval's volume from its
//   offset deltas, using the median positive file-offset delta across the
//   whole index as the estimated compressed block size.
//
//   Stage C (stagec.go, wired by Reduce below): coalesce runs of small
//   consecutive intervals and split oversized ones, so that every output
//   VolumeInterval's volume is close to a target batch volume.
package reduce

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/genomepart/coordindex"
	"github.com/grailbio/genomepart/ivl"
)

// BGZFBlockSize is the uncompressed size of a single BGZF block, used by
// Stage B to convert a file-offset delta (in blocks) into an uncompressed
// byte volume.
const BGZFBlockSize = 1 << 16

// Options configures Reduce's Stage C coalesce/split behavior.
type Options struct {
	// BatchVolume is the target volume per output interval. If zero, it is
	// estimated as the median of the non-zero Stage B interval volumes.
	BatchVolume int
	// BatchVolumeCoeff scales BatchVolume to get the maximum volume an
	// output interval may have before it is split. Defaults to 1.5 if zero.
	BatchVolumeCoeff float64
}

// Reduce runs all three stages, returning the final batch VolumeIntervals
// in genome order.
func Reduce(idx coordindex.Index, opts Options) ([]ivl.VolumeInterval, error) {
	tiles, err := stageA(idx)
	if err != nil {
		return nil, err
	}
	if len(tiles) == 0 {
		return nil, errors.E(errors.Precondition, "reduce: index contains no intervals")
	}
	estimated := stageB(tiles)
	return stageC(estimated, opts)
}
