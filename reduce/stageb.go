package reduce

import (
	"math"
	"sort"

	"github.com/grailbio/genomepart/ivl"
)

// stageB estimates each IndexInterval's volume from its offset deltas, then
// returns the intervals with Volume populated.
//
// The compressed size of a single BGZF block varies with content, so we
// estimate it as the median of the positive file-offset deltas seen across
// the whole index. A tile whose file offset didn't move
// (file_offset_diff == 0) occupies part of the same block as its
// predecessor, so its volume is exactly its block-offset delta; otherwise
// we estimate how many blocks it spans and multiply by the uncompressed
// block size.
func stageB(tiles []ivl.IndexInterval) []ivl.IndexInterval {
	var positive []int
	for _, t := range tiles {
		if t.FileOffsetDiff > 0 {
			positive = append(positive, t.FileOffsetDiff)
		}
	}
	compressedBlockSize := 1
	if len(positive) > 0 {
		compressedBlockSize = median(positive)
	}

	out := make([]ivl.IndexInterval, len(tiles))
	for i, t := range tiles {
		out[i] = t
		if t.FileOffsetDiff == 0 {
			out[i].Volume = t.BlockOffsetDiff
			continue
		}
		numBlocks := math.Max(1.0, float64(t.FileOffsetDiff)/float64(compressedBlockSize))
		out[i].Volume = int(math.Ceil(numBlocks*BGZFBlockSize + float64(t.BlockOffsetDiff)))
	}
	return out
}

func median(xs []int) int {
	sorted := make([]int, len(xs))
	copy(sorted, xs)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
