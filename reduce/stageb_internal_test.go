package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/genomepart/ivl"
)

// TestStageBVolumeLaw directly exercises Stage B's volume formula, per
// spec.md §8 S5: given two consecutive non-empty tiles whose
// file_offset_diff is 2C (C the observed median positive file-offset
// delta) and whose block_offset_diff is 100, the second tile's volume is
// ceil(2*2^16 + 100).
func TestStageBVolumeLaw(t *testing.T) {
	const c = 1000
	tiles := []ivl.IndexInterval{
		ivl.NewIndexInterval("chr1", 0, 16384, 0, 0, 0, 0, 0, c, 0, false),
		ivl.NewIndexInterval("chr1", 16384, 32768, 0, 0, 1, 0, 0, c, 0, false),
		ivl.NewIndexInterval("chr1", 32768, 49152, 0, 0, 2, 0, 0, 2*c, 100, false),
	}
	out := stageB(tiles)
	assert.Equal(t, 2*BGZFBlockSize+100, out[2].Volume)
}

func TestStageBZeroFileOffsetDiffUsesBlockOffsetDiff(t *testing.T) {
	tiles := []ivl.IndexInterval{
		ivl.NewIndexInterval("chr1", 0, 16384, 0, 0, 0, 0, 0, 0, 250, false),
	}
	out := stageB(tiles)
	assert.Equal(t, 250, out[0].Volume)
}
