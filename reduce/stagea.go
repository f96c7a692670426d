package reduce

import (
	"github.com/grailbio/genomepart/coordindex"
	"github.com/grailbio/genomepart/ivl"
)

// tileRef remembers which (refNum, ivlNum, tile) a prior iteration last saw,
// so the next non-empty tile's offset delta can be computed against it.
type tileRef struct {
	refNum int
	ivlNum int
	tile   coordindex.Tile
}

// stageA walks idx's references and emits one IndexInterval per non-empty
// tile, one iteration in arrears: an entry's (RefNum, IvlNum, bounds) are
// those of the *previous* non-empty tile, while its offset diffs are
// computed against the *current* tile. This lets the volume of the final
// tile in a contig be estimated from the first tile of the next contig. A
// trailing sentinel entry (zero diffs, ContigEnd true) caps the very last
// contig, since there is no further tile to diff it against.
func stageA(idx coordindex.Index) ([]ivl.IndexInterval, error) {
	refs := idx.References()

	var prev *tileRef
	var out []ivl.IndexInterval

	for refNum, ref := range refs {
		numTiles := len(ref.Tiles)
		if numTiles == 0 {
			continue
		}

		firstIvl := 0
		for firstIvl < numTiles && ref.Tiles[firstIvl].Empty {
			firstIvl++
		}
		if firstIvl == numTiles {
			continue
		}

		if prev == nil {
			prev = &tileRef{refNum: refNum, ivlNum: firstIvl, tile: ref.Tiles[firstIvl]}
			firstIvl++
		}

		for ivlNum := firstIvl; ivlNum < numTiles; ivlNum++ {
			tile := ref.Tiles[ivlNum]
			if tile.Empty {
				continue
			}

			fileOffsetDiff := 0
			if tile.Offset.File != prev.tile.Offset.File {
				fileOffsetDiff = int(tile.Offset.File - prev.tile.Offset.File)
			}
			blockOffsetDiff := int(tile.Offset.Block) - int(prev.tile.Offset.Block)

			prevRef := refs[prev.refNum]
			out = append(out, ivl.NewIndexInterval(
				prevRef.Name, tileBounds(prevRef, prev.ivlNum), tileEnd(prevRef, prev.ivlNum),
				0, prev.refNum, prev.ivlNum,
				int(prev.tile.Offset.File), int(prev.tile.Offset.Block),
				fileOffsetDiff, blockOffsetDiff, prev.refNum != refNum))

			prev = &tileRef{refNum: refNum, ivlNum: ivlNum, tile: tile}
		}
	}

	if prev != nil {
		prevRef := refs[prev.refNum]
		out = append(out, ivl.NewIndexInterval(
			prevRef.Name, tileBounds(prevRef, prev.ivlNum), tileEnd(prevRef, prev.ivlNum),
			0, prev.refNum, prev.ivlNum,
			int(prev.tile.Offset.File), int(prev.tile.Offset.Block),
			0, 0, true))
	}

	return out, nil
}

func tileBounds(ref coordindex.Reference, ivlNum int) int {
	return ref.Tiles[ivlNum].Start
}

func tileEnd(ref coordindex.Reference, ivlNum int) int {
	return ref.Tiles[ivlNum].End
}
