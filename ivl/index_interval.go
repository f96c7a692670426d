package ivl

// IndexInterval is a VolumeInterval tagged with the tile identity it was
// extracted from: which reference and tile number it is, and the raw
// file/block offset deltas Stage A of the reducer computed it from. See
// SPEC_FULL.md's reduce package for how these are produced and consumed.
type IndexInterval struct {
	VolumeInterval

	RefNum int
	IvlNum int

	// FileOffset and BlockOffset are this tile's own absolute compressed
	// file offset and uncompressed block offset, as carried by the
	// underlying coordinate index (spec.md §3).
	FileOffset  int
	BlockOffset int

	// FileOffsetDiff and BlockOffsetDiff are the deltas of the underlying
	// index's compressed file offset and uncompressed block offset from
	// this tile to the next non-empty tile (possibly on the next contig);
	// both are zero for the final tile of the index.
	FileOffsetDiff  int
	BlockOffsetDiff int

	// ContigEnd marks the last non-empty tile of a contig. Stage C of the
	// reducer ends its current coalescing group after such a tile.
	ContigEnd bool
}

// NewIndexInterval constructs an IndexInterval.
func NewIndexInterval(contig string, start, end, volume, refNum, ivlNum, fileOffset, blockOffset, fileOffsetDiff, blockOffsetDiff int, contigEnd bool) IndexInterval {
	return IndexInterval{
		VolumeInterval:  NewVolume(contig, start, end, volume),
		RefNum:          refNum,
		IvlNum:          ivlNum,
		FileOffset:      fileOffset,
		BlockOffset:     blockOffset,
		FileOffsetDiff:  fileOffsetDiff,
		BlockOffsetDiff: blockOffsetDiff,
		ContigEnd:       contigEnd,
	}
}

// AsVolumeInterval drops the tile identity, returning the plain
// VolumeInterval. Partitioning operates on VolumeIntervals; only the
// reducer's own stages need tile identity.
func (x IndexInterval) AsVolumeInterval() VolumeInterval {
	return x.VolumeInterval
}
