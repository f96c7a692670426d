// Package coordindex defines the abstraction this module reads volume
// estimates from: a per-reference sequence of fixed-size coordinate tiles,
// each annotated with its compressed file offset and uncompressed block
// offset within a BGZF-style container. Parsing any concrete on-disk index
// format (.bai, .gbai, .csi, ...) into this shape is out of this module's
// scope; callers supply an Index implementation, such as the in-memory Fake
// in fake.go used by this module's own tests.
//
// The offset vocabulary (file offset, block offset) mirrors
// encoding/bam/gindex.go's GIndexEntry/bgzf.Offset pair in this module's
// teacher; reduce.Stage A walks these offsets to estimate volume.
package coordindex

import (
	"github.com/grailbio/hts/bgzf"
)

// Tile is one fixed-size coordinate bucket of a reference sequence, with
// the compressed/uncompressed offset of the first record that falls within
// it. Empty reports whether no record in the underlying data falls in
// [Start, End) -- a tile with no records still occupies a slot in
// the index but contributes no volume on its own.
type Tile struct {
	Start  int
	End    int
	Offset bgzf.Offset
	Empty  bool
}

// Reference is one contig's ordered sequence of tiles, plus its length.
type Reference struct {
	Name   string
	Length int
	Tiles  []Tile
}

// Index is the coordinate index abstraction reduce.Reduce consumes. A
// concrete implementation wraps some on-disk index format; References must
// be returned in a stable order and each Reference's Tiles in ascending
// Start order.
type Index interface {
	References() []Reference
}
