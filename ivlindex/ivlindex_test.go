package ivlindex_test

import (
	"testing"

	"github.com/grailbio/genomepart/ivl"
	"github.com/grailbio/genomepart/ivlindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex() *ivlindex.IntervalIndex {
	idx := ivlindex.New()
	idx.AddAll([]ivl.VolumeInterval{
		ivl.NewVolume("chr1", 0, 100, 1000),
		ivl.NewVolume("chr1", 200, 300, 2000),
		ivl.NewVolume("chr1", 500, 600, 3000),
		ivl.NewVolume("chr2", 0, 50, 500),
	})
	idx.Commit()
	return idx
}

func TestFindOverlapping(t *testing.T) {
	idx := buildIndex()
	hits, err := idx.Find(ivl.New("chr1", 50, 250))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Start)
	assert.Equal(t, 200, hits[1].Start)
}

func TestFindUnknownContig(t *testing.T) {
	idx := buildIndex()
	hits, err := idx.Find(ivl.New("chr9", 0, 10))
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFindBeforeCommitFails(t *testing.T) {
	idx := ivlindex.New()
	idx.Add(ivl.NewVolume("chr1", 0, 10, 1))
	_, err := idx.Find(ivl.New("chr1", 0, 10))
	require.Error(t, err)
}

func TestIntersectClampsAndProRates(t *testing.T) {
	idx := buildIndex()
	hits, err := idx.Intersect(ivl.New("chr1", 50, 80))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, ivl.New("chr1", 50, 80), hits[0].Interval)
	assert.Equal(t, 300, hits[0].Volume)
}

func TestClosestLeftAndRight(t *testing.T) {
	idx := buildIndex()
	q := ivl.New("chr1", 150, 160)

	left, ok, err := idx.Closest(q, ivlindex.Left)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, left, 1)
	assert.Equal(t, 0, left[0].Start)

	right, ok, err := idx.Closest(q, ivlindex.Right)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, right, 1)
	assert.Equal(t, 200, right[0].Start)
}

func TestClosestBothPrefersNearer(t *testing.T) {
	idx := buildIndex()
	// Closer to the [200,300) interval than to [0,100).
	q := ivl.New("chr1", 170, 180)
	best, ok, err := idx.Closest(q, ivlindex.Both)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, best, 1)
	assert.Equal(t, 200, best[0].Start)
}

func TestClosestBothYieldsOverlappingCandidates(t *testing.T) {
	idx := buildIndex()
	// Overlaps [200,300); overlap takes priority over nearest-neighbor.
	q := ivl.New("chr1", 250, 400)
	best, ok, err := idx.Closest(q, ivlindex.Both)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, best, 1)
	assert.Equal(t, 200, best[0].Start)
}

func TestClosestBothYieldsAllTies(t *testing.T) {
	idx := ivlindex.New()
	idx.AddAll([]ivl.VolumeInterval{
		ivl.NewVolume("chr1", 0, 100, 1),
		ivl.NewVolume("chr1", 210, 300, 1),
	})
	idx.Commit()
	// Query sits exactly midway (50bp gap each side): both neighbors tie.
	q := ivl.New("chr1", 150, 160)
	best, ok, err := idx.Closest(q, ivlindex.Both)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, best, 2)
}

func TestClosestNeverYieldsQueryItself(t *testing.T) {
	idx := ivlindex.New()
	idx.AddAll([]ivl.VolumeInterval{
		ivl.NewVolume("chr1", 0, 100, 1),
		ivl.NewVolume("chr1", 100, 200, 1),
		ivl.NewVolume("chr1", 200, 300, 1),
	})
	idx.Commit()
	q := ivl.New("chr1", 100, 200)
	best, ok, err := idx.Closest(q, ivlindex.Both)
	require.NoError(t, err)
	require.True(t, ok)
	for _, v := range best {
		assert.False(t, v.Interval.Equal(q))
	}
}

func TestClosestNoIntervalsOnContig(t *testing.T) {
	idx := buildIndex()
	_, ok, err := idx.Closest(ivl.New("chr9", 0, 10), ivlindex.Both)
	require.NoError(t, err)
	assert.False(t, ok)
}
