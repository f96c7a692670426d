package region_test

import (
	"testing"

	"github.com/grailbio/genomepart/ivl"
	"github.com/grailbio/genomepart/refset"
	"github.com/grailbio/genomepart/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRefs(t *testing.T) *refset.Table {
	t.Helper()
	refs, err := refset.New([]refset.Entry{
		{Name: "chr1", Length: 1000},
		{Name: "chr2", Length: 2000},
		{Name: "chrX", Length: 500},
	})
	require.NoError(t, err)
	return refs
}

func TestParseRegionStringRange(t *testing.T) {
	refs := testRefs(t)
	iv, err := region.ParseRegionString("chr1:100-200", refs)
	require.NoError(t, err)
	assert.Equal(t, ivl.New("chr1", 99, 200), iv)
}

func TestParseRegionStringWholeContig(t *testing.T) {
	refs := testRefs(t)
	iv, err := region.ParseRegionString("chr1", refs)
	require.NoError(t, err)
	assert.Equal(t, ivl.New("chr1", 0, 1000), iv)
}

func TestParseRegionStringStar(t *testing.T) {
	refs := testRefs(t)
	iv, err := region.ParseRegionString("chr2:10-*", refs)
	require.NoError(t, err)
	assert.Equal(t, ivl.New("chr2", 9, 2000), iv)
}

func TestParseRegionStringInvalidStart(t *testing.T) {
	refs := testRefs(t)
	_, err := region.ParseRegionString("chr1:0-100", refs)
	require.Error(t, err)
}

func TestParseRegionStringStartAfterEnd(t *testing.T) {
	refs := testRefs(t)
	_, err := region.ParseRegionString("chr1:100-50", refs)
	require.Error(t, err)
}

func TestRegionsAllowsInclude(t *testing.T) {
	refs := testRefs(t)
	r, err := region.New(region.Spec{IncludeRegions: []string{"chr1:1-500"}}, refs, nil)
	require.NoError(t, err)

	allowed, err := r.Allows(ivl.New("chr1", 100, 200))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = r.Allows(ivl.New("chr1", 600, 700))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRegionsAllowsRequiresFullContainment(t *testing.T) {
	refs := testRefs(t)
	r, err := region.New(region.Spec{IncludeRegions: []string{"chr1:1-500"}}, refs, nil)
	require.NoError(t, err)

	// [400,600) only partially overlaps the include's [0,500); spec.md §4.3
	// requires full containment, not any overlap.
	allowed, err := r.Allows(ivl.New("chr1", 400, 600))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRegionsAllowsExclude(t *testing.T) {
	refs := testRefs(t)
	r, err := region.New(region.Spec{ExcludeRegions: []string{"chr1:100-200"}}, refs, nil)
	require.NoError(t, err)

	allowed, err := r.Allows(ivl.New("chr1", 300, 400))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = r.Allows(ivl.New("chr1", 150, 160))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRegionsContigRange(t *testing.T) {
	refs := testRefs(t)
	r, err := region.New(region.Spec{IncludeContigs: []string{"chr1-2"}}, refs, nil)
	require.NoError(t, err)

	allowed, err := r.Allows(ivl.New("chr1", 0, 10))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = r.Allows(ivl.New("chrX", 0, 10))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRegionsContigRangeCanonicalBareNumericEnd(t *testing.T) {
	refs, err := refset.New([]refset.Entry{
		{Name: "chr1", Length: 100},
		{Name: "chr22", Length: 100},
		{Name: "chrX", Length: 100},
	})
	require.NoError(t, err)
	r, err := region.New(region.Spec{IncludeContigs: []string{"chr1-22"}}, refs, nil)
	require.NoError(t, err)

	allowed, err := r.Allows(ivl.New("chr1", 0, 10))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = r.Allows(ivl.New("chr22", 0, 10))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = r.Allows(ivl.New("chrX", 0, 10))
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRegionsContigMacro(t *testing.T) {
	refs := testRefs(t)
	macros := region.Macros{"autosomes": {"chr1", "chr2"}}
	r, err := region.New(region.Spec{IncludeContigs: []string{"autosomes"}}, refs, macros)
	require.NoError(t, err)

	allowed, err := r.Allows(ivl.New("chr2", 0, 10))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRegionsIntersectWithExclude(t *testing.T) {
	refs := testRefs(t)
	r, err := region.New(region.Spec{ExcludeRegions: []string{"chr1:100-200"}}, refs, nil)
	require.NoError(t, err)

	out, err := r.Intersect([]ivl.Interval{ivl.New("chr1", 0, 300)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, ivl.New("chr1", 0, 99), out[0])
	assert.Equal(t, ivl.New("chr1", 200, 300), out[1])
}

func TestRegionsIntersectWithTargets(t *testing.T) {
	refs, err := refset.New([]refset.Entry{{Name: "chr1", Length: 500}})
	require.NoError(t, err)
	r, err := region.New(region.Spec{
		IncludeTargets: []ivl.Interval{
			ivl.New("chr1", 10, 100),
			ivl.New("chr1", 150, 200),
		},
	}, refs, nil)
	require.NoError(t, err)

	out, err := r.Intersect([]ivl.Interval{ivl.New("chr1", 25, 175)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, ivl.New("chr1", 25, 100), out[0])
	assert.Equal(t, ivl.New("chr1", 150, 175), out[1])
}

func TestRegionsIterAllowedNoFilter(t *testing.T) {
	refs := testRefs(t)
	r, err := region.New(region.Spec{}, refs, nil)
	require.NoError(t, err)

	out, err := r.IterAllowed()
	require.NoError(t, err)
	require.Len(t, out, 3)
}
