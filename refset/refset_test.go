package refset_test

import (
	"strings"
	"testing"

	"github.com/grailbio/genomepart/refset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTSV(t *testing.T) {
	tab, err := refset.FromTSV(strings.NewReader("chr1\t1000\nchr2\t500\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, tab.Len())

	length, ok := tab.Length("chr1")
	assert.True(t, ok)
	assert.Equal(t, 1000, length)

	id, ok := tab.ID("chr2")
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	name, ok := tab.Name(0)
	assert.True(t, ok)
	assert.Equal(t, "chr1", name)

	assert.False(t, tab.Contains("chr3"))
}

func TestFromTSVMalformed(t *testing.T) {
	_, err := refset.FromTSV(strings.NewReader("chr1\tnotanumber\n"))
	require.Error(t, err)
}

func TestNewDuplicateName(t *testing.T) {
	_, err := refset.New([]refset.Entry{{Name: "chr1", Length: 10}, {Name: "chr1", Length: 20}})
	require.Error(t, err)
}

func TestNewNonPositiveLength(t *testing.T) {
	_, err := refset.New([]refset.Entry{{Name: "chr1", Length: 0}})
	require.Error(t, err)
}
