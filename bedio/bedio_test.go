package bedio_test

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/grailbio/genomepart/bedio"
	"github.com/grailbio/genomepart/ivl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteIntervalsPlain(t *testing.T) {
	groups := [][]ivl.VolumeInterval{
		{ivl.NewVolume("chr1", 0, 100, 500)},
		{ivl.NewVolume("chr1", 100, 200, 600), ivl.NewVolume("chr2", 0, 50, 100)},
	}
	var buf bytes.Buffer
	err := bedio.WriteIntervals(&buf, groups, bedio.WriteOptions{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "chr1\t0\t100\tPartition_1\t500\t.", lines[0])
	assert.Equal(t, "chr1\t100\t200\tPartition_2\t600\t.", lines[1])
	assert.Equal(t, "chr2\t0\t50\tPartition_2\t100\t.", lines[2])
}

func TestWriteIntervalsBgzip(t *testing.T) {
	groups := [][]ivl.VolumeInterval{{ivl.NewVolume("chr1", 0, 100, 500)}}
	var buf bytes.Buffer
	err := bedio.WriteIntervals(&buf, groups, bedio.WriteOptions{Bgzip: true})
	require.NoError(t, err)

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	data, err := ioutil.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "chr1\t0\t100\tPartition_1\t500\t.\n", string(data))
}

func TestChildLengthsExtractor(t *testing.T) {
	a := ivl.NewVolume("chr1", 0, 50, 100)
	b := ivl.NewVolume("chr1", 50, 100, 100)
	merged, err := ivl.VAdd(a, b)
	require.NoError(t, err)

	cols := bedio.ChildLengths(merged)
	require.Len(t, cols, 1)
	assert.Equal(t, "50,50", cols[0])
}

func TestChildLengthsNoChildren(t *testing.T) {
	v := ivl.NewVolume("chr1", 0, 50, 100)
	cols := bedio.ChildLengths(v)
	assert.Equal(t, []string{"."}, cols)
}
