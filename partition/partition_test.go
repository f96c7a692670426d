package partition_test

import (
	"testing"

	"github.com/grailbio/genomepart/ivl"
	"github.com/grailbio/genomepart/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIntervals() []ivl.VolumeInterval {
	return []ivl.VolumeInterval{
		ivl.NewVolume("chr1", 0, 100, 100),
		ivl.NewVolume("chr1", 100, 200, 100),
		ivl.NewVolume("chr1", 200, 300, 100),
		ivl.NewVolume("chr2", 0, 100, 100),
	}
}

func TestPartitionNoneSplitsToReachCount(t *testing.T) {
	groups, err := partition.Partition(sampleIntervals(), 8, partition.Options{Strategy: partition.None})
	require.NoError(t, err)
	assert.Len(t, groups, 8)
	for _, g := range groups {
		assert.Len(t, g, 1)
	}
}

func TestPartitionConsecutiveMergesAdjacent(t *testing.T) {
	groups, err := partition.Partition(sampleIntervals(), 2, partition.Options{Strategy: partition.Consecutive})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	// First group should merge the first two chr1 intervals into one via Add.
	require.Len(t, groups[0], 1)
	assert.True(t, groups[0][0].Equal(ivl.New("chr1", 0, 200)), groups[0][0].String())
}

func TestPartitionRoundRobin(t *testing.T) {
	groups, err := partition.Partition(sampleIntervals(), 2, partition.Options{Strategy: partition.RoundRobin})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 2)
}

func TestPartitionRejectsZeroGroups(t *testing.T) {
	_, err := partition.Partition(sampleIntervals(), 0, partition.Options{})
	require.Error(t, err)
}

func TestPartitionRejectsEmptyIntervals(t *testing.T) {
	_, err := partition.Partition(nil, 2, partition.Options{})
	require.Error(t, err)
}
