package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfm-insight/pkg/models"
)

func segmented(id string, seg models.Segment, r, f int, m float64) models.SegmentedMetric {
	return models.SegmentedMetric{
		ScoredMetric: models.ScoredMetric{
			CustomerMetric: models.CustomerMetric{CustomerID: id, Recency: r, Frequency: f, Monetary: m},
		},
		Segment: seg,
	}
}

func TestBySegment_CountsAndPercentages(t *testing.T) {
	records := []models.SegmentedMetric{
		segmented("a", models.SegmentChampions, 10, 1, 100),
		segmented("b", models.SegmentChampions, 20, 3, 300),
		segmented("c", models.SegmentLost, 400, 1, 10),
		segmented("d", models.SegmentHibernating, 200, 2, 50),
	}
	out := BySegment(records)
	require.Len(t, out, 3)

	// sorted by descending count, then name
	assert.Equal(t, "Champions", out[0].Key)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, 50.0, out[0].Percentage)

	var total float64
	for _, s := range out {
		total += s.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.6)
}

func TestBySegment_Stats(t *testing.T) {
	records := []models.SegmentedMetric{
		segmented("a", models.SegmentChampions, 10, 1, 100),
		segmented("b", models.SegmentChampions, 20, 3, 300),
	}
	out := BySegment(records)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, 15.0, s.RecencyMean)
	assert.Equal(t, 7.07, s.RecencyStd) // sample stddev, rounded to 2 decimals
	assert.Equal(t, 2.0, s.FrequencyMean)
	assert.Equal(t, 1.41, s.FrequencyStd)
	assert.Equal(t, 200.0, s.MonetaryMean)
	assert.Equal(t, 141.42, s.MonetaryStd)
}

func TestBySegment_SingleMemberStdIsZero(t *testing.T) {
	out := BySegment([]models.SegmentedMetric{
		segmented("a", models.SegmentLost, 100, 1, 10),
	})
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].RecencyStd)
	assert.Equal(t, 100.0, out[0].Percentage)
}

func TestByCluster_OrderedByClusterNumber(t *testing.T) {
	assignments := []models.ClusterAssignment{
		{CustomerMetric: models.CustomerMetric{CustomerID: "a", Recency: 5, Frequency: 2, Monetary: 40}, Cluster: 2},
		{CustomerMetric: models.CustomerMetric{CustomerID: "b", Recency: 9, Frequency: 1, Monetary: 10}, Cluster: 0},
		{CustomerMetric: models.CustomerMetric{CustomerID: "c", Recency: 7, Frequency: 3, Monetary: 20}, Cluster: 10},
	}
	out := ByCluster(assignments)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"0", "2", "10"}, []string{out[0].Key, out[1].Key, out[2].Key})
}

func TestByCluster_PercentagesSum(t *testing.T) {
	assignments := []models.ClusterAssignment{
		{CustomerMetric: models.CustomerMetric{CustomerID: "a", Recency: 1, Frequency: 1, Monetary: 1}, Cluster: 0},
		{CustomerMetric: models.CustomerMetric{CustomerID: "b", Recency: 2, Frequency: 2, Monetary: 2}, Cluster: 0},
		{CustomerMetric: models.CustomerMetric{CustomerID: "c", Recency: 3, Frequency: 3, Monetary: 3}, Cluster: 1},
	}
	out := ByCluster(assignments)
	require.Len(t, out, 2)

	var total float64
	for _, s := range out {
		total += s.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.6)
	assert.Equal(t, 66.7, out[0].Percentage)
}
