package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfm-insight/pkg/models"
)

func sampleMetrics(n int) []models.CustomerMetric {
	out := make([]models.CustomerMetric, n)
	for i := range out {
		out[i] = models.CustomerMetric{
			CustomerID: fmt.Sprintf("c%03d", i+1),
			Recency:    i*7 + 1,
			Frequency:  i%6 + 1,
			Monetary:   float64(50*i + 10),
		}
	}
	return out
}

func TestRun_FullPipeline(t *testing.T) {
	metrics := sampleMetrics(20)
	res, err := Run(context.Background(), metrics, models.Config{
		Quantiles:   5,
		MaxClusters: 4,
		Seed:        42,
	})
	require.NoError(t, err)

	require.Len(t, res.Segmented, 20)
	for _, s := range res.Segmented {
		assert.GreaterOrEqual(t, s.RScore, 1)
		assert.LessOrEqual(t, s.RScore, 5)
		assert.NotEmpty(t, s.Segment)
	}

	var total float64
	for _, s := range res.SegmentSummaries {
		total += s.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.6)

	require.Len(t, res.Assignments, 20)
	assert.GreaterOrEqual(t, res.Diagnostics.K, 2)
	assert.LessOrEqual(t, res.Diagnostics.K, 4)
	assert.NotEmpty(t, res.ClusterSummaries)
	for _, a := range res.Assignments {
		assert.GreaterOrEqual(t, a.Cluster, 0)
		assert.Less(t, a.Cluster, res.Diagnostics.K)
	}
}

func TestRun_SkipClustering(t *testing.T) {
	res, err := Run(context.Background(), sampleMetrics(20), models.Config{
		Quantiles:      5,
		SkipClustering: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Segmented)
	assert.Nil(t, res.Assignments)
	assert.Zero(t, res.Diagnostics.K)
}

func TestRun_SeedStable(t *testing.T) {
	metrics := sampleMetrics(20)
	cfg := models.Config{Quantiles: 5, MaxClusters: 4, Seed: 42}
	r1, err := Run(context.Background(), metrics, cfg)
	require.NoError(t, err)
	r2, err := Run(context.Background(), metrics, cfg)
	require.NoError(t, err)
	assert.Equal(t, r1.Assignments, r2.Assignments)
	assert.Equal(t, r1.Diagnostics, r2.Diagnostics)
}

func TestRun_PropagatesScoringError(t *testing.T) {
	_, err := Run(context.Background(), sampleMetrics(3), models.Config{Quantiles: 5, SkipClustering: true})
	require.ErrorIs(t, err, models.ErrInsufficientData)
}
