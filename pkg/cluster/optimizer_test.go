package cluster

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfm-insight/pkg/models"
)

func TestChooseK_TwoBlobsPicksTwo(t *testing.T) {
	pts := twoBlobs(15)
	k, err := ChooseK(context.Background(), pts, Options{MaxK: 10, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, 2, k)
}

func TestChooseK_ParallelSweepSameResult(t *testing.T) {
	pts := twoBlobs(15)
	serial, err := ChooseK(context.Background(), pts, Options{MaxK: 10, Seed: 42, Workers: 1})
	require.NoError(t, err)
	parallel, err := ChooseK(context.Background(), pts, Options{MaxK: 10, Seed: 42, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestChooseK_WithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pts := make([][]float64, 40)
	for i := range pts {
		pts[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}
	k, err := ChooseK(context.Background(), pts, Options{MinK: 2, MaxK: 5, Seed: 42})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, k, 2)
	assert.LessOrEqual(t, k, 5)
}

func TestChooseK_InsufficientDistinctPoints(t *testing.T) {
	pts := make([][]float64, 0, 18)
	for i := 0; i < 6; i++ {
		pts = append(pts,
			[]float64{0, 0, 0},
			[]float64{1, 1, 1},
			[]float64{2, 2, 2},
		)
	}
	_, err := ChooseK(context.Background(), pts, Options{MaxK: 10})
	require.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestChooseK_InvalidBounds(t *testing.T) {
	_, err := ChooseK(context.Background(), twoBlobs(15), Options{MinK: 5, MaxK: 3})
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestChooseK_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ChooseK(ctx, twoBlobs(15), Options{MaxK: 10, Seed: 42})
	require.Error(t, err)
}

func TestChooseK_ProgressCalledPerCandidate(t *testing.T) {
	var calls atomic.Int64
	_, err := ChooseK(context.Background(), twoBlobs(15), Options{
		MaxK:     6,
		Seed:     42,
		Progress: func(int) { calls.Add(1) },
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), calls.Load()) // candidates 2..6
}

func TestElbowIndex(t *testing.T) {
	cands := []candidate{
		{k: 2, inertia: 100},
		{k: 3, inertia: 40},
		{k: 4, inertia: 35},
		{k: 5, inertia: 33},
	}
	// steepest curvature right after the big drop
	assert.Equal(t, 0, elbowIndex(cands))
	assert.Equal(t, 0, elbowIndex(cands[:2]))
}
