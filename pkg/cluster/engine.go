package cluster

import (
	"context"
	"fmt"
	"math"

	"rfm-insight/pkg/models"
)

// Preprocess prépare la matrice de traits : log(1+x) sur Frequency et Monetary
// pour compresser l'asymétrie à droite, puis standardisation des trois
// dimensions (moyenne 0, variance 1) avec les statistiques du jeu lui-même.
func Preprocess(metrics []models.CustomerMetric) [][]float64 {
	points := make([][]float64, len(metrics))
	for i, m := range metrics {
		points[i] = []float64{
			float64(m.Recency),
			math.Log1p(float64(m.Frequency)),
			math.Log1p(m.Monetary),
		}
	}
	standardize(points)
	return points
}

func standardize(points [][]float64) {
	if len(points) == 0 {
		return
	}
	n := float64(len(points))
	for d := 0; d < len(points[0]); d++ {
		var sum float64
		for _, p := range points {
			sum += p[d]
		}
		mean := sum / n
		var sq float64
		for _, p := range points {
			diff := p[d] - mean
			sq += diff * diff
		}
		// écart-type population, comme le scaler d'origine
		std := math.Sqrt(sq / n)
		if std == 0 {
			std = 1
		}
		for _, p := range points {
			p[d] = (p[d] - mean) / std
		}
	}
}

// Fit prétraite les métriques, choisit K via ChooseK si k vaut 0, ajuste le
// k-means final et retourne les affectations avec les diagnostics. Les centres
// rapportés vivent dans l'espace transformé.
func Fit(ctx context.Context, metrics []models.CustomerMetric, k int, opts Options) ([]models.ClusterAssignment, models.ClusteringDiagnostics, error) {
	opts = opts.withDefaults()
	if err := models.Validate(metrics); err != nil {
		return nil, models.ClusteringDiagnostics{}, err
	}
	if len(metrics) == 0 {
		return nil, models.ClusteringDiagnostics{}, fmt.Errorf("no records: %w", models.ErrInsufficientData)
	}

	points := Preprocess(metrics)

	switch {
	case k == 0:
		chosen, err := ChooseK(ctx, points, opts)
		if err != nil {
			return nil, models.ClusteringDiagnostics{}, err
		}
		k = chosen
	case k < 2:
		return nil, models.ClusteringDiagnostics{}, fmt.Errorf("k=%d: %w", k, models.ErrInvalidInput)
	default:
		if distinct := distinctPoints(points); distinct < k {
			return nil, models.ClusteringDiagnostics{}, fmt.Errorf("k=%d with only %d distinct points: %w", k, distinct, models.ErrInsufficientData)
		}
	}

	res := kMeans(points, k, opts.Seed, opts.Restarts)

	assignments := make([]models.ClusterAssignment, len(metrics))
	for i, m := range metrics {
		assignments[i] = models.ClusterAssignment{CustomerMetric: m, Cluster: res.labels[i]}
	}
	diag := models.ClusteringDiagnostics{
		K:          k,
		Silhouette: silhouetteScore(points, res.labels, k),
		Inertia:    res.inertia,
		Centers:    res.centers,
	}
	return assignments, diag, nil
}
