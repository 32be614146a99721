package scoring

import (
	"fmt"
	"sort"

	"rfm-insight/pkg/models"
)

// Score calcule les scores R/F/M par binning équi-fréquence sur les rangs.
// Chaque dimension est classée indépendamment, les égalités étant départagées par
// l'ordre d'entrée, puis les rangs sont découpés en nQuantiles seaux contigus de
// tailles aussi égales que possible. Le score de récence est inversé
// (nQuantiles+1-seau) : un score élevé signifie toujours « plus favorable ».
// Une dimension dont toutes les valeurs sont égales est rejetée avec
// ErrDegenerateDistribution plutôt que scorée par ordre d'arrivée.
// Fonction pure, sans effet de bord.
func Score(metrics []models.CustomerMetric, nQuantiles int) ([]models.ScoredMetric, error) {
	if nQuantiles < 2 {
		return nil, fmt.Errorf("n_quantiles=%d: %w", nQuantiles, models.ErrInvalidInput)
	}
	if err := models.Validate(metrics); err != nil {
		return nil, err
	}
	if len(metrics) < nQuantiles {
		return nil, fmt.Errorf("%d records for %d quantiles: %w", len(metrics), nQuantiles, models.ErrInsufficientData)
	}

	recency := make([]float64, len(metrics))
	frequency := make([]float64, len(metrics))
	monetary := make([]float64, len(metrics))
	for i, m := range metrics {
		recency[i] = float64(m.Recency)
		frequency[i] = float64(m.Frequency)
		monetary[i] = m.Monetary
	}

	rBuckets, err := quantileBuckets(recency, nQuantiles, "Recency")
	if err != nil {
		return nil, err
	}
	fBuckets, err := quantileBuckets(frequency, nQuantiles, "Frequency")
	if err != nil {
		return nil, err
	}
	mBuckets, err := quantileBuckets(monetary, nQuantiles, "Monetary")
	if err != nil {
		return nil, err
	}

	scored := make([]models.ScoredMetric, len(metrics))
	for i, m := range metrics {
		r := nQuantiles + 1 - rBuckets[i] // récence : plus récent = score plus haut
		f := fBuckets[i]
		mo := mBuckets[i]
		scored[i] = models.ScoredMetric{
			CustomerMetric: m,
			RScore:         r,
			FScore:         f,
			MScore:         mo,
			RFMCode:        r*100 + f*10 + mo,
		}
	}
	return scored, nil
}

// quantileBuckets affecte chaque valeur à un seau 1..n selon son rang croissant,
// chaque valeur recevant un rang unique (tri stable, égalités par ordre d'entrée).
func quantileBuckets(values []float64, n int, dimension string) ([]int, error) {
	distinct := make(map[float64]struct{}, len(values))
	for _, v := range values {
		distinct[v] = struct{}{}
		if len(distinct) > 1 {
			break
		}
	}
	if len(distinct) < 2 {
		return nil, fmt.Errorf("%s: all %d values identical: %w", dimension, len(values), models.ErrDegenerateDistribution)
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	buckets := make([]int, len(values))
	for rank, idx := range order {
		buckets[idx] = rank*n/len(values) + 1
	}
	return buckets, nil
}
