package summary

import (
	"math"
	"sort"
	"strconv"

	"rfm-insight/pkg/models"
)

// BySegment regroupe les métriques segmentées et calcule les statistiques
// descriptives par segment, triées par effectif décroissant puis par nom.
// Lecture seule : l'entrée n'est jamais modifiée.
func BySegment(records []models.SegmentedMetric) []models.GroupSummary {
	groups := make(map[string][]models.CustomerMetric)
	for _, r := range records {
		groups[string(r.Segment)] = append(groups[string(r.Segment)], r.CustomerMetric)
	}
	out := build(groups, len(records))
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Key < out[b].Key
	})
	return out
}

// ByCluster regroupe les affectations par numéro de cluster, trié croissant.
func ByCluster(assignments []models.ClusterAssignment) []models.GroupSummary {
	groups := make(map[string][]models.CustomerMetric)
	for _, a := range assignments {
		key := strconv.Itoa(a.Cluster)
		groups[key] = append(groups[key], a.CustomerMetric)
	}
	out := build(groups, len(assignments))
	sort.Slice(out, func(a, b int) bool {
		ai, _ := strconv.Atoi(out[a].Key)
		bi, _ := strconv.Atoi(out[b].Key)
		return ai < bi
	})
	return out
}

func build(groups map[string][]models.CustomerMetric, total int) []models.GroupSummary {
	out := make([]models.GroupSummary, 0, len(groups))
	for key, members := range groups {
		recency := make([]float64, len(members))
		frequency := make([]float64, len(members))
		monetary := make([]float64, len(members))
		for i, m := range members {
			recency[i] = float64(m.Recency)
			frequency[i] = float64(m.Frequency)
			monetary[i] = m.Monetary
		}
		rMean, rStd := meanStd(recency)
		fMean, fStd := meanStd(frequency)
		mMean, mStd := meanStd(monetary)
		out = append(out, models.GroupSummary{
			Key:           key,
			Count:         len(members),
			Percentage:    round(float64(len(members))/float64(total)*100, 1),
			RecencyMean:   round(rMean, 2),
			RecencyStd:    round(rStd, 2),
			FrequencyMean: round(fMean, 2),
			FrequencyStd:  round(fStd, 2),
			MonetaryMean:  round(mMean, 2),
			MonetaryStd:   round(mStd, 2),
		})
	}
	return out
}

// meanStd : moyenne et écart-type d'échantillon (ddof=1) ; 0 en dessous de deux valeurs.
func meanStd(values []float64) (mean, std float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)
	if n < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		diff := v - mean
		sq += diff * diff
	}
	return mean, math.Sqrt(sq / float64(n-1))
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
