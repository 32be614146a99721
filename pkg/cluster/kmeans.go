package cluster

import (
	"math"
	"math/rand"
)

const (
	// maxIterations borne chaque exécution de Lloyd.
	maxIterations = 300
	// defaultRestarts : nombre de redémarrages aléatoires par ajustement.
	defaultRestarts = 10
)

type fitResult struct {
	labels  []int
	centers [][]float64
	inertia float64
}

// kMeans : algorithme de Lloyd avec initialisation k-means++ et plusieurs
// redémarrages ; l'exécution d'inertie minimale est conservée. Chaque
// redémarrage dérive sa graine de la graine de base : même graine, mêmes labels.
func kMeans(points [][]float64, k int, seed int64, restarts int) fitResult {
	if restarts < 1 {
		restarts = 1
	}
	best := fitResult{inertia: math.Inf(1)}
	for run := 0; run < restarts; run++ {
		rng := rand.New(rand.NewSource(seed + int64(run)))
		res := lloyd(points, k, rng)
		if res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

func lloyd(points [][]float64, k int, rng *rand.Rand) fitResult {
	centers := seedCenters(points, k, rng)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			if c := nearest(p, centers); c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		updateCenters(points, labels, centers)
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[labels[i]])
	}
	return fitResult{labels: labels, centers: centers, inertia: inertia}
}

// seedCenters : k-means++. Premier centre uniforme, les suivants tirés avec une
// probabilité proportionnelle au carré de la distance au centre le plus proche.
func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clonePoint(points[rng.Intn(len(points))]))

	dist2 := make([]float64, len(points))
	for i, p := range points {
		dist2[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		var total float64
		for _, d := range dist2 {
			total += d
		}
		next := len(points) - 1
		if total == 0 {
			next = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			for i, d := range dist2 {
				target -= d
				if target <= 0 {
					next = i
					break
				}
			}
		}
		centers = append(centers, clonePoint(points[next]))
		for i, p := range points {
			if d := sqDist(p, centers[len(centers)-1]); d < dist2[i] {
				dist2[i] = d
			}
		}
	}
	return centers
}

func updateCenters(points [][]float64, labels []int, centers [][]float64) {
	dim := len(points[0])
	counts := make([]int, len(centers))
	sums := make([][]float64, len(centers))
	for j := range sums {
		sums[j] = make([]float64, dim)
	}
	for i, p := range points {
		counts[labels[i]]++
		for d, v := range p {
			sums[labels[i]][d] += v
		}
	}
	for j := range centers {
		if counts[j] == 0 {
			// cluster vidé : recentré sur le point le plus éloigné de son centre
			centers[j] = clonePoint(points[farthestPoint(points, labels, centers)])
			continue
		}
		for d := 0; d < dim; d++ {
			centers[j][d] = sums[j][d] / float64(counts[j])
		}
	}
}

func farthestPoint(points [][]float64, labels []int, centers [][]float64) int {
	best, bestDist := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, centers[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func nearest(p []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centers {
		if d := sqDist(p, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for d := range a {
		diff := a[d] - b[d]
		s += diff * diff
	}
	return s
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}

// silhouetteScore : coefficient de silhouette moyen sur tous les points,
// s(i) = (b(i)-a(i)) / max(a(i), b(i)). Les points d'un cluster singleton
// comptent pour 0.
func silhouetteScore(points [][]float64, labels []int, k int) float64 {
	n := len(points)
	if n == 0 || k < 2 {
		return 0
	}
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	var total float64
	sums := make([]float64, k)
	for i := range points {
		for j := range sums {
			sums[j] = 0
		}
		for j := range points {
			if j == i {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(points[i], points[j]))
		}

		own := labels[i]
		if counts[own] <= 1 {
			continue
		}
		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for j := range sums {
			if j == own || counts[j] == 0 {
				continue
			}
			if v := sums[j] / float64(counts[j]); v < b {
				b = v
			}
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}
