package cluster

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/sync/errgroup"

	"rfm-insight/pkg/models"
)

// silhouetteAgreementTolerance : si le meilleur K au sens de la silhouette est à
// au plus cette distance du K du coude, la silhouette l'emporte (confirmée par
// le coude) ; sinon le K du coude, plus robuste aux estimations bruitées, est
// retenu. Changer cette constante change les résultats près des coudes ambigus.
const silhouetteAgreementTolerance = 1

// Options paramètre le balayage de K et les ajustements k-means.
type Options struct {
	MinK     int         // borne basse des K candidats (défaut 2)
	MaxK     int         // borne haute des K candidats (défaut 10)
	Seed     int64       // graine des initialisations k-means
	Restarts int         // redémarrages par candidat (défaut 10)
	Workers  int         // candidats évalués en parallèle (défaut 1)
	Progress func(k int) // appelé après chaque candidat évalué (peut l'être en parallèle)
}

func (o Options) withDefaults() Options {
	if o.MinK < 2 {
		o.MinK = 2
	}
	if o.MaxK == 0 {
		o.MaxK = 10
	}
	if o.Restarts < 1 {
		o.Restarts = defaultRestarts
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

type candidate struct {
	k          int
	inertia    float64
	silhouette float64
}

// ChooseK balaye les K candidats de [MinK, MaxK], ajuste un k-means par candidat
// et retient le K combinant compacité (coude de la courbe d'inertie) et
// séparation (silhouette maximale). Chaque candidat est indépendant : le
// balayage est parallélisé, la fusion se fait par argmax déterministe sur les
// tuples (K, inertie, silhouette) collectés.
func ChooseK(ctx context.Context, points [][]float64, opts Options) (int, error) {
	opts = opts.withDefaults()
	if opts.MaxK < opts.MinK {
		return 0, fmt.Errorf("max_k=%d < min_k=%d: %w", opts.MaxK, opts.MinK, models.ErrInvalidInput)
	}
	if distinct := distinctPoints(points); distinct <= opts.MaxK {
		return 0, fmt.Errorf("max_k=%d with only %d distinct points: %w", opts.MaxK, distinct, models.ErrInsufficientData)
	}

	candidates := make([]candidate, opts.MaxK-opts.MinK+1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for k := opts.MinK; k <= opts.MaxK; k++ {
		k := k
		g.Go(func() error {
			// annulation coopérative entre candidats
			if err := ctx.Err(); err != nil {
				return err
			}
			res := kMeans(points, k, opts.Seed, opts.Restarts)
			candidates[k-opts.MinK] = candidate{
				k:          k,
				inertia:    res.inertia,
				silhouette: silhouetteScore(points, res.labels, k),
			}
			if opts.Progress != nil {
				opts.Progress(k)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	elbowK := candidates[elbowIndex(candidates)].k
	bestSil := 0
	for i, c := range candidates {
		if c.silhouette > candidates[bestSil].silhouette {
			bestSil = i
		}
	}
	silK := candidates[bestSil].k

	if abs(silK-elbowK) <= silhouetteAgreementTolerance {
		return silK, nil
	}
	return elbowK, nil
}

// elbowIndex : indice maximisant la différence seconde de la suite des inerties,
// là où la courbure est la plus forte. Moins de trois candidats → premier indice.
func elbowIndex(cands []candidate) int {
	if len(cands) < 3 {
		return 0
	}
	best, bestVal := 0, math.Inf(-1)
	for i := 0; i+2 < len(cands); i++ {
		d2 := cands[i+2].inertia - 2*cands[i+1].inertia + cands[i].inertia
		if d2 > bestVal {
			best, bestVal = i, d2
		}
	}
	return best
}

func distinctPoints(points [][]float64) int {
	seen := make(map[string]struct{}, len(points))
	for _, p := range points {
		key := make([]byte, 0, len(p)*16)
		for _, v := range p {
			key = strconv.AppendFloat(key, v, 'g', -1, 64)
			key = append(key, ';')
		}
		seen[string(key)] = struct{}{}
	}
	return len(seen)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
