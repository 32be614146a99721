package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/schollz/progressbar/v3"

	"rfm-insight/pkg/cluster"
	"rfm-insight/pkg/models"
	"rfm-insight/pkg/scoring"
	"rfm-insight/pkg/summary"
)

// Results rassemble les sorties des deux voies d'analyse. Objets écrits une
// fois, jamais mutés ensuite.
type Results struct {
	Segmented        []models.SegmentedMetric
	Assignments      []models.ClusterAssignment
	Diagnostics      models.ClusteringDiagnostics
	SegmentSummaries []models.GroupSummary
	ClusterSummaries []models.GroupSummary
}

// Run enchaîne la voie scoring (quantiles → règles → résumé) puis la voie
// clustering (prétraitement → choix de K → ajustement → résumé). Les deux voies
// sont indépendantes et ne partagent aucun état ; seule la collecte des résumés
// consomme les deux.
func Run(ctx context.Context, metrics []models.CustomerMetric, cfg models.Config) (Results, error) {
	if cfg.Quantiles == 0 {
		cfg.Quantiles = 5
	}
	if cfg.MaxClusters == 0 {
		cfg.MaxClusters = 10
	}

	var res Results

	scored, err := scoring.Score(metrics, cfg.Quantiles)
	if err != nil {
		return Results{}, fmt.Errorf("score: %w", err)
	}
	res.Segmented = scoring.ClassifyAll(scored)
	res.SegmentSummaries = summary.BySegment(res.Segmented)
	if cfg.Verbose {
		log.Printf("[INFO] scores RFM calculés pour %d clients", len(scored))
		for _, s := range res.SegmentSummaries {
			log.Printf("[INFO] segment %s: %d clients (%.1f%%)", s.Key, s.Count, s.Percentage)
		}
	}

	if cfg.SkipClustering {
		return res, nil
	}

	opts := cluster.Options{
		MaxK:    cfg.MaxClusters,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	}
	if cfg.Clusters == 0 {
		bar := progressbar.Default(int64(cfg.MaxClusters - 1)) // candidats 2..MaxClusters
		opts.Progress = func(int) { _ = bar.Add(1) }
	}

	assignments, diag, err := cluster.Fit(ctx, metrics, cfg.Clusters, opts)
	if err != nil {
		return Results{}, fmt.Errorf("cluster: %w", err)
	}
	res.Assignments = assignments
	res.Diagnostics = diag
	res.ClusterSummaries = summary.ByCluster(assignments)
	if cfg.Verbose {
		log.Printf("[INFO] clustering terminé: K=%d silhouette=%.3f inertie=%.3f",
			diag.K, diag.Silhouette, diag.Inertia)
		for _, c := range res.ClusterSummaries {
			log.Printf("[INFO] cluster %s: %d clients (%.1f%%)", c.Key, c.Count, c.Percentage)
		}
	}
	return res, nil
}
