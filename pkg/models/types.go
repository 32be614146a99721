package models

/*
LOAD → métriques par client produites par les collaborateurs d'ingestion (CSV ou base).
*/

// CustomerMetric résume l'historique transactionnel d'un client : jours depuis le
// dernier achat, nombre d'achats, montant total. Immuable une fois transmis au cœur.
type CustomerMetric struct {
	CustomerID string
	Recency    int     // jours depuis le dernier achat (≥ 0)
	Frequency  int     // nombre d'achats (≥ 1)
	Monetary   float64 // montant total dépensé (≥ 0)
}

/*
SCORE → résultats du scoring quantile et de la segmentation par règles.
*/

// ScoredMetric porte les scores ordinaux 1..N par dimension. Un score élevé est
// toujours favorable : le score de récence est inversé lors du calcul.
type ScoredMetric struct {
	CustomerMetric
	RScore  int
	FScore  int
	MScore  int
	RFMCode int // RScore·100 + FScore·10 + MScore
}

// Segment : l'une des 11 catégories fermées dérivées des scores RFM.
type Segment string

const (
	SegmentChampions         Segment = "Champions"
	SegmentLoyalCustomers    Segment = "Loyal Customers"
	SegmentPotentialLoyalist Segment = "Potential Loyalist"
	SegmentNewCustomers      Segment = "New Customers"
	SegmentPromising         Segment = "Promising"
	SegmentNeedAttention     Segment = "Need Attention"
	SegmentAboutToSleep      Segment = "About to Sleep"
	SegmentAtRisk            Segment = "At Risk"
	SegmentCannotLoseThem    Segment = "Cannot Lose Them"
	SegmentHibernating       Segment = "Hibernating"
	SegmentLost              Segment = "Lost"
)

// SegmentedMetric : métrique scorée avec son segment. Le segment est une fonction
// pure et déterministe du triplet (RScore, FScore, MScore).
type SegmentedMetric struct {
	ScoredMetric
	Segment Segment
}

/*
CLUSTER → résultats de la voie non supervisée (k-means).
*/

// ClusterAssignment : affectation d'un client à un cluster 0..K-1, indépendante
// de la segmentation par règles.
type ClusterAssignment struct {
	CustomerMetric
	Cluster int
}

// ClusteringDiagnostics décrit l'ajustement final. Les centres sont exprimés dans
// l'espace transformé (log1p + standardisation), pas en valeurs RFM brutes.
type ClusteringDiagnostics struct {
	K          int
	Silhouette float64
	Inertia    float64
	Centers    [][]float64
}

/*
SUMMARY → statistiques descriptives par groupe, recalculées à la demande.
*/

// GroupSummary : effectif, part du total et moyenne/écart-type des valeurs R/F/M
// brutes pour un segment ou un cluster.
type GroupSummary struct {
	Key           string
	Count         int
	Percentage    float64
	RecencyMean   float64
	RecencyStd    float64
	FrequencyMean float64
	FrequencyStd  float64
	MonetaryMean  float64
	MonetaryStd   float64
}

/*
CONFIG → paramètres globaux
*/

// Config contient les paramètres de configuration passés au pipeline d'analyse.
type Config struct {
	Quantiles      int   // nombre de quantiles pour le scoring (défaut 5)
	Clusters       int   // nombre de clusters ; 0 = choix automatique
	MaxClusters    int   // borne haute du balayage de K (défaut 10)
	Seed           int64 // graine des initialisations k-means
	Workers        int   // parallélisme du balayage de K
	SkipClustering bool  // désactive la voie clustering
	Verbose        bool  // Flag pour activer les logs détaillés.
}
