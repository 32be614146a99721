package scoring

import "rfm-insight/pkg/models"

// Rule délimite un cube de scores [RMin..RMax]×[FMin..FMax]×[MMin..MMax] sur
// l'échelle 1..5 et le segment associé.
type Rule struct {
	Segment    models.Segment
	RMin, RMax int
	FMin, FMax int
	MMin, MMax int
}

// Matches indique si le triplet de scores tombe dans le cube de la règle.
func (ru Rule) Matches(r, f, m int) bool {
	return r >= ru.RMin && r <= ru.RMax &&
		f >= ru.FMin && f <= ru.FMax &&
		m >= ru.MMin && m <= ru.MMax
}

// Rules : table évaluée de haut en bas, première correspondance gagnante.
// L'ordre est porteur de sens : les cubes se recouvrent et la priorité tranche.
// La table suppose une échelle à 5 niveaux ; "Lost" sert d'attrape-tout.
var Rules = []Rule{
	{models.SegmentChampions, 4, 5, 4, 5, 4, 5},
	{models.SegmentLoyalCustomers, 3, 5, 3, 5, 3, 5},
	{models.SegmentPotentialLoyalist, 4, 5, 2, 5, 2, 5},
	{models.SegmentNewCustomers, 4, 5, 1, 2, 1, 2},
	{models.SegmentPromising, 3, 5, 3, 5, 1, 2},
	{models.SegmentNeedAttention, 2, 5, 2, 5, 2, 5},
	{models.SegmentAboutToSleep, 1, 2, 2, 5, 2, 5},
	{models.SegmentAtRisk, 1, 2, 3, 5, 3, 5},
	{models.SegmentCannotLoseThem, 1, 1, 4, 5, 4, 5},
	{models.SegmentHibernating, 1, 2, 1, 2, 2, 5},
}

// Classify applique la table de règles au triplet (RScore, FScore, MScore).
// Totale et déterministe : tout triplet de 1..5 aboutit à exactement un segment.
func Classify(r, f, m int) models.Segment {
	for _, ru := range Rules {
		if ru.Matches(r, f, m) {
			return ru.Segment
		}
	}
	return models.SegmentLost
}

// ClassifyAll applique la table à chaque métrique scorée, une fois par client.
func ClassifyAll(scored []models.ScoredMetric) []models.SegmentedMetric {
	out := make([]models.SegmentedMetric, len(scored))
	for i, s := range scored {
		out[i] = models.SegmentedMetric{
			ScoredMetric: s,
			Segment:      Classify(s.RScore, s.FScore, s.MScore),
		}
	}
	return out
}
