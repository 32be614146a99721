package models

import (
	"errors"
	"fmt"
)

// Erreurs terminales du cœur d'analyse : toute violation de précondition rejette
// le lot entier, sans résultat partiel. À tester avec errors.Is.
var (
	// ErrInsufficientData : moins d'enregistrements que de quantiles demandés, ou
	// moins de points distincts que de clusters à tester.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidInput : enregistrement violant le contrat d'entrée (récence
	// négative, fréquence nulle, montant négatif…).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateDistribution : une dimension dont toutes les valeurs sont égales
	// ne peut pas être découpée en quantiles distincts.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
)

// Validate vérifie les préconditions sur l'ensemble du lot avant tout calcul.
// Le filtrage des données sales relève des collaborateurs d'ingestion : ici un
// seul enregistrement invalide rejette le lot.
func Validate(metrics []CustomerMetric) error {
	for i, m := range metrics {
		switch {
		case m.CustomerID == "":
			return fmt.Errorf("record %d: empty CustomerID: %w", i, ErrInvalidInput)
		case m.Recency < 0:
			return fmt.Errorf("record %d (%s): negative Recency %d: %w", i, m.CustomerID, m.Recency, ErrInvalidInput)
		case m.Frequency < 1:
			return fmt.Errorf("record %d (%s): non-positive Frequency %d: %w", i, m.CustomerID, m.Frequency, ErrInvalidInput)
		case m.Monetary < 0:
			return fmt.Errorf("record %d (%s): negative Monetary %.2f: %w", i, m.CustomerID, m.Monetary, ErrInvalidInput)
		}
	}
	return nil
}
