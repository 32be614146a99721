package database

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"rfm-insight/pkg/models"
)

// Transaction : ligne de transaction brute issue du fichier CSV.
type Transaction struct {
	CustomerID  string
	InvoiceDate time.Time
	Amount      float64
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	time.RFC3339,
}

// ReadTransactionsCSV lit et nettoie un fichier de transactions. Les colonnes
// CustomerID, InvoiceDate et Amount sont repérées par l'en-tête. Le nettoyage
// relève de l'ingestion : les lignes illisibles ou à montant négatif sont
// écartées et comptées, les doublons exacts supprimés.
func ReadTransactionsCSV(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"CustomerID", "InvoiceDate", "Amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("colonne manquante: %s", required)
		}
	}
	idxCustomer := cols["CustomerID"]
	idxDate := cols["InvoiceDate"]
	idxAmount := cols["Amount"]
	maxIdx := idxCustomer
	if idxDate > maxIdx {
		maxIdx = idxDate
	}
	if idxAmount > maxIdx {
		maxIdx = idxAmount
	}

	var (
		out        []Transaction
		dropped    int
		duplicates int
		seen       = make(map[string]struct{})
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) <= maxIdx {
			dropped++
			continue
		}
		id := strings.TrimSpace(rec[idxCustomer])
		date, derr := parseDate(rec[idxDate])
		amount, aerr := strconv.ParseFloat(strings.TrimSpace(rec[idxAmount]), 64)
		if id == "" || derr != nil || aerr != nil || amount < 0 {
			dropped++
			continue
		}
		key := id + "|" + date.Format(time.RFC3339) + "|" + strconv.FormatFloat(amount, 'g', -1, 64)
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Transaction{CustomerID: id, InvoiceDate: date, Amount: amount})
	}
	if dropped > 0 {
		log.Printf("[INFO] %d lignes invalides écartées", dropped)
	}
	if duplicates > 0 {
		log.Printf("[INFO] %d doublons supprimés", duplicates)
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date illisible: %q", s)
}

// BuildCustomerMetrics agrège les transactions nettoyées en une métrique par
// client : dernier achat → Recency, nombre de lignes → Frequency, somme des
// montants → Monetary. Une date d'analyse nulle vaut lendemain de la dernière
// transaction du jeu. L'ordre de première apparition est conservé.
func BuildCustomerMetrics(txs []Transaction, analysisDate time.Time) []models.CustomerMetric {
	if len(txs) == 0 {
		return nil
	}
	if analysisDate.IsZero() {
		latest := txs[0].InvoiceDate
		for _, tx := range txs[1:] {
			if tx.InvoiceDate.After(latest) {
				latest = tx.InvoiceDate
			}
		}
		analysisDate = latest.AddDate(0, 0, 1)
	}

	type agg struct {
		last     time.Time
		count    int
		monetary float64
	}
	byCustomer := make(map[string]*agg)
	var order []string
	for _, tx := range txs {
		a, ok := byCustomer[tx.CustomerID]
		if !ok {
			a = &agg{}
			byCustomer[tx.CustomerID] = a
			order = append(order, tx.CustomerID)
		}
		if tx.InvoiceDate.After(a.last) {
			a.last = tx.InvoiceDate
		}
		a.count++
		a.monetary += tx.Amount
	}

	out := make([]models.CustomerMetric, 0, len(order))
	for _, id := range order {
		a := byCustomer[id]
		out = append(out, models.CustomerMetric{
			CustomerID: id,
			Recency:    recencyDays(a.last, analysisDate),
			Frequency:  a.count,
			Monetary:   a.monetary,
		})
	}
	return out
}
