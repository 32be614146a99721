package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"rfm-insight/pkg/models"

	_ "github.com/go-sql-driver/mysql"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Open DSN mariadb:// ou mysql:// → format MySQL driver
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("dsn incomplet (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// LoadCustomerMetrics agrège la table d'événements de transaction en une métrique
// par client : MAX(EventDate) → Recency (jours avant la date d'observation),
// COUNT(*) → Frequency, SUM(Amount) → Monetary. Seuls les événements antérieurs à
// l'observation sont lus.
func LoadCustomerMetrics(ctx context.Context, db *sql.DB, tableName string, observation time.Time) ([]models.CustomerMetric, error) {
	if !tableNameRe.MatchString(tableName) {
		return nil, fmt.Errorf("table invalide: %q", tableName)
	}

	// Always work in UTC and format as MySQL DATETIME strings
	const layout = "2006-01-02 15:04:05"
	obs := observation.UTC()

	q := fmt.Sprintf(`
		SELECT
			ced.CustomerID,
			MAX(ced.EventDate)           AS last_purchase,
			COUNT(*)                     AS frequency,
			COALESCE(SUM(ced.Amount), 0) AS monetary
		FROM %s ced
		WHERE ced.EventDate < ?
		GROUP BY ced.CustomerID
	`, tableName)

	rows, err := db.QueryContext(ctx, q, obs.Format(layout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CustomerMetric
	for rows.Next() {
		var (
			customerID string
			last       time.Time
			frequency  int
			monetary   float64
		)
		if err := rows.Scan(&customerID, &last, &frequency, &monetary); err != nil {
			return nil, err
		}
		out = append(out, models.CustomerMetric{
			CustomerID: customerID,
			Recency:    recencyDays(last, obs),
			Frequency:  frequency,
			Monetary:   monetary,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// recencyDays : jours entiers entre le dernier achat et l'observation, borné à 0.
func recencyDays(last, observation time.Time) int {
	d := int(observation.Sub(last).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return d
}
