package bias

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"RTMonitor/internal/model"
)

// SQLiteProvider reads bias labels from a local sqlite database. The
// table is created on open so an empty database is a valid store.
type SQLiteProvider struct {
	path string
	db   *sql.DB
}

func NewSQLiteProvider(path string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open bias database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS bias (
		instrument TEXT PRIMARY KEY,
		bias       TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create bias table: %w", err)
	}
	return &SQLiteProvider{path: path, db: db}, nil
}

func (p *SQLiteProvider) Load() (map[string]model.Bias, error) {
	rows, err := p.db.Query(`SELECT instrument, bias FROM bias`)
	if err != nil {
		return nil, fmt.Errorf("query bias table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Bias)
	for rows.Next() {
		var instrument, label string
		if err := rows.Scan(&instrument, &label); err != nil {
			return nil, fmt.Errorf("scan bias row: %w", err)
		}
		b := model.ParseBias(label)
		if b == model.BiasUnlabeled && label != "" {
			log.Warn().Str("instrument", instrument).Str("label", label).Msg("unknown bias label ignored")
		}
		out[instrument] = b
	}
	return out, rows.Err()
}

// ModTime stats the database file and its WAL sidecar, whichever is
// newer, so external writes are noticed.
func (p *SQLiteProvider) ModTime() (time.Time, error) {
	var latest time.Time
	for _, path := range []string{p.path, p.path + "-wal"} {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest, nil
}

// Set upserts a bias label; mainly useful for tooling and tests.
func (p *SQLiteProvider) Set(instrument string, b model.Bias) error {
	_, err := p.db.Exec(
		`INSERT INTO bias (instrument, bias) VALUES (?, ?)
		 ON CONFLICT(instrument) DO UPDATE SET bias = excluded.bias`,
		instrument, string(b))
	if err != nil {
		return fmt.Errorf("upsert bias for %s: %w", instrument, err)
	}
	return nil
}

func (p *SQLiteProvider) Close() error { return p.db.Close() }
