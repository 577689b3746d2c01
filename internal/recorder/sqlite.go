package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the exchange audit trail to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exchanges (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			request_id   TEXT NOT NULL,
			period       TEXT,
			scope        TEXT,
			product_id   TEXT,
			file_name    TEXT,
			outcome      TEXT NOT NULL,
			error_text   TEXT,
			status_code  INTEGER,
			predictions  INTEGER,
			high_stock   INTEGER,
			duration_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_ts ON exchanges(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_request ON exchanges(request_id)`,

		`CREATE TABLE IF NOT EXISTS exports (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			request_id   TEXT,
			document_id  TEXT NOT NULL,
			format       TEXT,
			path         TEXT,
			predictions  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_ts ON exports(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordExchange(evt *ExchangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO exchanges
		(timestamp, request_id, period, scope, product_id, file_name,
		 outcome, error_text, status_code, predictions, high_stock, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RequestID, evt.Period, evt.Scope, evt.ProductID, evt.FileName,
		evt.Outcome, evt.ErrorText, evt.StatusCode, evt.Predictions, evt.HighStock,
		evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordExport(evt *ExportEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO exports
		(timestamp, request_id, document_id, format, path, predictions)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RequestID, evt.DocumentID, evt.Format, evt.Path, evt.Predictions,
	)
	return err
}

// CountExchanges returns the number of recorded exchanges with the given
// outcome, or all exchanges when outcome is empty.
func (r *SQLiteRecorder) CountExchanges(outcome string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	var err error
	if outcome == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM exchanges`).Scan(&n)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM exchanges WHERE outcome = ?`, outcome).Scan(&n)
	}
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
