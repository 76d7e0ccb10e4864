package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported SQL drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLLog mirrors the translation log into a "translations" table
type SQLLog struct {
	db     *sql.DB
	driver string
}

// OpenSQLLog connects to the database and creates the table if needed
func OpenSQLLog(ctx context.Context, driver, dsn string) (*SQLLog, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported history driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if driver == DriverSQLite {
		// One writer keeps appends ordered.
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history database unreachable: %w", err)
	}

	l := &SQLLog{db: db, driver: driver}
	if err := l.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLLog) migrate(ctx context.Context) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if l.driver == DriverPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS translations (
	%s,
	created_at TEXT NOT NULL,
	source_text TEXT NOT NULL,
	translated_text TEXT NOT NULL,
	source_code TEXT NOT NULL,
	target_code TEXT NOT NULL
)`, idColumn)

	if _, err := l.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create translations table: %w", err)
	}
	return nil
}

// Append implements Sink
func (l *SQLLog) Append(ctx context.Context, r Record) error {
	query := l.rebind(`INSERT INTO translations
	(created_at, source_text, translated_text, source_code, target_code)
	VALUES (?, ?, ?, ?, ?)`)

	row := r.Row()
	if _, err := l.db.ExecContext(ctx, query, row[0], row[1], row[2], row[3], row[4]); err != nil {
		return fmt.Errorf("failed to insert translation: %w", err)
	}
	return nil
}

// List returns all records, oldest first
func (l *SQLLog) List(ctx context.Context) ([]Record, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT created_at, source_text, translated_text, source_code, target_code
	FROM translations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		row := make([]string, 5)
		if err := rows.Scan(&row[0], &row[1], &row[2], &row[3], &row[4]); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		rec, err := ParseRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the database connection
func (l *SQLLog) Close() error {
	return l.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres
func (l *SQLLog) rebind(query string) string {
	if l.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
