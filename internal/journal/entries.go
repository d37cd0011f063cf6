package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloudproxy/internal/outcome"
)

// Entry is one finished cycle.
type Entry struct {
	ID            int64
	CorrelationID string
	Outcome       outcome.Outcome
	FinalState    string
	InputPath     string
	OutputPath    string
	StartedAt     time.Time
	FinishedAt    time.Time
	Duration      time.Duration
	ErrorMessage  string
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = `id, correlation_id, outcome, final_state, input_path, output_path,
    started_at, finished_at, duration_ms, error_message`

// Record inserts a finished cycle and assigns its ID.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if strings.TrimSpace(entry.CorrelationID) == "" {
		return errors.New("entry requires correlation id")
	}
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now().UTC()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = entry.FinishedAt
	}
	if entry.Duration == 0 {
		entry.Duration = entry.FinishedAt.Sub(entry.StartedAt)
	}

	res, err := s.execWithRetry(ctx,
		`INSERT INTO cycles (
            correlation_id, outcome, final_state, input_path, output_path,
            started_at, finished_at, duration_ms, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.CorrelationID,
		int(entry.Outcome),
		entry.FinalState,
		nullableString(entry.InputPath),
		nullableString(entry.OutputPath),
		entry.StartedAt.UTC().Format(timeLayout),
		entry.FinishedAt.UTC().Format(timeLayout),
		entry.Duration.Milliseconds(),
		nullableString(entry.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+entryColumns+` FROM cycles ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent cycles: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ByCorrelationID returns every entry recorded for id, oldest first.
func (s *Store) ByCorrelationID(ctx context.Context, id string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+entryColumns+` FROM cycles WHERE correlation_id = ? ORDER BY id`, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("query cycles by correlation id: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Stats counts entries per outcome.
func (s *Store) Stats(ctx context.Context) (map[outcome.Outcome]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT outcome, COUNT(1) FROM cycles GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("query cycle stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[outcome.Outcome]int)
	for rows.Next() {
		var code, count int
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("scan cycle stats: %w", err)
		}
		stats[outcome.Outcome(code)] = count
	}
	return stats, rows.Err()
}

// Prune deletes entries that finished more than retention ago. A
// non-positive retention keeps everything.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-retention).Format(timeLayout)
	res, err := s.execWithRetry(ctx, `DELETE FROM cycles WHERE finished_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cycles: %w", err)
	}
	return res.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return entries, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry                 Entry
		code                  int
		inputPath, outputPath sql.NullString
		started, finished     string
		durationMS            int64
		errorMessage          sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.CorrelationID,
		&code,
		&entry.FinalState,
		&inputPath,
		&outputPath,
		&started,
		&finished,
		&durationMS,
		&errorMessage,
	); err != nil {
		return nil, fmt.Errorf("scan cycle: %w", err)
	}
	entry.Outcome = outcome.Outcome(code)
	entry.InputPath = inputPath.String
	entry.OutputPath = outputPath.String
	entry.ErrorMessage = errorMessage.String
	entry.Duration = time.Duration(durationMS) * time.Millisecond

	var err error
	if entry.StartedAt, err = parseTimeString(started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if entry.FinishedAt, err = parseTimeString(finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	return &entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
