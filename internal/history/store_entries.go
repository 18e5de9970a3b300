package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const entryColumns = "id, request_id, source_path, output_path, format, status, message, created_at, updated_at"

// Begin records a started request.
func (s *Store) Begin(ctx context.Context, requestID, sourcePath string) (*Entry, error) {
	if strings.TrimSpace(requestID) == "" {
		return nil, errors.New("request id is required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO conversions (request_id, source_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		requestID,
		sourcePath,
		StatusStarted,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversion: %w", err)
	}
	return s.Get(ctx, requestID)
}

// Complete marks a started request as completed.
func (s *Store) Complete(ctx context.Context, requestID, outputPath, format string) error {
	return s.finish(ctx, requestID, StatusCompleted, outputPath, format, "")
}

// Fail marks a started request with a terminal failure status.
func (s *Store) Fail(ctx context.Context, requestID string, status Status, message string) error {
	if status != StatusFailed && status != StatusRejected {
		return fmt.Errorf("fail: status %q is not a failure status", status)
	}
	return s.finish(ctx, requestID, status, "", "", message)
}

func (s *Store) finish(ctx context.Context, requestID string, status Status, outputPath, format, message string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE conversions
         SET status = ?, output_path = ?, format = ?, message = ?, updated_at = ?
         WHERE request_id = ? AND status = ?`,
		status,
		nullableString(outputPath),
		nullableString(format),
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		requestID,
		StatusStarted,
	)
	if err != nil {
		return fmt.Errorf("update conversion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: no started request %q", ErrNotFound, requestID)
	}
	return nil
}

// Get fetches an entry by request ID.
func (s *Store) Get(ctx context.Context, requestID string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+entryColumns+` FROM conversions WHERE request_id = ?`, requestID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	return entry, nil
}

// List returns the newest entries first, optionally filtered by status.
// A limit of zero or less returns every entry.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM conversions`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes finished entries and returns how many were deleted. Started
// entries belong to in-flight requests and are kept.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM conversions WHERE status != ?`, StatusStarted)
	if err != nil {
		return 0, fmt.Errorf("clear conversions: %w", err)
	}
	return res.RowsAffected()
}

// AbandonStarted marks requests left in the started state by a previous
// process as failed.
func (s *Store) AbandonStarted(ctx context.Context, reason string) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE conversions SET status = ?, message = ?, updated_at = ? WHERE status = ?`,
		StatusFailed,
		reason,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusStarted,
	)
	if err != nil {
		return 0, fmt.Errorf("abandon started conversions: %w", err)
	}
	return res.RowsAffected()
}

// Health aggregates entry counts by status.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM conversions GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	var health HealthSummary
	for rows.Next() {
		var (
			status Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, err
		}
		health.Total += count
		switch status {
		case StatusStarted:
			health.Started += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		case StatusRejected:
			health.Rejected += count
		}
	}
	return health, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry      Entry
		statusStr  string
		outputPath sql.NullString
		format     sql.NullString
		message    sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.SourcePath,
		&outputPath,
		&format,
		&statusStr,
		&message,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	entry.Status = Status(statusStr)
	entry.OutputPath = outputPath.String
	entry.Format = format.String
	entry.Message = message.String
	entry.CreatedAt = parseTimestamp(createdRaw)
	entry.UpdatedAt = parseTimestamp(updatedRaw)
	return &entry, nil
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
