package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/platform/obs"
	"time"
)

// SQLite-backed implementation of the HistoryRepository port.
// The table never holds more than Limit rows.
type SqliteHistoryRepository struct {
	DB    *sql.DB
	Limit int
}

func NewSqliteHistoryRepository(db *sql.DB, limit int) *SqliteHistoryRepository {
	if limit <= 0 {
		limit = domain.HistoryLimit
	}
	return &SqliteHistoryRepository{DB: db, Limit: limit}
}

// Append stores a calculation and trims the history to the newest Limit entries.
func (s *SqliteHistoryRepository) Append(
	ctx context.Context,
	result domain.RouteResult,
	at time.Time,
) (_ *domain.HistoryEntry, err error) {
	defer obs.Time(ctx, "history.sqlite.Append")(&err)

	if s.DB == nil {
		return nil, errNilDB
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("append history: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var maxID int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM route_history;`).Scan(&maxID); err != nil {
		return nil, fmt.Errorf("append history: read max id: %w", err)
	}

	entry := &domain.HistoryEntry{
		RouteResult: result,
		ID:          nextHistoryID(at, maxID),
		Date:        time.UnixMilli(at.UnixMilli()),
	}

	payload, err := encodePayload(entry)
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	query := `
	INSERT INTO route_history (
		id,
		driver,
		origin,
		created_at,
		payload
	)
	VALUES (?, ?, ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, query, entry.ID, result.Driver, result.Origin, entry.Date.UnixMilli(), payload); err != nil {
		return nil, fmt.Errorf("append history: insert id=%d: %w", entry.ID, err)
	}

	if err := s.trim(ctx, tx); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("append history: commit tx: %w", err)
	}

	return entry, nil
}

func (s *SqliteHistoryRepository) trim(ctx context.Context, tx *sql.Tx) error {
	query := `
	DELETE FROM route_history
	WHERE id NOT IN (
		SELECT id FROM route_history
		ORDER BY id DESC
		LIMIT ?
	);
	`
	if _, err := tx.ExecContext(ctx, query, s.Limit); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// Return every entry, newest first.
func (s *SqliteHistoryRepository) List(ctx context.Context) (_ []*domain.HistoryEntry, err error) {
	defer obs.Time(ctx, "history.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errNilDB
	}

	query := `
	SELECT
		id,
		created_at,
		payload
	FROM route_history
	ORDER BY id DESC
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("list history: query route_history table: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.HistoryEntry, 0, 64)
	for rows.Next() {
		var id, createdAt int64
		var payload string
		if err := rows.Scan(&id, &createdAt, &payload); err != nil {
			return nil, fmt.Errorf("list history: scan row: %w", err)
		}

		e, err := decodePayload(id, time.UnixMilli(createdAt), []byte(payload))
		if err != nil {
			return nil, fmt.Errorf("list history: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: row iteration: %w", err)
	}

	return entries, nil
}

func (s *SqliteHistoryRepository) Get(ctx context.Context, id int64) (_ *domain.HistoryEntry, err error) {
	defer obs.Time(ctx, "history.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, errNilDB
	}

	var createdAt int64
	var payload string
	err = s.DB.QueryRowContext(ctx, `
	SELECT created_at, payload
	FROM route_history
	WHERE id = ?;
	`, id).Scan(&createdAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrHistoryEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history id=%d: %w", id, err)
	}

	return decodePayload(id, time.UnixMilli(createdAt), []byte(payload))
}

func (s *SqliteHistoryRepository) Delete(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "history.sqlite.Delete")(&err)

	if s.DB == nil {
		return errNilDB
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_history WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete history id=%d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history id=%d: rows affected: %w", id, err)
	}
	if n == 0 {
		return domain.ErrHistoryEntryNotFound
	}

	return nil
}

func (s *SqliteHistoryRepository) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, "history.sqlite.Clear")(&err)

	if s.DB == nil {
		return errNilDB
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_history;`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Restore upserts entries keeping their ids, then trims to Limit.
func (s *SqliteHistoryRepository) Restore(ctx context.Context, entries []*domain.HistoryEntry) (err error) {
	defer obs.Time(ctx, "history.sqlite.Restore")(&err)

	if s.DB == nil {
		return errNilDB
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("restore history: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO route_history (
		id,
		driver,
		origin,
		created_at,
		payload
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("restore history: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		payload, err := encodePayload(e)
		if err != nil {
			return fmt.Errorf("restore history: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Driver, e.Origin, e.Date.UnixMilli(), payload); err != nil {
			return fmt.Errorf("restore history: insert id=%d: %w", e.ID, err)
		}
	}

	if err := s.trim(ctx, tx); err != nil {
		return fmt.Errorf("restore history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("restore history: commit tx: %w", err)
	}

	return nil
}

// nextHistoryID uses the creation time in milliseconds, bumped past the
// current maximum so ids stay unique and increasing.
func nextHistoryID(at time.Time, maxID int64) int64 {
	return max(at.UnixMilli(), maxID+1)
}
