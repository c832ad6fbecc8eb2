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

// historyLockKey serializes history writers across processes.
const historyLockKey int64 = 0x726f757465

// PostgreSQL-backed implementation of the HistoryRepository port.
type SQLHistoryRepository struct {
	DB    *sql.DB
	Limit int
}

func NewSQLHistoryRepository(db *sql.DB, limit int) *SQLHistoryRepository {
	if limit <= 0 {
		limit = domain.HistoryLimit
	}
	return &SQLHistoryRepository{DB: db, Limit: limit}
}

func (s *SQLHistoryRepository) begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1);`, historyLockKey); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("acquire history lock: %w", err)
	}
	return tx, nil
}

// Append stores a calculation and trims the history to the newest Limit entries.
func (s *SQLHistoryRepository) Append(
	ctx context.Context,
	result domain.RouteResult,
	at time.Time,
) (_ *domain.HistoryEntry, err error) {
	defer obs.Time(ctx, "history.sql.Append")(&err)

	if s.DB == nil {
		return nil, errNilDB
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
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
	INSERT INTO route_history (id, driver, origin, created_at, payload)
	VALUES ($1, $2, $3, $4, $5::jsonb);
	`
	if _, err := tx.ExecContext(ctx, query, entry.ID, result.Driver, result.Origin, entry.Date, payload); err != nil {
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

func (s *SQLHistoryRepository) trim(ctx context.Context, tx *sql.Tx) error {
	query := `
	DELETE FROM route_history
	WHERE id NOT IN (
		SELECT id FROM route_history
		ORDER BY id DESC
		LIMIT $1
	);
	`
	if _, err := tx.ExecContext(ctx, query, s.Limit); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// Return every entry, newest first.
func (s *SQLHistoryRepository) List(ctx context.Context) (_ []*domain.HistoryEntry, err error) {
	defer obs.Time(ctx, "history.sql.List")(&err)

	if s.DB == nil {
		return nil, errNilDB
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, created_at, payload
	FROM route_history
	ORDER BY id DESC
	LIMIT $1;
	`, s.Limit)
	if err != nil {
		return nil, fmt.Errorf("list history: query route_history table: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.HistoryEntry, 0, 64)
	for rows.Next() {
		var id int64
		var createdAt time.Time
		var payload []byte
		if err := rows.Scan(&id, &createdAt, &payload); err != nil {
			return nil, fmt.Errorf("list history: scan row: %w", err)
		}

		e, err := decodePayload(id, createdAt, payload)
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

func (s *SQLHistoryRepository) Get(ctx context.Context, id int64) (_ *domain.HistoryEntry, err error) {
	defer obs.Time(ctx, "history.sql.Get")(&err)

	if s.DB == nil {
		return nil, errNilDB
	}

	var createdAt time.Time
	var payload []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT created_at, payload
	FROM route_history
	WHERE id = $1;
	`, id).Scan(&createdAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrHistoryEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history id=%d: %w", id, err)
	}

	return decodePayload(id, createdAt, payload)
}

func (s *SQLHistoryRepository) Delete(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "history.sql.Delete")(&err)

	if s.DB == nil {
		return errNilDB
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM route_history WHERE id = $1;`, id)
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

func (s *SQLHistoryRepository) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, "history.sql.Clear")(&err)

	if s.DB == nil {
		return errNilDB
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_history;`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Restore upserts entries keeping their ids, then trims to Limit.
func (s *SQLHistoryRepository) Restore(ctx context.Context, entries []*domain.HistoryEntry) (err error) {
	defer obs.Time(ctx, "history.sql.Restore")(&err)

	if s.DB == nil {
		return errNilDB
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("restore history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_history (id, driver, origin, created_at, payload)
	VALUES ($1, $2, $3, $4, $5::jsonb)
	ON CONFLICT (id) DO UPDATE
	SET driver = EXCLUDED.driver,
		origin = EXCLUDED.origin,
		created_at = EXCLUDED.created_at,
		payload = EXCLUDED.payload;
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
		if _, err := stmt.ExecContext(ctx, e.ID, e.Driver, e.Origin, e.Date, payload); err != nil {
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
