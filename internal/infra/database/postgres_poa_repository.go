package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"poa_tracker/internal/domain/poa"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrRecordNotFound = fmt.Errorf("power of attorney record not found")

type PostgresPOARepository struct {
	db *sql.DB
}

func NewPostgresPOARepository(db *sql.DB) *PostgresPOARepository {
	return &PostgresPOARepository{db: db}
}

func (r *PostgresPOARepository) Create(ctx context.Context, rec *poa.Record) error {
	query := `INSERT INTO powers (full_name, poa_type, start_date, end_date, notify_target, notification_sent)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		rec.FullName, rec.POAType, rec.StartDate, rec.EndDate, rec.NotifyTarget, rec.NotificationSent,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating power of attorney record: %w", err)
	}
	return nil
}

func (r *PostgresPOARepository) ListAll(ctx context.Context) ([]*poa.Record, error) {
	query := `SELECT id, full_name, poa_type, start_date, end_date, notify_target, notification_sent, created_at
               FROM powers ORDER BY end_date, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *PostgresPOARepository) ListActive(ctx context.Context, today time.Time) ([]*poa.Record, error) {
	query := `SELECT id, full_name, poa_type, start_date, end_date, notify_target, notification_sent, created_at
               FROM powers WHERE end_date >= $1 ORDER BY end_date, id`

	rows, err := r.db.QueryContext(ctx, query, poa.Midnight(today))
	if err != nil {
		return nil, fmt.Errorf("error listing active records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *PostgresPOARepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM powers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting record %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for delete of record %d: %w", id, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresPOARepository) MarkNotified(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE powers SET notification_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking record %d as notified: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for record %d: %w", id, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]*poa.Record, error) {
	records := make([]*poa.Record, 0)
	for rows.Next() {
		rec := &poa.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.FullName, &rec.POAType, &rec.StartDate, &rec.EndDate,
			&rec.NotifyTarget, &rec.NotificationSent, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}
