package poa

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving power of
// attorney records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	// ListAll returns every record ordered by end date ascending
	// (soonest-expiring first), ties broken by insertion order.
	ListAll(ctx context.Context) ([]*Record, error)
	// ListActive returns records whose end date is today or later, same
	// ordering as ListAll. Used by the expiry scan.
	ListActive(ctx context.Context, today time.Time) ([]*Record, error)
	Delete(ctx context.Context, id int64) error
	// MarkNotified flips notification_sent to true. Idempotent.
	MarkNotified(ctx context.Context, id int64) error
}
