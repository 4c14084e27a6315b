package order

import (
	"context"
	"time"

	"elitestore-api/internal/domain"
)

// StatusUpdate carries the extra fields written alongside a status change.
type StatusUpdate struct {
	CancelledAt    *time.Time
	TrackingNumber *string
}

// Repository is the order store. UpdateStatus is conditional on the current
// status so concurrent transitions cannot silently overwrite each other.
type Repository interface {
	Insert(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, extra StatusUpdate) (*domain.Order, error)
}
