package deposit

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d *Deposit) error
	GetByDepositID(ctx context.Context, depositID string) (*Deposit, error)
	GetByDepositIDForUpdate(ctx context.Context, depositID string) (*Deposit, error)
	Save(ctx context.Context, d *Deposit) error

	// ListByUser returns all deposits for a user, newest first.
	ListByUser(ctx context.Context, userID uint64) ([]Deposit, error)
	// ListOpenByUser returns deposits that have not been withdrawn.
	ListOpenByUser(ctx context.Context, userID uint64) ([]Deposit, error)
	// ExistsInRange reports whether the user made any deposit in [from, to).
	ExistsInRange(ctx context.Context, userID uint64, from, to time.Time) (bool, error)
}
