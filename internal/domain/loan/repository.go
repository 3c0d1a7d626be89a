package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error

	// ListByUser returns all loans for a user, newest first.
	ListByUser(ctx context.Context, userID uint64) ([]Loan, error)
	// ListUnsettledByUser returns a user's loans still carrying a balance,
	// status active or late.
	ListUnsettledByUser(ctx context.Context, userID uint64) ([]Loan, error)
	// ListUnsettled returns every unsettled loan across users. Sweep only.
	ListUnsettled(ctx context.Context) ([]Loan, error)
	// ListCompletedByUser returns completed loans ordered by repaid_at desc,
	// capped at limit. Used by the good-loan-streak rule.
	ListCompletedByUser(ctx context.Context, userID uint64, limit int) ([]Loan, error)
	// CountOpenedSince counts non-completed loans originated at or after since.
	CountOpenedSince(ctx context.Context, userID uint64, since time.Time) (int64, error)
}
