package credit

import (
	"context"
	"time"
)

type TrustPointRepository interface {
	Append(ctx context.Context, tp *TrustPoint) error
	ListByUser(ctx context.Context, userID uint64, limit int) ([]TrustPoint, error)
	// CountByReasonSince reports how many events with the given reason the user
	// accrued at or after `since`. Used by the already-claimed guards.
	CountByReasonSince(ctx context.Context, userID uint64, reason Reason, since time.Time) (int64, error)
	// CountByReasonForLoan reports how many events with the given reason are
	// tied to the loan. Guards the once-per-loan repayment punishments.
	CountByReasonForLoan(ctx context.Context, loanID string, reason Reason) (int64, error)
}

type ScoreRepository interface {
	GetByUserID(ctx context.Context, userID uint64) (*CreditScore, error)
	// GetByUserIDForUpdate locks the score row for the duration of the enclosing
	// transaction so concurrent rule applications serialize on it.
	GetByUserIDForUpdate(ctx context.Context, userID uint64) (*CreditScore, error)
	Create(ctx context.Context, s *CreditScore) error
	// Ensure inserts the user's score row if absent, ignoring the unique-index
	// conflict when another transaction created it first.
	Ensure(ctx context.Context, userID uint64) error
	// AddDelta applies a signed increment to the cached score.
	AddDelta(ctx context.Context, userID uint64, delta int) error
}
