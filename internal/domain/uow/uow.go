package uow

import (
	"context"

	"defi-credit-backend/internal/domain/credit"
	"defi-credit-backend/internal/domain/deposit"
	"defi-credit-backend/internal/domain/loan"
	"defi-credit-backend/internal/domain/pool"
	"defi-credit-backend/internal/domain/user"
)

type Repos struct {
	Users       user.Repository
	Pools       pool.Repository
	Loans       loan.Repository
	Deposits    deposit.Repository
	TrustPoints credit.TrustPointRepository
	Scores      credit.ScoreRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the user's score row first so concurrent rule
	// applications for the same user serialize, then pass it in
	WithinScoreTx(ctx context.Context, userID uint64, fn func(r Repos, s *credit.CreditScore) error) error
}
