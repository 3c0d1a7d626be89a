package mysql

import (
	"context"
	"errors"

	creditDomain "defi-credit-backend/internal/domain/credit"
	"defi-credit-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:       &UserRepository{db: tx},
		Pools:       &PoolRepository{db: tx},
		Loans:       &LoanRepository{db: tx},
		Deposits:    &DepositRepository{db: tx},
		TrustPoints: &TrustPointRepository{db: tx},
		Scores:      &ScoreRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinScoreTx(ctx context.Context, userID uint64, fn func(r uow.Repos, s *creditDomain.CreditScore) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the score row up-front so concurrent rule applications for the
		// same user serialize; create it lazily on first use. The insert is
		// conflict-safe: two first-ever applications can both miss the lock
		// read, and the loser of the insert race must not fail.
		s, err := r.Scores.GetByUserIDForUpdate(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.Scores.Ensure(ctx, userID); err != nil {
				return err
			}
			s, err = r.Scores.GetByUserIDForUpdate(ctx, userID)
		}
		if err != nil {
			return err
		}
		return fn(r, s)
	})
}
