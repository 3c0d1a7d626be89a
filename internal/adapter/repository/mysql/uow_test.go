package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	creditDomain "defi-credit-backend/internal/domain/credit"
	poolDomain "defi-credit-backend/internal/domain/pool"
	"defi-credit-backend/internal/domain/uow"
)

func TestWithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	err := u.WithinTx(ctx, func(r uow.Repos) error {
		return r.Pools.Create(ctx, &poolDomain.Pool{Asset: "USDC", TotalLiquidity: 100})
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	got, err := NewPoolRepository(db).GetByAsset(ctx, "USDC")
	if err != nil {
		t.Fatalf("GetByAsset: %v", err)
	}
	if got.TotalLiquidity != 100 {
		t.Errorf("liquidity = %v, want 100", got.TotalLiquidity)
	}
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Pools.Create(ctx, &poolDomain.Pool{Asset: "USDC"}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}

	pools, err := NewPoolRepository(db).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pools) != 0 {
		t.Errorf("pools = %d after rollback, want 0", len(pools))
	}
}

func TestWithinScoreTx_LazilyCreatesRow(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	err := u.WithinScoreTx(ctx, 1, func(r uow.Repos, s *creditDomain.CreditScore) error {
		if s.UserID != 1 || s.Score != 0 {
			t.Errorf("fresh score row = %+v", s)
		}
		if err := r.TrustPoints.Append(ctx, &creditDomain.TrustPoint{
			UserID: 1, Points: 20,
			Reason: creditDomain.ReasonOnTimeRepayment, Polarity: creditDomain.PolarityReward,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return r.Scores.AddDelta(ctx, 1, 20)
	})
	if err != nil {
		t.Fatalf("WithinScoreTx: %v", err)
	}

	got, err := NewScoreRepository(db).GetByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.Score != 20 {
		t.Errorf("score = %d, want 20", got.Score)
	}

	// the second pass finds the existing row
	err = u.WithinScoreTx(ctx, 1, func(r uow.Repos, s *creditDomain.CreditScore) error {
		if s.Score != 20 {
			t.Errorf("existing score = %d, want 20", s.Score)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("second WithinScoreTx: %v", err)
	}
}

func TestWithinScoreTx_RollbackDropsBothWrites(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := u.WithinScoreTx(ctx, 1, func(r uow.Repos, s *creditDomain.CreditScore) error {
		if err := r.TrustPoints.Append(ctx, &creditDomain.TrustPoint{
			UserID: 1, Points: 50,
			Reason: creditDomain.ReasonGoodLoanStreak, Polarity: creditDomain.PolarityReward,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := r.Scores.AddDelta(ctx, 1, 50); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}

	rows, err := NewTrustPointRepository(db).ListByUser(ctx, 1, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("ledger rows = %d after rollback, want 0", len(rows))
	}
}
