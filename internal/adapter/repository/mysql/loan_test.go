package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "defi-credit-backend/internal/domain/loan"
	"defi-credit-backend/pkg/id"

	"gorm.io/gorm"
)

func makeLoan(loanID string, userID uint64, borrowed time.Time, months int) *domain.Loan {
	return &domain.Loan{
		LoanID:           loanID,
		UserID:           userID,
		Asset:            "USDC",
		Principal:        1000,
		CollateralAsset:  "ETH",
		CollateralAmount: 1,
		RatePercent:      12,
		DurationMonths:   months,
		Status:           domain.StatusActive,
		BorrowedAt:       borrowed,
	}
}

func TestLoanCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 3)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.UserID != 1 || got.Principal != 1000 || got.Status != domain.StatusActive {
		t.Errorf("got = %+v", got)
	}

	if _, err := repo.GetByLoanID(ctx, id.NewID32()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing loan err = %v, want ErrRecordNotFound", err)
	}
}

func TestLoanSave_Settlement(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(id.NewID32(), 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	repaidAt := l.BorrowedAt.AddDate(0, 1, 0)
	amount := 1240.0
	l.Status = domain.StatusCompleted
	l.RepaidAt = &repaidAt
	l.RepaidAmount = &amount
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.Status != domain.StatusCompleted || got.RepaidAmount == nil || *got.RepaidAmount != 1240 {
		t.Errorf("got = %+v, want persisted settlement", got)
	}
}

func TestLoanListByUser_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, makeLoan(id.NewID32(), 7, base.AddDate(0, i, 0), 1)); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	repo.Create(ctx, makeLoan(id.NewID32(), 8, base, 1)) // other user

	loans, err := repo.ListByUser(ctx, 7)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("len = %d, want 3", len(loans))
	}
	for i := 1; i < len(loans); i++ {
		if loans[i].BorrowedAt.After(loans[i-1].BorrowedAt) {
			t.Errorf("out of order at %d", i)
		}
	}
}

func TestLoanListCompletedByUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		l := makeLoan(id.NewID32(), 1, base.AddDate(0, i, 0), 1)
		repaid := l.BorrowedAt.AddDate(0, 1, -1)
		l.Status = domain.StatusCompleted
		l.RepaidAt = &repaid
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	repo.Create(ctx, makeLoan(id.NewID32(), 1, base.AddDate(0, 5, 0), 1)) // still active

	loans, err := repo.ListCompletedByUser(ctx, 1, 3)
	if err != nil {
		t.Fatalf("ListCompletedByUser: %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("len = %d, want limit 3", len(loans))
	}
	for i := 1; i < len(loans); i++ {
		if loans[i].RepaidAt.After(*loans[i-1].RepaidAt) {
			t.Errorf("not repaid_at desc at %d", i)
		}
	}
}

func TestLoanCountOpenedSince(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -30)

	repo.Create(ctx, makeLoan(id.NewID32(), 1, now.AddDate(0, 0, -5), 1))  // counts
	repo.Create(ctx, makeLoan(id.NewID32(), 1, now.AddDate(0, 0, -40), 1)) // too old

	settled := makeLoan(id.NewID32(), 1, now.AddDate(0, 0, -3), 1)
	repaid := now
	settled.Status = domain.StatusCompleted
	settled.RepaidAt = &repaid
	repo.Create(ctx, settled) // completed, excluded

	n, err := repo.CountOpenedSince(ctx, 1, since)
	if err != nil {
		t.Fatalf("CountOpenedSince: %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

func TestLoanListUnsettled(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.Create(ctx, makeLoan(id.NewID32(), 1, base, 1))
	repo.Create(ctx, makeLoan(id.NewID32(), 2, base, 1))
	late := makeLoan(id.NewID32(), 1, base, 1)
	late.Status = domain.StatusLate
	repo.Create(ctx, late)
	done := makeLoan(id.NewID32(), 1, base, 1)
	done.Status = domain.StatusCompleted
	repo.Create(ctx, done)

	// active and late both carry a balance; completed does not
	all, err := repo.ListUnsettled(ctx)
	if err != nil {
		t.Fatalf("ListUnsettled: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListUnsettled = %d, want 3", len(all))
	}

	mine, err := repo.ListUnsettledByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListUnsettledByUser: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListUnsettledByUser = %d, want 2", len(mine))
	}
}
