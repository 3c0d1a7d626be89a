package borrow

import (
	"context"
	"errors"
	"time"

	creditDomain "defi-credit-backend/internal/domain/credit"
	loanDomain "defi-credit-backend/internal/domain/loan"
	poolDomain "defi-credit-backend/internal/domain/pool"
	"defi-credit-backend/internal/domain/uow"
	"defi-credit-backend/internal/interest"
	creditUC "defi-credit-backend/internal/usecase/credit"
	"defi-credit-backend/pkg/id"

	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid borrow input")

// OverBorrowFraction is the share of a pool's available liquidity a single
// loan may take before the over-borrowing penalty triggers. The penalty is
// computed server-side from pool state, never on a client's say-so.
const OverBorrowFraction = 0.5

type Usecase struct {
	uow    uow.UnitOfWork
	credit *creditUC.Usecase
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, credit *creditUC.Usecase) *Usecase {
	return &Usecase{uow: tx, credit: credit, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source. Tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Borrow originates a loan against the asset's pool. The pool row is locked
// and its borrowed total moved in the same transaction as the loan insert.
// Over-borrowing and loan-frequency penalties are evaluated afterwards, each
// in its own atomic rule application.
func (u *Usecase) Borrow(ctx context.Context, in BorrowInput) (*LoanDTO, []creditUC.EventDTO, error) {
	if in.Principal <= 0 || in.CollateralAmount <= 0 || in.DurationMonths <= 0 || in.Asset == "" || in.CollateralAsset == "" {
		return nil, nil, ErrInvalidInput
	}

	var (
		l          loanDomain.Loan
		overBorrow bool
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Pools.GetByAssetForUpdate(ctx, in.Asset)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poolDomain.ErrNotFound
			}
			return err
		}
		if in.Principal > p.Available() {
			return poolDomain.ErrInsufficientLiquidity
		}
		overBorrow = in.Principal > p.Available()*OverBorrowFraction

		p.TotalBorrowed += in.Principal
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}

		l = loanDomain.Loan{
			LoanID:           id.NewID32(),
			UserID:           in.UserID,
			Asset:            in.Asset,
			Principal:        in.Principal,
			CollateralAsset:  in.CollateralAsset,
			CollateralAmount: in.CollateralAmount,
			RatePercent:      p.BorrowRatePct,
			DurationMonths:   in.DurationMonths,
			Status:           loanDomain.StatusActive,
			BorrowedAt:       u.now(),
		}
		return r.Loans.Create(ctx, &l)
	})
	if err != nil {
		return nil, nil, err
	}

	var events []creditUC.EventDTO
	if overBorrow {
		if ev, err := u.credit.PenalizeOverBorrowing(ctx, in.UserID); err == nil {
			events = append(events, *ev)
		} else {
			return nil, nil, err
		}
	}
	if ev, err := u.credit.EvaluateLoanFrequency(ctx, in.UserID); err == nil {
		events = append(events, *ev)
	} else if !errors.Is(err, creditUC.ErrRuleNotTriggered) && !errors.Is(err, creditDomain.ErrAlreadyClaimed) {
		return nil, nil, err
	}

	dto := toDTO(&l)
	return &dto, events, nil
}

// Repay settles a loan: the simple-interest total is computed once, persisted,
// and never revisited. Repayment scoring runs after the settlement commits.
func (u *Usecase) Repay(ctx context.Context, userID uint64, loanID string) (*RepayResultDTO, error) {
	var settled loanDomain.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		if l.UserID != userID {
			return loanDomain.ErrNotFound
		}
		if l.Status == loanDomain.StatusCompleted {
			return loanDomain.ErrAlreadyCompleted
		}

		now := u.now()
		total := interest.LoanTotalDue(l.Principal, l.RatePercent, l.DurationMonths)
		l.Status = loanDomain.StatusCompleted
		l.RepaidAt = &now
		l.RepaidAmount = &total
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		p, err := r.Pools.GetByAssetForUpdate(ctx, l.Asset)
		if err != nil {
			return err
		}
		p.TotalBorrowed -= l.Principal
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		settled = *l
		return nil
	})
	if err != nil {
		return nil, err
	}

	events, err := u.credit.EvaluateRepayment(ctx, &settled)
	if err != nil {
		return nil, err
	}
	return &RepayResultDTO{Loan: toDTO(&settled), Events: events}, nil
}

// History lists a user's loans newest-first with derived due dates and totals.
func (u *Usecase) History(ctx context.Context, userID uint64) ([]LoanDTO, error) {
	var out []LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = make([]LoanDTO, 0, len(loans))
		for i := range loans {
			out = append(out, toDTO(&loans[i]))
		}
		return nil
	})
	return out, err
}

func toDTO(l *loanDomain.Loan) LoanDTO {
	// Completed loans report the persisted settlement figure, never a
	// recomputed one.
	total := interest.LoanTotalDue(l.Principal, l.RatePercent, l.DurationMonths)
	if l.RepaidAmount != nil {
		total = *l.RepaidAmount
	}
	return LoanDTO{
		LoanID:           l.LoanID,
		Asset:            l.Asset,
		Principal:        l.Principal,
		CollateralAsset:  l.CollateralAsset,
		CollateralAmount: l.CollateralAmount,
		RatePercent:      l.RatePercent,
		DurationMonths:   l.DurationMonths,
		Status:           string(l.Status),
		BorrowedAt:       l.BorrowedAt,
		DueDate:          l.DueDate(),
		TotalDue:         total,
		RepaidAt:         l.RepaidAt,
		RepaidAmount:     l.RepaidAmount,
	}
}
