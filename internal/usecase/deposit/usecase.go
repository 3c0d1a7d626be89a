package deposit

import (
	"context"
	"errors"
	"time"

	depositDomain "defi-credit-backend/internal/domain/deposit"
	poolDomain "defi-credit-backend/internal/domain/pool"
	"defi-credit-backend/internal/domain/uow"
	"defi-credit-backend/internal/interest"
	"defi-credit-backend/internal/metrics"
	creditUC "defi-credit-backend/internal/usecase/credit"
	"defi-credit-backend/pkg/id"

	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid deposit input")

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

// Create opens a deposit at the pool's current APY and adds the principal to
// pool liquidity in the same transaction.
func (u *Usecase) Create(ctx context.Context, in DepositInput) (*DepositDTO, error) {
	if in.Principal <= 0 || in.Asset == "" {
		return nil, ErrInvalidInput
	}

	var d depositDomain.Deposit
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Pools.GetByAssetForUpdate(ctx, in.Asset)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return poolDomain.ErrNotFound
			}
			return err
		}
		p.TotalLiquidity += in.Principal
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}

		d = depositDomain.Deposit{
			DepositID:   id.NewID32(),
			UserID:      in.UserID,
			Asset:       in.Asset,
			Principal:   in.Principal,
			APYBps:      p.DepositAPYBps,
			DepositedAt: u.now(),
		}
		return r.Deposits.Create(ctx, &d)
	})
	if err != nil {
		return nil, err
	}
	dto := toDTO(&d)
	return &dto, nil
}

// Withdraw closes a deposit: snapshots the realized interest, freezes the
// row, and returns the principal to pool liquidity. The longevity rule is
// evaluated once, here, against the final holding period.
func (u *Usecase) Withdraw(ctx context.Context, userID uint64, depositID string) (*WithdrawResultDTO, error) {
	var closed depositDomain.Deposit
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Deposits.GetByDepositIDForUpdate(ctx, depositID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return depositDomain.ErrNotFound
			}
			return err
		}
		if d.UserID != userID {
			return depositDomain.ErrNotFound
		}
		if d.Withdrawn() {
			return depositDomain.ErrWithdrawn
		}

		now := u.now()
		realized := interest.DepositEarned(d.Principal, d.APYBps, d.DepositedAt, now)
		d.WithdrawAt = &now
		d.RealizedInterest = &realized
		if err := r.Deposits.Save(ctx, d); err != nil {
			return err
		}

		p, err := r.Pools.GetByAssetForUpdate(ctx, d.Asset)
		if err != nil {
			return err
		}
		p.TotalLiquidity -= d.Principal
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		closed = *d
		return nil
	})
	if err != nil {
		return nil, err
	}

	var events []creditUC.EventDTO
	if ev, err := u.credit.EvaluateDepositLongevity(ctx, &closed); err == nil {
		events = append(events, *ev)
	} else if !errors.Is(err, creditUC.ErrRuleNotTriggered) {
		return nil, err
	}
	return &WithdrawResultDTO{Deposit: toDTO(&closed), Events: events}, nil
}

// List returns all of a user's deposits, newest first.
func (u *Usecase) List(ctx context.Context, userID uint64) ([]DepositDTO, error) {
	var out []DepositDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		deposits, err := r.Deposits.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = make([]DepositDTO, 0, len(deposits))
		for i := range deposits {
			out = append(out, toDTO(&deposits[i]))
		}
		return nil
	})
	return out, err
}

// EarnedThisMonth sums daily-compounded interest across the user's open
// deposits, each anchored to the later of its start and the first of the
// current month.
func (u *Usecase) EarnedThisMonth(ctx context.Context, userID uint64) (*MonthlyInterestDTO, error) {
	now := u.now()
	var total float64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		deposits, err := r.Deposits.ListOpenByUser(ctx, userID)
		if err != nil {
			return err
		}
		for i := range deposits {
			d := &deposits[i]
			from := interest.MonthlyWindowStart(d.DepositedAt, now)
			total += interest.DepositEarned(d.Principal, d.APYBps, from, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.InterestQueriesTotal.Inc()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &MonthlyInterestDTO{
		Earned: total,
		From:   monthStart.Format("2006-01-02"),
		Until:  now.Format("2006-01-02"),
	}, nil
}

func toDTO(d *depositDomain.Deposit) DepositDTO {
	return DepositDTO{
		DepositID:        d.DepositID,
		Asset:            d.Asset,
		Principal:        d.Principal,
		APYBps:           d.APYBps,
		DepositedAt:      d.DepositedAt,
		WithdrawAt:       d.WithdrawAt,
		RealizedInterest: d.RealizedInterest,
	}
}
