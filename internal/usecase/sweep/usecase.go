// Package sweep implements the overdue sweep: a batch pass flipping active
// loans to late once their due date has passed, and charging the overdue
// punishments for loans that sit unpaid. Re-running only adds what a prior
// pass has not already applied.
package sweep

import (
	"context"
	"errors"
	"time"

	creditDomain "defi-credit-backend/internal/domain/credit"
	loanDomain "defi-credit-backend/internal/domain/loan"
	"defi-credit-backend/internal/domain/uow"
	"defi-credit-backend/internal/metrics"
	creditUC "defi-credit-backend/internal/usecase/credit"
)

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

type Result struct {
	Scanned  int `json:"scanned"`
	Updated  int `json:"updated"`
	Punished int `json:"punished"`
}

// SweepUser marks a single user's overdue active loans late and punishes
// their unpaid overdue loans.
func (u *Usecase) SweepUser(ctx context.Context, userID uint64) (*Result, error) {
	var res Result
	var overdue []loanDomain.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.ListUnsettledByUser(ctx, userID)
		if err != nil {
			return err
		}
		overdue, err = u.mark(ctx, r, loans, &res)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := u.punish(ctx, overdue, &res); err != nil {
		return nil, err
	}
	metrics.SweepTransitionsTotal.Add(float64(res.Updated))
	return &res, nil
}

// SweepAll sweeps every unsettled loan across users. Run nightly by the cron
// scheduler.
func (u *Usecase) SweepAll(ctx context.Context) (*Result, error) {
	var res Result
	var overdue []loanDomain.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.ListUnsettled(ctx)
		if err != nil {
			return err
		}
		overdue, err = u.mark(ctx, r, loans, &res)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := u.punish(ctx, overdue, &res); err != nil {
		return nil, err
	}
	metrics.SweepTransitionsTotal.Add(float64(res.Updated))
	return &res, nil
}

// mark flips overdue active loans to late and returns every overdue loan for
// the punishment pass.
func (u *Usecase) mark(ctx context.Context, r uow.Repos, loans []loanDomain.Loan, res *Result) ([]loanDomain.Loan, error) {
	now := u.now()
	res.Scanned = len(loans)
	var overdue []loanDomain.Loan
	for i := range loans {
		l := &loans[i]
		if !l.Overdue(now) {
			continue
		}
		if l.Status == loanDomain.StatusActive {
			l.Status = loanDomain.StatusLate
			if err := r.Loans.Save(ctx, l); err != nil {
				return nil, err
			}
			res.Updated++
		}
		overdue = append(overdue, *l)
	}
	return overdue, nil
}

// punish runs the overdue rule per loan, after the status transaction has
// committed. Each rule application is its own atomic ledger write; loans a
// prior sweep already charged come back as already-claimed and are skipped.
func (u *Usecase) punish(ctx context.Context, overdue []loanDomain.Loan, res *Result) error {
	for i := range overdue {
		switch _, err := u.credit.EvaluateOverdue(ctx, &overdue[i]); {
		case err == nil:
			res.Punished++
		case errors.Is(err, creditDomain.ErrAlreadyClaimed), errors.Is(err, creditUC.ErrRuleNotTriggered):
		default:
			return err
		}
	}
	return nil
}
