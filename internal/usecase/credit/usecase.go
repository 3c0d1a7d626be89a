package credit

import (
	"context"
	"errors"
	"time"

	domain "defi-credit-backend/internal/domain/credit"
	depositDomain "defi-credit-backend/internal/domain/deposit"
	loanDomain "defi-credit-backend/internal/domain/loan"
	"defi-credit-backend/internal/domain/uow"
	"defi-credit-backend/internal/metrics"

	"gorm.io/gorm"
)

// Usecase is the rule evaluator: one method per rule, each appending a ledger
// event and moving the cached score inside a single transaction.
type Usecase struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source. Tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// apply runs the ledger-append + score-increment pair atomically. Either both
// writes land or neither does.
func (u *Usecase) apply(ctx context.Context, userID uint64, reason domain.Reason, points int, pol domain.Polarity) (*EventDTO, error) {
	return u.applyLoan(ctx, userID, "", reason, points, pol)
}

// applyLoan is apply with the event tied to a loan, so the per-loan
// punishment guards can find it later.
func (u *Usecase) applyLoan(ctx context.Context, userID uint64, loanID string, reason domain.Reason, points int, pol domain.Polarity) (*EventDTO, error) {
	var out *EventDTO
	err := u.uow.WithinScoreTx(ctx, userID, func(r uow.Repos, s *domain.CreditScore) error {
		tp := &domain.TrustPoint{
			UserID:    userID,
			LoanID:    loanID,
			Points:    points,
			Reason:    reason,
			Polarity:  pol,
			CreatedAt: u.now(),
		}
		if err := r.TrustPoints.Append(ctx, tp); err != nil {
			return err
		}
		delta := tp.Delta()
		if err := r.Scores.AddDelta(ctx, userID, delta); err != nil {
			return err
		}
		newScore := s.Score + delta
		out = &EventDTO{
			LoanID:    loanID,
			Reason:    reason,
			Polarity:  pol,
			Points:    points,
			Delta:     delta,
			Impact:    domain.ClampImpact(delta),
			Score:     newScore,
			Category:  domain.Category(newScore),
			CreatedAt: tp.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RuleApplicationsTotal.WithLabelValues(string(reason), string(pol)).Inc()
	return out, nil
}

// EvaluateRepayment scores a just-completed loan: on-time earns a reward,
// settling within the grace window after the due date is a late-payment
// punishment, anything beyond the grace window a missed-repayment one.
// Returns the events applied (repayment outcome, plus streak when earned).
func (u *Usecase) EvaluateRepayment(ctx context.Context, l *loanDomain.Loan) ([]EventDTO, error) {
	if l.Status != loanDomain.StatusCompleted || l.RepaidAt == nil {
		return nil, loanDomain.ErrInvalidTransition
	}

	var events []EventDTO

	due := l.DueDate()
	grace := due.AddDate(0, 0, LateGraceDays)
	var (
		reason domain.Reason
		points int
		pol    domain.Polarity
	)
	switch {
	case !l.RepaidAt.After(due):
		reason, points, pol = domain.ReasonOnTimeRepayment, PointsOnTimeRepayment, domain.PolarityReward
	case !l.RepaidAt.After(grace):
		reason, points, pol = domain.ReasonLatePayment, PointsLatePayment, domain.PolarityPunishment
	default:
		reason, points, pol = domain.ReasonMissedRepayment, PointsMissedRepayment, domain.PolarityPunishment
	}

	// The overdue sweep may have punished this loan already while it sat
	// unpaid. A settled loan must not collect the same punishment twice.
	skip := false
	if pol == domain.PolarityPunishment {
		var err error
		skip, err = u.punishedForLoan(ctx, l.LoanID, reason)
		if err != nil {
			return nil, err
		}
	}
	if !skip {
		ev, err := u.applyLoan(ctx, l.UserID, l.LoanID, reason, points, pol)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}

	// An on-time settlement may also complete a streak.
	if reason == domain.ReasonOnTimeRepayment {
		streak, err := u.AwardGoodLoanStreak(ctx, l.UserID)
		if err == nil {
			events = append(events, *streak)
		} else if !errors.Is(err, domain.ErrAlreadyClaimed) && !errors.Is(err, ErrStreakNotMet) {
			return nil, err
		}
	}
	return events, nil
}

// EvaluateOverdue punishes a loan that sits unpaid past its due date: inside
// the grace window it counts as a late payment, beyond it as a missed
// repayment. Each arm lands at most once per loan, so the nightly sweep can
// call this repeatedly; the ledger rows tied to the loan are the guard.
func (u *Usecase) EvaluateOverdue(ctx context.Context, l *loanDomain.Loan) (*EventDTO, error) {
	now := u.now()
	if !l.Overdue(now) {
		return nil, ErrRuleNotTriggered
	}
	reason, points := domain.ReasonLatePayment, PointsLatePayment
	if now.After(l.DueDate().AddDate(0, 0, LateGraceDays)) {
		reason, points = domain.ReasonMissedRepayment, PointsMissedRepayment
	}
	punished, err := u.punishedForLoan(ctx, l.LoanID, reason)
	if err != nil {
		return nil, err
	}
	if punished {
		return nil, domain.ErrAlreadyClaimed
	}
	return u.applyLoan(ctx, l.UserID, l.LoanID, reason, points, domain.PolarityPunishment)
}

func (u *Usecase) punishedForLoan(ctx context.Context, loanID string, reason domain.Reason) (bool, error) {
	var n int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		n, err = r.TrustPoints.CountByReasonForLoan(ctx, loanID, reason)
		return err
	})
	return n > 0, err
}

// ErrStreakNotMet is returned when fewer than the required number of
// consecutive on-time loans exist.
var ErrStreakNotMet = errors.New("good loan streak condition not met")

// AwardGoodLoanStreak rewards the user when their latest N completed loans
// were all repaid on time. The ledger itself is the already-claimed guard: a
// streak event newer than the oldest loan in the window blocks a re-award.
func (u *Usecase) AwardGoodLoanStreak(ctx context.Context, userID uint64) (*EventDTO, error) {
	var qualifies bool
	var windowStart time.Time

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.ListCompletedByUser(ctx, userID, GoodLoanStreakLen)
		if err != nil {
			return err
		}
		if len(loans) < GoodLoanStreakLen {
			return nil
		}
		for _, l := range loans {
			if !l.RepaidOnTime() {
				return nil
			}
		}
		qualifies = true
		windowStart = *loans[len(loans)-1].RepaidAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !qualifies {
		return nil, ErrStreakNotMet
	}

	claimed, err := u.claimedSince(ctx, userID, domain.ReasonGoodLoanStreak, windowStart)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, domain.ErrAlreadyClaimed
	}
	return u.apply(ctx, userID, domain.ReasonGoodLoanStreak, PointsGoodLoanStreak, domain.PolarityReward)
}

// EvaluateLoanFrequency punishes opening more than the threshold number of
// still-open loans inside the trailing window. One penalty per window.
func (u *Usecase) EvaluateLoanFrequency(ctx context.Context, userID uint64) (*EventDTO, error) {
	since := u.now().AddDate(0, 0, -FrequencyWindowDays)

	var n int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		n, err = r.Loans.CountOpenedSince(ctx, userID, since)
		return err
	})
	if err != nil {
		return nil, err
	}
	if n <= FrequencyThreshold {
		return nil, ErrRuleNotTriggered
	}

	claimed, err := u.claimedSince(ctx, userID, domain.ReasonHighLoanFrequency, since)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, domain.ErrAlreadyClaimed
	}
	return u.apply(ctx, userID, domain.ReasonHighLoanFrequency, PointsHighLoanFrequency, domain.PolarityPunishment)
}

// ErrRuleNotTriggered is returned when a rule's condition does not hold.
var ErrRuleNotTriggered = errors.New("rule condition not met")

// PenalizeOverBorrowing applies the over-borrowing punishment. The borrow
// flow triggers it when a new loan exceeds the policy threshold.
func (u *Usecase) PenalizeOverBorrowing(ctx context.Context, userID uint64) (*EventDTO, error) {
	return u.apply(ctx, userID, domain.ReasonOverBorrowing, PointsOverBorrowing, domain.PolarityPunishment)
}

// EvaluateDepositLongevity scores one deposit at withdrawal time: held 60+
// days earns the top reward, 30+ a smaller one, and pulling out inside 30
// days is punished.
func (u *Usecase) EvaluateDepositLongevity(ctx context.Context, d *depositDomain.Deposit) (*EventDTO, error) {
	days := d.HeldDays(u.now())
	switch {
	case days >= LongevityTier1Days:
		return u.apply(ctx, d.UserID, domain.ReasonDepositLongevity, PointsLongevity60, domain.PolarityReward)
	case days >= LongevityTier2Days:
		return u.apply(ctx, d.UserID, domain.ReasonDepositLongevity, PointsLongevity30, domain.PolarityReward)
	case d.Withdrawn():
		return u.apply(ctx, d.UserID, domain.ReasonEarlyWithdrawal, PointsEarlyWithdrawal, domain.PolarityPunishment)
	default:
		return nil, ErrRuleNotTriggered
	}
}

// ClaimDepositStreak rewards deposits made in both of the two prior calendar
// months. Claimable once per month; the ledger is the guard.
func (u *Usecase) ClaimDepositStreak(ctx context.Context, userID uint64) (*EventDTO, error) {
	now := u.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)
	prevPrevStart := monthStart.AddDate(0, -2, 0)

	claimed, err := u.claimedSince(ctx, userID, domain.ReasonDepositStreak, monthStart)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, domain.ErrAlreadyClaimed
	}

	var both bool
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m1, err := r.Deposits.ExistsInRange(ctx, userID, prevStart, monthStart)
		if err != nil {
			return err
		}
		m2, err := r.Deposits.ExistsInRange(ctx, userID, prevPrevStart, prevStart)
		if err != nil {
			return err
		}
		both = m1 && m2
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !both {
		return nil, ErrRuleNotTriggered
	}
	return u.apply(ctx, userID, domain.ReasonDepositStreak, PointsDepositStreak, domain.PolarityReward)
}

// GetScore returns the cached score, its category, and recent ledger events.
// A user with no score row yet reads as zero.
func (u *Usecase) GetScore(ctx context.Context, userID uint64) (*ScoreDTO, error) {
	var dto ScoreDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Scores.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			dto.Score = s.Score
		case errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrScoreNotFound):
			// no ledger activity yet, score reads as zero
		default:
			return err
		}
		dto.Category = domain.Category(dto.Score)

		events, err := r.TrustPoints.ListByUser(ctx, userID, 20)
		if err != nil {
			return err
		}
		for _, e := range events {
			dto.Recent = append(dto.Recent, EventDTO{
				LoanID:    e.LoanID,
				Reason:    e.Reason,
				Polarity:  e.Polarity,
				Points:    e.Points,
				Delta:     e.Delta(),
				Impact:    domain.ClampImpact(e.Delta()),
				CreatedAt: e.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Recompute folds the full ledger into a fresh total and repairs the cached
// row when it drifted.
func (u *Usecase) Recompute(ctx context.Context, userID uint64) (int, error) {
	var total int
	err := u.uow.WithinScoreTx(ctx, userID, func(r uow.Repos, s *domain.CreditScore) error {
		events, err := r.TrustPoints.ListByUser(ctx, userID, 0)
		if err != nil {
			return err
		}
		total = domain.Total(events)
		if total != s.Score {
			return r.Scores.AddDelta(ctx, userID, total-s.Score)
		}
		return nil
	})
	return total, err
}

func (u *Usecase) claimedSince(ctx context.Context, userID uint64, reason domain.Reason, since time.Time) (bool, error) {
	var n int64
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		n, err = r.TrustPoints.CountByReasonSince(ctx, userID, reason, since)
		return err
	})
	return n > 0, err
}
