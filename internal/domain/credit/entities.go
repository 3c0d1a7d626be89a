package credit

import (
	"errors"
	"time"
)

var (
	ErrScoreNotFound  = errors.New("credit score not found")
	ErrAlreadyClaimed = errors.New("reward already claimed for this period")
)

// Polarity says which direction a trust point event moves the score.
type Polarity string

const (
	PolarityReward     Polarity = "reward"
	PolarityPunishment Polarity = "punishment"
)

// Reason is the closed set of trust point categories. Free-form strings are not
// accepted anywhere; unknown reasons would silently fragment the ledger.
type Reason string

const (
	ReasonOnTimeRepayment   Reason = "on_time_repayment"
	ReasonLatePayment       Reason = "late_payment"
	ReasonMissedRepayment   Reason = "missed_repayment"
	ReasonGoodLoanStreak    Reason = "consecutive_good_loans"
	ReasonHighLoanFrequency Reason = "high_loan_frequency"
	ReasonOverBorrowing     Reason = "over_borrowing"
	ReasonDepositLongevity  Reason = "deposit_longevity"
	ReasonEarlyWithdrawal   Reason = "early_withdrawal"
	ReasonDepositStreak     Reason = "consecutive_deposit_months"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonOnTimeRepayment, ReasonLatePayment, ReasonMissedRepayment,
		ReasonGoodLoanStreak, ReasonHighLoanFrequency, ReasonOverBorrowing,
		ReasonDepositLongevity, ReasonEarlyWithdrawal, ReasonDepositStreak:
		return true
	}
	return false
}

// TrustPoint is one immutable ledger event. Points is always the non-negative
// magnitude; Polarity carries the sign.
type TrustPoint struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	UserID uint64 `gorm:"column:user_id;not null;index:idx_trust_points_user" json:"user_id"`
	// LoanID ties loan-scoped events to the loan that caused them, so each
	// overdue punishment lands at most once per loan. Empty for deposit and
	// behaviour events.
	LoanID    string    `gorm:"column:loan_id;size:32;index:idx_trust_points_loan" json:"loan_id,omitempty"`
	Points    int       `gorm:"column:points;not null" json:"points"`
	Reason    Reason    `gorm:"column:reason;size:40;not null" json:"reason"`
	Polarity  Polarity  `gorm:"column:polarity;type:enum('reward','punishment');not null" json:"polarity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_trust_points_user" json:"created_at"`
}

func (TrustPoint) TableName() string { return "trust_points" }

// Delta returns the signed contribution of this event to the score.
func (t TrustPoint) Delta() int {
	if t.Polarity == PolarityPunishment {
		return -t.Points
	}
	return t.Points
}

// CreditScore caches the running signed total of a user's ledger. It is only
// ever written in the same transaction as the TrustPoint insert it reflects.
type CreditScore struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:ux_credit_scores_user" json:"user_id"`
	Score     int       `gorm:"column:score;not null;default:0" json:"score"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CreditScore) TableName() string { return "credit_scores" }

// Category buckets a score for display. Boundaries are inclusive lower bounds.
func Category(score int) string {
	switch {
	case score >= 700:
		return "Elite"
	case score >= 500:
		return "Trusted"
	case score >= 300:
		return "Average"
	case score >= 100:
		return "Low"
	default:
		return "New"
	}
}

// ClampImpact bounds a derived display delta to [-99, 99]. The stored score
// itself is unbounded; only the per-event impact shown to users is clamped.
func ClampImpact(delta int) int {
	if delta > 99 {
		return 99
	}
	if delta < -99 {
		return -99
	}
	return delta
}

// Total folds a slice of ledger events into the signed score.
func Total(events []TrustPoint) int {
	sum := 0
	for _, e := range events {
		sum += e.Delta()
	}
	return sum
}
