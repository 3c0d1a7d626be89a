package credit

import (
	"time"

	domain "defi-credit-backend/internal/domain/credit"
)

// Point values and thresholds for every rule. One table so policy changes
// happen in one place.
const (
	PointsOnTimeRepayment   = 20
	PointsLatePayment       = 20
	PointsMissedRepayment   = 60
	PointsGoodLoanStreak    = 50
	PointsHighLoanFrequency = 40
	PointsOverBorrowing     = 25
	PointsLongevity60       = 20
	PointsLongevity30       = 15
	PointsEarlyWithdrawal   = 20
	PointsDepositStreak     = 30

	// grace window separating a late payment from a missed one
	LateGraceDays = 30

	// good-loan streak length
	GoodLoanStreakLen = 3

	// trailing window and threshold for the loan-frequency penalty
	FrequencyWindowDays = 30
	FrequencyThreshold  = 3

	// deposit longevity tiers, in days held
	LongevityTier1Days = 60
	LongevityTier2Days = 30
)

// EventDTO describes one applied rule outcome.
type EventDTO struct {
	LoanID    string          `json:"loan_id,omitempty"`
	Reason    domain.Reason   `json:"reason"`
	Polarity  domain.Polarity `json:"polarity"`
	Points    int             `json:"points"`
	Delta     int             `json:"delta"`
	Impact    int             `json:"impact"`
	Score     int             `json:"score"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
}

// ScoreDTO is the aggregate view returned by score queries.
type ScoreDTO struct {
	Score    int        `json:"score"`
	Category string     `json:"category"`
	Recent   []EventDTO `json:"recent,omitempty"`
}
