package deposit

import (
	"time"

	creditUC "defi-credit-backend/internal/usecase/credit"
)

type DepositInput struct {
	UserID    uint64
	Asset     string
	Principal float64
}

type DepositDTO struct {
	DepositID        string     `json:"deposit_id"`
	Asset            string     `json:"asset"`
	Principal        float64    `json:"principal"`
	APYBps           int        `json:"apy_bps"`
	DepositedAt      time.Time  `json:"deposited_at"`
	WithdrawAt       *time.Time `json:"withdraw_at,omitempty"`
	RealizedInterest *float64   `json:"realized_interest,omitempty"`
}

type WithdrawResultDTO struct {
	Deposit DepositDTO          `json:"deposit"`
	Events  []creditUC.EventDTO `json:"credit_events"`
}

// MonthlyInterestDTO is the "earned this month" display figure.
type MonthlyInterestDTO struct {
	Earned float64 `json:"earned"`
	From   string  `json:"from"`
	Until  string  `json:"until"`
}
