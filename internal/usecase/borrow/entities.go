package borrow

import (
	"time"

	creditUC "defi-credit-backend/internal/usecase/credit"
)

type BorrowInput struct {
	UserID           uint64
	Asset            string
	Principal        float64
	CollateralAsset  string
	CollateralAmount float64
	DurationMonths   int
}

type LoanDTO struct {
	LoanID           string     `json:"loan_id"`
	Asset            string     `json:"asset"`
	Principal        float64    `json:"principal"`
	CollateralAsset  string     `json:"collateral_asset"`
	CollateralAmount float64    `json:"collateral_amount"`
	RatePercent      float64    `json:"rate_percent"`
	DurationMonths   int        `json:"duration_months"`
	Status           string     `json:"status"`
	BorrowedAt       time.Time  `json:"borrowed_at"`
	DueDate          time.Time  `json:"due_date"`
	TotalDue         float64    `json:"total_due"`
	RepaidAt         *time.Time `json:"repaid_at,omitempty"`
	RepaidAmount     *float64   `json:"repaid_amount,omitempty"`
}

type RepayResultDTO struct {
	Loan   LoanDTO             `json:"loan"`
	Events []creditUC.EventDTO `json:"credit_events"`
}
