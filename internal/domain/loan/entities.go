package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrAlreadyCompleted  = errors.New("loan already completed")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusLate      Status = "late"
	StatusCompleted Status = "completed"
)

// Loan is one borrow position. Status only moves forward: active→late on a
// missed due date, active|late→completed on repayment. RepaidAmount and
// RepaidAt are set exactly once, at completion.
type Loan struct {
	ID               uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID           string     `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID           uint64     `gorm:"column:user_id;not null;index:idx_loans_user_status" json:"user_id"`
	Asset            string     `gorm:"column:asset;size:16;not null" json:"asset"`
	Principal        float64    `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	CollateralAsset  string     `gorm:"column:collateral_asset;size:16;not null" json:"collateral_asset"`
	CollateralAmount float64    `gorm:"column:collateral_amount;type:decimal(18,2);not null" json:"collateral_amount"`
	RatePercent      float64    `gorm:"column:rate_percent;type:decimal(6,2);not null" json:"rate_percent"`
	DurationMonths   int        `gorm:"column:duration_months;not null" json:"duration_months"`
	Status           Status     `gorm:"column:status;type:enum('active','late','completed');default:'active';index:idx_loans_user_status" json:"status"`
	BorrowedAt       time.Time  `gorm:"column:borrowed_at;not null" json:"borrowed_at"`
	RepaidAt         *time.Time `gorm:"column:repaid_at" json:"repaid_at,omitempty"`
	RepaidAmount     *float64   `gorm:"column:repaid_amount;type:decimal(18,2)" json:"repaid_amount,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// DueDate is origination plus the whole-month duration.
func (l *Loan) DueDate() time.Time {
	return l.BorrowedAt.AddDate(0, l.DurationMonths, 0)
}

// Overdue reports whether an unfinished loan is past its due date at now.
func (l *Loan) Overdue(now time.Time) bool {
	return l.Status != StatusCompleted && now.After(l.DueDate())
}

// RepaidOnTime reports whether a completed loan was settled by its due date.
func (l *Loan) RepaidOnTime() bool {
	return l.Status == StatusCompleted && l.RepaidAt != nil && !l.RepaidAt.After(l.DueDate())
}
