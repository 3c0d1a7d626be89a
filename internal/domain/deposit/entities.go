package deposit

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("deposit not found")
	ErrWithdrawn = errors.New("deposit already withdrawn")
)

// Deposit is one supply position. Once WithdrawAt is set the row is frozen:
// no further interest accrues and RealizedInterest is the final snapshot.
type Deposit struct {
	ID               uint64     `gorm:"primaryKey;column:id" json:"-"`
	DepositID        string     `gorm:"column:deposit_id;size:32;uniqueIndex:ux_deposits_deposit_id" json:"deposit_id"`
	UserID           uint64     `gorm:"column:user_id;not null;index:idx_deposits_user" json:"user_id"`
	Asset            string     `gorm:"column:asset;size:16;not null" json:"asset"`
	Principal        float64    `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	APYBps           int        `gorm:"column:apy_bps;not null" json:"apy_bps"`
	DepositedAt      time.Time  `gorm:"column:deposited_at;not null" json:"deposited_at"`
	WithdrawAt       *time.Time `gorm:"column:withdraw_at" json:"withdraw_at,omitempty"`
	RealizedInterest *float64   `gorm:"column:realized_interest;type:decimal(18,8)" json:"realized_interest,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Deposit) TableName() string { return "deposits" }

func (d *Deposit) Withdrawn() bool { return d.WithdrawAt != nil }

// AccrualEnd is the moment interest stops accruing: withdrawal time for a
// closed deposit, otherwise now.
func (d *Deposit) AccrualEnd(now time.Time) time.Time {
	if d.WithdrawAt != nil {
		return *d.WithdrawAt
	}
	return now
}

// HeldDays is the whole number of days the deposit has been (or was) held.
func (d *Deposit) HeldDays(now time.Time) int {
	dur := d.AccrualEnd(now).Sub(d.DepositedAt)
	if dur < 0 {
		return 0
	}
	return int(dur.Hours() / 24)
}
