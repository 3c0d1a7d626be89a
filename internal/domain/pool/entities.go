package pool

import (
	"errors"
	"time"
)

var (
	ErrNotFound              = errors.New("pool not found")
	ErrInsufficientLiquidity = errors.New("insufficient pool liquidity")
)

// Pool tracks per-asset aggregate liquidity. Deposits add to TotalLiquidity,
// borrows move value into TotalBorrowed, repayments and withdrawals reverse
// those moves. All mutations are additive and happen inside the same
// transaction as the loan/deposit write they belong to.
type Pool struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	Asset          string    `gorm:"column:asset;size:16;uniqueIndex:ux_pools_asset;not null" json:"asset"`
	TotalLiquidity float64   `gorm:"column:total_liquidity;type:decimal(24,2);not null;default:0" json:"total_liquidity"`
	TotalBorrowed  float64   `gorm:"column:total_borrowed;type:decimal(24,2);not null;default:0" json:"total_borrowed"`
	DepositAPYBps  int       `gorm:"column:deposit_apy_bps;not null;default:0" json:"deposit_apy_bps"`
	BorrowRatePct  float64   `gorm:"column:borrow_rate_pct;type:decimal(6,2);not null;default:0" json:"borrow_rate_pct"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Pool) TableName() string { return "pools" }

// Available is liquidity not currently lent out.
func (p *Pool) Available() float64 { return p.TotalLiquidity - p.TotalBorrowed }
