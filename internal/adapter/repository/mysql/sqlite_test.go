package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM) ---

type userSQLite struct {
	ID           uint64     `gorm:"primaryKey;column:id"`
	Email        string     `gorm:"size:255;column:email"`
	PasswordHash string     `gorm:"size:72;column:password_hash"`
	FullName     string     `gorm:"size:255;column:full_name"`
	DateOfBirth  *time.Time `gorm:"column:date_of_birth"`
	IDNumber     string     `gorm:"size:64;column:id_number"`
	KYCStatus    string     `gorm:"type:text;column:kyc_status"` // ← no enum
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (userSQLite) TableName() string { return "users" }

type poolSQLite struct {
	ID             uint64    `gorm:"primaryKey;column:id"`
	Asset          string    `gorm:"size:16;column:asset"`
	TotalLiquidity float64   `gorm:"column:total_liquidity"`
	TotalBorrowed  float64   `gorm:"column:total_borrowed"`
	DepositAPYBps  int       `gorm:"column:deposit_apy_bps"`
	BorrowRatePct  float64   `gorm:"column:borrow_rate_pct"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (poolSQLite) TableName() string { return "pools" }

type loanSQLite struct {
	ID               uint64     `gorm:"primaryKey;column:id"`
	LoanID           string     `gorm:"size:32;column:loan_id"`
	UserID           uint64     `gorm:"column:user_id"`
	Asset            string     `gorm:"size:16;column:asset"`
	Principal        float64    `gorm:"column:principal"`
	CollateralAsset  string     `gorm:"size:16;column:collateral_asset"`
	CollateralAmount float64    `gorm:"column:collateral_amount"`
	RatePercent      float64    `gorm:"column:rate_percent"`
	DurationMonths   int        `gorm:"column:duration_months"`
	Status           string     `gorm:"type:text;column:status"` // ← no enum
	BorrowedAt       time.Time  `gorm:"column:borrowed_at"`
	RepaidAt         *time.Time `gorm:"column:repaid_at"`
	RepaidAmount     *float64   `gorm:"column:repaid_amount"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type depositSQLite struct {
	ID               uint64     `gorm:"primaryKey;column:id"`
	DepositID        string     `gorm:"size:32;column:deposit_id"`
	UserID           uint64     `gorm:"column:user_id"`
	Asset            string     `gorm:"size:16;column:asset"`
	Principal        float64    `gorm:"column:principal"`
	APYBps           int        `gorm:"column:apy_bps"`
	DepositedAt      time.Time  `gorm:"column:deposited_at"`
	WithdrawAt       *time.Time `gorm:"column:withdraw_at"`
	RealizedInterest *float64   `gorm:"column:realized_interest"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (depositSQLite) TableName() string { return "deposits" }

type trustPointSQLite struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	UserID    uint64    `gorm:"column:user_id"`
	LoanID    string    `gorm:"size:32;column:loan_id"`
	Points    int       `gorm:"column:points"`
	Reason    string    `gorm:"size:40;column:reason"`
	Polarity  string    `gorm:"type:text;column:polarity"` // ← no enum
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (trustPointSQLite) TableName() string { return "trust_points" }

type creditScoreSQLite struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex"`
	Score     int       `gorm:"column:score"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (creditScoreSQLite) TableName() string { return "credit_scores" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe
// schemas, NOT the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userSQLite{}, &poolSQLite{}, &loanSQLite{},
		&depositSQLite{}, &trustPointSQLite{}, &creditScoreSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
