package kyc

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqlite shadow of the users table (text instead of ENUM), so the real
// transactional UnitOfWork can back these tests without MySQL.
type userSQLite struct {
	ID           uint64     `gorm:"primaryKey;column:id"`
	Email        string     `gorm:"size:255;column:email"`
	PasswordHash string     `gorm:"size:72;column:password_hash"`
	FullName     string     `gorm:"size:255;column:full_name"`
	DateOfBirth  *time.Time `gorm:"column:date_of_birth"`
	IDNumber     string     `gorm:"size:64;column:id_number"`
	KYCStatus    string     `gorm:"type:text;column:kyc_status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (userSQLite) TableName() string { return "users" }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&userSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
