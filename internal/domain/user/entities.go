package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUnderAge      = errors.New("user must be at least 18 years old")
	ErrKYCIncomplete = errors.New("kyc verification not completed")
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

type User struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"-"`
	Email        string     `gorm:"column:email;size:255;uniqueIndex:ux_users_email;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;size:72;not null" json:"-"`
	FullName     string     `gorm:"column:full_name;size:255" json:"full_name"`
	DateOfBirth  *time.Time `gorm:"column:date_of_birth;type:date" json:"date_of_birth,omitempty"`
	IDNumber     string     `gorm:"column:id_number;size:64" json:"-"`
	KYCStatus    KYCStatus  `gorm:"column:kyc_status;type:enum('pending','verified','rejected');default:'pending'" json:"kyc_status"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
