package mysql

import (
	"context"
	"time"

	depositDomain "defi-credit-backend/internal/domain/deposit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DepositRepository struct{ db *gorm.DB }

func NewDepositRepository(db *gorm.DB) *DepositRepository { return &DepositRepository{db: db} }

func (r *DepositRepository) Create(ctx context.Context, d *depositDomain.Deposit) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DepositRepository) Save(ctx context.Context, d *depositDomain.Deposit) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DepositRepository) GetByDepositID(ctx context.Context, depositID string) (*depositDomain.Deposit, error) {
	var out depositDomain.Deposit
	res := r.db.WithContext(ctx).Where("deposit_id = ?", depositID).First(&out)
	return &out, res.Error
}

func (r *DepositRepository) GetByDepositIDForUpdate(ctx context.Context, depositID string) (*depositDomain.Deposit, error) {
	var out depositDomain.Deposit
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("deposit_id = ?", depositID).
		First(&out)
	return &out, res.Error
}

func (r *DepositRepository) ListByUser(ctx context.Context, userID uint64) ([]depositDomain.Deposit, error) {
	var out []depositDomain.Deposit
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("deposited_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *DepositRepository) ListOpenByUser(ctx context.Context, userID uint64) ([]depositDomain.Deposit, error) {
	var out []depositDomain.Deposit
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND withdraw_at IS NULL", userID).
		Find(&out)
	return out, res.Error
}

func (r *DepositRepository) ExistsInRange(ctx context.Context, userID uint64, from, to time.Time) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&depositDomain.Deposit{}).
		Where("user_id = ? AND deposited_at >= ? AND deposited_at < ?", userID, from, to).
		Count(&n)
	return n > 0, res.Error
}
