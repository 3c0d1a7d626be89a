package mysql

import (
	"context"

	poolDomain "defi-credit-backend/internal/domain/pool"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PoolRepository struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) *PoolRepository { return &PoolRepository{db: db} }

func (r *PoolRepository) Create(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PoolRepository) Save(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PoolRepository) GetByAsset(ctx context.Context, asset string) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := r.db.WithContext(ctx).Where("asset = ?", asset).First(&out)
	return &out, res.Error
}

func (r *PoolRepository) GetByAssetForUpdate(ctx context.Context, asset string) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("asset = ?", asset).
		First(&out)
	return &out, res.Error
}

func (r *PoolRepository) List(ctx context.Context) ([]poolDomain.Pool, error) {
	var out []poolDomain.Pool
	res := r.db.WithContext(ctx).Order("asset ASC").Find(&out)
	return out, res.Error
}
