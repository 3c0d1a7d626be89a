package mysql

import (
	"context"
	"time"

	creditDomain "defi-credit-backend/internal/domain/credit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrustPointRepository struct{ db *gorm.DB }

func NewTrustPointRepository(db *gorm.DB) *TrustPointRepository {
	return &TrustPointRepository{db: db}
}

func (r *TrustPointRepository) Append(ctx context.Context, tp *creditDomain.TrustPoint) error {
	return r.db.WithContext(ctx).Create(tp).Error
}

func (r *TrustPointRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]creditDomain.TrustPoint, error) {
	var out []creditDomain.TrustPoint
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	res := q.Find(&out)
	return out, res.Error
}

func (r *TrustPointRepository) CountByReasonSince(ctx context.Context, userID uint64, reason creditDomain.Reason, since time.Time) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&creditDomain.TrustPoint{}).
		Where("user_id = ? AND reason = ? AND created_at >= ?", userID, reason, since).
		Count(&n)
	return n, res.Error
}

func (r *TrustPointRepository) CountByReasonForLoan(ctx context.Context, loanID string, reason creditDomain.Reason) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&creditDomain.TrustPoint{}).
		Where("loan_id = ? AND reason = ?", loanID, reason).
		Count(&n)
	return n, res.Error
}

type ScoreRepository struct{ db *gorm.DB }

func NewScoreRepository(db *gorm.DB) *ScoreRepository { return &ScoreRepository{db: db} }

func (r *ScoreRepository) GetByUserID(ctx context.Context, userID uint64) (*creditDomain.CreditScore, error) {
	var out creditDomain.CreditScore
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *ScoreRepository) GetByUserIDForUpdate(ctx context.Context, userID uint64) (*creditDomain.CreditScore, error) {
	var out creditDomain.CreditScore
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&out)
	return &out, res.Error
}

func (r *ScoreRepository) Create(ctx context.Context, s *creditDomain.CreditScore) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Ensure inserts the score row if absent. Concurrent first-time rule
// applications for the same user may both reach this; the conflict on the
// user unique index is ignored rather than surfaced.
func (r *ScoreRepository) Ensure(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&creditDomain.CreditScore{UserID: userID}).Error
}

func (r *ScoreRepository) AddDelta(ctx context.Context, userID uint64, delta int) error {
	return r.db.WithContext(ctx).
		Model(&creditDomain.CreditScore{}).
		Where("user_id = ?", userID).
		Update("score", gorm.Expr("score + ?", delta)).Error
}
