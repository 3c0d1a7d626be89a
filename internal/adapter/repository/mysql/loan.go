package mysql

import (
	"context"
	"time"

	loanDomain "defi-credit-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("borrowed_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListUnsettledByUser(ctx context.Context, userID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []loanDomain.Status{loanDomain.StatusActive, loanDomain.StatusLate}).
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListUnsettled(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status IN ?", []loanDomain.Status{loanDomain.StatusActive, loanDomain.StatusLate}).
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListCompletedByUser(ctx context.Context, userID uint64, limit int) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, loanDomain.StatusCompleted).
		Order("repaid_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) CountOpenedSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("user_id = ? AND status <> ? AND borrowed_at >= ?", userID, loanDomain.StatusCompleted, since).
		Count(&n)
	return n, res.Error
}
