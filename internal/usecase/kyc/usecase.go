package kyc

import (
	"context"
	"errors"
	"time"

	"defi-credit-backend/internal/domain/uow"
	userDomain "defi-credit-backend/internal/domain/user"
	kycpkg "defi-credit-backend/internal/kyc"

	"gorm.io/gorm"
)

type Usecase struct {
	uow       uow.UnitOfWork
	extractor kycpkg.Extractor
	now       func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, ex kycpkg.Extractor) *Usecase {
	return &Usecase{uow: tx, extractor: ex, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source. Tests only.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type ResultDTO struct {
	FullName  string `json:"full_name"`
	KYCStatus string `json:"kyc_status"`
}

// Verify runs the uploaded document through OCR, rejects callers under the
// minimum age, and persists the extracted identity on the user row.
func (u *Usecase) Verify(ctx context.Context, userID uint64, image []byte) (*ResultDTO, error) {
	fields, err := u.extractor.Extract(ctx, image)
	if err != nil {
		return nil, err
	}

	underage := fields.Age(u.now()) < kycpkg.MinimumAge

	var out ResultDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userDomain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if underage {
			// return nil so the rejected status commits; the error is
			// surfaced after the transaction
			usr.KYCStatus = userDomain.KYCRejected
			return r.Users.Save(ctx, usr)
		}
		dob := fields.DateOfBirth
		usr.FullName = fields.FullName
		usr.DateOfBirth = &dob
		usr.IDNumber = fields.IDNumber
		usr.KYCStatus = userDomain.KYCVerified
		if err := r.Users.Save(ctx, usr); err != nil {
			return err
		}
		out = ResultDTO{FullName: usr.FullName, KYCStatus: string(usr.KYCStatus)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if underage {
		return nil, userDomain.ErrUnderAge
	}
	return &out, nil
}
