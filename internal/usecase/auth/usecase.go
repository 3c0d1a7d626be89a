package auth

import (
	"context"
	"errors"
	"time"

	"defi-credit-backend/internal/domain/uow"
	userDomain "defi-credit-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid signup input")
)

type Usecase struct {
	uow      uow.UnitOfWork
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, secret string, ttl time.Duration) *Usecase {
	return &Usecase{
		uow:      tx,
		secret:   []byte(secret),
		tokenTTL: ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type SignupInput struct {
	Email    string
	Password string
	FullName string
}

type SessionDTO struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Signup registers a user with a bcrypt password hash.
func (u *Usecase) Signup(ctx context.Context, in SignupInput) (*SessionDTO, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByEmail(ctx, in.Email); err == nil {
			return userDomain.ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.Users.Create(ctx, &userDomain.User{
			Email:        in.Email,
			PasswordHash: string(hash),
			FullName:     in.FullName,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.issue(in.Email)
}

// Signin checks the password and issues a session token.
func (u *Usecase) Signin(ctx context.Context, email, password string) (*SessionDTO, error) {
	var usr *userDomain.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		usr, err = r.Users.GetByEmail(ctx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u.issue(email)
}

// ResolveUser maps an authenticated email to its user row.
func (u *Usecase) ResolveUser(ctx context.Context, email string) (*userDomain.User, error) {
	var usr *userDomain.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		usr, err = r.Users.GetByEmail(ctx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userDomain.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) issue(email string) (*SessionDTO, error) {
	exp := u.now().Add(u.tokenTTL)
	claims := jwt.MapClaims{
		"email": email,
		"iat":   u.now().Unix(),
		"exp":   exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return nil, err
	}
	return &SessionDTO{Token: tok, Email: email, ExpiresAt: exp}, nil
}
