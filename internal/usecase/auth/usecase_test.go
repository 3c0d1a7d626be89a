package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	userDomain "defi-credit-backend/internal/domain/user"
	"defi-credit-backend/internal/testutil/memuow"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

func TestSignup_ThenSignin(t *testing.T) {
	mem := memuow.New()
	uc := NewUsecase(mem, testSecret, time.Hour)

	sess, err := uc.Signup(context.Background(), SignupInput{
		Email: "a@example.com", Password: "hunter2hunter2", FullName: "A",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if sess.Token == "" || sess.Email != "a@example.com" {
		t.Fatalf("session = %+v", sess)
	}

	// token carries the email claim and verifies with the shared secret
	tok, err := jwt.Parse(sess.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		t.Fatalf("parse token: %v", err)
	}
	if claims := tok.Claims.(jwt.MapClaims); claims["email"] != "a@example.com" {
		t.Errorf("email claim = %v", claims["email"])
	}

	if _, err := uc.Signin(context.Background(), "a@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("Signin: %v", err)
	}
	if _, err := uc.Signin(context.Background(), "a@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := uc.Signin(context.Background(), "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignup_Validation(t *testing.T) {
	uc := NewUsecase(memuow.New(), testSecret, time.Hour)
	if _, err := uc.Signup(context.Background(), SignupInput{Email: "", Password: "hunter2hunter2"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty email err = %v, want ErrInvalidInput", err)
	}
	if _, err := uc.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "short"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short password err = %v, want ErrInvalidInput", err)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	uc := NewUsecase(memuow.New(), testSecret, time.Hour)
	in := SignupInput{Email: "a@example.com", Password: "hunter2hunter2"}
	if _, err := uc.Signup(context.Background(), in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := uc.Signup(context.Background(), in); !errors.Is(err, userDomain.ErrEmailTaken) {
		t.Fatalf("second signup err = %v, want ErrEmailTaken", err)
	}
}

func TestResolveUser(t *testing.T) {
	mem := memuow.New()
	mem.SeedUser(userDomain.User{Email: "a@example.com", FullName: "A"})
	uc := NewUsecase(mem, testSecret, time.Hour)

	usr, err := uc.ResolveUser(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if usr.FullName != "A" {
		t.Errorf("full name = %q", usr.FullName)
	}
	if _, err := uc.ResolveUser(context.Background(), "nobody@example.com"); !errors.Is(err, userDomain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
