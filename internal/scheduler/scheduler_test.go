package scheduler

import (
	"context"
	"testing"

	"defi-credit-backend/internal/testutil/memuow"
	creditUC "defi-credit-backend/internal/usecase/credit"
	sweepUC "defi-credit-backend/internal/usecase/sweep"
)

func TestRegister(t *testing.T) {
	u := memuow.New()
	s := New(context.Background(), sweepUC.NewUsecase(u, creditUC.NewUsecase(u)))

	// six-field spec, seconds first
	if err := s.Register("0 15 2 * * *"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Register("not a cron spec"); err == nil {
		t.Fatal("want error for a malformed spec")
	}
}
