package http

import (
	"net/http"

	authUC "defi-credit-backend/internal/usecase/auth"
	creditUC "defi-credit-backend/internal/usecase/credit"

	"github.com/labstack/echo/v4"
)

type CreditHandler struct {
	uc   *creditUC.Usecase
	auth *authUC.Usecase
}

func NewCreditHandler(uc *creditUC.Usecase, auth *authUC.Usecase) *CreditHandler {
	return &CreditHandler{uc: uc, auth: auth}
}

func (h *CreditHandler) Score(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	dto, err := h.uc.GetScore(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ClaimDepositStreak awards the consecutive-deposit-months reward. Once per
// calendar month; a second call returns 409.
func (h *CreditHandler) ClaimDepositStreak(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	ev, err := h.uc.ClaimDepositStreak(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// CheckLoanFrequency evaluates the trailing-window borrowing-frequency
// penalty for the caller.
func (h *CreditHandler) CheckLoanFrequency(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	ev, err := h.uc.EvaluateLoanFrequency(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

// Recompute folds the caller's ledger into a fresh total, repairing the
// cached score if it drifted.
func (h *CreditHandler) Recompute(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	total, err := h.uc.Recompute(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"score": total})
}
