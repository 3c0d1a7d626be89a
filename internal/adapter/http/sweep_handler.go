package http

import (
	"net/http"

	authUC "defi-credit-backend/internal/usecase/auth"
	sweepUC "defi-credit-backend/internal/usecase/sweep"

	"github.com/labstack/echo/v4"
)

type SweepHandler struct {
	uc   *sweepUC.Usecase
	auth *authUC.Usecase
}

func NewSweepHandler(uc *sweepUC.Usecase, auth *authUC.Usecase) *SweepHandler {
	return &SweepHandler{uc: uc, auth: auth}
}

// Sweep marks the caller's overdue active loans late, charges the overdue
// punishments, and reports what changed. Safe to call repeatedly.
func (h *SweepHandler) Sweep(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	res, err := h.uc.SweepUser(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
