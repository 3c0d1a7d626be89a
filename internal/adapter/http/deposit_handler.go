package http

import (
	"net/http"

	authUC "defi-credit-backend/internal/usecase/auth"
	depositUC "defi-credit-backend/internal/usecase/deposit"

	"github.com/labstack/echo/v4"
)

type DepositHandler struct {
	uc   *depositUC.Usecase
	auth *authUC.Usecase
}

func NewDepositHandler(uc *depositUC.Usecase, auth *authUC.Usecase) *DepositHandler {
	return &DepositHandler{uc: uc, auth: auth}
}

type depositReq struct {
	Asset     string  `json:"asset"     validate:"required,asset"`
	Principal float64 `json:"principal" validate:"required,gt=0,dec2"`
}

func (h *DepositHandler) Create(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), depositUC.DepositInput{
		UserID:    usr.ID,
		Asset:     req.Asset,
		Principal: req.Principal,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *DepositHandler) Withdraw(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	depositID := c.Param("deposit_id")
	if !reHex32.MatchString(depositID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid deposit_id"})
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), usr.ID, depositID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DepositHandler) List(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	deposits, err := h.uc.List(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"deposits": deposits})
}

func (h *DepositHandler) MonthlyInterest(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	dto, err := h.uc.EarnedThisMonth(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
