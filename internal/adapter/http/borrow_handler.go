package http

import (
	"net/http"

	authUC "defi-credit-backend/internal/usecase/auth"
	borrowUC "defi-credit-backend/internal/usecase/borrow"

	"github.com/labstack/echo/v4"
)

type BorrowHandler struct {
	uc   *borrowUC.Usecase
	auth *authUC.Usecase
}

func NewBorrowHandler(uc *borrowUC.Usecase, auth *authUC.Usecase) *BorrowHandler {
	return &BorrowHandler{uc: uc, auth: auth}
}

type borrowReq struct {
	Asset            string  `json:"asset"             validate:"required,asset"`
	Principal        float64 `json:"principal"         validate:"required,gt=0,dec2"`
	CollateralAsset  string  `json:"collateral_asset"  validate:"required,asset"`
	CollateralAmount float64 `json:"collateral_amount" validate:"required,gt=0,dec2"`
	DurationMonths   int     `json:"duration_months"   validate:"required,gte=1,lte=60"`
}

func (h *BorrowHandler) Borrow(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	var req borrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	dto, events, err := h.uc.Borrow(c.Request().Context(), borrowUC.BorrowInput{
		UserID:           usr.ID,
		Asset:            req.Asset,
		Principal:        req.Principal,
		CollateralAsset:  req.CollateralAsset,
		CollateralAmount: req.CollateralAmount,
		DurationMonths:   req.DurationMonths,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"loan": dto, "credit_events": events})
}

func (h *BorrowHandler) Repay(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Repay(c.Request().Context(), usr.ID, loanID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowHandler) History(c echo.Context) error {
	usr, err := currentUser(c, h.auth)
	if err != nil {
		return writeDomainError(c, err)
	}
	loans, err := h.uc.History(c.Request().Context(), usr.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": loans})
}
