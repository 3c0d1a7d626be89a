package http

import (
	"errors"
	"fmt"
	"net/http"

	creditDomain "defi-credit-backend/internal/domain/credit"
	depositDomain "defi-credit-backend/internal/domain/deposit"
	loanDomain "defi-credit-backend/internal/domain/loan"
	poolDomain "defi-credit-backend/internal/domain/pool"
	userDomain "defi-credit-backend/internal/domain/user"
	"defi-credit-backend/internal/kyc"
	authUC "defi-credit-backend/internal/usecase/auth"
	borrowUC "defi-credit-backend/internal/usecase/borrow"
	creditUC "defi-credit-backend/internal/usecase/credit"
	depositUC "defi-credit-backend/internal/usecase/deposit"

	"github.com/labstack/echo/v4"
)

// writeDomainError maps domain sentinels to HTTP status codes. Anything
// unrecognized is an upstream failure and surfaces as a 500.
func writeDomainError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, ErrorResponse{Error: fmt.Sprint(he.Message)})
	}
	switch {
	case errors.Is(err, authUC.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, userDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, depositDomain.ErrNotFound),
		errors.Is(err, poolDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, creditDomain.ErrAlreadyClaimed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanDomain.ErrAlreadyCompleted),
		errors.Is(err, depositDomain.ErrWithdrawn):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, borrowUC.ErrInvalidInput),
		errors.Is(err, depositUC.ErrInvalidInput),
		errors.Is(err, authUC.ErrInvalidInput),
		errors.Is(err, userDomain.ErrEmailTaken),
		errors.Is(err, userDomain.ErrUnderAge),
		errors.Is(err, poolDomain.ErrInsufficientLiquidity),
		errors.Is(err, creditUC.ErrRuleNotTriggered):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, kyc.ErrExtractionFailed):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
