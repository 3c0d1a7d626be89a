package http

import (
	"net/http"
	"time"

	userDomain "defi-credit-backend/internal/domain/user"
	authUC "defi-credit-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// currentUser resolves the authenticated email (set by the auth middleware)
// to its user row.
func currentUser(c echo.Context, auth *authUC.Usecase) (*userDomain.User, error) {
	email, _ := c.Get("email").(string)
	if email == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated session")
	}
	return auth.ResolveUser(c.Request().Context(), email)
}
