package http

import (
	"net/http"

	"defi-credit-backend/internal/domain/uow"

	"github.com/labstack/echo/v4"
)

type PoolHandler struct{ uow uow.UnitOfWork }

func NewPoolHandler(tx uow.UnitOfWork) *PoolHandler { return &PoolHandler{uow: tx} }

// List returns every asset pool with its aggregate totals. Public: the
// lending UI renders this before sign-in.
func (h *PoolHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var out any
	err := h.uow.WithinTx(ctx, func(r uow.Repos) error {
		pools, err := r.Pools.List(ctx)
		if err != nil {
			return err
		}
		out = pools
		return nil
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"pools": out})
}
