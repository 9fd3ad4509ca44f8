package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/adesokan/walletcore/utils"
)

// GetExchangeRate reports the NGN per USD rate. The rate travels as a
// string to keep the wire contract stable across provider precisions.
func (h *Handlers) GetExchangeRate(c echo.Context) error {
	rate, err := h.services.Rates().Current(c.Request().Context())
	if err != nil {
		return utils.InternalError(c, "exchange rate unavailable")
	}

	return utils.Success(c, map[string]any{
		"rate": rate.String(),
	})
}
