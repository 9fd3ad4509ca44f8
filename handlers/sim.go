package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/utils"
)

type simTransferRequest struct {
	UserID string  `json:"userId" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// SimulateTransfer plays the role of the bank rail: it records an
// inbound naira transfer that settles after the configured delay. It is
// unauthenticated on purpose so test drivers can fund any account.
func (h *Handlers) SimulateTransfer(c echo.Context) error {
	var req simTransferRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.ValidationError(c, utils.FormatValidationErrors(err))
	}

	amount := money.FromMajorUnits(req.Amount, money.NGN)
	tx, err := h.services.Account().RegisterBankTransfer(c.Request().Context(), req.UserID, amount)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Created(c, map[string]any{
		"transaction": models.TransactionToResponse(tx),
	})
}
