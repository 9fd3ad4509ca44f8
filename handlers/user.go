package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/middleware"
	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/pkg/money"
	"github.com/adesokan/walletcore/utils"
)

func (h *Handlers) GetUser(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return utils.BadRequest(c, "user id is required")
	}
	// A bearer token only grants access to its own account.
	if id != middleware.GetUserID(c) {
		return utils.Unauthorized(c, "token does not match requested user")
	}

	user, err := h.services.Account().GetUser(c.Request().Context(), id)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Success(c, map[string]any{
		"user": models.UserToResponse(user),
	})
}

// DepositUSD converts naira into dollars. The amount query parameter is
// the gross dollar amount in major units.
func (h *Handlers) DepositUSD(c echo.Context) error {
	raw := c.QueryParam("amount")
	if raw == "" {
		return utils.BadRequest(c, "amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return utils.BadRequest(c, "amount must be a decimal number")
	}

	usdGross := money.FromDecimal(amount, money.USD)
	result, err := h.services.Account().ExecuteConversion(c.Request().Context(), middleware.GetUserID(c), usdGross)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Success(c, map[string]any{
		"newTrx":         models.TransactionToResponse(result.Transaction),
		"accountBalance": money.ToMajorUnits(result.User.AccountBalance),
	})
}

func (h *Handlers) GetUSDStatus(c echo.Context) error {
	reference := c.QueryParam("reference")
	if reference == "" {
		return utils.BadRequest(c, "reference is required")
	}

	tx, user, err := h.services.Account().GetUSDStatus(c.Request().Context(), reference)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if tx.UserID != middleware.GetUserID(c) {
		return utils.NotFound(c, "transaction not found")
	}

	return utils.Success(c, map[string]any{
		"status":  string(tx.Status),
		"balance": money.ToMajorUnits(user.USDBalance),
	})
}

func (h *Handlers) ListTransactions(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return utils.BadRequest(c, "limit must be an integer")
		}
		limit = parsed
	}

	cursor, err := utils.DecodeCursor(c.QueryParam("cursor"))
	if err != nil {
		return utils.BadRequest(c, "cursor is not valid")
	}

	txs, nextCursor, err := h.services.Account().ListTransactions(c.Request().Context(), middleware.GetUserID(c), limit, cursor)
	if err != nil {
		return utils.HandleError(c, err)
	}

	responses := make([]*models.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, models.TransactionToResponse(tx))
	}

	return utils.Success(c, map[string]any{
		"transactions": responses,
		"nextCursor":   nextCursor,
	})
}
