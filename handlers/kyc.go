package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/adesokan/walletcore/middleware"
	"github.com/adesokan/walletcore/services"
	"github.com/adesokan/walletcore/utils"
)

// Identity fields arrive as query parameters, matching the upstream
// vendor contract the simulator mimics.

func (h *Handlers) VerifyBVN(c echo.Context) error {
	outcome, err := h.services.KYC().VerifyBVN(c.Request().Context(), middleware.GetUserID(c), c.QueryParam("bvn"))
	return h.kycResponse(c, outcome, err)
}

func (h *Handlers) VerifyNIN(c echo.Context) error {
	outcome, err := h.services.KYC().VerifyNIN(c.Request().Context(), middleware.GetUserID(c), c.QueryParam("nin"))
	return h.kycResponse(c, outcome, err)
}

func (h *Handlers) VerifyCAC(c echo.Context) error {
	outcome, err := h.services.KYC().VerifyCAC(c.Request().Context(), middleware.GetUserID(c),
		c.QueryParam("rcNumber"), c.QueryParam("companyName"))
	return h.kycResponse(c, outcome, err)
}

func (h *Handlers) VerifyCorporate(c echo.Context) error {
	outcome, err := h.services.KYC().VerifyCorporate(c.Request().Context(), middleware.GetUserID(c),
		c.QueryParam("rcNumber"), c.QueryParam("directorBvn"))
	return h.kycResponse(c, outcome, err)
}

func (h *Handlers) kycResponse(c echo.Context, outcome *services.VerificationOutcome, err error) error {
	if err != nil {
		return utils.HandleError(c, err)
	}

	warnings := outcome.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return utils.Success(c, map[string]any{
		"otp":      outcome.OTP,
		"trx":      outcome.Trx,
		"success":  outcome.Success,
		"warnings": warnings,
	})
}
