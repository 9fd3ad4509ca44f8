package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adesokan/walletcore/config"
	"github.com/adesokan/walletcore/handlers"
	"github.com/adesokan/walletcore/middleware"
)

func Register(e *echo.Echo, h *handlers.Handlers, cfg *config.Config) {
	e.Use(middleware.TraceIDMiddleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/auth/login", h.Login)
	e.POST("/auth/register", h.Register)

	// The bank-rail simulation endpoint stays open so test drivers can
	// fund accounts without a token.
	e.POST("/sim/transfers", h.SimulateTransfer)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	users := e.Group("/users", auth)
	users.GET("/:id", h.GetUser)
	users.POST("/deposit-usd", h.DepositUSD)
	users.GET("/user/usdt-status", h.GetUSDStatus)
	users.GET("/user/transactions", h.ListTransactions)

	cards := e.Group("/virtual-card", auth)
	cards.GET("/exchange-rate", h.GetExchangeRate)

	kyc := e.Group("/kyc", auth)
	kyc.POST("/verify-bvn", h.VerifyBVN)
	kyc.POST("/verify-nin", h.VerifyNIN)
	kyc.POST("/verify-cac", h.VerifyCAC)
	kyc.POST("/verify-corporate", h.VerifyCorporate)
}
