package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/adesokan/walletcore/models"
	"github.com/adesokan/walletcore/utils"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.ValidationError(c, utils.FormatValidationErrors(err))
	}

	user, token, err := h.services.Auth().Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Success(c, map[string]any{
		"user":  models.UserToResponse(user),
		"token": token,
	})
}

func (h *Handlers) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.ValidationError(c, utils.FormatValidationErrors(err))
	}

	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Tier:      models.TierIndividual,
	}
	if err := h.services.Auth().Register(c.Request().Context(), user, req.Password); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Created(c, map[string]any{
		"user": models.UserToResponse(user),
	})
}
