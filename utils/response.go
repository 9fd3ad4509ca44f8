package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Every endpoint answers with the same envelope: {ok, data} on success,
// {ok, error} on failure. Clients check ok before touching data.
type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	OK     bool              `json:"ok"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func HandleError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var (
		baseErr error
		message string
	)

	if wrappedErr, ok := IsWrappedError(err); ok {
		message = wrappedErr.GetMessage()
		baseErr = wrappedErr.Unwrap()
	} else {
		message = err.Error()
		baseErr = err
	}

	switch {
	case errors.Is(baseErr, ErrNotFound):
		return NotFound(c, message)
	case errors.Is(baseErr, ErrDuplicatedKey):
		return Conflict(c, message)
	case errors.Is(baseErr, ErrBadRequest):
		return BadRequest(c, message)
	case errors.Is(baseErr, ErrUnauthorized):
		return Unauthorized(c, message)
	case errors.Is(baseErr, ErrInternal):
		fallthrough
	default:
		return InternalError(c, message)
	}
}

func Success(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{OK: true, Data: data})
}

func Created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, SuccessResponse{OK: true, Data: data})
}

func BadRequest(c echo.Context, message string) error {
	return errorResponse(c, http.StatusBadRequest, message)
}

func NotFound(c echo.Context, message string) error {
	return errorResponse(c, http.StatusNotFound, message)
}

func Conflict(c echo.Context, message string) error {
	return errorResponse(c, http.StatusConflict, message)
}

func Unauthorized(c echo.Context, message string) error {
	return errorResponse(c, http.StatusUnauthorized, message)
}

func InternalError(c echo.Context, message string) error {
	return errorResponse(c, http.StatusInternalServerError, message)
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, ErrorResponse{OK: false, Error: message})
}

func ValidationError(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		OK:     false,
		Error:  "Validation failed",
		Fields: fields,
	})
}
