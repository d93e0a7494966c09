package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageMeta describes one page of a listing.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// PaginatedResponse is the uniform paginated envelope.
type PaginatedResponse struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// ErrorEnvelope is the uniform error envelope.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Success sends {data, message?} with the given status.
func Success(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, SuccessResponse{Data: data, Message: message})
}

// Paginated sends {data, meta} with status 200.
func Paginated(c echo.Context, data interface{}, meta PageMeta) error {
	return c.JSON(http.StatusOK, PaginatedResponse{Data: data, Meta: meta})
}

// RespondError maps an error to the envelope and HTTP status for its kind.
func RespondError(c echo.Context, err error) error {
	appErr := AsAppError(err)
	status := http.StatusInternalServerError
	switch appErr.Kind {
	case KindValidation, KindConflict:
		status = http.StatusUnprocessableEntity
	case KindNotFound:
		status = http.StatusNotFound
	case KindUnavailable:
		status = http.StatusNotImplemented
	}
	return c.JSON(status, ErrorEnvelope{Message: appErr.Message, Errors: appErr.Fields})
}

// SendUnauthorizedError answers a request whose caller context is missing.
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorEnvelope{Message: "Unauthorized access"})
}

// SendClientError answers a malformed request body or parameter.
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorEnvelope{Message: message})
}

// NewPageMeta computes totalPages from a row count.
func NewPageMeta(page, limit int, total int64) PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return PageMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
