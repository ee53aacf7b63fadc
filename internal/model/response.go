package model

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body returned for failed requests.
//
// swagger:model
type ErrorResponse struct {

	// A message describing what went wrong
	Error string `json:"error"`
}

// MessageResponse is the body returned for requests that succeed without a
// resource to return.
//
// swagger:model
type MessageResponse struct {

	// A message describing the result
	Message string `json:"message"`
}

// QuotaDeniedResponse is the body returned when a creation request exceeds
// the account's plan ceiling. The current and limit values give the caller
// actionable numbers.
//
// swagger:model
type QuotaDeniedResponse struct {

	// A message describing the denial
	Error string `json:"error"`

	// The usage observed at decision time
	Current int `json:"current"`

	// The plan ceiling the usage was compared against
	Limit int `json:"limit"`
}

// Error sends an error response to the caller.
func Error(ctx echo.Context, msg string, code int) error {
	return ctx.JSON(code, ErrorResponse{Error: msg})
}

// Success sends a response body to the caller.
func Success(ctx echo.Context, body interface{}, code int) error {
	return ctx.JSON(code, body)
}

// SuccessMessage sends a plain message response to the caller.
func SuccessMessage(ctx echo.Context, msg string, code int) error {
	return ctx.JSON(code, MessageResponse{Message: msg})
}

// QuotaDenied sends the 403 response for a quota decision that denied a
// creation request.
func QuotaDenied(ctx echo.Context, msg string, decision QuotaDecision) error {
	return ctx.JSON(http.StatusForbidden, QuotaDeniedResponse{
		Error:   msg,
		Current: decision.Current,
		Limit:   decision.Limit,
	})
}
