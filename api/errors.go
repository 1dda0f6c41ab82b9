package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error            string `json:"error"`
	Status           string `json:"status,omitempty"`
	FailedAt         string `json:"failed_at,omitempty"`
	Field            string `json:"field,omitempty"`
	Required         *int64 `json:"required,omitempty"`
	Available        *int64 `json:"available,omitempty"`
	RequiredDisplay  string `json:"required_display,omitempty"`
	AvailableDisplay string `json:"available_display,omitempty"`
}

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and reported as a generic 500.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var (
		resp     errorResponse
		rejected *domain.RejectedError
		invalid  domain.ValidationError
		funds    domain.InsufficientFundsError
		internal domain.InternalError
	)
	if errors.As(err, &rejected) {
		resp.Status = string(domain.StateRejected)
		resp.FailedAt = string(rejected.State)
	}

	status := statusFor(err)
	switch {
	case errors.As(err, &funds):
		resp.Error = funds.Error()
		if !funds.Raced {
			resp.Required = &funds.Required
			resp.Available = &funds.Available
			resp.RequiredDisplay = domain.FormatMinor(funds.Required)
			resp.AvailableDisplay = domain.FormatMinor(funds.Available)
		}
	case errors.As(err, &invalid):
		resp.Error = invalid.Error()
		resp.Field = invalid.Field
	case status == http.StatusNotFound:
		resp.Error = err.Error()
	case errors.As(err, &internal):
		resp.Error = internal.Error()
	default:
		resp.Error = "internal server error"
	}

	if status == http.StatusInternalServerError {
		msg := "request failed"
		if !domain.IsInternal(err) {
			msg = "unclassified error"
		}
		log.ErrorContext(c.Request.Context(), msg,
			slog.String("path", c.FullPath()), slog.String("request_id", requestID(c)), logger.Err(err))
	}
	c.JSON(status, resp)
}

// statusFor classifies err. An unknown flight is 404 even when it arrives as
// a validation failure of a booking request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFlightNotFound), domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsInsufficientFunds(err), domain.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
