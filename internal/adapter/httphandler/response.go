package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

const maxBodyBytes = 1 << 20

var errBadJSON = errors.New("invalid JSON data")

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.With("op", op).Error("failed to write response body", "err", err)
	}
}

// writeError maps domain errors to response statuses.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	} else {
		log.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCheckoutFailed):
		return http.StatusBadGateway, "checkout is not available, try again later"
	case errors.Is(err, domain.ErrEmptyBasket):
		return http.StatusConflict, "basket is empty"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "not enough items in stock"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "basket was changed, try again"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidCoupon):
		return http.StatusBadRequest, "unknown coupon code"
	case errors.Is(err, domain.ErrInvalidProduct):
		return http.StatusUnprocessableEntity, "product can not be sold"
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, "temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request canceled"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// decodeJSON reads a single JSON object into v and validates it.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadJSON, err)
	}
	return validate.Struct(v)
}

func writeDecodeError(w http.ResponseWriter, log *slog.Logger, err error) {
	log.Warn("invalid request body", "err", err)

	if details := validationDetails(err); len(details) != 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "request validation failed",
			Details: details,
		})
		return
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errBadJSON.Error()})
}
