package transport

import (
	"errors"
	"net/http"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/middleware"
	"refurb-catalog/internal/repository"
	"refurb-catalog/internal/service"

	"go.uber.org/zap"
)

// clientMessages are the client-facing texts of known failures, most
// specific first.
var clientMessages = []struct {
	err     error
	message string
}{
	{service.ErrInvalidCredentials, "Invalid credentials"},
	{service.ErrIncorrectPassword, "Current password is incorrect"},
	{repository.ErrProductNotFound, "Product not found"},
	{repository.ErrCategoryNotFound, "Category not found"},
	{repository.ErrUserNotFound, "User not found"},
	{repository.ErrProductAlreadyExists, "Product with this slug already exists"},
	{repository.ErrCategoryAlreadyExists, "Category with this name or slug already exists"},
	{repository.ErrUserAlreadyExists, "User with this username or email already exists"},
	{domain.ErrUnauthenticated, "Authentication required"},
	{domain.ErrForbidden, "Admin access required"},
	{domain.ErrNotFound, "Resource not found"},
	{domain.ErrDuplicateKey, "Resource already exists"},
	{domain.ErrInvalidReference, "Invalid reference"},
}

func clientMessage(err error) string {
	for _, m := range clientMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return ""
}

// statusFor maps an error kind to its HTTP status. Unclassified errors are
// 500.
func statusFor(err error) int {
	var validationErrs middleware.ValidationErrors

	switch {
	case errors.As(err, &validationErrs), errors.Is(err, service.ErrInvalidStockStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError is the single translation point from failures to HTTP
// responses. fallback is sent for unclassified failures, whose cause is only
// logged.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var validationErrs middleware.ValidationErrors
	if errors.As(err, &validationErrs) {
		logger.Debug("Request validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, validationErrs)
		return
	}

	if errors.Is(err, service.ErrInvalidStockStatus) {
		logger.Debug("Invalid stock status", zap.Error(err))
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "stock_status", Message: "Must be one of: " + domain.StockStatusList()},
		})
		return
	}

	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, status, fallback)
		return
	case http.StatusBadRequest:
		// Only the category reference is a foreign key.
		logger.Debug("Invalid reference", zap.Error(err))
		middleware.RespondWithJSON(w, status, middleware.Envelope{
			Success: false,
			Message: clientMessage(err),
			Errors:  []middleware.ValidationError{{Field: "category_id", Message: "Category does not exist"}},
		})
		return
	case http.StatusForbidden:
		logger.Warn("Forbidden", zap.Error(err))
	default:
		logger.Debug("Request failed", zap.Int("status", status), zap.Error(err))
	}

	middleware.RespondWithError(w, status, clientMessage(err))
}
