package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the uniform body of every API response
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithData sends a success envelope carrying data
func RespondWithData(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	RespondWithJSON(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}

// RespondWithList sends a success envelope carrying a list and its length
func RespondWithList(w http.ResponseWriter, data interface{}, count int) {
	RespondWithJSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// RespondWithMessage sends a success envelope with only a message
func RespondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Envelope{Success: true, Message: message})
}

// RespondWithError sends a failure envelope
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Envelope{Success: false, Message: message})
}

// RespondWithValidationErrors sends a 400 envelope listing the invalid fields
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	RespondWithJSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errors,
	})
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					RespondWithError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFoundHandler answers requests for unknown routes
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowedHandler answers requests with an unsupported method
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
