package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"refurb-catalog/internal/domain"
)

// Validator instance
var validate *validator.Validate

// conform applies `mod` tags, such as trim, to decoded request bodies.
var conform *mold.Transformer = modifiers.New()

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Compare decimals numerically so gte/lte apply to prices.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Validate the value of a supplied nullable field; absent and null ones
	// only satisfy omitempty.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if n, ok := field.Interface().(interface{ ValidationValue() interface{} }); ok {
			return n.ValidationValue()
		}
		return nil
	}, domain.Nullable[string]{}, domain.Nullable[int64]{}, domain.Nullable[decimal.Decimal]{})
}

// maxBodyBytes bounds request bodies accepted by DecodeAndValidate.
const maxBodyBytes = 1 << 20

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when a request body is malformed or fails
// validation
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateRequest validates a struct against its validation tags
func ValidateRequest(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		if errs := FormatValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// DecodeAndValidate decodes JSON request body, applies its `mod` tags and
// validates it. Malformed bodies and type mismatches are reported as
// ValidationErrors.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return decodeError(err)
	}
	if err := NormalizeRequest(r.Context(), v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// NormalizeRequest applies the `mod` tags of v, trimming padded strings
// before they are validated.
func NormalizeRequest(ctx context.Context, v interface{}) error {
	if err := conform.Struct(ctx, v); err != nil {
		return fmt.Errorf("failed to normalize request: %w", err)
	}
	return nil
}

func decodeError(err error) ValidationErrors {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return ValidationErrors{{Field: field, Message: "Must be of type " + typeErr.Type.String()}}
	case errors.Is(err, io.EOF):
		return ValidationErrors{{Field: "body", Message: "Request body is required"}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return ValidationErrors{{Field: "body", Message: "Malformed JSON"}}
	default:
		return ValidationErrors{{Field: "body", Message: "Invalid request body"}}
	}
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errs
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", e.Param())
		}
		return "Value must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", e.Param())
		}
		return "Value must be at most " + e.Param()
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(e.Param()), ", ")
	default:
		return "Invalid value"
	}
}
