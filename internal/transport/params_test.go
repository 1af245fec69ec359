package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/middleware"
	"refurb-catalog/internal/repository"
	"refurb-catalog/internal/service"

	"go.uber.org/zap"
)

func TestParseProductFilter(t *testing.T) {
	filter, err := parseProductFilter(url.Values{
		"category_id":  {"3"},
		"stock_status": {"low_stock"},
		"is_featured":  {"false"},
		"search":       {"  thinkpad "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filter.CategoryID == nil || *filter.CategoryID != 3 {
		t.Errorf("unexpected category %v", filter.CategoryID)
	}
	if filter.StockStatus == nil || *filter.StockStatus != domain.StockLowStock {
		t.Errorf("unexpected stock status %v", filter.StockStatus)
	}
	if filter.IsFeatured == nil || *filter.IsFeatured {
		t.Errorf("is_featured=false must be kept as a constraint, got %v", filter.IsFeatured)
	}
	if filter.Search != "  thinkpad " {
		t.Errorf("search must be passed through for normalization, got %q", filter.Search)
	}
}

func TestParseProductFilter_OmittedAndEmpty(t *testing.T) {
	filter, err := parseProductFilter(url.Values{"category_id": {""}, "is_featured": {" "}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.CategoryID != nil || filter.StockStatus != nil || filter.IsFeatured != nil || filter.Search != "" {
		t.Errorf("empty options must not constrain the listing: %+v", filter)
	}
}

func TestParseProductFilter_Invalid(t *testing.T) {
	_, err := parseProductFilter(url.Values{
		"category_id":  {"x"},
		"stock_status": {"sold"},
		"is_featured":  {"maybe"},
	})

	var errs middleware.ValidationErrors
	if !errors.As(err, &errs) || len(errs) != 3 {
		t.Fatalf("expected three validation errors, got %v", err)
	}
	for i, field := range []string{"category_id", "stock_status", "is_featured"} {
		if errs[i].Field != field {
			t.Errorf("position %d: expected %s, got %s", i, field, errs[i].Field)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("failed to get user: %w", repository.ErrUserNotFound), http.StatusNotFound},
		{repository.ErrProductAlreadyExists, http.StatusConflict},
		{repository.ErrProductCategoryInvalid, http.StatusBadRequest},
		{service.ErrInvalidStockStatus, http.StatusBadRequest},
		{domain.ErrForbidden, http.StatusForbidden},
		{middleware.ValidationErrors{{Field: "name"}}, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, got)
		}
	}
}

func TestRespondError_HidesInternalCauses(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, zap.NewNop(), errors.New("pq: password authentication failed"), "Failed to fetch products")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body := w.Body.String(); body != "{\"success\":false,\"message\":\"Failed to fetch products\"}\n" {
		t.Errorf("unexpected body %s", body)
	}
}
