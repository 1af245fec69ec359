package transport

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.ValidationErrors{{Field: name, Message: "Valid ID is required"}}
	}
	return id, nil
}

// queryValue returns the trimmed value of key and whether it was supplied
// with a non-empty value.
func queryValue(query url.Values, key string) (string, bool) {
	if !query.Has(key) {
		return "", false
	}
	value := strings.TrimSpace(query.Get(key))
	return value, value != ""
}

// parseProductFilter reads the listing options from the query string. Only
// supplied options are set, so is_featured=false stays distinct from an
// omitted is_featured.
func parseProductFilter(query url.Values) (domain.ProductFilter, error) {
	var filter domain.ProductFilter
	var errs middleware.ValidationErrors

	if value, ok := queryValue(query, "category_id"); ok {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			errs = append(errs, middleware.ValidationError{Field: "category_id", Message: "Must be an integer"})
		} else {
			filter.CategoryID = &id
		}
	}

	if value, ok := queryValue(query, "stock_status"); ok {
		status := domain.StockStatus(value)
		if !status.Valid() {
			errs = append(errs, middleware.ValidationError{
				Field:   "stock_status",
				Message: "Must be one of: " + domain.StockStatusList(),
			})
		} else {
			filter.StockStatus = &status
		}
	}

	if value, ok := queryValue(query, "is_featured"); ok {
		featured, err := strconv.ParseBool(value)
		if err != nil {
			errs = append(errs, middleware.ValidationError{Field: "is_featured", Message: "Must be true or false"})
		} else {
			filter.IsFeatured = &featured
		}
	}

	filter.Search = query.Get("search")

	if len(errs) > 0 {
		return domain.ProductFilter{}, errs
	}
	return filter, nil
}

// queryBool parses an optional boolean option; an omitted option is false.
func queryBool(query url.Values, key string) (bool, error) {
	value, ok := queryValue(query, key)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, middleware.ValidationErrors{{Field: key, Message: "Must be true or false"}}
	}
	return b, nil
}
