package transport

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"refurb-catalog/internal/domain"

	"github.com/shopspring/decimal"
)

func TestProductHandler_CreateAndFetch(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")

	body := productBody("Dell Latitude 7490", "dell-latitude-7490", laptops.ID)
	body["price"] = 28999
	body["original_price"] = 45000
	body["brand"] = "Dell"
	body["is_featured"] = true

	created := api.mustProduct(body)
	if !created.Price.Equal(decimal.NewFromInt(28999)) || !created.OriginalPrice.Valid {
		t.Errorf("unexpected prices %s %v", created.Price, created.OriginalPrice)
	}
	if created.CategoryName == nil || *created.CategoryName != "Laptops" {
		t.Errorf("expected category name on the product, got %v", created.CategoryName)
	}

	code, env := api.do("GET", "/api/products/"+strconv.FormatInt(created.ID, 10), "", nil)
	if code != http.StatusOK {
		t.Fatalf("expected product by id, got %d", code)
	}

	code, env = api.do("GET", "/api/products/slug/dell-latitude-7490", "", nil)
	if code != http.StatusOK {
		t.Fatalf("expected product by slug, got %d", code)
	}
	var bySlug domain.Product
	decodeData(t, env, &bySlug)
	if bySlug.ID != created.ID || bySlug.Brand == nil || *bySlug.Brand != "Dell" {
		t.Errorf("unexpected product %+v", bySlug)
	}

	code, env = api.do("GET", "/api/products/category/laptops", "", nil)
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Errorf("expected one product in the category, got %d %v", code, env.Count)
	}

	code, env = api.do("GET", "/api/products/category/unknown", "", nil)
	if code != http.StatusOK || env.Count == nil || *env.Count != 0 {
		t.Errorf("expected an empty list for an unknown category, got %d %v", code, env.Count)
	}
}

func TestProductHandler_CreateFailures(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")
	api.mustProduct(productBody("ThinkPad", "thinkpad", laptops.ID))

	t.Run("duplicate slug", func(t *testing.T) {
		code, env := api.do("POST", "/api/products", api.adminToken, productBody("Other", "thinkpad", laptops.ID))
		if code != http.StatusConflict || env.Message != "Product with this slug already exists" {
			t.Errorf("expected 409, got %d %q", code, env.Message)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		code, env := api.do("POST", "/api/products", api.adminToken, productBody("Other", "other", 9999))
		if code != http.StatusBadRequest || len(env.Errors) != 1 || env.Errors[0].Field != "category_id" {
			t.Errorf("expected 400 on category_id, got %d %q %v", code, env.Message, env.Errors)
		}
	})

	t.Run("invalid fields", func(t *testing.T) {
		body := productBody("Other", "other", laptops.ID)
		body["price"] = -1
		body["stock_status"] = "sold"
		code, env := api.do("POST", "/api/products", api.adminToken, body)
		if code != http.StatusBadRequest || len(env.Errors) != 2 {
			t.Fatalf("expected two validation errors, got %d %v", code, env.Errors)
		}
		if env.Errors[0].Field != "price" || env.Errors[1].Field != "stock_status" {
			t.Errorf("unexpected fields %v", env.Errors)
		}
	})

	code, env := api.do("GET", "/api/products", "", nil)
	if code != http.StatusOK || *env.Count != 1 {
		t.Errorf("failed creations changed the catalog: %v", env.Count)
	}
}

func TestProductHandler_ListFilters(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")
	phones := api.mustCategory("Phones", "phones")

	featured := productBody("Dell Latitude", "dell-latitude", laptops.ID)
	featured["is_featured"] = true
	api.mustProduct(featured)
	api.mustProduct(productBody("HP EliteBook", "hp-elitebook", laptops.ID))
	phone := productBody("Galaxy S21", "galaxy-s21", phones.ID)
	phone["stock_status"] = "out_of_stock"
	phone["is_featured"] = true
	api.mustProduct(phone)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"galaxy-s21", "hp-elitebook", "dell-latitude"}},
		{"?is_featured=true", []string{"galaxy-s21", "dell-latitude"}},
		{"?is_featured=false", []string{"hp-elitebook"}},
		{"?category_id=" + strconv.FormatInt(laptops.ID, 10), []string{"hp-elitebook", "dell-latitude"}},
		{"?stock_status=out_of_stock", []string{"galaxy-s21"}},
		{"?search=ELITE", []string{"hp-elitebook"}},
		{"?search=%25", nil},
		{"?category_id=" + strconv.FormatInt(laptops.ID, 10) + "&is_featured=true", []string{"dell-latitude"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			code, env := api.do("GET", "/api/products"+tt.query, "", nil)
			if code != http.StatusOK {
				t.Fatalf("expected 200, got %d %v", code, env.Errors)
			}
			var products []domain.Product
			decodeData(t, env, &products)

			if len(products) != len(tt.want) || *env.Count != len(tt.want) {
				t.Fatalf("expected %v, got %d products", tt.want, len(products))
			}
			for i, p := range products {
				if p.Slug != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], p.Slug)
				}
			}
		})
	}

	for _, query := range []string{"?is_featured=yes", "?stock_status=sold", "?category_id=abc"} {
		if code, _ := api.do("GET", "/api/products"+query, "", nil); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", query, code)
		}
	}

	code, env := api.do("GET", "/api/products/featured", "", nil)
	if code != http.StatusOK || *env.Count != 1 {
		t.Errorf("featured listing must only contain in-stock items, got %v", env.Count)
	}
}

func TestProductHandler_UpdateAndStock(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")
	product := api.mustProduct(productBody("ThinkPad", "thinkpad", laptops.ID))
	path := "/api/products/" + strconv.FormatInt(product.ID, 10)

	code, env := api.do("PUT", path, api.adminToken, map[string]interface{}{"price": 899.5, "ram": "16GB"})
	if code != http.StatusOK || env.Message != "Product updated successfully" {
		t.Fatalf("expected update, got %d %q", code, env.Message)
	}
	var updated domain.Product
	decodeData(t, env, &updated)
	if updated.Name != "ThinkPad" || !updated.Price.Equal(decimal.RequireFromString("899.5")) || *updated.RAM != "16GB" {
		t.Errorf("unexpected update result %+v", updated)
	}

	code, env = api.do("PATCH", path+"/stock", api.adminToken, map[string]string{"stock_status": "low_stock"})
	if code != http.StatusOK || env.Message != "Stock status updated successfully" {
		t.Fatalf("expected stock update, got %d %q", code, env.Message)
	}
	decodeData(t, env, &updated)
	if updated.StockStatus != domain.StockLowStock {
		t.Errorf("expected low_stock, got %s", updated.StockStatus)
	}

	code, env = api.do("PATCH", path+"/stock", api.adminToken, map[string]string{"stock_status": "sold"})
	if code != http.StatusBadRequest || env.Errors[0].Field != "stock_status" {
		t.Errorf("expected stock_status validation error, got %d %v", code, env.Errors)
	}

	if code, env := api.do("PUT", "/api/products/9999", api.adminToken, map[string]string{"name": "x"}); code != http.StatusNotFound || env.Message != "Product not found" {
		t.Errorf("expected 404, got %d %q", code, env.Message)
	}

	code, env = api.do("DELETE", path, api.adminToken, nil)
	if code != http.StatusOK || env.Message != "Product deleted successfully" {
		t.Fatalf("expected delete, got %d %q", code, env.Message)
	}
	if code, _ := api.do("DELETE", path, api.adminToken, nil); code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", code)
	}
}

func TestProductHandler_UpdateWithNullClearsFields(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")

	body := productBody("ThinkPad X1", "thinkpad-x1", laptops.ID)
	body["original_price"] = 200
	body["description"] = "old"
	body["brand"] = "Lenovo"
	body["image_url"] = "https://example.com/x1.jpg"
	product := api.mustProduct(body)
	path := "/api/products/" + strconv.FormatInt(product.ID, 10)

	code, env := api.do("PUT", path, api.adminToken,
		`{"original_price":null,"category_id":null,"description":null,"brand":null,"image_url":null}`)
	if code != http.StatusOK || env.Message != "Product updated successfully" {
		t.Fatalf("expected update, got %d %q %v", code, env.Message, env.Errors)
	}

	code, env = api.do("GET", path, "", nil)
	if code != http.StatusOK {
		t.Fatalf("expected product, got %d", code)
	}
	var fetched domain.Product
	decodeData(t, env, &fetched)
	if fetched.OriginalPrice.Valid || fetched.CategoryID != nil || fetched.CategoryName != nil ||
		fetched.Description != nil || fetched.Brand != nil || fetched.ImageURL != nil {
		t.Errorf("expected nullable fields cleared, got %+v", fetched)
	}
	if fetched.Name != "ThinkPad X1" || !fetched.Price.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("absent fields changed: %+v", fetched)
	}

	code, env = api.do("GET", "/api/products/category/laptops", "", nil)
	if code != http.StatusOK || *env.Count != 0 {
		t.Errorf("expected the product to leave its category, got %v", env.Count)
	}

	code, env = api.do("PUT", path, api.adminToken, map[string]interface{}{"category_id": 9999})
	if code != http.StatusBadRequest || len(env.Errors) != 1 || env.Errors[0].Field != "category_id" {
		t.Errorf("expected unknown category to be rejected, got %d %v", code, env.Errors)
	}

	code, env = api.do("PUT", path, api.adminToken, map[string]interface{}{"original_price": -5, "ram": strings.Repeat("x", 51)})
	if code != http.StatusBadRequest || len(env.Errors) != 2 {
		t.Errorf("expected present nullable fields to be validated, got %d %v", code, env.Errors)
	}
}

func TestProductHandler_TrimsNameAndSlug(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")

	created := api.mustProduct(productBody("  Dell XPS 13  ", "  dell-xps-13 ", laptops.ID))
	if created.Name != "Dell XPS 13" || created.Slug != "dell-xps-13" {
		t.Errorf("expected trimmed name and slug, got %q %q", created.Name, created.Slug)
	}
	if code, _ := api.do("GET", "/api/products/slug/dell-xps-13", "", nil); code != http.StatusOK {
		t.Errorf("expected product by trimmed slug, got %d", code)
	}

	code, env := api.do("POST", "/api/products", api.adminToken, productBody("Other", " dell-xps-13", laptops.ID))
	if code != http.StatusConflict {
		t.Errorf("expected padded duplicate slug to conflict, got %d %q", code, env.Message)
	}

	path := "/api/products/" + strconv.FormatInt(created.ID, 10)
	code, env = api.do("PUT", path, api.adminToken, map[string]string{"slug": "   "})
	if code != http.StatusBadRequest || len(env.Errors) != 1 || env.Errors[0].Field != "slug" {
		t.Errorf("expected blank slug to be rejected, got %d %v", code, env.Errors)
	}
}

func TestProductHandler_PricesRoundedToCents(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")

	body := productBody("Surface Pro", "surface-pro", laptops.ID)
	body["price"] = "499.999"
	body["original_price"] = "650.004"
	created := api.mustProduct(body)

	if !created.Price.Equal(decimal.RequireFromString("500")) || !created.OriginalPrice.Decimal.Equal(decimal.RequireFromString("650")) {
		t.Errorf("expected prices rounded to cents, got %s and %s", created.Price, created.OriginalPrice.Decimal)
	}
}

func TestProductHandler_Stats(t *testing.T) {
	api := newTestAPI(t)
	laptops := api.mustCategory("Laptops", "laptops")
	api.mustProduct(productBody("A", "a", laptops.ID))
	low := productBody("B", "b", laptops.ID)
	low["stock_status"] = "low_stock"
	low["is_featured"] = true
	api.mustProduct(low)

	if code, _ := api.do("GET", "/api/products/admin/stats", "", nil); code != http.StatusUnauthorized {
		t.Errorf("expected stats to require a token, got %d", code)
	}

	code, env := api.do("GET", "/api/products/admin/stats", api.adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("expected stats, got %d", code)
	}
	var stats domain.ProductStats
	decodeData(t, env, &stats)

	want := domain.ProductStats{TotalProducts: 2, InStock: 1, OutOfStock: 0, LowStock: 1, Featured: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}
