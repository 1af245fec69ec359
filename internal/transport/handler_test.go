package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"refurb-catalog/internal/auth"
	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/middleware"
	"refurb-catalog/internal/repository/memory"
	"refurb-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// envelope mirrors middleware.Envelope with the payload left undecoded.
type envelope struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message"`
	Count   *int                         `json:"count"`
	Data    json.RawMessage              `json:"data"`
	Errors  []middleware.ValidationError `json:"errors"`
}

type testAPI struct {
	t          *testing.T
	store      *memory.Store
	handler    http.Handler
	admin      *domain.User
	adminToken string
	tokens     *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	hash, err := auth.HashPasswordWithCost("admin123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := &domain.User{Username: "admin", Email: "admin@example.com", PasswordHash: hash, Role: domain.RoleAdmin}
	if err := store.Users().Create(context.Background(), admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	tokens := auth.NewTokenManager("handler-test-secret", 0)
	adminToken, err := tokens.IssueToken(auth.Subject{ID: admin.ID, Username: admin.Username, Role: admin.Role})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	logger := zap.NewNop()
	authMW := middleware.AuthMiddleware(tokens, logger)
	adminMW := middleware.RequireAdmin(logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewAuthHandler(service.NewAuthService(store.Users(), tokens), logger).RegisterRoutes(r, authMW, nil)
		NewCategoryHandler(service.NewCategoryService(store.Categories()), logger).RegisterRoutes(r, authMW, adminMW)
		NewProductHandler(service.NewProductService(store.Products(), store.Categories()), logger).RegisterRoutes(r, authMW, adminMW)
	})

	return &testAPI{
		t:          t,
		store:      store,
		handler:    router,
		admin:      admin,
		adminToken: adminToken,
		tokens:     tokens,
	}
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			a.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: response is not an envelope: %v (%s)", method, path, err, w.Body.String())
	}
	return w.Code, env
}

func (a *testAPI) mustCategory(name, slug string) domain.Category {
	a.t.Helper()

	code, env := a.do("POST", "/api/categories", a.adminToken, map[string]interface{}{"name": name, "slug": slug})
	if code != http.StatusCreated {
		a.t.Fatalf("failed to create category: %d %s", code, env.Message)
	}
	var category domain.Category
	decodeData(a.t, env, &category)
	return category
}

func (a *testAPI) mustProduct(body map[string]interface{}) domain.Product {
	a.t.Helper()

	code, env := a.do("POST", "/api/products", a.adminToken, body)
	if code != http.StatusCreated {
		a.t.Fatalf("failed to create product: %d %s %v", code, env.Message, env.Errors)
	}
	var product domain.Product
	decodeData(a.t, env, &product)
	return product
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data: %v (%s)", err, env.Data)
	}
}

func productBody(name, slug string, categoryID int64) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"slug":         slug,
		"price":        1000,
		"category_id":  categoryID,
		"stock_status": "in_stock",
	}
}
