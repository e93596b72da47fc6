package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqmarket/internal/adapter/api"
	"reqmarket/internal/adapter/api/handler"
	"reqmarket/internal/adapter/api/middleware"
	"reqmarket/internal/adapter/repository"
	"reqmarket/internal/infrastructure/ratelimit"
	"reqmarket/internal/usecase"
	"reqmarket/pkg/errors"
)

// tokenVerifier accepts "token-<identity>".
type tokenVerifier struct{}

func (tokenVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	if !strings.HasPrefix(token, "token-") {
		return "", errors.Unauthorized("bad token", nil)
	}
	return strings.TrimPrefix(token, "token-"), nil
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	e     *echo.Echo
	clock *stepClock
}

func newTestServer(t *testing.T, limits *middleware.RateLimitMiddleware) *testServer {
	t.Helper()
	ledger := repository.NewMemoryLedger()
	clock := &stepClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	window := time.Hour

	handler.Setup(
		usecase.NewUserUseCase(ledger, clock, nil),
		usecase.NewStoreUseCase(ledger, clock, nil),
		usecase.NewRequestUseCase(ledger, clock, nil, window),
		usecase.NewOfferUseCase(ledger, clock, nil, window),
	)
	handler.SetupHealthHandler("memory", nil)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.ErrorHandler
	Setup(e, middleware.NewAuthMiddleware(tokenVerifier{}), limits)

	return &testServer{e: e, clock: clock}
}

func (s *testServer) do(t *testing.T, method, path, identity string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if identity != "" {
		req.Header.Set("Authorization", "Bearer token-"+identity)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type idOnly struct {
	ID                int64  `json:"id"`
	Lifecycle         string `json:"lifecycle"`
	LockedSellerID    int64  `json:"locked_seller_id"`
	SellersPriceQuote int64  `json:"sellers_price_quote"`
	IsAccepted        bool   `json:"is_accepted"`
	StoreName         string `json:"store_name"`
}

func register(t *testing.T, s *testServer, identity, role string) idOnly {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/v1/users", identity, map[string]interface{}{
		"username": identity + "-name",
		"role":     role,
		"location": map[string]int64{"latitude": 1, "longitude": 2},
	})
	require.Equal(t, http.StatusCreated, code)
	return decode[idOnly](t, env)
}

func TestMarketplaceFlow(t *testing.T) {
	s := newTestServer(t, nil)

	register(t, s, "buyer", "buyer")
	s1 := register(t, s, "s1", "seller")
	s2 := register(t, s, "s2", "seller")

	code, env := s.do(t, http.MethodPost, "/v1/stores", "s1", map[string]string{"name": "Fixers"})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodPost, "/v1/requests", "buyer", map[string]interface{}{
		"name":        "Paint my fence",
		"description": "White please",
		"images":      []string{"https://example.com/fence.png"},
	})
	require.Equal(t, http.StatusCreated, code)
	request := decode[idOnly](t, env)
	assert.Equal(t, "pending", request.Lifecycle)

	code, env = s.do(t, http.MethodPost, "/v1/requests/1/offers", "s1", map[string]interface{}{"price": 100})
	require.Equal(t, http.StatusCreated, code)
	o1 := decode[idOnly](t, env)
	assert.Equal(t, "Fixers", o1.StoreName)

	code, env = s.do(t, http.MethodPost, "/v1/requests/1/offers", "s2", map[string]interface{}{"price": 80})
	require.Equal(t, http.StatusCreated, code)
	o2 := decode[idOnly](t, env)
	assert.Equal(t, "Sample Store", o2.StoreName)

	code, env = s.do(t, http.MethodPost, "/v1/offers/1/accept", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	accepted := decode[idOnly](t, env)
	assert.Equal(t, "accepted_by_buyer", accepted.Lifecycle)
	assert.Equal(t, s1.ID, accepted.LockedSellerID)
	assert.Equal(t, int64(100), accepted.SellersPriceQuote)

	code, env = s.do(t, http.MethodPost, "/v1/requests/1/offers/2/accept", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	accepted = decode[idOnly](t, env)
	assert.Equal(t, s2.ID, accepted.LockedSellerID)
	assert.Equal(t, int64(80), accepted.SellersPriceQuote)

	code, env = s.do(t, http.MethodGet, "/v1/requests/1/offers", "", nil)
	require.Equal(t, http.StatusOK, code)
	offers := decode[[]idOnly](t, env)
	require.Len(t, offers, 2)
	assert.False(t, offers[0].IsAccepted)
	assert.True(t, offers[1].IsAccepted)

	code, env = s.do(t, http.MethodPost, "/v1/offers/2/accept", "buyer", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "OFFER_ALREADY_ACCEPTED", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/requests/1/complete", "buyer", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "REQUEST_NOT_LOCKED", env.Error.Code)

	s.clock.now = s.clock.now.Add(time.Hour + time.Second)

	code, env = s.do(t, http.MethodPost, "/v1/requests/1/offers", "s1", map[string]interface{}{"price": 60})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "REQUEST_LOCKED", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/requests/1/complete", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "completed", decode[idOnly](t, env).Lifecycle)

	code, env = s.do(t, http.MethodGet, "/v1/users/me/offers", "s1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]idOnly](t, env), 1)

	code, env = s.do(t, http.MethodGet, "/v1/users/me/stores", "s1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]idOnly](t, env), 1)
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	buyer := register(t, s, "buyer", "buyer")

	code, env := s.do(t, http.MethodPost, "/v1/users", "buyer", map[string]string{"username": "again", "role": "buyer"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "USER_ALREADY_EXISTS", env.Error.Code)

	code, env = s.do(t, http.MethodGet, "/v1/users/me", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, buyer.ID, decode[idOnly](t, env).ID)

	code, _ = s.do(t, http.MethodGet, "/v1/users/1", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/v1/accounts/buyer", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, buyer.ID, decode[idOnly](t, env).ID)

	code, env = s.do(t, http.MethodGet, "/v1/users/99", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, env = s.do(t, http.MethodGet, "/v1/users/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodPut, "/v1/users/me", "stranger", map[string]string{"username": "stranger", "role": "buyer"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "INVALID_USER", env.Error.Code)
}

func TestValidationAndAuth(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.do(t, http.MethodPost, "/v1/users", "", map[string]string{"username": "x", "role": "buyer"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/users", "alice", map[string]string{"username": "alice", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	register(t, s, "alice", "buyer")
	code, env = s.do(t, http.MethodPost, "/v1/requests", "alice", map[string]interface{}{
		"name":   "x",
		"images": []string{"not a url"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = s.do(t, http.MethodPost, "/v1/stores", "alice", map[string]string{"name": "Shop"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "ONLY_SELLERS_ALLOWED", env.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteRequestRoute(t *testing.T) {
	s := newTestServer(t, nil)
	register(t, s, "buyer", "buyer")
	register(t, s, "other", "buyer")

	code, _ := s.do(t, http.MethodPost, "/v1/requests", "buyer", map[string]string{"name": "x"})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodDelete, "/v1/requests/1", "other", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "UNAUTHORIZED_BUYER", env.Error.Code)

	code, _ = s.do(t, http.MethodDelete, "/v1/requests/1", "buyer", nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, env = s.do(t, http.MethodDelete, "/v1/requests/1", "buyer", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)

	code, _ = s.do(t, http.MethodGet, "/v1/requests/1", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListRequestsPagination(t *testing.T) {
	s := newTestServer(t, nil)
	register(t, s, "buyer", "buyer")
	for i := 0; i < 3; i++ {
		code, _ := s.do(t, http.MethodPost, "/v1/requests", "buyer", map[string]string{"name": "x"})
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := s.do(t, http.MethodGet, "/v1/requests?page=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[struct {
		Items      []idOnly `json:"items"`
		Total      int64    `json:"total"`
		TotalPages int      `json:"totalPages"`
	}](t, env)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Items[0].ID)

	code, env = s.do(t, http.MethodGet, "/v1/requests?page=2305843009213693953&limit=20", "", nil)
	require.Equal(t, http.StatusOK, code)
	page = decode[struct {
		Items      []idOnly `json:"items"`
		Total      int64    `json:"total"`
		TotalPages int      `json:"totalPages"`
	}](t, env)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.Total)

	code, env = s.do(t, http.MethodGet, "/v1/users/me/requests", "buyer", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]idOnly](t, env), 3)
}

func TestRateLimitedRoutes(t *testing.T) {
	limiter := ratelimit.NewRateLimiter(ratelimit.Policy{RPS: 1000, Burst: 1000}, time.Minute)
	limiter.SetPolicy(ActionRegister, ratelimit.Policy{RPS: 0.001, Burst: 1})
	var rejected []string
	s := newTestServer(t, middleware.NewRateLimitMiddleware(limiter, func(action string) {
		rejected = append(rejected, action)
	}))

	register(t, s, "alice", "buyer")
	code, env := s.do(t, http.MethodPost, "/v1/users", "alice", map[string]string{"username": "alice", "role": "buyer"})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)
	assert.Equal(t, []string{ActionRegister}, rejected)

	// Other callers have their own bucket.
	register(t, s, "bob", "seller")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ledger":"memory"`)
}
