package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antigravity/paywall/internal/handler/middleware"
	"antigravity/paywall/internal/model"
	"antigravity/paywall/internal/service"
)

type fakeAuthService struct {
	user  *model.User
	token string
}

func (f *fakeAuthService) Register(_ context.Context, _, _ string) (*model.User, error) {
	return nil, service.ErrEmailAlreadyExists
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (*service.TokenSet, error) {
	return nil, service.ErrInvalidCredentials
}

func (f *fakeAuthService) Refresh(_ context.Context, _ string) (*service.TokenSet, error) {
	return nil, service.ErrRefreshTokenInvalid
}

func (f *fakeAuthService) Logout(_ context.Context, _ string) error { return nil }

func (f *fakeAuthService) UserFromAccessToken(_ context.Context, accessToken string) (*model.User, error) {
	if f.user != nil && accessToken == f.token {
		return f.user, nil
	}
	return nil, service.ErrInvalidCredentials
}

var _ service.AuthService = (*fakeAuthService)(nil)

type fakeOrderService struct {
	gotUser    *model.User
	gotProduct string
	url        string
	err        error
}

func (f *fakeOrderService) CreateCheckout(_ context.Context, user *model.User, productID string) (string, error) {
	f.gotUser = user
	f.gotProduct = productID
	return f.url, f.err
}

var _ service.OrderService = (*fakeOrderService)(nil)

func newCheckoutRouter(auth service.AuthService, orders service.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCheckoutHandler(orders)
	r.POST("/api/checkout", middleware.Auth(auth), h.Create)
	return r
}

func postCheckout(r *gin.Engine, token, productID string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"product_id": productID})
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutRequiresAuth(t *testing.T) {
	orders := &fakeOrderService{}
	r := newCheckoutRouter(&fakeAuthService{}, orders)

	w := postCheckout(r, "", "prod-1")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, orders.gotUser)
}

func TestCheckoutReturnsURL(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "buyer@example.com", Status: model.UserStatusActive}
	auth := &fakeAuthService{user: user, token: "token-123"}
	orders := &fakeOrderService{url: "https://checkout.test/session-1"}
	r := newCheckoutRouter(auth, orders)

	w := postCheckout(r, "token-123", "prod-1")

	require.Equal(t, http.StatusOK, w.Code)
	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://checkout.test/session-1", resp.CheckoutURL)
	assert.Equal(t, user.ID, orders.gotUser.ID)
	assert.Equal(t, "prod-1", orders.gotProduct)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	user := &model.User{ID: uuid.New(), Status: model.UserStatusActive}
	auth := &fakeAuthService{user: user, token: "token-123"}
	orders := &fakeOrderService{err: service.ErrProductNotFound}
	r := newCheckoutRouter(auth, orders)

	w := postCheckout(r, "token-123", "missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")
}

func TestCheckoutProviderFailure(t *testing.T) {
	user := &model.User{ID: uuid.New(), Status: model.UserStatusActive}
	auth := &fakeAuthService{user: user, token: "token-123"}
	orders := &fakeOrderService{err: service.ErrCheckoutUnavailable}
	r := newCheckoutRouter(auth, orders)

	w := postCheckout(r, "token-123", "prod-1")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to create checkout")
}

func TestCheckoutRejectsMissingProductID(t *testing.T) {
	user := &model.User{ID: uuid.New(), Status: model.UserStatusActive}
	auth := &fakeAuthService{user: user, token: "token-123"}
	r := newCheckoutRouter(auth, &fakeOrderService{})

	w := postCheckout(r, "token-123", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
