package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrksatech/market/internal/domain"
	"github.com/vrksatech/market/internal/service"
	"github.com/vrksatech/market/internal/session"
)

// mockCartService implements service.CartService with func fields.
type mockCartService struct {
	viewFunc        func(sess *session.Session) service.CartView
	addItemFunc     func(ctx context.Context, sess *session.Session, productID int64, quantity int) (service.CartView, error)
	setQuantityFunc func(ctx context.Context, sess *session.Session, productID int64, quantity int) (service.CartView, error)
	removeItemFunc  func(ctx context.Context, sess *session.Session, productID int64) (service.CartView, error)
	clearFunc       func(ctx context.Context, sess *session.Session) error
}

func (m *mockCartService) View(sess *session.Session) service.CartView {
	if m.viewFunc != nil {
		return m.viewFunc(sess)
	}
	return service.CartView{}
}

func (m *mockCartService) AddItem(ctx context.Context, sess *session.Session, productID int64, quantity int) (service.CartView, error) {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, sess, productID, quantity)
	}
	return service.CartView{}, nil
}

func (m *mockCartService) SetQuantity(ctx context.Context, sess *session.Session, productID int64, quantity int) (service.CartView, error) {
	if m.setQuantityFunc != nil {
		return m.setQuantityFunc(ctx, sess, productID, quantity)
	}
	return service.CartView{}, nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, sess *session.Session, productID int64) (service.CartView, error) {
	if m.removeItemFunc != nil {
		return m.removeItemFunc(ctx, sess, productID)
	}
	return service.CartView{}, nil
}

func (m *mockCartService) Clear(ctx context.Context, sess *session.Session) error {
	if m.clearFunc != nil {
		return m.clearFunc(ctx, sess)
	}
	return nil
}

func cartRouter(svc service.CartService) http.Handler {
	h := NewCartHandler(svc)
	r := chi.NewRouter()
	r.Get("/cart", h.View)
	r.Post("/cart/items", h.Add)
	r.Patch("/cart/items/{id}", h.Update)
	r.Delete("/cart/items/{id}", h.Remove)
	r.Delete("/cart", h.Clear)
	return r
}

func withSession(req *http.Request) *http.Request {
	sess, _ := session.New()
	return req.WithContext(session.WithContext(req.Context(), sess))
}

func TestCartAddHandler(t *testing.T) {
	var gotProduct int64
	var gotQuantity int
	svc := &mockCartService{
		addItemFunc: func(_ context.Context, _ *session.Session, productID int64, quantity int) (service.CartView, error) {
			gotProduct, gotQuantity = productID, quantity
			return service.CartView{ItemCount: quantity, SubtotalPaise: 49900, SurchargePaise: 4000, TotalPaise: 53900}, nil
		},
	}

	req := withSession(httptest.NewRequest(http.MethodPost, "/cart/items",
		strings.NewReader(`{"product_id": 7, "quantity": 2}`)))
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotProduct)
	assert.Equal(t, 2, gotQuantity)

	var view service.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, int64(53900), view.TotalPaise)
}

func TestCartAddHandlerRejectsBadBody(t *testing.T) {
	svc := &mockCartService{}

	tests := []string{
		``,
		`{"product_id": 7}`,
		`{"product_id": 7, "quantity": 0}`,
		`{"product_id": 7, "quantity": 1, "unit_price_paise": 1}`, // unknown field
	}
	for _, body := range tests {
		req := withSession(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))
		rec := httptest.NewRecorder()
		cartRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestCartUpdateHandlerParsesID(t *testing.T) {
	var gotProduct int64
	svc := &mockCartService{
		setQuantityFunc: func(_ context.Context, _ *session.Session, productID int64, _ int) (service.CartView, error) {
			gotProduct = productID
			return service.CartView{}, nil
		},
	}

	req := withSession(httptest.NewRequest(http.MethodPatch, "/cart/items/42",
		strings.NewReader(`{"quantity": 0}`)))
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotProduct)

	req = withSession(httptest.NewRequest(http.MethodPatch, "/cart/items/abc",
		strings.NewReader(`{"quantity": 1}`)))
	rec = httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandlerErrorEnvelope(t *testing.T) {
	svc := &mockCartService{
		addItemFunc: func(_ context.Context, _ *session.Session, _ int64, _ int) (service.CartView, error) {
			return service.CartView{}, &domain.Error{Code: domain.ENOTFOUND, Message: "Product not found"}
		},
	}

	req := withSession(httptest.NewRequest(http.MethodPost, "/cart/items",
		strings.NewReader(`{"product_id": 99, "quantity": 1}`)))
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, domain.ENOTFOUND, body.Error.Code)
	assert.Equal(t, "Product not found", body.Error.Message)
}

func TestCartClearHandler(t *testing.T) {
	cleared := false
	svc := &mockCartService{
		clearFunc: func(_ context.Context, _ *session.Session) error {
			cleared = true
			return nil
		},
	}

	req := withSession(httptest.NewRequest(http.MethodDelete, "/cart", nil))
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, cleared)
}
