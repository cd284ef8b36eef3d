package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bookstore-backend/api/middleware"
	cartsvc "github.com/angelmondragon/bookstore-backend/internal/cart"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

func newCartService(t *testing.T) cartsvc.Service {
	t.Helper()
	svc, err := cartsvc.NewService(cartsvc.ServiceParams{
		Snapshots: cartsvc.NewMemorySnapshotRepository(),
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new cart service: %v", err)
	}
	return svc
}

func sessionRequest(method, target, body, bookID string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.WithCartSession(req.Context(), "s1")
	if bookID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("bookId", bookID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeCart(t *testing.T, resp *httptest.ResponseRecorder) cartsvc.Cart {
	t.Helper()
	var envelope struct {
		Data cartsvc.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemCreatesLine(t *testing.T) {
	svc := newCartService(t)
	handler := CartAddItem(svc, nil)

	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", `{"book":{"id":"b1","price":12.5,"title":"Dune"},"quantity":2}`, "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	got := decodeCart(t, resp)
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 || got.Subtotal != 25 {
		t.Fatalf("unexpected cart %+v", got)
	}
}

func TestCartAddItemValidatesBook(t *testing.T) {
	handler := CartAddItem(newCartService(t), nil)

	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", `{"book":{"price":3},"quantity":1}`, "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuantityAboveLineCapIsRejected(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		bookID string
	}{
		{name: "add", method: http.MethodPost, target: "/api/v1/cart/items", body: `{"book":{"id":"b1","price":1},"quantity":9223372036854775807}`},
		{name: "update", method: http.MethodPatch, target: "/api/v1/cart/items/b1", body: `{"quantity":10001}`, bookID: "b1"},
		{name: "buy now", method: http.MethodPut, target: "/api/v1/buy-now", body: `{"book":{"id":"b1","price":1},"quantity":10001}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCartService(t)
			price := 1.0
			if _, err := svc.Add(context.Background(), "s1", cartsvc.Book{ID: "b1", Price: &price}, 1); err != nil {
				t.Fatalf("seed cart: %v", err)
			}
			handlers := map[string]http.HandlerFunc{
				"add":     CartAddItem(svc, nil),
				"update":  CartUpdateQuantity(svc, nil),
				"buy now": BuyNowSet(svc, nil),
			}

			resp := httptest.NewRecorder()
			handlers[tt.name].ServeHTTP(resp, sessionRequest(tt.method, tt.target, tt.body, tt.bookID))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
			}
			if got, _ := svc.Quantity(context.Background(), "s1", "b1"); got != 1 {
				t.Fatalf("cart should be untouched, got quantity %d", got)
			}
		})
	}
}

func TestCartAddItemRejectsOverStock(t *testing.T) {
	svc := newCartService(t)
	handler := CartAddItem(svc, nil)
	body := `{"book":{"id":"b1","price":5,"inventoryQuantity":3},"quantity":2}`

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body, ""))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first add to succeed, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body, ""))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	qty, err := svc.Quantity(context.Background(), "s1", "b1")
	if err != nil || qty != 2 {
		t.Fatalf("rejected add must not change the cart: qty=%d err=%v", qty, err)
	}
}

func TestCartFetchMissingSession(t *testing.T) {
	handler := CartFetch(newCartService(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartItemStatus(t *testing.T) {
	svc := newCartService(t)
	price := 4.0
	if _, err := svc.Add(context.Background(), "s1", cartsvc.Book{ID: "b1", Price: &price}, 3); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	resp := httptest.NewRecorder()
	CartItemStatus(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/cart/items/b1", "", "b1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data itemStatusResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.InCart || envelope.Data.Quantity != 3 {
		t.Fatalf("unexpected status %+v", envelope.Data)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	svc := newCartService(t)
	price := 10.0
	stock := 4
	if _, err := svc.Add(context.Background(), "s1", cartsvc.Book{ID: "b1", Price: &price, InventoryQuantity: &stock}, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	handler := CartUpdateQuantity(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPatch, "/api/v1/cart/items/b1", `{"quantity":3}`, "b1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeCart(t, resp); got.Total != 30 {
		t.Fatalf("expected total 30, got %+v", got)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPatch, "/api/v1/cart/items/b1", `{"quantity":9}`, "b1"))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPatch, "/api/v1/cart/items/zz", `{"quantity":1}`, "zz"))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPatch, "/api/v1/cart/items/b1", `{}`, "b1"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without quantity, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPatch, "/api/v1/cart/items/b1", `{"quantity":0}`, "b1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeCart(t, resp); len(got.Items) != 0 || got.Total != 0 {
		t.Fatalf("zero quantity should remove the line, got %+v", got)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	svc := newCartService(t)
	price := 2.0
	ctx := context.Background()
	for _, id := range []string{"b1", "b2"} {
		if _, err := svc.Add(ctx, "s1", cartsvc.Book{ID: id, Price: &price}, 1); err != nil {
			t.Fatalf("seed cart: %v", err)
		}
	}

	resp := httptest.NewRecorder()
	CartRemoveItem(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodDelete, "/api/v1/cart/items/b1", "", "b1"))
	if got := decodeCart(t, resp); len(got.Items) != 1 || got.Items[0].Book.ID != "b2" {
		t.Fatalf("unexpected cart after remove %+v", got)
	}

	resp = httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodDelete, "/api/v1/cart", "", ""))
	if got := decodeCart(t, resp); len(got.Items) != 0 || got.ItemCount != 0 {
		t.Fatalf("unexpected cart after clear %+v", got)
	}
}

func TestBuyNowLifecycle(t *testing.T) {
	svc := newCartService(t)

	resp := httptest.NewRecorder()
	BuyNowSet(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodPut, "/api/v1/buy-now", `{"book":{"id":"b9","price":8},"quantity":2}`, ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	BuyNowFetch(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/buy-now", "", ""))
	var envelope struct {
		Data buyNowResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Item == nil || envelope.Data.Checkout == nil || envelope.Data.Checkout.Total != 16 {
		t.Fatalf("unexpected buy-now payload %+v", envelope.Data)
	}

	cart, err := svc.Get(context.Background(), "s1")
	if err != nil || len(cart.Items) != 0 {
		t.Fatalf("buy-now must not touch the cart: %+v %v", cart, err)
	}

	resp = httptest.NewRecorder()
	BuyNowClear(svc, nil).ServeHTTP(resp, sessionRequest(http.MethodDelete, "/api/v1/buy-now", "", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	item, err := svc.GetBuyNow(context.Background(), "s1")
	if err != nil || item != nil {
		t.Fatalf("expected empty slot, got %+v %v", item, err)
	}
}

func TestBuyNowSetRejectsOverStock(t *testing.T) {
	resp := httptest.NewRecorder()
	BuyNowSet(newCartService(t), nil).ServeHTTP(resp, sessionRequest(http.MethodPut, "/api/v1/buy-now", `{"book":{"id":"b9","price":8,"inventoryQuantity":1},"quantity":2}`, ""))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
