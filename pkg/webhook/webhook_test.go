package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

func TestNewClientDisabledWithoutURL(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c != nil {
		t.Fatal("expected disabled client")
	}
}

func TestNotifyOrderPostsJSON(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotOrder contractx.Order
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotOrder); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL, Token: "secret", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	order := contractx.Order{ID: "order-12345678", Total: 2799, Currency: "INR", Status: contractx.OrderStatusConfirmed}
	if err := c.NotifyOrder(context.Background(), order); err != nil {
		t.Fatalf("NotifyOrder() error = %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotOrder.ID != order.ID || gotOrder.Total != order.Total {
		t.Fatalf("unexpected payload: %#v", gotOrder)
	}
}

func TestNotifyOrderNon2xxFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := c.NotifyOrder(context.Background(), contractx.Order{ID: "order-x"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
