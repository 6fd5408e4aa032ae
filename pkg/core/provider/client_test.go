package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-token", 5*time.Second), srv
}

func TestClient_AppendsToken(t *testing.T) {
	var gotToken string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`{"results": []}`))
	})

	if _, ok := c.Request(context.Background(), "api/quote/PETR4.SA", nil); !ok {
		t.Fatal("expected success")
	}
	if gotToken != "secret-token" {
		t.Errorf("token param = %q, want secret-token", gotToken)
	}
}

func TestClient_DoesNotMutateCallerParams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	params := url.Values{"range": {"1d"}}
	c.Request(context.Background(), "api/quote/PETR4.SA", params)
	if params.Get("token") != "" {
		t.Error("caller params were mutated with the token")
	}
}

func TestClient_ErrorStatusesAreFailures(t *testing.T) {
	for _, status := range []int{400, 401, 402, 404, 417, 500, 503} {
		status := status
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"whatever": true}`))
		})
		if _, ok := c.Request(context.Background(), "api/quote/X", nil); ok {
			t.Errorf("status %d should be a failure", status)
		}
	}
}

func TestClient_MalformedJSONIsFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	})
	if _, ok := c.Request(context.Background(), "api/quote/X", nil); ok {
		t.Error("malformed JSON should be a failure")
	}
}

func TestClient_ErrorFlagInBodyIsFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": true, "message": "ticker not found"}`))
	})
	if _, ok := c.Request(context.Background(), "api/quote/X", nil); ok {
		t.Error("error flag in body should be a failure")
	}
}

func TestClient_NetworkErrorIsFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", time.Second)
	if _, ok := c.Request(context.Background(), "api/quote/X", nil); ok {
		t.Error("connection refusal should be a failure")
	}
}

func TestClient_FetchRoutesEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"coins": ["BTC", "ETH"]}`))
	})
	v, ok := c.Fetch(context.Background(), "api/v2/crypto/available", nil)
	if !ok {
		t.Fatal("expected success")
	}
	list, ok := v.([]any)
	if !ok || len(list) != 2 {
		t.Errorf("routed value = %v, want inner list", v)
	}
}
