package execute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brquote/pkg/core/tools"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	schema, err := tools.ParseSchema([]byte(`{functions: [
		{name: "echo", description: "echo", parameters: {type: "object"}}
		{name: "fail", description: "fail", parameters: {type: "object"}}
	]}`))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	r := tools.NewRegistry(schema)
	r.Register("echo", func(_ context.Context, p map[string]any) (any, error) {
		return p, nil
	})
	r.Register("fail", func(context.Context, map[string]any) (any, error) {
		return nil, fmt.Errorf("expected string or list of tickers, got float64")
	})
	return NewHandler(r)
}

func post(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/execute", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleExecute(rec, req)
	return rec
}

func TestExecuteSuccess(t *testing.T) {
	rec := post(t, testHandler(t), `{"function_name": "echo", "parameters": {"tickers": "PETR4"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp ExecuteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	params, ok := resp.Result.(map[string]any)
	if !ok || params["tickers"] != "PETR4" {
		t.Fatalf("result = %v", resp.Result)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestExecuteHandlerError(t *testing.T) {
	rec := post(t, testHandler(t), `{"function_name": "fail", "parameters": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !strings.Contains(resp.Error, "expected string or list") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestExecuteUnknownFunction(t *testing.T) {
	rec := post(t, testHandler(t), `{"function_name": "nope", "parameters": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "nope") {
		t.Fatalf("body should name the function: %s", rec.Body.String())
	}
}

func TestExecuteMissingFunctionName(t *testing.T) {
	rec := post(t, testHandler(t), `{"parameters": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExecuteMalformedBody(t *testing.T) {
	rec := post(t, testHandler(t), `{"function_name": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExecuteMethodNotAllowed(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest("GET", "/execute", nil)
	rec := httptest.NewRecorder()
	h.HandleExecute(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExecuteOptionsPreflight(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest("OPTIONS", "/execute", nil)
	rec := httptest.NewRecorder()
	h.HandleExecute(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}
