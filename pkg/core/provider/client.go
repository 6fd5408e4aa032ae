// Package provider talks to the remote quote API: one GET per call, status
// classification, JSON decoding, and envelope routing. It knows nothing
// about tickers or statements; consumers treat a false return uniformly as
// "no data for this call".
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"brquote/pkg/core/logging"
)

// statusText maps the provider's documented error statuses to their meaning.
// These are retryable at the caller's discretion; the client never retries.
var statusText = map[int]string{
	http.StatusBadRequest:        "bad request: the request was malformed or invalid",
	http.StatusUnauthorized:      "unauthorized: invalid or missing authentication token",
	http.StatusPaymentRequired:   "payment required: API request limit reached",
	http.StatusNotFound:          "not found: requested resource not found",
	http.StatusExpectationFailed: "expectation failed: invalid query parameters",
}

// Client issues requests against the quote provider. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logrus.Entry
}

// NewClient builds a provider client. token may be empty; requests then go
// out unauthenticated and will commonly be rejected by a real provider.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     logging.Component("provider"),
	}
}

// Request performs one GET against endpoint with the given query parameters,
// appending the credential token when configured. Every failure mode
// (network error, non-2xx status, malformed JSON, API-reported error flag)
// is logged and collapsed to (nil, false); the caller must treat it as
// "no data" and must not distinguish cause.
func (c *Client) Request(ctx context.Context, endpoint string, params url.Values) (any, bool) {
	if params == nil {
		params = url.Values{}
	} else {
		cloned := url.Values{}
		for k, vs := range params {
			cloned[k] = append([]string(nil), vs...)
		}
		params = cloned
	}
	if c.token != "" {
		params.Set("token", c.token)
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	log := c.log.WithField("endpoint", endpoint)
	log.WithField("params", redact(params)).Debug("making provider request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.WithError(err).Error("failed to build request")
		return nil, false
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Error("request error")
		return nil, false
	}
	defer resp.Body.Close()

	if text, known := statusText[resp.StatusCode]; known {
		log.WithField("status", resp.StatusCode).Warn(text)
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.WithFields(logging.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("error response")
		return nil, false
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		log.WithError(err).Error("JSON decode error")
		return nil, false
	}

	if obj, ok := raw.(map[string]any); ok {
		if flag, present := obj["error"]; present && isTruthy(flag) {
			log.WithField("message", errorMessage(obj)).Error("API reported error")
			return nil, false
		}
	}
	return raw, true
}

// Fetch is Request followed by envelope routing: the usual entry point for
// business callers.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (any, bool) {
	raw, ok := c.Request(ctx, endpoint, params)
	if !ok {
		return nil, false
	}
	return Route(raw), true
}

// redact strips the credential token before query parameters reach a log.
func redact(params url.Values) string {
	cloned := url.Values{}
	for k, vs := range params {
		if k == "token" {
			cloned.Set(k, "[redacted]")
			continue
		}
		cloned[k] = vs
	}
	return cloned.Encode()
}

func isTruthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != "" && x != "false"
	case float64:
		return x != 0
	default:
		return v != nil
	}
}

func errorMessage(obj map[string]any) string {
	if msg, ok := obj["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("unknown error: %v", obj["error"])
}
