// Package quotes implements the fetch functions exposed as callable tools:
// per-ticker fan-out against the quote provider, statement tabulation, price
// series extraction, and fundamental-to-price alignment.
package quotes

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"brquote/pkg/core/logging"
	"brquote/pkg/core/provider"
)

// Service exposes the quote-provider fetch functions. All state is fixed at
// construction; every call builds its results fresh.
type Service struct {
	client  *provider.Client
	suffix  SuffixPolicy
	workers int
	log     *logrus.Entry
}

// NewService builds a Service. workers bounds the parallel per-ticker
// fan-out; 1 means sequential.
func NewService(client *provider.Client, suffix SuffixPolicy, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		client:  client,
		suffix:  suffix,
		workers: workers,
		log:     logging.Component("quotes"),
	}
}

// canonical coerces a tickers argument and canonicalizes each entry.
func (s *Service) canonical(v any) (list []string, single bool, err error) {
	list, single, err = Tickers(v)
	if err != nil {
		return nil, false, err
	}
	for i, t := range list {
		list[i] = s.suffix.Canonicalize(t)
	}
	return list, single, nil
}

// firstEntity unwraps the routed quote payload down to the single entity
// object: a list payload yields its first object element, an object payload
// passes through.
func firstEntity(payload any) map[string]any {
	switch x := payload.(type) {
	case map[string]any:
		return x
	case []any:
		if len(x) > 0 {
			if m, ok := x[0].(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// records coerces a routed payload into a list of object records.
func records(payload any) []map[string]any {
	list, ok := payload.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// epochToUTC converts provider epoch-seconds values to UTC timestamps.
func epochToUTC(v any) (time.Time, bool) {
	f, ok := coerceEpoch(v)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(f), 0).UTC(), true
}

func coerceEpoch(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// fetchModule requests one fundamental module for a canonical ticker and
// unwraps the entity object.
func (s *Service) fetchModule(ctx context.Context, ticker, module string) (map[string]any, bool) {
	params := url.Values{
		"fundamental": {"true"},
		"modules":     {module},
	}
	payload, ok := s.client.Fetch(ctx, "api/quote/"+ticker, params)
	if !ok {
		return nil, false
	}
	entity := firstEntity(payload)
	if entity == nil {
		s.log.WithFields(logging.Fields{"ticker": ticker, "module": module}).Warn("unexpected payload shape")
		return nil, false
	}
	return entity, true
}
