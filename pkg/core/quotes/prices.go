package quotes

import (
	"context"
	"fmt"
	"net/url"

	"brquote/pkg/core/table"
)

// PriceField names one column of the provider's historical price records.
type PriceField string

const (
	FieldOpen   PriceField = "open"
	FieldHigh   PriceField = "high"
	FieldLow    PriceField = "low"
	FieldClose  PriceField = "close"
	FieldVolume PriceField = "volume"
)

var validFields = map[PriceField]bool{
	FieldOpen:   true,
	FieldHigh:   true,
	FieldLow:    true,
	FieldClose:  true,
	FieldVolume: true,
}

// FetchPriceField builds a date × ticker matrix of one price field. Dates
// are epoch seconds converted to UTC regardless of interval granularity;
// duplicate dates per ticker keep the last observation. Tickers that yield
// no rows are silently omitted, and the result is always a non-nil frame —
// empty with zero columns when every ticker failed. All cells are float64,
// so NaN propagation is uniform downstream.
func (s *Service) FetchPriceField(ctx context.Context, tickers any, field PriceField, rng, interval string) (*table.Frame, error) {
	if !validFields[field] {
		return nil, fmt.Errorf("unknown price field %q", field)
	}
	list, _, err := s.canonical(tickers)
	if err != nil {
		return nil, err
	}
	if rng == "" {
		rng = "1d"
	}
	if interval == "" {
		interval = "1d"
	}

	series := fetchEach(ctx, list, s.workers, func(ctx context.Context, ticker string) (*table.Series, bool) {
		return s.fetchFieldSeries(ctx, ticker, field, rng, interval)
	})
	return table.MergeSeries(series, list), nil
}

func (s *Service) fetchFieldSeries(ctx context.Context, ticker string, field PriceField, rng, interval string) (*table.Series, bool) {
	params := url.Values{
		"range":    {rng},
		"interval": {interval},
	}
	payload, ok := s.client.Fetch(ctx, "api/quote/"+ticker, params)
	if !ok {
		return nil, false
	}
	entity := firstEntity(payload)
	if entity == nil {
		return nil, false
	}
	history, _ := entity["historicalDataPrice"].([]any)
	if len(history) == 0 {
		s.log.WithField("ticker", ticker).Warn("no historical price rows")
		return nil, false
	}

	series := &table.Series{}
	for _, item := range history {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		date, ok := epochToUTC(rec["date"])
		if !ok {
			continue
		}
		series.Append(date, table.CoerceOrNaN(rec[string(field)]))
	}
	if series.Len() == 0 {
		return nil, false
	}
	series.Sort()
	series.DedupeKeepLast()
	return series, true
}

// FetchQuoteOpen fetches open prices for the tickers as a date × ticker frame.
func (s *Service) FetchQuoteOpen(ctx context.Context, tickers any, rng, interval string) (*table.Frame, error) {
	return s.FetchPriceField(ctx, tickers, FieldOpen, rng, interval)
}

// FetchQuoteHigh fetches high prices.
func (s *Service) FetchQuoteHigh(ctx context.Context, tickers any, rng, interval string) (*table.Frame, error) {
	return s.FetchPriceField(ctx, tickers, FieldHigh, rng, interval)
}

// FetchQuoteLow fetches low prices.
func (s *Service) FetchQuoteLow(ctx context.Context, tickers any, rng, interval string) (*table.Frame, error) {
	return s.FetchPriceField(ctx, tickers, FieldLow, rng, interval)
}

// FetchQuoteClose fetches close prices.
func (s *Service) FetchQuoteClose(ctx context.Context, tickers any, rng, interval string) (*table.Frame, error) {
	return s.FetchPriceField(ctx, tickers, FieldClose, rng, interval)
}

// FetchQuoteVolume fetches traded volume.
func (s *Service) FetchQuoteVolume(ctx context.Context, tickers any, rng, interval string) (*table.Frame, error) {
	return s.FetchPriceField(ctx, tickers, FieldVolume, rng, interval)
}
