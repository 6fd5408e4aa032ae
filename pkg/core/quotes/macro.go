package quotes

import (
	"context"
	"net/url"
	"time"

	"brquote/pkg/core/logging"
	"brquote/pkg/core/table"
)

// macroDateLayout is the dd/mm/yyyy shape the macro endpoints use both for
// request windows and response records.
const macroDateLayout = "02/01/2006"

// macroWindow renders the request window. Absent bounds default to three
// years back through yesterday; explicit bounds are accepted as ISO dates.
// ok is false when an explicit bound failed to parse and the default was
// used in its place, so callers can surface the substitution.
func macroWindow(start, end string, now time.Time) (startOut, endOut string, ok bool) {
	ok = true
	startOut = now.AddDate(-3, 0, 0).Format(macroDateLayout)
	if start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			startOut = t.Format(macroDateLayout)
		} else {
			ok = false
		}
	}
	endOut = now.AddDate(0, 0, -1).Format(macroDateLayout)
	if end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			endOut = t.Format(macroDateLayout)
		} else {
			ok = false
		}
	}
	return startOut, endOut, ok
}

// fetchMacroSeries drives one macro endpoint (inflation or prime-rate) and
// normalizes the dated value records: dd/mm/yyyy dates parsed to UTC,
// percent signs stripped, sorted chronologically, duplicate dates keeping
// the last value, the redundant epochDate field dropped. Nil when the
// endpoint yielded no usable rows.
func (s *Service) fetchMacroSeries(ctx context.Context, endpoint, country, start, end string) *table.Frame {
	startStr, endStr, bounds := macroWindow(start, end, time.Now().UTC())
	if !bounds {
		s.log.WithFields(logging.Fields{
			"endpoint": endpoint,
			"start":    start,
			"end":      end,
		}).Warn("malformed date bound, using default window")
	}
	params := url.Values{
		"country":   {country},
		"start":     {startStr},
		"end":       {endStr},
		"sortBy":    {"date"},
		"sortOrder": {"desc"},
	}
	payload, ok := s.client.Fetch(ctx, endpoint, params)
	if !ok {
		return nil
	}
	series := &table.Series{}
	for _, rec := range records(payload) {
		dateStr, ok := rec["date"].(string)
		if !ok {
			continue
		}
		date, err := time.Parse(macroDateLayout, dateStr)
		if err != nil {
			continue
		}
		series.Append(date.UTC(), table.CoerceOrNaN(rec["value"]))
	}
	if series.Len() == 0 {
		s.log.WithField("endpoint", endpoint).Warn("no macro rows in payload")
		return nil
	}
	series.Sort()
	series.DedupeKeepLast()

	frame := table.NewFrame("value")
	for i := range series.Dates {
		frame.AppendRow(series.Dates[i], []float64{series.Values[i]})
	}
	return frame
}

// FetchInflation fetches the Brazilian inflation series. start and end are
// ISO dates; absent bounds default to three years back through yesterday.
func (s *Service) FetchInflation(ctx context.Context, start, end string) *table.Frame {
	return s.fetchMacroSeries(ctx, "api/v2/inflation", "brazil", start, end)
}

// FetchPrimeRate fetches the Brazilian prime-rate (SELIC) series with a
// UTC date index.
func (s *Service) FetchPrimeRate(ctx context.Context, start, end string) *table.Frame {
	return s.fetchMacroSeries(ctx, "api/v2/prime-rate", "brazil", start, end)
}

// fetchDatedRecords handles the currency and crypto endpoints: a record
// list, indexed by its date field when one is present. Nil when the routed
// payload is not a record list.
func (s *Service) fetchDatedRecords(ctx context.Context, endpoint string, params url.Values) *table.Records {
	payload, ok := s.client.Fetch(ctx, endpoint, params)
	if !ok {
		return nil
	}
	recs := records(payload)
	if len(recs) == 0 {
		return nil
	}
	indexKey := ""
	for _, rec := range recs {
		if _, has := rec["date"]; has {
			indexKey = "date"
			break
		}
	}
	return table.FromMaps(recs, indexKey)
}

// FetchCurrency fetches exchange rates for comma-separated currency pairs
// (e.g. "USD-BRL,EUR-BRL").
func (s *Service) FetchCurrency(ctx context.Context, currencies string) *table.Records {
	return s.fetchDatedRecords(ctx, "api/v2/currency", url.Values{"currency": {currencies}})
}

// FetchCrypto fetches cryptocurrency prices in the given fiat currency
// (default BRL).
func (s *Service) FetchCrypto(ctx context.Context, coins, currency string) *table.Records {
	if currency == "" {
		currency = "BRL"
	}
	return s.fetchDatedRecords(ctx, "api/v2/crypto", url.Values{
		"coin":     {coins},
		"currency": {currency},
	})
}

// availableList drives one of the availability listing endpoints, returning
// the routed payload as-is (a plain list of identifiers).
func (s *Service) availableList(ctx context.Context, endpoint, search string) any {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	payload, ok := s.client.Fetch(ctx, endpoint, params)
	if !ok {
		return nil
	}
	return payload
}

// AvailableCurrencies lists currency pairs the provider supports.
func (s *Service) AvailableCurrencies(ctx context.Context, search string) any {
	return s.availableList(ctx, "api/v2/currency/available", search)
}

// AvailableCryptos lists supported cryptocurrency symbols.
func (s *Service) AvailableCryptos(ctx context.Context, search string) any {
	return s.availableList(ctx, "api/v2/crypto/available", search)
}

// AvailableCountries lists countries with inflation/prime-rate data.
func (s *Service) AvailableCountries(ctx context.Context, search string) any {
	return s.availableList(ctx, "api/v2/inflation/available", search)
}
