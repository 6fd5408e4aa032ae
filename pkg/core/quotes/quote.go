package quotes

import (
	"context"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"

	"brquote/pkg/core/table"
)

// QuoteOptions are the historical-quote request knobs.
type QuoteOptions struct {
	Range       string
	Interval    string
	Fundamental bool
	Dividends   bool
	Modules     string
}

func (o QuoteOptions) withDefaults() QuoteOptions {
	if o.Range == "" {
		o.Range = "1d"
	}
	if o.Interval == "" {
		o.Interval = "1d"
	}
	return o
}

// FetchQuote fetches historical quote data. A bare-string ticker returns a
// single *table.Frame (nil when it failed); a collection returns
// map[string]*table.Frame keyed by canonical ticker, possibly a strict
// subset of the request. Only input validation errors are returned.
func (s *Service) FetchQuote(ctx context.Context, tickers any, opts QuoteOptions) (any, error) {
	list, single, err := s.canonical(tickers)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	results := fetchEach(ctx, list, s.workers, func(ctx context.Context, ticker string) (*table.Frame, bool) {
		return s.fetchQuoteFrame(ctx, ticker, opts)
	})
	if single {
		if len(list) == 1 {
			if f, ok := results[list[0]]; ok {
				return f, nil
			}
		}
		return nil, nil
	}
	return results, nil
}

func (s *Service) fetchQuoteFrame(ctx context.Context, ticker string, opts QuoteOptions) (*table.Frame, bool) {
	params := url.Values{
		"range":       {opts.Range},
		"interval":    {opts.Interval},
		"fundamental": {strconv.FormatBool(opts.Fundamental)},
		"dividends":   {strconv.FormatBool(opts.Dividends)},
	}
	if opts.Modules != "" {
		params.Set("modules", opts.Modules)
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

	frame := historyFrame(history)
	if frame == nil {
		return nil, false
	}
	if opts.Fundamental {
		if fund, ok := entity["fundamentals"].(map[string]any); ok {
			broadcastColumns(frame, "fundamental_", fund)
		}
	}
	if opts.Dividends {
		joinDividends(frame, entity["dividendsData"])
	}
	return frame, true
}

// historyFrame builds a date-indexed frame from historicalDataPrice records.
// Columns are the sorted union of numeric fields across rows; the epoch
// "date" field becomes the UTC index.
func historyFrame(history []any) *table.Frame {
	fieldSeen := make(map[string]bool)
	var fields []string
	type row struct {
		date   time.Time
		values map[string]float64
	}
	var rows []row
	for _, item := range history {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		date, ok := epochToUTC(rec["date"])
		if !ok {
			continue
		}
		values := make(map[string]float64, len(rec))
		for k, v := range rec {
			if k == "date" {
				continue
			}
			if !fieldSeen[k] {
				fieldSeen[k] = true
				fields = append(fields, k)
			}
			values[k] = table.CoerceOrNaN(v)
		}
		rows = append(rows, row{date: date, values: values})
	}
	if len(rows) == 0 {
		return nil
	}
	sort.Strings(fields)

	frame := table.NewFrame(fields...)
	for _, r := range rows {
		cells := make([]float64, len(fields))
		for j, f := range fields {
			if v, ok := r.values[f]; ok {
				cells[j] = v
			} else {
				cells[j] = math.NaN()
			}
		}
		frame.AppendRow(r.date, cells)
	}
	frame.SortByIndex()
	return frame
}

// broadcastColumns appends one constant column per map entry, prefixed.
func broadcastColumns(frame *table.Frame, prefix string, values map[string]any) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := table.CoerceOrNaN(values[k])
		frame.Columns = append(frame.Columns, prefix+k)
		for i := range frame.Data {
			frame.Data[i] = append(frame.Data[i], v)
		}
	}
}

// joinDividends left-joins dated dividend records onto the price index.
// The provider emits either a flat record list or an object whose
// cashDividends key holds the list.
func joinDividends(frame *table.Frame, payload any) {
	list, ok := payload.([]any)
	if !ok {
		if obj, isObj := payload.(map[string]any); isObj {
			list, _ = obj["cashDividends"].([]any)
		}
	}
	if len(list) == 0 {
		return
	}
	byDate := make(map[string]map[string]float64)
	fieldSeen := make(map[string]bool)
	var fields []string
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dateStr, ok := parseStatementDate(rec["date"])
		if !ok {
			dateStr, ok = parseStatementDate(rec["paymentDate"])
		}
		if !ok {
			continue
		}
		row := byDate[dateStr]
		if row == nil {
			row = make(map[string]float64)
			byDate[dateStr] = row
		}
		for k, v := range rec {
			if k == "date" || k == "paymentDate" {
				continue
			}
			if f, numeric := table.Coerce(v); numeric {
				if !fieldSeen[k] {
					fieldSeen[k] = true
					fields = append(fields, k)
				}
				row[k] = f
			}
		}
	}
	if len(fields) == 0 {
		return
	}
	sort.Strings(fields)
	for _, field := range fields {
		if frame.ColumnIndex(field) >= 0 {
			continue
		}
		frame.Columns = append(frame.Columns, field)
		for i := range frame.Data {
			v := math.NaN()
			if row, ok := byDate[frame.Index[i].Format("2006-01-02")]; ok {
				if f, has := row[field]; has {
					v = f
				}
			}
			frame.Data[i] = append(frame.Data[i], v)
		}
	}
}

// ListOptions filter and order the quote listing endpoint.
type ListOptions struct {
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Sector    string
}

// FetchQuoteList fetches the filtered quote listing. The result is always a
// (possibly empty) records table under the "stocks" key, mirroring the
// provider's envelope.
func (s *Service) FetchQuoteList(ctx context.Context, opts ListOptions) map[string]*table.Records {
	params := url.Values{}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.SortBy != "" {
		params.Set("sortBy", opts.SortBy)
	}
	sortOrder := opts.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	params.Set("sortOrder", sortOrder)
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Sector != "" {
		params.Set("sector", opts.Sector)
	}

	stocks := &table.Records{}
	if payload, ok := s.client.Fetch(ctx, "api/quote/list", params); ok {
		if recs := records(payload); len(recs) > 0 {
			stocks = table.FromMaps(recs, "")
		}
	}
	return map[string]*table.Records{"stocks": stocks}
}

// listingColumns are the fields kept from the ticker listing, in display
// order; the numeric ones are coerced.
var listingColumns = []string{"stock", "name", "close", "change", "volume", "market_cap"}

// FetchAvailableTickers lists tradable tickers, keeping the known listing
// columns, coercing the numeric ones, and sorting by symbol. Always returns
// a records table, possibly empty.
func (s *Service) FetchAvailableTickers(ctx context.Context, search string) *table.Records {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	payload, ok := s.client.Fetch(ctx, "api/quote/list", params)
	if !ok {
		return &table.Records{}
	}
	recs := records(payload)
	if len(recs) == 0 {
		return &table.Records{}
	}
	r := table.FromMaps(recs, "stock")
	keep := make([]string, 0, len(listingColumns))
	for _, c := range listingColumns[1:] { // "stock" is the index
		keep = append(keep, c)
	}
	r.KeepColumns(keep)
	r.CoerceNumeric("close", "change", "volume", "market_cap")
	r.SortByIndex()
	return r
}
