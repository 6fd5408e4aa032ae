package tools

import (
	"context"
	"fmt"

	"brquote/pkg/core/quotes"
)

// param accessors tolerate the loose typing of model-emitted arguments:
// numbers arrive as float64, booleans sometimes as strings.

func getString(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(params map[string]any, key string) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

func getInt(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// RegisterQuoteFunctions binds the full fetch surface to a registry. Every
// name must be declared in the schema; a binding failure here is a schema
// drift bug and aborts startup.
func RegisterQuoteFunctions(r *Registry, svc *quotes.Service) error {
	bindings := map[string]HandlerFunc{
		"fetch_quote": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchQuote(ctx, p["tickers"], quotes.QuoteOptions{
				Range:       getString(p, "range", ""),
				Interval:    getString(p, "interval", ""),
				Fundamental: getBool(p, "fundamental"),
				Dividends:   getBool(p, "dividends"),
				Modules:     getString(p, "modules", ""),
			})
		},
		"fetch_quote_list": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchQuoteList(ctx, quotes.ListOptions{
				Search:    getString(p, "search", ""),
				SortBy:    getString(p, "sortBy", ""),
				SortOrder: getString(p, "sortOrder", ""),
				Limit:     getInt(p, "limit"),
				Sector:    getString(p, "sector", ""),
			}), nil
		},
		"fetch_available_tickers": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchAvailableTickers(ctx, getString(p, "search", "")), nil
		},
		"fetch_balance_sheet_history": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchBalanceSheetHistory(ctx, p["tickers"])
		},
		"fetch_balance_sheet_history_quarterly": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchBalanceSheetHistoryQuarterly(ctx, p["tickers"])
		},
		"fetch_income_statement_history": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchIncomeStatementHistory(ctx, p["tickers"])
		},
		"fetch_income_statement_history_quarterly": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchIncomeStatementHistoryQuarterly(ctx, p["tickers"])
		},
		"fetch_default_key_statistics": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchDefaultKeyStatistics(ctx, p["tickers"])
		},
		"fetch_financial_data": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchFinancialData(ctx, p["tickers"])
		},
		"fetch_summary_profile": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchSummaryProfile(ctx, p["tickers"])
		},
		"fetch_inflation": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchInflation(ctx, getString(p, "start", ""), getString(p, "end", "")), nil
		},
		"fetch_prime_rate": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchPrimeRate(ctx, getString(p, "start", ""), getString(p, "end", "")), nil
		},
		"fetch_currency": func(ctx context.Context, p map[string]any) (any, error) {
			currency := getString(p, "currency", "")
			if currency == "" {
				return nil, fmt.Errorf("currency parameter is required")
			}
			return svc.FetchCurrency(ctx, currency), nil
		},
		"fetch_crypto": func(ctx context.Context, p map[string]any) (any, error) {
			coin := getString(p, "coin", "")
			if coin == "" {
				return nil, fmt.Errorf("coin parameter is required")
			}
			return svc.FetchCrypto(ctx, coin, getString(p, "currency", "")), nil
		},
		"get_available_currencies": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.AvailableCurrencies(ctx, getString(p, "search", "")), nil
		},
		"get_available_cryptos": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.AvailableCryptos(ctx, getString(p, "search", "")), nil
		},
		"get_available_countries": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.AvailableCountries(ctx, getString(p, "search", "")), nil
		},
		"fetch_quote_open": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchQuoteOpen(ctx, p["tickers"], getString(p, "range", ""), getString(p, "interval", ""))
		},
		"fetch_quote_high": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchQuoteHigh(ctx, p["tickers"], getString(p, "range", ""), getString(p, "interval", ""))
		},
		"fetch_quote_low": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchQuoteLow(ctx, p["tickers"], getString(p, "range", ""), getString(p, "interval", ""))
		},
		"fetch_quote_close": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchQuoteClose(ctx, p["tickers"], getString(p, "range", ""), getString(p, "interval", ""))
		},
		"fetch_quote_volume": func(ctx context.Context, p map[string]any) (any, error) {
			return svc.FetchQuoteVolume(ctx, p["tickers"], getString(p, "range", ""), getString(p, "interval", ""))
		},
		"extract_common_stock_data": func(ctx context.Context, p map[string]any) (any, error) {
			return extractCommonStock(ctx, svc, p)
		},
	}
	for name, h := range bindings {
		if err := r.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}

// extractCommonStock composes the statement and price fetchers: annual
// balance sheets plus a close-price frame, aligned on the price index. Both
// sides key by canonical ticker, so no key normalization is needed.
func extractCommonStock(ctx context.Context, svc *quotes.Service, p map[string]any) (any, error) {
	statements, err := svc.FetchBalanceSheetHistory(ctx, p["tickers"])
	if err != nil {
		return nil, err
	}
	if statements == nil {
		return nil, fmt.Errorf("no balance sheet data for the requested tickers")
	}
	rng := getString(p, "range", "5y")
	interval := getString(p, "interval", "1mo")
	prices, err := svc.FetchQuoteClose(ctx, p["tickers"], rng, interval)
	if err != nil {
		return nil, err
	}
	if prices.IsEmpty() {
		return nil, fmt.Errorf("no price data for the requested tickers")
	}
	// Columns without statements would fail strict alignment; restrict the
	// reference to the tickers that produced both.
	var common []string
	for _, col := range prices.Columns {
		if _, ok := statements[col]; ok {
			common = append(common, col)
		}
	}
	if len(common) == 0 {
		return nil, fmt.Errorf("no ticker has both statements and prices")
	}
	ref, err := prices.Select(common)
	if err != nil {
		return nil, err
	}
	return quotes.ExtractCommonStockData(statements, ref, nil)
}
