package quotes

import (
	"context"

	"brquote/pkg/core/logging"
	"brquote/pkg/core/table"
)

// statementModule describes one fundamental-statement module: the request
// module name, the envelope keys to unwrap, and the unit divisor applied
// during tabulation (balance sheets are rescaled to thousands).
type statementModule struct {
	module      string
	outerKey    string
	innerKey    string
	unitDivisor float64
}

var (
	balanceSheetAnnual = statementModule{
		module:      "balanceSheetHistory",
		outerKey:    "balanceSheetHistory",
		innerKey:    "balanceSheetStatements",
		unitDivisor: 1000,
	}
	balanceSheetQuarterly = statementModule{
		module:      "balanceSheetHistoryQuarterly",
		outerKey:    "balanceSheetHistoryQuarterly",
		innerKey:    "balanceSheetStatements",
		unitDivisor: 1000,
	}
	incomeStatementAnnual = statementModule{
		module:      "incomeStatementHistory",
		outerKey:    "incomeStatementHistory",
		innerKey:    "incomeStatementHistory",
		unitDivisor: 1,
	}
	incomeStatementQuarterly = statementModule{
		module:      "incomeStatementHistoryQuarterly",
		outerKey:    "incomeStatementHistoryQuarterly",
		innerKey:    "incomeStatementHistory",
		unitDivisor: 1,
	}
)

// fetchStatements fans out one statement module over the tickers and
// tabulates per entity. Tickers without usable statements are skipped; a
// batch with no survivors yields nil rather than an empty map.
func (s *Service) fetchStatements(ctx context.Context, tickers any, mod statementModule) (map[string]*table.MetricMatrix, error) {
	list, _, err := s.canonical(tickers)
	if err != nil {
		return nil, err
	}
	results := fetchEach(ctx, list, s.workers, func(ctx context.Context, ticker string) (*table.MetricMatrix, bool) {
		entity, ok := s.fetchModule(ctx, ticker, mod.module)
		if !ok {
			return nil, false
		}
		outer, _ := entity[mod.outerKey].(map[string]any)
		statements := records(outer[mod.innerKey])
		matrix := Tabulate(statements, mod.unitDivisor)
		if matrix == nil {
			s.log.WithFields(logging.Fields{"ticker": ticker, "module": mod.module}).Warn("no statements in payload")
			return nil, false
		}
		return matrix, true
	})
	if len(results) == 0 {
		return nil, nil
	}
	return results, nil
}

// FetchBalanceSheetHistory fetches annual balance sheets pivoted to metric ×
// date matrices, values rescaled to thousands. Returns nil when no ticker
// yielded data.
func (s *Service) FetchBalanceSheetHistory(ctx context.Context, tickers any) (map[string]*table.MetricMatrix, error) {
	return s.fetchStatements(ctx, tickers, balanceSheetAnnual)
}

// FetchBalanceSheetHistoryQuarterly is the quarterly variant of
// FetchBalanceSheetHistory.
func (s *Service) FetchBalanceSheetHistoryQuarterly(ctx context.Context, tickers any) (map[string]*table.MetricMatrix, error) {
	return s.fetchStatements(ctx, tickers, balanceSheetQuarterly)
}

// FetchIncomeStatementHistory fetches annual income statements pivoted to
// metric × date matrices in raw currency units.
func (s *Service) FetchIncomeStatementHistory(ctx context.Context, tickers any) (map[string]*table.MetricMatrix, error) {
	return s.fetchStatements(ctx, tickers, incomeStatementAnnual)
}

// FetchIncomeStatementHistoryQuarterly is the quarterly variant of
// FetchIncomeStatementHistory.
func (s *Service) FetchIncomeStatementHistoryQuarterly(ctx context.Context, tickers any) (map[string]*table.MetricMatrix, error) {
	return s.fetchStatements(ctx, tickers, incomeStatementQuarterly)
}

// fetchEntityModule collects one flat module object per ticker into a
// records table indexed by ticker. coerce controls numeric coercion; the
// company profile keeps its string fields.
func (s *Service) fetchEntityModule(ctx context.Context, tickers any, module string, coerce bool) (*table.Records, error) {
	list, _, err := s.canonical(tickers)
	if err != nil {
		return nil, err
	}
	rows := fetchEach(ctx, list, s.workers, func(ctx context.Context, ticker string) (map[string]any, bool) {
		entity, ok := s.fetchModule(ctx, ticker, module)
		if !ok {
			return nil, false
		}
		data, _ := entity[module].(map[string]any)
		if len(data) == 0 {
			s.log.WithFields(logging.Fields{"ticker": ticker, "module": module}).Warn("module absent from payload")
			return nil, false
		}
		return data, true
	})
	if len(rows) == 0 {
		return nil, nil
	}
	// Deterministic row order: the canonical request order.
	var maps []map[string]any
	var index []string
	for _, ticker := range list {
		if row, ok := rows[ticker]; ok {
			maps = append(maps, row)
			index = append(index, ticker)
		}
	}
	r := table.FromMaps(maps, "")
	r.Index = index
	if coerce {
		r.CoerceNumeric()
	}
	return r, nil
}

// FetchDefaultKeyStatistics fetches the key-statistics module per ticker,
// all values numeric-coerced, indexed by ticker. Nil when no ticker yielded
// data.
func (s *Service) FetchDefaultKeyStatistics(ctx context.Context, tickers any) (*table.Records, error) {
	return s.fetchEntityModule(ctx, tickers, "defaultKeyStatistics", true)
}

// FetchFinancialData fetches the financial-data module per ticker with
// numeric coercion.
func (s *Service) FetchFinancialData(ctx context.Context, tickers any) (*table.Records, error) {
	return s.fetchEntityModule(ctx, tickers, "financialData", true)
}

// FetchSummaryProfile fetches the company profile per ticker. Profile
// fields are descriptive strings, so no numeric coercion is applied.
func (s *Service) FetchSummaryProfile(ctx context.Context, tickers any) (*table.Records, error) {
	return s.fetchEntityModule(ctx, tickers, "summaryProfile", false)
}
