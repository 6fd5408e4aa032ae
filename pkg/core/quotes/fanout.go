package quotes

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// fetchEach fans one fetch call out per ticker with at most workers calls in
// flight. Tickers whose fetch reports no data are absent from the result, so
// the returned map's key set is always a subset of tickers. No ticker
// failure aborts the batch, and the map is keyed by ticker regardless of
// completion order.
func fetchEach[T any](ctx context.Context, tickers []string, workers int, fetch func(ctx context.Context, ticker string) (T, bool)) map[string]T {
	if workers < 1 {
		workers = 1
	}
	var (
		mu  sync.Mutex
		out = make(map[string]T, len(tickers))
	)
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, ticker := range tickers {
		g.Go(func() error {
			v, ok := fetch(ctx, ticker)
			if !ok {
				return nil
			}
			mu.Lock()
			out[ticker] = v
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}
