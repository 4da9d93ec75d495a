package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea/parse"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// GetItems looks up items by code. Sales item data and product pages are
// fetched concurrently; codes the sales item service does not know are
// resolved through IOWS. Unknown codes are left out of the result, which
// keeps the order of codes.
func (s *Shop) GetItems(ctx context.Context, codes []string) ([]domain.ParsedItem, error) {
	codes = lo.Uniq(codes)
	if len(codes) == 0 {
		return []domain.ParsedItem{}, nil
	}

	var (
		mu    sync.Mutex
		found = make(map[string]domain.ParsedItem, len(codes))
		pips  = make(map[string]domain.ParsedItem, len(codes))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, chunk := range lo.Chunk(codes, ikea.IngkaMaxItems) {
		g.Go(func() error {
			resp, err := run(gctx, s, ikea.NewIngkaItems(s.constants, chunk))
			if err != nil {
				return fmt.Errorf("fetching sales items: %w", err)
			}
			items := parse.IngkaItems(s.constants, resp)
			mu.Lock()
			defer mu.Unlock()
			for _, it := range items {
				found[it.ItemCode] = it
			}
			return nil
		})
	}

	for _, code := range codes {
		g.Go(func() error {
			page, err := run(gctx, s, ikea.NewPIPItem(s.constants, code))
			if err != nil {
				return fmt.Errorf("fetching product page %s: %w", code, err)
			}
			if pip, ok := parse.PIPItem(page); ok {
				mu.Lock()
				pips[code] = pip
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	missing := lo.Filter(codes, func(code string, _ int) bool {
		_, ok := found[code]
		return !ok
	})
	if len(missing) > 0 {
		s.log.Debug("resolving items through IOWS", "codes", missing)
		items, err := run(ctx, s, ikea.NewIOWSItems(s.constants, missing))
		switch {
		case errors.Is(err, ikea.ErrWrongItemCode):
			s.log.Debug("item codes unknown to IOWS", "codes", missing, "err", err)
		case err != nil:
			return nil, fmt.Errorf("fetching IOWS items: %w", err)
		}
		for _, it := range parse.IOWSItems(s.constants, items) {
			found[it.ItemCode] = it
		}
	}

	result := make([]domain.ParsedItem, 0, len(found))
	for _, code := range codes {
		it, ok := found[code]
		if !ok {
			continue
		}
		if pip, ok := pips[code]; ok {
			it = parse.MergePIP(it, pip)
		}
		result = append(result, it)
	}
	return result, nil
}
