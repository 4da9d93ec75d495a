package parse

import (
	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// SearchResults converts product search hits.
func SearchResults(resp *ikea.SearchResponse) []domain.SearchResult {
	if resp == nil {
		return nil
	}
	hits := resp.SearchResultPage.Products.Main.Items
	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		p := h.Product
		code := p.ItemNo
		if code == "" {
			code = p.ID
		}
		results = append(results, domain.SearchResult{
			ItemCode: code,
			Name:     p.Name,
			Type:     p.TypeName,
			Price:    p.SalesPrice.Numeral,
			Currency: p.SalesPrice.CurrencyCode,
			ImageURL: p.MainImageURL,
			URL:      p.PipURL,
		})
	}
	return results
}
