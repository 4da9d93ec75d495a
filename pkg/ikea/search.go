package ikea

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SearchType selects which result kinds a search returns.
type SearchType string

// Search types.
const (
	SearchProduct SearchType = "PRODUCT"
	SearchContent SearchType = "CONTENT"
	SearchPlanner SearchType = "PLANNER"
	SearchRefine  SearchType = "REFINED_SEARCHES"
	SearchAnswer  SearchType = "ANSWER"
)

const defaultSearchLimit = 24

// NewSearch creates an endpoint for the site search. limit <= 0 uses the
// site default; no types means products only.
func NewSearch(c Constants, query string, limit int, types ...SearchType) *Endpoint[SearchResponse] {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if len(types) == 0 {
		types = []SearchType{SearchProduct}
	}
	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	req := &RequestInfo{
		Session: SessionInfo{BaseURL: c.searchURL(), Headers: c.defaultHeaders()},
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("/%s/%s/search-result-page", c.Country, c.Language),
		Params: url.Values{
			"autocorrect":         {"true"},
			"subcategories-style": {"tree-navigation"},
			"types":               {strings.Join(typeNames, ",")},
			"q":                   {query},
			"size":                {strconv.Itoa(limit)},
			"c":                   {"sr"},
			"v":                   {"20210322"},
		},
	}

	return Single("search", req, DecodeInto[SearchResponse], restHandlers...)
}
