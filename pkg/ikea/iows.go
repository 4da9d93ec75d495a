package ikea

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
)

const (
	// iowsMaxRounds bounds the ART/SPR guessing loop.
	iowsMaxRounds = 3

	iowsErrWrongType = 1100
	iowsAttrItemNo   = "ITEM_NO"
)

// NewIOWSItems creates an endpoint that fetches items from IOWS. Item types
// are not known up front: every code is first requested as an article (ART)
// and re-requested as a combination (SPR) when IOWS reports it missing. Codes
// that fail both ways are dropped.
func NewIOWSItems(c Constants, codes []string) *Endpoint[[]IOWSItem] {
	h := c.defaultHeaders()
	h.Set("Accept", "application/vnd.ikea.iows+json;version=2.0")
	h.Set("Referer", c.LocalBaseURL()+"/shoppinglist/")
	h.Set("Consumer", "MAMMUT")
	h.Set("Contract", "37249")

	r := &iowsResolver{
		session: SessionInfo{
			BaseURL: fmt.Sprintf("%s/%s/%s", c.iowsURL(), c.Country, c.Language),
			Headers: h,
		},
		items: make(map[string]bool, len(codes)),
	}
	for _, code := range codes {
		r.items[code] = false
	}

	return NewEndpoint("iows_items", r.step, Handle401)
}

type iowsResolver struct {
	session SessionInfo
	// items maps item code to whether it is requested as a combination.
	items  map[string]bool
	rounds int
}

func (r *iowsResolver) step(resp *ResponseInfo) (*RequestInfo, []IOWSItem, error) {
	if resp == nil {
		return r.next(nil)
	}

	if resp.StatusCode == http.StatusNotFound && len(r.items) == 1 {
		code := lo.Keys(r.items)[0]
		if r.items[code] {
			return nil, nil, &ItemFetchError{
				Response:  resp,
				ItemCodes: []string{code},
				Message:   "not found as article or combination",
				Cause:     ErrWrongItemCode,
			}
		}
		r.items[code] = true
		metrics.IOWSCodesFlippedTotal.Inc()
		return r.next(resp)
	}

	var body IOWSResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, nil, &JSONError{Response: resp, Cause: err}
	}

	if body.ErrorList != nil && len(body.ErrorList.Error) > 0 {
		if err := r.applyErrors(resp, body.ErrorList.Error); err != nil {
			return nil, nil, err
		}
		return r.next(resp)
	}

	if !resp.IsSuccess() {
		return nil, nil, NewAPIError(resp, "")
	}
	return nil, body.Items(), nil
}

// applyErrors flips codes reported missing as ART to SPR and drops codes that
// already failed as SPR.
func (r *iowsResolver) applyErrors(resp *ResponseInfo, errs []IOWSError) error {
	for _, e := range errs {
		itemNo, hasItem := e.Attribute(iowsAttrItemNo)
		if e.ErrorCode.Value.Int() != iowsErrWrongType || !hasItem {
			fe := &ItemFetchError{
				Response: resp,
				Message:  fmt.Sprintf("IOWS error %s: %s", e.ErrorCode.Value, e.ErrorMessage.Value),
			}
			if hasItem {
				fe.ItemCodes = []string{itemNo}
			}
			return fe
		}

		isCombination, known := r.items[itemNo]
		switch {
		case !known:
			continue
		case isCombination:
			delete(r.items, itemNo)
			metrics.IOWSCodesDroppedTotal.Inc()
		default:
			r.items[itemNo] = true
			metrics.IOWSCodesFlippedTotal.Inc()
		}
	}
	return nil
}

func (r *iowsResolver) next(resp *ResponseInfo) (*RequestInfo, []IOWSItem, error) {
	if len(r.items) == 0 {
		return nil, []IOWSItem{}, nil
	}
	if r.rounds >= iowsMaxRounds {
		return nil, nil, &ItemFetchError{
			Response:  resp,
			ItemCodes: r.codes(),
			Message:   fmt.Sprintf("item types unresolved after %d requests", iowsMaxRounds),
			Cause:     errors.New("too many IOWS rounds"),
		}
	}
	r.rounds++
	return &RequestInfo{
		Session: r.session,
		Method:  http.MethodGet,
		URL:     "/catalog/items/" + r.path(),
	}, nil, nil
}

func (r *iowsResolver) codes() []string {
	codes := lo.Keys(r.items)
	slices.Sort(codes)
	return codes
}

// path renders the item list, e.g. art,12345678;spr,87654321.
func (r *iowsResolver) path() string {
	parts := lo.Map(r.codes(), func(code string, _ int) string {
		if r.items[code] {
			return "spr," + code
		}
		return "art," + code
	})
	return strings.Join(parts, ";")
}
