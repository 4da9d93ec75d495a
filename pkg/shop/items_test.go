package shop_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/shop"
)

func TestShop_GetItems(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).
		on("GET /salesitem/communications/ru/ru", func(c call) *ikea.ResponseInfo {
			assert.Equal(t, "11111111,22222222,33333333", c.Query.Get("itemNos"))
			return jsonResp(http.StatusOK, `{"data":[{"itemKey":{"itemType":"ART","itemNo":"11111111"},
				"localisedCommunications":[{"languageCode":"ru","productName":"BILLY","productType":{"name":"Bookcase"}}]}]}`)
		}).
		on("GET /ru/ru/products/111/11111111.json", respond(http.StatusOK,
			`{"id":"11111111","priceNumeral":4999,"pipUrl":"https://www.ikea.com/ru/ru/p/billy-11111111/"}`)).
		on("GET /ru/ru/products/222/22222222.json", respond(http.StatusNotFound, `not found`)).
		on("GET /ru/ru/products/333/33333333.json", respond(http.StatusNotFound, `not found`)).
		on("GET /retail/iows/ru/ru/catalog/items/art,22222222;art,33333333", respond(http.StatusOK,
			`{"RetailItemCommList":{"RetailItemComm":{"ItemNo":{"$":"22222222"},"ItemType":{"$":"ART"},
			"ProductName":{"$":"LACK"},"ProductTypeName":{"$":"Table"},
			"RetailItemCommPriceList":{"RetailItemCommPrice":{"RetailPriceType":{"$":"RegularSalesUnitPrice"},"Price":{"$":999}}}}}}`))

	s := shop.New(up.executor(), ikea.DefaultConstants(), nil, shop.WithConcurrency(2))
	items, err := s.GetItems(context.Background(), []string{"11111111", "22222222", "33333333", "11111111"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "11111111", items[0].ItemCode)
	assert.Equal(t, "BILLY, Bookcase", items[0].Name)
	assert.Equal(t, "4999", items[0].Price.String())
	assert.Equal(t, "https://www.ikea.com/ru/ru/p/billy-11111111/", items[0].URL)

	assert.Equal(t, "22222222", items[1].ItemCode)
	assert.Equal(t, "LACK, Table", items[1].Name)
	assert.Equal(t, "999", items[1].Price.String())

	assert.Len(t, up.callsTo("GET /salesitem/communications/ru/ru"), 1)
}

func TestShop_GetItems_Chunks(t *testing.T) {
	t.Parallel()

	// The sales item service knows every code it is asked for.
	knowAll := func(c call) *ikea.ResponseInfo {
		codes := strings.Split(c.Query.Get("itemNos"), ",")
		data := make([]string, 0, len(codes))
		for _, code := range codes {
			data = append(data, `{"itemKey":{"itemType":"ART","itemNo":"`+code+`"}}`)
		}
		return jsonResp(http.StatusOK, `{"data":[`+strings.Join(data, ",")+`]}`)
	}

	up := newFakeUpstream(t).on("GET /salesitem/communications/ru/ru", knowAll)
	codes := make([]string, 0, ikea.IngkaMaxItems+1)
	for i := range ikea.IngkaMaxItems + 1 {
		code := strconv.Itoa(10000000 + i)
		codes = append(codes, code)
		up.on("GET /ru/ru/products/"+code[5:]+"/"+code+".json", respond(http.StatusNotFound, ``))
	}

	s := shop.New(up.executor(), ikea.DefaultConstants(), nil)
	items, err := s.GetItems(context.Background(), codes)
	require.NoError(t, err)
	require.Len(t, items, len(codes))
	assert.Equal(t, codes[0], items[0].ItemCode)
	assert.Equal(t, codes[len(codes)-1], items[len(items)-1].ItemCode)

	calls := up.callsTo("GET /salesitem/communications/ru/ru")
	require.Len(t, calls, 2)
	sizes := []int{
		len(strings.Split(calls[0].Query.Get("itemNos"), ",")),
		len(strings.Split(calls[1].Query.Get("itemNos"), ",")),
	}
	assert.ElementsMatch(t, []int{ikea.IngkaMaxItems, 1}, sizes)
}

func TestShop_GetItems_SalesItemFailure(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).
		on("GET /salesitem/communications/ru/ru", respond(http.StatusServiceUnavailable, `{"message":"down"}`)).
		on("GET /ru/ru/products/111/11111111.json", respond(http.StatusNotFound, ``))

	s := shop.New(up.executor(), ikea.DefaultConstants(), nil)
	_, err := s.GetItems(context.Background(), []string{"11111111"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, ikea.StatusCode(err))
}

func TestShop_GetItems_Empty(t *testing.T) {
	t.Parallel()

	s := shop.New(newFakeUpstream(t).executor(), ikea.DefaultConstants(), nil)
	items, err := s.GetItems(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShop_GetItems_SingleUnknownCode(t *testing.T) {
	t.Parallel()

	up := newFakeUpstream(t).
		on("GET /salesitem/communications/ru/ru", respond(http.StatusOK,
			`{"data":[{"itemKey":{"itemType":"ART","itemNo":"11111111"},
			"localisedCommunications":[{"languageCode":"ru","productName":"BILLY","productType":{"name":"Bookcase"}}]}]}`)).
		on("GET /ru/ru/products/111/11111111.json", respond(http.StatusNotFound, ``)).
		on("GET /ru/ru/products/999/99999999.json", respond(http.StatusNotFound, ``)).
		on("GET /retail/iows/ru/ru/catalog/items/art,99999999", respond(http.StatusNotFound, ``)).
		on("GET /retail/iows/ru/ru/catalog/items/spr,99999999", respond(http.StatusNotFound, ``))

	s := shop.New(up.executor(), ikea.DefaultConstants(), nil)
	items, err := s.GetItems(context.Background(), []string{"11111111", "99999999"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "11111111", items[0].ItemCode)

	assert.Len(t, up.callsTo("GET /retail/iows/ru/ru/catalog/items/art,99999999"), 1)
	assert.Len(t, up.callsTo("GET /retail/iows/ru/ru/catalog/items/spr,99999999"), 1)
}
