package parse_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea/parse"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

const iowsCombination = `{"RetailItemComm":{
	"ItemNo":{"$":"99999999"},
	"ItemType":{"$":"SPR"},
	"ProductName":{"$":"BILLY"},
	"ProductTypeName":{"$":"Bookcase combination"},
	"ValidDesignText":{"$":"white"},
	"ItemMeasureReferenceTextMetric":{"$":"80x28x202 cm"},
	"RetailItemCommPriceList":{"RetailItemCommPrice":[
		{"RetailPriceType":{"$":"FamilyNormalSalesUnitPrice"},"Price":{"$":8999},"CurrencyCode":{"$":"RUB"}},
		{"RetailPriceType":{"$":"RegularSalesUnitPrice"},"Price":{"$":9999.5},"CurrencyCode":{"$":"RUB"}}
	]},
	"RetailItemImageList":{"RetailItemImage":[
		{"ImageUsage":{"$":"PRICE_TAG"},"ImageSize":{"$":"S3"},"ImageUrl":{"$":"/images/s3.jpg"}},
		{"ImageUsage":{"$":"PRICE_TAG"},"ImageSize":{"$":"S5"},"ImageUrl":{"$":"/images/s5.jpg"}}
	]},
	"RetailItemCommPackageMeasureList":{"RetailItemCommPackageMeasure":[
		{"PackageMeasureType":{"$":"WEIGHT"},"PackageMeasureTextMetric":{"$":"12,5 kg"},"ConsumerPackNumber":{"$":2}},
		{"PackageMeasureType":{"$":"WIDTH"},"PackageMeasureTextMetric":{"$":"30 cm"},"ConsumerPackNumber":{"$":1}}
	]},
	"RetailItemCommChildList":{"RetailItemCommChild":
		{"ItemNo":{"$":11111111},"ItemType":{"$":"ART"},"ProductName":{"$":"BILLY"},
		 "ProductTypeName":{"$":"Bookcase"},"Quantity":{"$":2}}
	},
	"CatalogRefList":{"CatalogRef":[
		{"Catalog":{"CatalogId":{"$":"departments"}},"CatalogElementList":{"CatalogElement":{"CatalogElementName":{"$":"Living room"},"CatalogElementId":{"$":"LR"}}}},
		{"Catalog":{"CatalogId":{"$":"genericproducts"}},"CatalogElementList":{"CatalogElement":{"CatalogElementName":{"$":"Bookcases"},"CatalogElementId":{"$":10382}}}}
	]}
}}`

func TestIOWSItems(t *testing.T) {
	t.Parallel()

	var resp ikea.IOWSResponse
	require.NoError(t, json.Unmarshal([]byte(iowsCombination), &resp))

	items := parse.IOWSItems(ikea.DefaultConstants(), resp.Items())
	require.Len(t, items, 1)
	got := items[0]

	assert.True(t, got.IsCombination)
	assert.Equal(t, "99999999", got.ItemCode)
	assert.Equal(t, "BILLY, Bookcase combination, white, 80x28x202 cm", got.Name)
	assert.Equal(t, "9999.5", got.Price.String())
	assert.Equal(t, "https://www.ikea.com/images/s5.jpg", got.ImageURL)
	assert.InDelta(t, 25.0, got.Weight, 0.001)
	assert.Equal(t, []domain.ChildItem{{ItemCode: "11111111", Name: "BILLY, Bookcase", Qty: 2}}, got.ChildItems)
	assert.Equal(t, "Bookcases", got.CategoryName)
	assert.Equal(t, "https://www.ikea.com/ru/ru/cat/-10382", got.CategoryURL)
	assert.Equal(t, "https://www.ikea.com/ru/ru/p/-s99999999", got.URL)
}

func TestIOWSItems_Sparse(t *testing.T) {
	t.Parallel()

	var resp ikea.IOWSResponse
	require.NoError(t, json.Unmarshal([]byte(`{"RetailItemCommList":{"RetailItemComm":[
		{"ItemNo":{"$":"11111111"},"ItemType":{"$":"ART"},"ProductName":{"$":"LACK"},"ProductTypeName":{"$":"Table"}}
	]}}`), &resp))

	items := parse.IOWSItems(ikea.DefaultConstants(), resp.Items())
	require.Len(t, items, 1)
	assert.False(t, items[0].IsCombination)
	assert.Equal(t, "LACK, Table", items[0].Name)
	assert.True(t, items[0].Price.IsZero())
	assert.Empty(t, items[0].ChildItems)
	assert.Equal(t, "https://www.ikea.com/ru/ru/p/-11111111", items[0].URL)
}

func TestIngkaItems(t *testing.T) {
	t.Parallel()

	var resp ikea.IngkaResponse
	require.NoError(t, json.Unmarshal([]byte(`{"data":[{
		"itemKey":{"itemType":"SPR","itemNo":"99999999"},
		"localisedCommunications":[
			{"languageCode":"en","productName":"BILLY EN","productType":{"name":"Bookcase"}},
			{"languageCode":"ru","productName":"BILLY","productType":{"name":"Стеллаж"},
			 "validDesign":{"text":"белый"},
			 "measurements":{"referenceMeasurements":[{"metric":"80x202 см"}]},
			 "packageMeasurements":[
				{"type":"WEIGHT","valueMetric":10.25,"unitMetric":"kg"},
				{"type":"WEIGHT","valueMetric":4,"unitMetric":"kg"},
				{"type":"LENGTH","valueMetric":200,"unitMetric":"cm"}],
			 "media":[
				{"typeName":"CONTEXT_PRODUCT_IMAGE","variants":[{"quality":"S5","href":"https://img/context.jpg"}]},
				{"typeName":"MAIN_PRODUCT_IMAGE","variants":[
					{"quality":"S2","href":"https://img/s2.jpg"},
					{"quality":"S5","href":"https://img/s5.jpg"}]}]}
		],
		"childItems":[{"quantity":2,"itemKey":{"itemType":"ART","itemNo":"11111111"},"productName":"BILLY","weight":"7,1 kg"}]
	}]}`), &resp))

	items := parse.IngkaItems(ikea.DefaultConstants(), resp)
	require.Len(t, items, 1)
	got := items[0]

	assert.True(t, got.IsCombination)
	assert.Equal(t, "BILLY, Стеллаж, белый, 80x202 см", got.Name)
	assert.Equal(t, "https://img/s5.jpg", got.ImageURL)
	assert.InDelta(t, 14.25, got.Weight, 0.001)
	assert.Equal(t, []domain.ChildItem{{ItemCode: "11111111", Name: "BILLY", Weight: 7.1, Qty: 2}}, got.ChildItems)
}

func TestPIPItem(t *testing.T) {
	t.Parallel()

	_, ok := parse.PIPItem(nil)
	assert.False(t, ok)

	var pip ikea.PIPItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"11111111","priceNumeral":4999,
		"pipUrl":"https://www.ikea.com/ru/ru/p/billy-11111111/",
		"catalogRefs":{"products":{"name":"Bookcases","url":"https://www.ikea.com/ru/ru/cat/bookcases-10382/"}}}`), &pip))

	got, ok := parse.PIPItem(&pip)
	require.True(t, ok)

	merged := parse.MergePIP(domain.ParsedItem{ItemCode: "11111111", Name: "BILLY", URL: "old"}, got)
	assert.Equal(t, "BILLY", merged.Name)
	assert.Equal(t, "4999", merged.Price.String())
	assert.Equal(t, "https://www.ikea.com/ru/ru/p/billy-11111111/", merged.URL)
	assert.Equal(t, "Bookcases", merged.CategoryName)
}

func TestParseWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{in: "12.5 kg", want: 12.5},
		{in: "12,5 кг", want: 12.5},
		{in: "7 kg", want: 7},
		{in: "", want: 0},
		{in: "n/a", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, parse.ParseWeight(tt.in), 0.0001)
		})
	}
}
