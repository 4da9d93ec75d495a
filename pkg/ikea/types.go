package ikea

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Dollar unwraps IOWS values, which arrive as {"$": value}. A bare value is
// accepted too.
type Dollar[T any] struct {
	Value T
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dollar[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var wrapped struct {
			Value *T `json:"$"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return err
		}
		if wrapped.Value != nil {
			d.Value = *wrapped.Value
		}
		return nil
	}
	return json.Unmarshal(b, &d.Value)
}

// MarshalJSON implements json.Marshaler.
func (d Dollar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]T{"$": d.Value})
}

// OneOrMany decodes a field that holds either a single object or a list.
type OneOrMany[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (o *OneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*o = nil
		return nil
	case b[0] == '[':
		var many []T
		if err := json.Unmarshal(b, &many); err != nil {
			return err
		}
		*o = many
		return nil
	default:
		var one T
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*o = OneOrMany[T]{one}
		return nil
	}
}

// FlexString accepts a JSON string or number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Int parses the value as an integer, or returns 0.
func (f FlexString) Int() int {
	n, _ := strconv.Atoi(string(f)) //nolint:errcheck // zero on malformed input
	return n
}

// --- IOWS ---

// IOWSResponse is the body of a catalog/items call: a single item, a list of
// items or an error list.
type IOWSResponse struct {
	RetailItemComm     *IOWSItem `json:"RetailItemComm,omitempty"`
	RetailItemCommList *struct {
		RetailItemComm OneOrMany[IOWSItem] `json:"RetailItemComm"`
	} `json:"RetailItemCommList,omitempty"`
	ErrorList *IOWSErrorList `json:"ErrorList,omitempty"`
}

// Items returns every item in the response.
func (r *IOWSResponse) Items() []IOWSItem {
	if r.RetailItemCommList != nil {
		return r.RetailItemCommList.RetailItemComm
	}
	if r.RetailItemComm != nil {
		return []IOWSItem{*r.RetailItemComm}
	}
	return nil
}

// IOWSItem is a RetailItemComm record.
type IOWSItem struct {
	ItemNo                         Dollar[FlexString] `json:"ItemNo"`
	ItemType                       Dollar[string]     `json:"ItemType"`
	ProductName                    Dollar[string]     `json:"ProductName"`
	ProductTypeName                Dollar[string]     `json:"ProductTypeName"`
	ValidDesignText                *Dollar[string]    `json:"ValidDesignText,omitempty"`
	ItemMeasureReferenceTextMetric *Dollar[string]    `json:"ItemMeasureReferenceTextMetric,omitempty"`

	RetailItemCommPriceList *struct {
		RetailItemCommPrice OneOrMany[IOWSPrice] `json:"RetailItemCommPrice"`
	} `json:"RetailItemCommPriceList,omitempty"`

	RetailItemImageList *struct {
		RetailItemImage OneOrMany[IOWSImage] `json:"RetailItemImage"`
	} `json:"RetailItemImageList,omitempty"`

	RetailItemCommPackageMeasureList *struct {
		RetailItemCommPackageMeasure OneOrMany[IOWSPackageMeasure] `json:"RetailItemCommPackageMeasure"`
	} `json:"RetailItemCommPackageMeasureList,omitempty"`

	RetailItemCommChildList *struct {
		RetailItemCommChild OneOrMany[IOWSChild] `json:"RetailItemCommChild"`
	} `json:"RetailItemCommChildList,omitempty"`

	CatalogRefList *struct {
		CatalogRef OneOrMany[IOWSCatalogRef] `json:"CatalogRef"`
	} `json:"CatalogRefList,omitempty"`
}

// IOWSPrice is one price entry of an IOWS item.
type IOWSPrice struct {
	RetailPriceType Dollar[string]          `json:"RetailPriceType"`
	Price           Dollar[decimal.Decimal] `json:"Price"`
	CurrencyCode    Dollar[string]          `json:"CurrencyCode"`
}

// IOWSImage is one image entry of an IOWS item.
type IOWSImage struct {
	ImageUsage Dollar[string] `json:"ImageUsage"`
	ImageSize  Dollar[string] `json:"ImageSize"`
	ImageURL   Dollar[string] `json:"ImageUrl"`
}

// IOWSPackageMeasure is one package measurement of an IOWS item.
type IOWSPackageMeasure struct {
	PackageMeasureType       Dollar[string] `json:"PackageMeasureType"`
	PackageMeasureTextMetric Dollar[string] `json:"PackageMeasureTextMetric"`
	ConsumerPackNumber       Dollar[int]    `json:"ConsumerPackNumber"`
}

// IOWSChild is a part of a combination item.
type IOWSChild struct {
	ItemNo                         Dollar[FlexString] `json:"ItemNo"`
	ItemType                       Dollar[string]     `json:"ItemType"`
	ProductName                    Dollar[string]     `json:"ProductName"`
	ProductTypeName                Dollar[string]     `json:"ProductTypeName"`
	Quantity                       Dollar[int]        `json:"Quantity"`
	ItemMeasureReferenceTextMetric *Dollar[string]    `json:"ItemMeasureReferenceTextMetric,omitempty"`
}

// IOWSCatalogRef links an item to catalog categories.
type IOWSCatalogRef struct {
	Catalog struct {
		CatalogID Dollar[string] `json:"CatalogId"`
	} `json:"Catalog"`
	CatalogElementList struct {
		CatalogElement OneOrMany[IOWSCatalogElement] `json:"CatalogElement"`
	} `json:"CatalogElementList"`
}

// IOWSCatalogElement is a category an item belongs to.
type IOWSCatalogElement struct {
	CatalogElementName Dollar[string]     `json:"CatalogElementName"`
	CatalogElementID   Dollar[FlexString] `json:"CatalogElementId"`
}

// IOWSErrorList is the structured error body of IOWS.
type IOWSErrorList struct {
	Error OneOrMany[IOWSError] `json:"Error"`
}

// IOWSError is one IOWS error.
type IOWSError struct {
	ErrorCode          Dollar[FlexString] `json:"ErrorCode"`
	ErrorMessage       Dollar[string]     `json:"ErrorMessage"`
	ErrorAttributeList *struct {
		ErrorAttribute OneOrMany[IOWSErrorAttribute] `json:"ErrorAttribute"`
	} `json:"ErrorAttributeList,omitempty"`
}

// Attribute returns the value of the named error attribute.
func (e IOWSError) Attribute(name string) (string, bool) {
	if e.ErrorAttributeList == nil {
		return "", false
	}
	for _, a := range e.ErrorAttributeList.ErrorAttribute {
		if a.Name.Value == name {
			return string(a.Value.Value), true
		}
	}
	return "", false
}

// IOWSErrorAttribute is a name/value pair attached to an IOWS error.
type IOWSErrorAttribute struct {
	Name  Dollar[string]     `json:"Name"`
	Value Dollar[FlexString] `json:"Value"`
}

// --- INGKA ---

// IngkaResponse is the sales item communications response.
type IngkaResponse struct {
	Data []IngkaItem `json:"data"`
}

// IngkaItem is one sales item.
type IngkaItem struct {
	ItemKey                 IngkaItemKey         `json:"itemKey"`
	LocalisedCommunications []IngkaCommunication `json:"localisedCommunications"`
	ChildItems              []IngkaChildItem     `json:"childItems,omitempty"`
}

// IngkaItemKey identifies a sales item.
type IngkaItemKey struct {
	ItemType string `json:"itemType"`
	ItemNo   string `json:"itemNo"`
}

// IngkaCommunication holds localised product texts and media.
type IngkaCommunication struct {
	LanguageCode string `json:"languageCode"`
	ProductName  string `json:"productName"`
	ProductType  struct {
		Name string `json:"name"`
	} `json:"productType"`
	ValidDesign *struct {
		Text string `json:"text"`
	} `json:"validDesign,omitempty"`
	Measurements *struct {
		ReferenceMeasurements []struct {
			Metric string `json:"metric"`
		} `json:"referenceMeasurements"`
	} `json:"measurements,omitempty"`
	PackageMeasurements []IngkaPackageMeasurement `json:"packageMeasurements,omitempty"`
	Media               []IngkaMedia              `json:"media,omitempty"`
}

// IngkaPackageMeasurement is one package dimension.
type IngkaPackageMeasurement struct {
	Type        string          `json:"type"`
	ValueMetric decimal.Decimal `json:"valueMetric"`
	UnitMetric  string          `json:"unitMetric"`
}

// IngkaMedia is an image with its size variants.
type IngkaMedia struct {
	TypeName string `json:"typeName"`
	Variants []struct {
		Quality string `json:"quality"`
		Href    string `json:"href"`
	} `json:"variants"`
}

// IngkaChildItem is a part of a combination item.
type IngkaChildItem struct {
	Quantity int          `json:"quantity"`
	ItemKey  IngkaItemKey `json:"itemKey"`
	Name     string       `json:"productName,omitempty"`
	Weight   string       `json:"weight,omitempty"`
}

// --- PIP ---

// PIPItem is the product information page JSON.
type PIPItem struct {
	ID           string          `json:"id"`
	PriceNumeral decimal.Decimal `json:"priceNumeral"`
	PipURL       string          `json:"pipUrl"`
	CatalogRefs  struct {
		Products *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"products,omitempty"`
	} `json:"catalogRefs"`
}

// --- Search ---

// SearchResponse is the search-result-page response.
type SearchResponse struct {
	SearchResultPage struct {
		Products struct {
			Main struct {
				Items []struct {
					Product SearchProductHit `json:"product"`
				} `json:"items"`
			} `json:"main"`
		} `json:"products"`
	} `json:"searchResultPage"`
}

// SearchProductHit is one product of a search result.
type SearchProductHit struct {
	ID           string `json:"id"`
	ItemNo       string `json:"itemNo"`
	Name         string `json:"name"`
	TypeName     string `json:"typeName"`
	MainImageURL string `json:"mainImageUrl"`
	PipURL       string `json:"pipUrl"`
	SalesPrice   struct {
		Numeral      decimal.Decimal `json:"numeral"`
		CurrencyCode string          `json:"currencyCode"`
	} `json:"salesPrice"`
}

// --- Cart ---

// CartResponse is the GraphQL envelope returned by every cart operation.
type CartResponse struct {
	Data map[string]*CartData `json:"data"`
}

// Cart returns the cart carried by the response regardless of which
// operation produced it.
func (r *CartResponse) Cart() *CartData {
	for _, c := range r.Data {
		if c != nil {
			return c
		}
	}
	return nil
}

// CartData is the cart object.
type CartData struct {
	Context struct {
		UserID      string `json:"userId"`
		IsAnonymous bool   `json:"isAnonymous"`
		RetailID    string `json:"retailId"`
	} `json:"context"`
	Checksum string         `json:"checksum"`
	Items    []CartItemData `json:"items"`
	Coupon   *CartCoupon    `json:"coupon,omitempty"`
	Total    CartTotalPrice `json:"regularTotalPrice"`
}

// CartItemData is a cart line.
type CartItemData struct {
	ItemNo   string `json:"itemNo"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
	Product  struct {
		Name     string `json:"name"`
		TypeName string `json:"typeName"`
	} `json:"product"`
	RegularTotalPrice CartTotalPrice `json:"regularTotalPrice"`
}

// CartCoupon is an applied coupon.
type CartCoupon struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CartTotalPrice is an amount with tax.
type CartTotalPrice struct {
	InclTax  decimal.Decimal `json:"inclTax"`
	Currency string          `json:"currency"`
}

// --- Purchases ---

// Money is an amount returned by purchase history.
type Money struct {
	Value decimal.Decimal `json:"value"`
	Code  string          `json:"code"`
}

// DateAndTime is the purchase history timestamp object.
type DateAndTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// PurchaseHistoryResponse is the History query response.
type PurchaseHistoryResponse struct {
	Data struct {
		History []PurchaseHistoryEntry `json:"history"`
	} `json:"data"`
}

// PurchaseHistoryEntry is one past purchase.
type PurchaseHistoryEntry struct {
	ID          string      `json:"id"`
	DateAndTime DateAndTime `json:"dateAndTime"`
	Status      string      `json:"status"`
	StoreName   string      `json:"storeName"`
	TotalCost   Money       `json:"totalCost"`
}

// OrderInfoResponse holds the three results of the OrderInfo batch.
type OrderInfoResponse struct {
	StatusBanner StatusBannerOrder
	Costs        CostsOrder
	ProductList  ProductListOrder
}

// StatusBannerOrder is the StatusBannerOrder query result.
type StatusBannerOrder struct {
	Data struct {
		Order struct {
			ID           string      `json:"id"`
			DateAndTime  DateAndTime `json:"dateAndTime"`
			Status       string      `json:"status"`
			StatusBanner struct {
				DeliveryDate *DateAndTime `json:"deliveryDate,omitempty"`
			} `json:"statusBanner"`
		} `json:"order"`
	} `json:"data"`
}

// CostsOrder is the CostsOrder query result.
type CostsOrder struct {
	Data struct {
		Order struct {
			Costs struct {
				Total    Money `json:"total"`
				SubTotal Money `json:"subTotal"`
				Delivery Money `json:"delivery"`
			} `json:"costs"`
		} `json:"order"`
	} `json:"data"`
}

// ProductListOrder is the ProductListOrder query result.
type ProductListOrder struct {
	Data struct {
		Order struct {
			Articles struct {
				Any []OrderArticle `json:"any"`
			} `json:"articles"`
		} `json:"order"`
	} `json:"data"`
}

// OrderArticle is one ordered article.
type OrderArticle struct {
	ItemNo    string `json:"itemNo"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unitPrice"`
}

// --- Order capture ---

// CheckoutItem is an item submitted to order capture.
type CheckoutItem struct {
	ItemNo   string `json:"itemNo"`
	Quantity int    `json:"quantity"`
	UOM      string `json:"uom"`
}

// HomeDeliveryResponse is the home-delivery-services response.
type HomeDeliveryResponse struct {
	PossibleDeliveries struct {
		Deliveries []HomeDelivery `json:"deliveries"`
	} `json:"possibleDeliveries"`
}

// HomeDelivery is one home delivery option.
type HomeDelivery struct {
	ID                    string               `json:"id"`
	FulfillmentMethodType string               `json:"fulfillmentMethodType"`
	ServiceType           string               `json:"serviceType,omitempty"`
	EarliestPossibleSlot  *TimeSlot            `json:"earliestPossibleSlot,omitempty"`
	Price                 *DeliveryPrice       `json:"price,omitempty"`
	UnavailableItems      []UnavailableItemRaw `json:"unavailableItems,omitempty"`
}

// CollectDeliveryResponse is the collect-delivery-services response.
type CollectDeliveryResponse struct {
	PossiblePickUpPoints struct {
		PickUpPoints []PickUpPoint `json:"pickUpPoints"`
	} `json:"possiblePickUpPoints"`
}

// PickUpPoint is one collect option.
type PickUpPoint struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	Type                 string               `json:"type"`
	Address              string               `json:"address,omitempty"`
	EarliestPossibleSlot *TimeSlot            `json:"earliestPossibleSlot,omitempty"`
	Price                *DeliveryPrice       `json:"price,omitempty"`
	UnavailableItems     []UnavailableItemRaw `json:"unavailableItems,omitempty"`
}

// TimeSlot is a delivery window.
type TimeSlot struct {
	FromDateTime string `json:"fromDateTime"`
	ToDateTime   string `json:"toDateTime"`
}

// DeliveryPrice is a delivery charge.
type DeliveryPrice struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// UnavailableItemRaw is an item that cannot be delivered in full.
type UnavailableItemRaw struct {
	ItemNo            string `json:"itemNo"`
	AvailableQuantity int    `json:"availableQuantity"`
}
