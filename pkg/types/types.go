// Package domain defines the records produced from IKEA API responses.
package domain

import (
	"github.com/shopspring/decimal"
)

// ItemType distinguishes single articles from combinations.
type ItemType string

// Item type constants.
const (
	ItemArticle     ItemType = "ART"
	ItemCombination ItemType = "SPR"
)

// ParsedItem is an item merged from the item lookup sources.
type ParsedItem struct {
	IsCombination bool            `json:"is_combination"`
	ItemCode      string          `json:"item_code"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url,omitempty"`
	Weight        float64         `json:"weight"`
	ChildItems    []ChildItem     `json:"child_items,omitempty"`
	Price         decimal.Decimal `json:"price"`
	URL           string          `json:"url,omitempty"`
	CategoryName  string          `json:"category_name,omitempty"`
	CategoryURL   string          `json:"category_url,omitempty"`
}

// ChildItem is a component of a combination.
type ChildItem struct {
	ItemCode string  `json:"item_code"`
	Name     string  `json:"name,omitempty"`
	Weight   float64 `json:"weight"`
	Qty      int     `json:"qty"`
}

// Cart is the contents of a shopping cart.
type Cart struct {
	UserID      string          `json:"user_id,omitempty"`
	IsAnonymous bool            `json:"is_anonymous"`
	Items       []CartItem      `json:"items"`
	Coupon      string          `json:"coupon,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency,omitempty"`
}

// CartItem is one line of a cart.
type CartItem struct {
	ItemCode   string          `json:"item_code"`
	Name       string          `json:"name"`
	Type       string          `json:"type,omitempty"`
	Qty        int             `json:"qty"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// DeliveryService is one delivery or pickup option.
type DeliveryService struct {
	IsAvailable      bool              `json:"is_available"`
	Date             string            `json:"date,omitempty"`
	Type             string            `json:"type"`
	Price            decimal.Decimal   `json:"price"`
	ServiceProvider  string            `json:"service_provider,omitempty"`
	UnavailableItems []UnavailableItem `json:"unavailable_items,omitempty"`
}

// UnavailableItem is an item a delivery option cannot fulfil in full.
type UnavailableItem struct {
	ItemCode     string `json:"item_code"`
	AvailableQty int    `json:"available_qty"`
}

// DeliveryServices groups the options quoted for one cart.
type DeliveryServices struct {
	Delivery []DeliveryService `json:"delivery_options"`
	// CannotAdd lists item codes dropped before quoting.
	CannotAdd []string `json:"cannot_add,omitempty"`
}

// PurchaseHistoryItem is one order in the purchase history.
type PurchaseHistoryItem struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
	Date     string          `json:"date,omitempty"`
	Store    string          `json:"store,omitempty"`
}

// PurchaseInfo details one order.
type PurchaseInfo struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Date         string          `json:"date,omitempty"`
	DeliveryDate string          `json:"delivery_date,omitempty"`
	Total        decimal.Decimal `json:"total"`
	SubTotal     decimal.Decimal `json:"sub_total"`
	DeliveryCost decimal.Decimal `json:"delivery_cost"`
	Currency     string          `json:"currency,omitempty"`
	Items        []CartItem      `json:"items,omitempty"`
}

// SearchResult is one product search hit.
type SearchResult struct {
	ItemCode string          `json:"item_code"`
	Name     string          `json:"name"`
	Type     string          `json:"type,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
	ImageURL string          `json:"image_url,omitempty"`
	URL      string          `json:"url,omitempty"`
}
