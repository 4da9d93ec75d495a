package parse

import (
	"github.com/shopspring/decimal"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// PurchaseHistory converts purchase history entries.
func PurchaseHistory(lang string, entries []ikea.PurchaseHistoryEntry) []domain.PurchaseHistoryItem {
	items := make([]domain.PurchaseHistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, domain.PurchaseHistoryItem{
			ID:       e.ID,
			Status:   Translate(lang, e.Status),
			Price:    e.TotalCost.Value,
			Currency: e.TotalCost.Code,
			Date:     e.DateAndTime.Date,
			Store:    e.StoreName,
		})
	}
	return items
}

// PurchaseInfo converts the OrderInfo batch.
func PurchaseInfo(lang string, info *ikea.OrderInfoResponse) domain.PurchaseInfo {
	if info == nil {
		return domain.PurchaseInfo{}
	}

	order := info.StatusBanner.Data.Order
	costs := info.Costs.Data.Order.Costs
	p := domain.PurchaseInfo{
		ID:           order.ID,
		Status:       Translate(lang, order.Status),
		Date:         order.DateAndTime.Date,
		Total:        costs.Total.Value,
		SubTotal:     costs.SubTotal.Value,
		DeliveryCost: costs.Delivery.Value,
		Currency:     costs.Total.Code,
	}
	if d := order.StatusBanner.DeliveryDate; d != nil {
		p.DeliveryDate = d.Date
	}
	for _, a := range info.ProductList.Data.Order.Articles.Any {
		p.Items = append(p.Items, domain.CartItem{
			ItemCode:   a.ItemNo,
			Name:       a.Name,
			Qty:        a.Quantity,
			TotalPrice: a.UnitPrice.Value.Mul(decimal.NewFromInt(int64(a.Quantity))),
		})
	}
	return p
}
