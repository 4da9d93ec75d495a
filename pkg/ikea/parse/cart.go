package parse

import (
	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// Cart converts a cart response. A nil cart yields an empty cart.
func Cart(data *ikea.CartData) domain.Cart {
	if data == nil {
		return domain.Cart{Items: []domain.CartItem{}}
	}

	cart := domain.Cart{
		UserID:      data.Context.UserID,
		IsAnonymous: data.Context.IsAnonymous,
		Items:       make([]domain.CartItem, 0, len(data.Items)),
		Total:       data.Total.InclTax,
		Currency:    data.Total.Currency,
	}
	if data.Coupon != nil {
		cart.Coupon = data.Coupon.Code
	}
	for _, it := range data.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ItemCode:   it.ItemNo,
			Name:       itemName(it.Product.Name, it.Product.TypeName),
			Type:       it.Type,
			Qty:        it.Quantity,
			TotalPrice: it.RegularTotalPrice.InclTax,
		})
	}
	return cart
}
