package parse

import (
	"github.com/shopspring/decimal"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// HomeDeliveryServices converts home delivery options.
func HomeDeliveryServices(lang string, resp *ikea.HomeDeliveryResponse) []domain.DeliveryService {
	if resp == nil {
		return nil
	}
	services := make([]domain.DeliveryService, 0, len(resp.PossibleDeliveries.Deliveries))
	for _, d := range resp.PossibleDeliveries.Deliveries {
		kind := d.FulfillmentMethodType
		if d.ServiceType != "" {
			kind = d.ServiceType
		}
		services = append(services,
			deliveryService(lang, kind, "", d.EarliestPossibleSlot, d.Price, d.UnavailableItems))
	}
	return services
}

// CollectDeliveryServices converts pickup options.
func CollectDeliveryServices(lang string, resp *ikea.CollectDeliveryResponse) []domain.DeliveryService {
	if resp == nil {
		return nil
	}
	services := make([]domain.DeliveryService, 0, len(resp.PossiblePickUpPoints.PickUpPoints))
	for _, p := range resp.PossiblePickUpPoints.PickUpPoints {
		services = append(services,
			deliveryService(lang, p.Type, p.Name, p.EarliestPossibleSlot, p.Price, p.UnavailableItems))
	}
	return services
}

func deliveryService(
	lang, kind, provider string,
	slot *ikea.TimeSlot,
	price *ikea.DeliveryPrice,
	unavailable []ikea.UnavailableItemRaw,
) domain.DeliveryService {
	s := domain.DeliveryService{
		IsAvailable:     len(unavailable) == 0,
		Type:            Translate(lang, kind),
		ServiceProvider: provider,
		Price:           decimal.Zero,
	}
	if slot != nil {
		s.Date = datePart(slot.FromDateTime)
	}
	if price != nil {
		s.Price = price.Value
	}
	for _, u := range unavailable {
		s.UnavailableItems = append(s.UnavailableItems, domain.UnavailableItem{
			ItemCode:     u.ItemNo,
			AvailableQty: u.AvailableQuantity,
		})
	}
	return s
}

// datePart trims an ISO timestamp to its date.
func datePart(ts string) string {
	if len(ts) >= len("2006-01-02") {
		return ts[:len("2006-01-02")]
	}
	return ts
}
