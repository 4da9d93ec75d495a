package shop

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea/parse"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// GetDeliveryServices quotes delivery and pickup options for items shipped
// to zipCode. The items are put into a fresh cart first so invalid codes are
// filtered out; those are reported in CannotAdd.
func (s *Shop) GetDeliveryServices(ctx context.Context, items map[string]int, zipCode string) (domain.DeliveryServices, error) {
	cart, cannotAdd, err := s.ReplaceCart(ctx, items)
	if err != nil {
		return domain.DeliveryServices{}, err
	}

	checkoutItems := make(map[string]int, len(cart.Items))
	for _, it := range cart.Items {
		checkoutItems[it.ItemCode] = it.Qty
	}
	if len(checkoutItems) == 0 {
		return domain.DeliveryServices{Delivery: []domain.DeliveryService{}, CannotAdd: cannotAdd}, nil
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return domain.DeliveryServices{}, fmt.Errorf("getting token: %w", err)
	}
	oc := ikea.NewOrderCapture(s.constants, token)

	checkoutID, err := run(ctx, s, oc.GetCheckout(checkoutItems))
	if err != nil {
		return domain.DeliveryServices{}, fmt.Errorf("opening checkout: %w", err)
	}
	areaID, err := run(ctx, s, oc.GetServiceArea(checkoutID, zipCode, ""))
	if err != nil {
		return domain.DeliveryServices{}, fmt.Errorf("resolving service area: %w", err)
	}

	var (
		home    *ikea.HomeDeliveryResponse
		collect *ikea.CollectDeliveryResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		home, err = run(gctx, s, oc.GetHomeDeliveryServices(checkoutID, areaID))
		return err
	})
	g.Go(func() error {
		var err error
		collect, err = run(gctx, s, oc.GetCollectDeliveryServices(checkoutID, areaID))
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.DeliveryServices{}, fmt.Errorf("fetching delivery services: %w", err)
	}

	lang := s.constants.Language
	services := append(
		parse.HomeDeliveryServices(lang, home),
		parse.CollectDeliveryServices(lang, collect)...,
	)
	return domain.DeliveryServices{Delivery: services, CannotAdd: cannotAdd}, nil
}
