package shop

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea/parse"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// AddItemsToCart adds items to the cart. Codes the cart rejects as invalid
// are dropped and the rest retried; the dropped codes are returned sorted.
func (s *Shop) AddItemsToCart(ctx context.Context, items map[string]int) ([]string, error) {
	pending := maps.Clone(items)
	var cannotAdd []string

	for len(pending) > 0 {
		_, err := authorized(ctx, s, func(token string) *ikea.Endpoint[*ikea.CartData] {
			return ikea.NewCart(s.constants, token).AddItems(pending)
		})
		if err == nil {
			break
		}

		invalid := ikea.InvalidItemCodes(err)
		removed := 0
		for _, code := range invalid {
			if _, ok := pending[code]; ok {
				delete(pending, code)
				cannotAdd = append(cannotAdd, code)
				removed++
			}
		}
		if removed == 0 {
			return nil, fmt.Errorf("adding items to cart: %w", err)
		}
		s.log.Info("dropping invalid item codes", "codes", invalid)
	}

	slices.Sort(cannotAdd)
	return cannotAdd, nil
}

// ReplaceCart clears the cart and fills it with items. It returns the
// resulting cart and the codes that could not be added.
func (s *Shop) ReplaceCart(ctx context.Context, items map[string]int) (domain.Cart, []string, error) {
	if _, err := authorized(ctx, s, func(token string) *ikea.Endpoint[*ikea.CartData] {
		return ikea.NewCart(s.constants, token).Clear()
	}); err != nil {
		return domain.Cart{}, nil, fmt.Errorf("clearing cart: %w", err)
	}

	cannotAdd, err := s.AddItemsToCart(ctx, items)
	if err != nil {
		return domain.Cart{}, nil, err
	}

	cart, err := s.Cart(ctx)
	if err != nil {
		return domain.Cart{}, nil, fmt.Errorf("reading cart: %w", err)
	}
	return cart, cannotAdd, nil
}

// cartOp runs a cart mutation and parses the resulting cart.
func (s *Shop) cartOp(ctx context.Context, build func(*ikea.Cart) *ikea.Endpoint[*ikea.CartData]) (domain.Cart, error) {
	data, err := authorized(ctx, s, func(token string) *ikea.Endpoint[*ikea.CartData] {
		return build(ikea.NewCart(s.constants, token))
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return parse.Cart(data), nil
}

// UpdateCartItems sets the quantity of items already in the cart.
func (s *Shop) UpdateCartItems(ctx context.Context, items map[string]int) (domain.Cart, error) {
	return s.cartOp(ctx, func(c *ikea.Cart) *ikea.Endpoint[*ikea.CartData] { return c.UpdateItems(items) })
}

// RemoveCartItems removes items from the cart.
func (s *Shop) RemoveCartItems(ctx context.Context, codes []string) (domain.Cart, error) {
	return s.cartOp(ctx, func(c *ikea.Cart) *ikea.Endpoint[*ikea.CartData] { return c.RemoveItems(codes) })
}

// ClearCart empties the cart.
func (s *Shop) ClearCart(ctx context.Context) (domain.Cart, error) {
	return s.cartOp(ctx, (*ikea.Cart).Clear)
}

// CopyCart copies the cart of another user into this one.
func (s *Shop) CopyCart(ctx context.Context, sourceUserID string) (domain.Cart, error) {
	return s.cartOp(ctx, func(c *ikea.Cart) *ikea.Endpoint[*ikea.CartData] { return c.CopyItems(sourceUserID) })
}

// SetCoupon applies a coupon code.
func (s *Shop) SetCoupon(ctx context.Context, code string) (domain.Cart, error) {
	return s.cartOp(ctx, func(c *ikea.Cart) *ikea.Endpoint[*ikea.CartData] { return c.SetCoupon(code) })
}

// ClearCoupon removes the applied coupon.
func (s *Shop) ClearCoupon(ctx context.Context) (domain.Cart, error) {
	return s.cartOp(ctx, (*ikea.Cart).ClearCoupon)
}
