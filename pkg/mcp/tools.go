package mcp

import (
	"context"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
)

// ToolHandler implements the tool callbacks.
type ToolHandler struct {
	shop Shop
}

// NewToolHandler creates a ToolHandler.
func NewToolHandler(shop Shop) *ToolHandler {
	return &ToolHandler{shop: shop}
}

// SearchProducts handles search_products.
func (h *ToolHandler) SearchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := mcp.ParseString(request, "query", "")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := mcp.ParseInt(request, "limit", 24)

	results, err := h.shop.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return mcp.NewToolResultJSON(map[string]any{
		"products": results,
		"count":    len(results),
	})
}

// GetItems handles get_items.
func (h *ToolHandler) GetItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	codes := ikea.ParseItemCodes(mcp.ParseString(request, "codes", ""))
	if len(codes) == 0 {
		return mcp.NewToolResultError("codes parameter must contain at least one item code"), nil
	}

	items, err := h.shop.GetItems(ctx, codes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get items: %v", err)), nil
	}

	return mcp.NewToolResultJSON(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// ViewCart handles view_cart.
func (h *ToolHandler) ViewCart(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cart, err := h.shop.Cart(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get cart: %v", err)), nil
	}

	return mcp.NewToolResultJSON(cart)
}

// AddToCart handles add_to_cart and returns the resulting cart.
func (h *ToolHandler) AddToCart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := itemQuantities(mcp.ParseStringMap(request, "items", nil))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cannotAdd, err := h.shop.AddItemsToCart(ctx, items)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add to cart: %v", err)), nil
	}

	cart, err := h.shop.Cart(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get cart: %v", err)), nil
	}

	return mcp.NewToolResultJSON(map[string]any{
		"cart":       cart,
		"cannot_add": cannotAdd,
	})
}

// RemoveFromCart handles remove_from_cart.
func (h *ToolHandler) RemoveFromCart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	codes := ikea.ParseItemCodes(mcp.ParseString(request, "codes", ""))
	if len(codes) == 0 {
		return mcp.NewToolResultError("codes parameter must contain at least one item code"), nil
	}

	cart, err := h.shop.RemoveCartItems(ctx, codes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove from cart: %v", err)), nil
	}

	return mcp.NewToolResultJSON(cart)
}

// ClearCart handles clear_cart.
func (h *ToolHandler) ClearCart(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cart, err := h.shop.ClearCart(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear cart: %v", err)), nil
	}

	return mcp.NewToolResultJSON(cart)
}

// GetDeliveryOptions handles get_delivery_options.
func (h *ToolHandler) GetDeliveryOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	zip := mcp.ParseString(request, "zip_code", "")
	if zip == "" {
		return mcp.NewToolResultError("zip_code parameter is required"), nil
	}

	items, err := itemQuantities(mcp.ParseStringMap(request, "items", nil))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	services, err := h.shop.GetDeliveryServices(ctx, items, zip)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get delivery options: %v", err)), nil
	}

	return mcp.NewToolResultJSON(services)
}

// itemQuantities normalises a code-to-quantity object. Keys may use any
// item code notation; JSON numbers arrive as float64.
func itemQuantities(raw map[string]any) (map[string]int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("items parameter must map at least one item code to a quantity")
	}

	items := make(map[string]int, len(raw))
	for key, v := range raw {
		codes := ikea.ParseItemCodes(key)
		if len(codes) != 1 {
			return nil, fmt.Errorf("%q is not a single item code", key)
		}

		qty, ok := v.(float64)
		if !ok || qty < 1 || qty != math.Trunc(qty) {
			return nil, fmt.Errorf("quantity for %s must be a positive whole number", key)
		}
		items[codes[0]] += int(qty)
	}
	return items, nil
}
