// Package mcp exposes the shop flows as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

// Shop is the subset of *shop.Shop the tools call.
type Shop interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
	GetItems(ctx context.Context, codes []string) ([]domain.ParsedItem, error)
	Cart(ctx context.Context) (domain.Cart, error)
	AddItemsToCart(ctx context.Context, items map[string]int) ([]string, error)
	RemoveCartItems(ctx context.Context, codes []string) (domain.Cart, error)
	ClearCart(ctx context.Context) (domain.Cart, error)
	GetDeliveryServices(ctx context.Context, items map[string]int, zipCode string) (domain.DeliveryServices, error)
}

// Server is an MCP server over a Shop.
type Server struct {
	mcpServer   *server.MCPServer
	toolHandler *ToolHandler
	log         *slog.Logger
}

// NewServer creates a Server and registers its tools.
func NewServer(shop Shop, version string, log *slog.Logger) *Server {
	s := &Server{
		toolHandler: NewToolHandler(shop),
		log:         log,
	}

	mcpServer := server.NewMCPServer(
		"IKEA",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.registerTools(mcpServer)
	s.mcpServer = mcpServer

	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search the IKEA catalogue by free text"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text (e.g., 'billy bookcase', 'office chair')"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 24)"),
		),
	)
	mcpServer.AddTool(searchTool, s.toolHandler.SearchProducts)

	itemsTool := mcp.NewTool("get_items",
		mcp.WithDescription("Get price, weight, category and components for items by code"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("codes",
			mcp.Required(),
			mcp.Description("Item codes separated by commas or spaces (e.g., '802.141.39, S59128563')"),
		),
	)
	mcpServer.AddTool(itemsTool, s.toolHandler.GetItems)

	viewCartTool := mcp.NewTool("view_cart",
		mcp.WithDescription("View current cart contents"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	mcpServer.AddTool(viewCartTool, s.toolHandler.ViewCart)

	addToCartTool := mcp.NewTool("add_to_cart",
		mcp.WithDescription("Add items to the cart. Codes the store rejects are skipped and reported"),
		mcp.WithObject("items",
			mcp.Required(),
			mcp.Description("Map of item code to quantity (e.g., {\"802.141.39\": 2})"),
		),
	)
	mcpServer.AddTool(addToCartTool, s.toolHandler.AddToCart)

	removeFromCartTool := mcp.NewTool("remove_from_cart",
		mcp.WithDescription("Remove items from the cart"),
		mcp.WithString("codes",
			mcp.Required(),
			mcp.Description("Item codes to remove, separated by commas or spaces"),
		),
	)
	mcpServer.AddTool(removeFromCartTool, s.toolHandler.RemoveFromCart)

	clearCartTool := mcp.NewTool("clear_cart",
		mcp.WithDescription("Remove every item from the cart"),
		mcp.WithDestructiveHintAnnotation(true),
	)
	mcpServer.AddTool(clearCartTool, s.toolHandler.ClearCart)

	deliveryTool := mcp.NewTool("get_delivery_options",
		mcp.WithDescription("Quote home delivery and pickup options for items. Replaces the cart contents"),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithObject("items",
			mcp.Required(),
			mcp.Description("Map of item code to quantity"),
		),
		mcp.WithString("zip_code",
			mcp.Required(),
			mcp.Description("Delivery zip code"),
		),
	)
	mcpServer.AddTool(deliveryTool, s.toolHandler.GetDeliveryOptions)
}

// Start serves over stdio until stdin closes.
func (s *Server) Start() error {
	s.log.Info("starting IKEA MCP server")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serving MCP over stdio: %w", err)
	}

	return nil
}
