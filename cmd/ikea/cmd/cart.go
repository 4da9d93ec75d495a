package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/shop"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the shopping cart",
		Long: "Operates on the account cart when a token or credentials are\n" +
			"configured and on a fresh guest cart otherwise.",
	}

	cmd.AddCommand(cartShowCmd())
	cmd.AddCommand(cartAddCmd())
	cmd.AddCommand(cartUpdateCmd())
	cmd.AddCommand(cartRemoveCmd())
	cmd.AddCommand(cartClearCmd())
	cmd.AddCommand(cartCopyCmd())
	cmd.AddCommand(cartCouponCmd())

	return cmd
}

// withCart opens a session with a cart-capable token and runs f.
func withCart(cmd *cobra.Command, f func(ctx context.Context, s *shop.Shop) (domain.Cart, error)) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	tokens, err := sess.CartTokens(cmd.Context())
	if err != nil {
		return err
	}

	cart, err := f(cmd.Context(), sess.Shop(tokens))
	if err != nil {
		return err
	}
	return render(&cart, printCart)
}

func cartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				return s.Cart(ctx)
			})
		},
	}
}

func cartAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <code[:qty]>...",
		Short: "Add items to the cart",
		Long: "Adds items to the cart. Codes the service rejects are dropped and\n" +
			"the rest are added; the dropped codes are reported on stderr.",
		Example: `  ikea cart add 802.141.39:2 s59128563`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItemQuantities(args)
			if err != nil {
				return err
			}
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				cannotAdd, err := s.AddItemsToCart(ctx, items)
				if err != nil {
					return domain.Cart{}, err
				}
				if len(cannotAdd) > 0 {
					fmt.Fprintf(os.Stderr, "Cannot add: %s\n", strings.Join(cannotAdd, ", "))
				}
				return s.Cart(ctx)
			})
		},
	}
}

func cartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update <code:qty>...",
		Short:   "Set item quantities",
		Example: `  ikea cart update 802.141.39:5`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItemQuantities(args)
			if err != nil {
				return err
			}
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				return s.UpdateCartItems(ctx, items)
			})
		},
	}
}

func cartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code>...",
		Short: "Remove items from the cart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := ikea.ParseItemCodesList(args)
			if len(codes) == 0 {
				return fmt.Errorf("no item codes in %q", strings.Join(args, " "))
			}
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				return s.RemoveCartItems(ctx, codes)
			})
		},
	}
}

func cartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				return s.ClearCart(ctx)
			})
		},
	}
}

func cartCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <source-user-id>",
		Short: "Copy another user's cart into this one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				return s.CopyCart(ctx, args[0])
			})
		},
	}
}

func cartCouponCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Apply or remove a coupon",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <code>",
		Short: "Apply a coupon code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				return s.SetCoupon(ctx, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the applied coupon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCart(cmd, func(ctx context.Context, s *shop.Shop) (domain.Cart, error) {
				return s.ClearCoupon(ctx)
			})
		},
	})

	return cmd
}
