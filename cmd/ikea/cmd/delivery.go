package cmd

import (
	"github.com/spf13/cobra"
)

func deliveryCmd() *cobra.Command {
	var zip string

	cmd := &cobra.Command{
		Use:   "delivery <code[:qty]>...",
		Short: "Quote delivery and pickup options for items",
		Long: "Replaces the cart with the given items, opens a checkout for the\n" +
			"zip code and lists home delivery and pickup options. Note that this\n" +
			"overwrites the current cart.",
		Example: `  ikea delivery 802.141.39:2 s59128563 --zip 101000`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItemQuantities(args)
			if err != nil {
				return err
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			tokens, err := sess.CartTokens(cmd.Context())
			if err != nil {
				return err
			}

			services, err := sess.Shop(tokens).GetDeliveryServices(cmd.Context(), items, zip)
			if err != nil {
				return err
			}
			return render(&services, printDelivery)
		},
	}
	cmd.Flags().StringVar(&zip, "zip", "", "delivery zip code")
	cobra.CheckErr(cmd.MarkFlagRequired("zip"))

	return cmd
}
