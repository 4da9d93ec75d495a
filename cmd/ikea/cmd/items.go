package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
)

func itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <code>...",
		Short: "Look up items by code",
		Long: "Fetches item details from the INGKA, IOWS and product page sources\n" +
			"and merges them. Codes may be written with dots or an S prefix.",
		Example: `  ikea items 802.141.39
  ikea items "S59128563, 30299010"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := ikea.ParseItemCodesList(args)
			if len(codes) == 0 {
				return fmt.Errorf("no item codes in %q", strings.Join(args, " "))
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			items, err := sess.Shop(nil).GetItems(cmd.Context(), codes)
			if err != nil {
				return err
			}
			return render(items, printItems)
		},
	}
}

// parseItemQuantities reads "code[:qty]" arguments. The quantity defaults to
// 1; repeated codes add up.
func parseItemQuantities(args []string) (map[string]int, error) {
	items := make(map[string]int, len(args))
	for _, arg := range args {
		raw, qtyText, hasQty := strings.Cut(arg, ":")

		codes := ikea.ParseItemCodes(raw)
		if len(codes) != 1 {
			return nil, fmt.Errorf("%q is not a single item code", raw)
		}

		qty := 1
		if hasQty {
			n, err := strconv.Atoi(qtyText)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid quantity %q for %s", qtyText, codes[0])
			}
			qty = n
		}
		items[codes[0]] += qty
	}
	return items, nil
}
