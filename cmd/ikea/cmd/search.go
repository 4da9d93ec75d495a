package cmd

import (
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the product catalogue",
		Example: `  ikea search billy
  ikea search "office chair" --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			results, err := sess.Shop(nil).Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return render(results, printSearchResults)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 24, "maximum number of results")

	return cmd
}
