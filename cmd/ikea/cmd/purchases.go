package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ikea-api-client/internal/notify"
	"github.com/donaldgifford/ikea-api-client/internal/watch"
)

func purchasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "Inspect purchase history and orders",
		Long:  "Requires an account token (--token, IKEA_TOKEN) or credentials.",
	}

	cmd.AddCommand(purchasesHistoryCmd())
	cmd.AddCommand(purchasesOrderCmd())
	cmd.AddCommand(purchasesWatchCmd())

	return cmd
}

func purchasesHistoryCmd() *cobra.Command {
	var take, skip int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			tokens, err := sess.UserTokens(cmd.Context())
			if err != nil {
				return err
			}

			history, err := sess.Shop(tokens).PurchaseHistory(cmd.Context(), take, skip)
			if err != nil {
				return err
			}
			return render(history, printPurchaseHistory)
		},
	}
	cmd.Flags().IntVar(&take, "take", 5, "number of orders to list")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of newest orders to skip")

	return cmd
}

func purchasesOrderCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "order <order-number>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			tokens, err := sess.UserTokens(cmd.Context())
			if err != nil {
				return err
			}

			info, err := sess.Shop(tokens).PurchaseInfo(cmd.Context(), args[0], email)
			if err != nil {
				return err
			}
			return render(&info, printPurchaseInfo)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "e-mail used for an order placed without an account")

	return cmd
}

func purchasesWatchCmd() *cobra.Command {
	var email, schedule, webhook string

	cmd := &cobra.Command{
		Use:   "watch [order-number]...",
		Short: "Poll orders and report status changes",
		Long: "Checks each order once at start and then on the watch schedule\n" +
			"(watch.schedule in the config, default every 30 minutes), logging\n" +
			"every status change until interrupted. Changes are also posted to\n" +
			"watch.discord_webhook when one is configured. Without arguments the\n" +
			"orders listed under watch.orders are used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			orders := args
			if len(orders) == 0 {
				orders = sess.Config.Watch.Orders
			}
			if email == "" {
				email = sess.Config.Watch.Email
			}
			if schedule == "" {
				schedule = sess.Config.Watch.Schedule
			}
			if webhook == "" {
				webhook = sess.Config.Watch.DiscordWebhook
			}
			notifier := notify.New(webhook, sess.Log)

			tokens, err := sess.UserTokens(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w, err := watch.NewWatcher(sess.Shop(tokens), schedule, orders,
				watch.WithLogger(sess.Log),
				watch.WithEmail(email),
				watch.WithOnChange(func(t watch.Transition) {
					if err := notifier.Notify(cmd.Context(), &t); err != nil {
						sess.Log.Warn("sending notification", "order", t.Order, "error", err)
					}
					if jsonOutput() {
						_ = outputJSON(out, t)
						return
					}
					from := t.From
					if from == "" {
						from = "-"
					}
					fmt.Fprintf(out, "%s\t%s\t%s -> %s\n", t.At.Format("2006-01-02 15:04:05"), t.Order, from, t.To)
				}),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w.Poll(ctx)
			w.Start()
			<-ctx.Done()
			<-w.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "e-mail used for orders placed without an account")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron spec or @every interval")
	cmd.Flags().StringVar(&webhook, "discord-webhook", "", "Discord webhook URL to post status changes to")

	return cmd
}
