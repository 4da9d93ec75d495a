package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
)

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print a guest access token",
		Long: "Requests an anonymous token for the configured market. Guest tokens\n" +
			"work for the cart and delivery services but not for purchase history.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			tok, err := ikea.Run(cmd.Context(), sess.Executor, ikea.NewGuestToken(sess.Constants), ikea.WithLogger(sess.Log))
			if err != nil {
				return err
			}
			return printToken(cmd, tok.AccessToken)
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Long: "Runs the account login flow with IKEA_USERNAME and IKEA_PASSWORD (or\n" +
			"auth.username and auth.password in the config file) and prints the\n" +
			"resulting token. Pass it to later commands with --token or IKEA_TOKEN.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			token, err := sess.Login(cmd.Context())
			if err != nil {
				return err
			}
			return printToken(cmd, token)
		},
	}
}

func printToken(cmd *cobra.Command, token string) error {
	if jsonOutput() {
		return outputJSON(cmd.OutOrStdout(), map[string]string{"access_token": token})
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
