// Package cmd implements the ikea CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "ikea",
		Short: "Command-line client for IKEA's web APIs",
		Long: "ikea talks to the IKEA cart, item, search, delivery and purchase\n" +
			"history services. Settings come from a YAML config file, IKEA_*\n" +
			"environment variables (a .env file is loaded if present) and flags.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.String("output", "table", "output format (table, json)")
	flags.String("country", "", "two-letter market code (default ru)")
	flags.String("language", "", "language code (default ru)")
	flags.String("driver", "", "transport driver (http, fasthttp)")
	flags.String("token", "", "access token printed by ikea login")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json, pretty)")

	bind := map[string]string{
		"output":           "output",
		"ikea.country":     "country",
		"ikea.language":    "language",
		"transport.driver": "driver",
		"auth.token":       "token",
		"logging.level":    "log-level",
		"logging.format":   "log-format",
	}
	for key, flag := range bind {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
	cobra.CheckErr(viper.BindEnv("auth.username", "IKEA_USERNAME"))
	cobra.CheckErr(viper.BindEnv("auth.password", "IKEA_PASSWORD"))
	cobra.CheckErr(viper.BindEnv("auth.token", "IKEA_TOKEN"))

	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(cartCmd())
	rootCmd.AddCommand(itemsCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(deliveryCmd())
	rootCmd.AddCommand(purchasesCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Loading .env:", err)
	}

	viper.SetEnvPrefix("IKEA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
