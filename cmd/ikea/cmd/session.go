package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/ikea-api-client/internal/config"
	"github.com/donaldgifford/ikea-api-client/internal/session"
)

// loadConfig reads the config file, if any, and layers flags and IKEA_*
// environment variables over it.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	overlay := map[string]*string{
		"ikea.country":     &cfg.IKEA.Country,
		"ikea.language":    &cfg.IKEA.Language,
		"transport.driver": &cfg.Transport.Driver,
		"auth.username":    &cfg.Auth.Username,
		"auth.password":    &cfg.Auth.Password,
		"auth.token":       &cfg.Auth.Token,
		"logging.level":    &cfg.Logging.Level,
		"logging.format":   &cfg.Logging.Format,
	}
	for key, dst := range overlay {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}

	return config.Finish(cfg)
}

func newSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return session.New(cmd.Context(), cfg, Version)
}
