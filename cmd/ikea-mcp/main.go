// Package main is the entry point for the IKEA MCP server. It speaks the
// Model Context Protocol over stdio, so logs go to stderr only.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/donaldgifford/ikea-api-client/internal/config"
	"github.com/donaldgifford/ikea-api-client/internal/session"
	"github.com/donaldgifford/ikea-api-client/pkg/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ikea-mcp:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := session.New(ctx, cfg, Version)
	if err != nil {
		return err
	}
	defer sess.Close()

	tokens, err := sess.CartTokens(ctx)
	if err != nil {
		return err
	}

	return mcp.NewServer(sess.Shop(tokens), Version, sess.Log).Start()
}

// loadConfig reads IKEA_CONFIG when set and applies the IKEA_* credential
// and market variables over it.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if path := os.Getenv("IKEA_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	overlay := map[string]*string{
		"IKEA_COUNTRY":  &cfg.IKEA.Country,
		"IKEA_LANGUAGE": &cfg.IKEA.Language,
		"IKEA_USERNAME": &cfg.Auth.Username,
		"IKEA_PASSWORD": &cfg.Auth.Password,
		"IKEA_TOKEN":    &cfg.Auth.Token,
	}
	for env, dst := range overlay {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	return config.Finish(cfg)
}
