// Command mock-server runs a fake IKEA upstream for local CLI runs. Point the
// ikea config's base_url and urls at it, e.g.
//
//	ikea:
//	  base_url: http://localhost:8089
//	  urls:
//	    guest_token: http://localhost:8089/guest/token
//	    ingka: http://localhost:8089
//	    iows: http://localhost:8089/retail/iows
//	    search: http://localhost:8089
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donaldgifford/ikea-api-client/internal/mockserver"
	"github.com/donaldgifford/ikea-api-client/pkg/logger"
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(*logLevel, "pretty")
	srv := mockserver.New(log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf(":%d", *port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shutting down:", err)
	}
}
