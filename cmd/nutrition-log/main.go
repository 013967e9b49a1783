// cmd/nutrition-log/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nutrition-log/internal/app"
)

var (
	configPath = flag.String("config", "", "Path to YAML config (defaults to $CONFIG_PATH, then ./config.yaml)")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("nutrition-log version " + app.BuildVersion())
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := app.Run(ctx, *configPath); err != nil {
		log.Fatalf("nutrition-log: %v", err)
	}
}
