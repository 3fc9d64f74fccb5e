package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pedidozap/notifier/cmd/notifyworker"
)

func main() {
	fs := flag.NewFlagSet("notify-worker", flag.ContinueOnError)
	workerName := fs.String("worker-name", "", "Unique name for the worker (required)")
	envFile := fs.String("env", ".env", "Path to an optional .env file")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	if *workerName == "" {
		fmt.Fprintln(os.Stderr, "Error: --worker-name is required")
		fs.Usage()
		os.Exit(2)
	}

	// create context cancelled on SIGINT/SIGTERM signals ensuring graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := notifyworker.Run(ctx, *workerName, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Millisecond):
	}
}
