// Command bearlink runs the link service: the HTTP API, the optional gRPC
// API, the room WebSocket hub and the background preview resolution worker.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/config"
	"github.com/atinyakov/bearlink/internal/logger"
)

var buildVersion string
var buildDate string
var buildCommit string

func main() {
	printBuildInfo(os.Stdout)

	options, err := config.Parse()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, options, log.Log); err != nil {
		log.Log.Error("bearlink stopped", zap.Error(err))
		return
	}
	log.Log.Info("bearlink stopped")
}

func printBuildInfo(w io.Writer) {
	orNA := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}
	fmt.Fprintf(w, "Build version: %s\n", orNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", orNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(buildCommit))
}
