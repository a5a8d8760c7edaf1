package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/ayasono/utagoe/internal/service"
	"github.com/ayasono/utagoe/pkg/logger"
)

var voicebankPath string

func init() {
	flag.StringVar(&voicebankPath, "voicebank",
		getEnvOrDefault("UTAGOE_VOICEBANK", "voicebank.json"),
		"Path to the voicebank config file")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log := logger.GetLogger()

	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}

	// the host may abort the plugin at any time; cancellation abandons the
	// pending engine call without partial writes
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	dest, err := run(ctx, voicebankPath, flag.Arg(0))
	stop()
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	fmt.Println(dest)
}

// run does the whole render so that its deferred cleanup executes before
// any fatal exit in main.
func run(ctx context.Context, bankPath, scriptPath string) (string, error) {
	log := logger.GetLogger()

	svc, err := service.NewRenderService(bankPath)
	if err != nil {
		return "", fmt.Errorf("could not load voicebank: %w", err)
	}
	defer svc.Close()

	log.Infof("Voicebank: %s", svc.Voicebank())
	log.Infof("Rendering %s", scriptPath)

	return svc.Render(ctx, scriptPath)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `utagoe - UTAU score to singing voice renderer

Usage:
  utagoe [flags] <plugin script>

The plugin script is the temp file a UTAU-style host passes to plugins.
The rendered WAV is written beside the originating score file.

Flags:
`)
	flag.PrintDefaults()
}
