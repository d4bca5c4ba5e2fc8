// Command dashboard serves the transcription dashboard: the REST API, the
// login/signup forms and the dashboard pages.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/transcribe-dashboard/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("dashboard: %v", err)
		os.Exit(1)
	}
}
