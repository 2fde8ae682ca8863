package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"simplegallery/internal/services"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			reportError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// reportError prints err and, for failures the pipeline has not already
// explained on stdout, the operator hint.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrValidation) {
		return
	}
	if hint := services.Hint(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
}
