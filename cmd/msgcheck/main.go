// Command msgcheck validates printf and MessageFormat message templates and
// the translation catalogs built from them.
//
//	msgcheck validate '%s failed with %d' --arguments 2
//	msgcheck validate '%2$d causó fallo en %1$s' --base '%s failed with %d'
//	msgcheck check locales/active.*.toml --only es,fr
//	msgcheck serve --port 8080
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "msgcheck:", err)
		}
		stop()
		os.Exit(1)
	}
}
