package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals end the daemon gracefully.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// WaitForShutdown blocks until a shutdown signal arrives or ctx is done. It
// returns the signal, or nil when ctx ended the wait.
func WaitForShutdown(ctx context.Context) os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, shutdownSignals...)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		return sig
	case <-ctx.Done():
		return nil
	}
}
