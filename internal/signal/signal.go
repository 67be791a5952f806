// Package signal ties animation contexts to process interrupts.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NotifyContext returns a context cancelled on SIGINT or SIGTERM, so an
// interrupt ends a running animation at the next tick instead of killing the
// process mid-write. Call stop to release the signal registration.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
