// Package sigctx ties a context to the process termination signals.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}

// NotifyContext returns a copy of parent which is done when one of
// SIGINT, SIGTERM or SIGQUIT arrives or the stop func is called.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}
