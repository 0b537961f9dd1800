package cbuild

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptibleContext returns a context canceled on SIGINT/SIGTERM.
//
// A running subprocess is never killed in response to the cancellation;
// it is only consulted between top-level targets and between a target's
// compile and link steps, so an interrupt lets already-running commands
// finish but stops new ones from starting.
func interruptibleContext() (context.Context, context.CancelFunc) {
	ctx, canc := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		signal.Stop(sig)
		canc()
	}()
	return ctx, canc
}
