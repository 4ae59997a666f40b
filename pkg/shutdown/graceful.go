package shutdown

import (
	"context"
	"time"

	"github.com/honeycarbs/offerscout/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Func adapts a plain function to Stoppable
type Func func(ctx context.Context) error

func (f Func) Shutdown(ctx context.Context) error { return f(ctx) }

// Graceful waits in the background until ctx is done, typically a
// signal.NotifyContext, then stops every component in order within one shared
// timeout. The returned channel is closed once every component has stopped.
func Graceful(ctx context.Context, timeout time.Duration, log *logging.Logger, components ...Stoppable) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()
		log.Info("shutdown signal received")

		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := All(stopCtx, components...); err != nil {
			log.Warn("graceful shutdown completed with error", "err", err)
		} else {
			log.Info("graceful shutdown completed successfully")
		}
	}()

	return done
}

// All stops components in order, returning the first error after trying
// every one of them.
func All(ctx context.Context, components ...Stoppable) error {
	var first error
	for _, c := range components {
		if c == nil {
			continue
		}
		if err := c.Shutdown(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
