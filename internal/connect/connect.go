package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/conexus/internal/logger"
)

// PingFunc checks that a backend answers.
type PingFunc func(ctx context.Context) error

// Options control how long startup waits for a backend.
type Options struct {
	Name          string        // backend name used in logs, ex: "postgres"
	Target        string        // redacted address used in logs
	Timeout       time.Duration // total budget; <= 0 means a single attempt
	RetryInterval time.Duration // initial wait between attempts, doubled each time
	MaxWait       time.Duration // cap for the wait between attempts
	PingTimeout   time.Duration // per-attempt timeout
	WarnThreshold int           // attempts logged at warn before switching to error
}

func (o Options) withDefaults() Options {
	if o.RetryInterval <= 0 {
		o.RetryInterval = 500 * time.Millisecond
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 5 * time.Second
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 5 * time.Second
	}
	if o.WarnThreshold < 0 {
		o.WarnThreshold = 0
	}
	return o
}

// Wait pings until the backend answers or the budget runs out.
// With a zero Timeout it pings exactly once, which is the default startup
// behavior: fail fast with a diagnostic.
func Wait(ctx context.Context, ping PingFunc, opts Options, log logger.Logger) error {
	opts = opts.withDefaults()

	if opts.Timeout <= 0 {
		pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
		defer cancel()
		if err := ping(pingCtx); err != nil {
			log.Error("backend unreachable",
				logger.String("backend", opts.Name),
				logger.String("target", opts.Target),
				logger.Error(err))
			return fmt.Errorf("%s unreachable at %s: %w", opts.Name, opts.Target, err)
		}
		log.Info("connected",
			logger.String("backend", opts.Name),
			logger.String("target", opts.Target))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	log.Info("connecting",
		logger.String("backend", opts.Name),
		logger.String("target", opts.Target),
		logger.Duration("timeout", opts.Timeout))

	start := time.Now()
	wait := opts.RetryInterval
	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			fields := []logger.Field{
				logger.String("backend", opts.Name),
				logger.String("target", opts.Target),
				logger.Int("attempts", attempt),
				logger.Duration("elapsed", time.Since(start)),
			}
			if attempt > 1 {
				log.Warn("connected after retry", fields...)
			} else {
				log.Info("connected", fields...)
			}
			return nil
		}

		if attempt <= opts.WarnThreshold {
			log.Warn("connection failed, retrying",
				logger.String("backend", opts.Name),
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err))
		} else {
			log.Error("still unavailable, retrying",
				logger.String("backend", opts.Name),
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("backend unavailable, giving up",
				logger.String("backend", opts.Name),
				logger.String("target", opts.Target),
				logger.Int("attempts", attempt),
				logger.Duration("timeout", opts.Timeout),
				logger.Error(err))
			return fmt.Errorf("%s unavailable at %s after %d attempts (timeout: %v): %w",
				opts.Name, opts.Target, attempt, opts.Timeout, err)
		case <-timer.C:
		}

		wait *= 2
		if wait > opts.MaxWait {
			wait = opts.MaxWait
		}
	}
}
