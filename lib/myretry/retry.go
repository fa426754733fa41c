// Package myretry runs an operation repeatedly until it succeeds, with a per-attempt timeout
// and optional exponential backoff between attempts.
package myretry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MarcGrol/travelshop/lib/mylog"
)

// ErrTimeout is recorded for an attempt that did not finish within Options.Timeout.
var ErrTimeout = errors.New("Request timeout")

const (
	DefaultMaxRetries = 3
	DefaultDelay      = time.Second
	DefaultTimeout    = 10 * time.Second

	maxBackoffShift = 30
)

type Options struct {
	MaxRetries int
	Delay      time.Duration
	Backoff    bool
	Timeout    time.Duration
	// Label is used as trace label when logging failed attempts.
	Label string
}

func DefaultOptions() Options {
	return Options{
		MaxRetries: DefaultMaxRetries,
		Delay:      DefaultDelay,
		Backoff:    true,
		Timeout:    DefaultTimeout,
	}
}

func (o Options) normalized() Options {
	if o.MaxRetries < 1 {
		o.MaxRetries = 1
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// DelayAfter returns the wait after failed attempt n (1-based).
func (o Options) DelayAfter(n int) time.Duration {
	if !o.Backoff || n <= 1 {
		return o.Delay
	}
	shift := n - 1
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	multiplier := time.Duration(1) << shift
	d := o.Delay * multiplier
	if o.Delay != 0 && d/multiplier != o.Delay {
		// overflow
		return time.Duration(1<<63 - 1)
	}
	return d
}

type Result[T any] struct {
	Success  bool
	Data     T
	Err      error
	Attempts int
}

// Sleeper waits for d or until c is done, whichever comes first.
type Sleeper func(c context.Context, d time.Duration) error

type Executor struct {
	logger mylog.Logger
	sleep  Sleeper
}

func NewExecutor(logger mylog.Logger, sleeper Sleeper) Executor {
	if sleeper == nil {
		sleeper = SleepContext
	}
	return Executor{
		logger: logger,
		sleep:  sleeper,
	}
}

func SleepContext(c context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-c.Done():
		return c.Err()
	case <-timer.C:
		return nil
	}
}

// Do never returns an error and never panics: the outcome is in the Result.
func Do[T any](c context.Context, op func(c context.Context) (T, error), opts Options) Result[T] {
	return DoWith(c, NewExecutor(mylog.New("myretry"), nil), op, opts)
}

func DoWith[T any](c context.Context, e Executor, op func(c context.Context) (T, error), opts Options) Result[T] {
	opts = opts.normalized()

	var lastErr error
	for n := 1; n <= opts.MaxRetries; n++ {
		data, err := attempt(c, op, opts.Timeout)
		if err == nil {
			return Result[T]{
				Success:  true,
				Data:     data,
				Attempts: n,
			}
		}
		lastErr = err

		e.logger.Log(c, opts.Label, mylog.SeverityWarn, "Attempt %d of %d failed: %s", n, opts.MaxRetries, err)

		if c.Err() != nil {
			return Result[T]{Err: c.Err(), Attempts: n}
		}

		if n == opts.MaxRetries {
			break
		}

		err = e.sleep(c, opts.DelayAfter(n))
		if err != nil {
			return Result[T]{Err: err, Attempts: n}
		}
	}

	return Result[T]{
		Err:      lastErr,
		Attempts: opts.MaxRetries,
	}
}

type outcome[T any] struct {
	data T
	err  error
}

func attempt[T any](c context.Context, op func(c context.Context) (T, error), timeout time.Duration) (T, error) {
	ac, cancel := context.WithTimeout(c, timeout)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome[T]{err: panicError(r)}
			}
		}()
		data, err := op(ac)
		done <- outcome[T]{data: data, err: err}
	}()

	select {
	case o := <-done:
		return o.data, o.err
	case <-ac.Done():
		select {
		case o := <-done:
			// finished on the deadline
			return o.data, o.err
		default:
		}
		var zero T
		if c.Err() != nil {
			return zero, c.Err()
		}
		return zero, ErrTimeout
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
