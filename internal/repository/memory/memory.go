// Package memory holds process-local repository implementations. They are the
// default storage driver and back the service tests.
package memory

import "time"

type Option func(*options)

type options struct {
	now            func() time.Time
	defaultBalance int64
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithDefaultBalance(balance int64) Option {
	return func(o *options) { o.defaultBalance = balance }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
