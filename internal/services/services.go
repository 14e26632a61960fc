package services

import (
	"fmt"
	"time"
)

// Option configures a service
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for submission timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// guard runs fn and turns a panic into an error so collaborator faults never reach the transport
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	return fn()
}
