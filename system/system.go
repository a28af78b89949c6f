package system

import (
	"errors"

	"github.com/milk9111/swingkit/component"
	"go.uber.org/zap"
)

var (
	ErrNilBody  = errors.New("system: body is nil")
	ErrNilSpace = errors.New("system: space is nil")
)

// Tick is the simulation clock for one fixed step. Now is the time at the
// start of the step in seconds.
type Tick struct {
	Index uint64
	Now   float64
	DT    float64
}

// Controller is one per-tick step of the character simulation.
type Controller interface {
	Name() string
	Step(t Tick, in component.Input)
}

// AttachQuery reports whether a grapple currently owns the body.
type AttachQuery interface {
	IsAttached() bool
}

type options struct {
	log    *zap.Logger
	attach AttachQuery
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithAttachQuery lets locomotion yield to a grapple while it is attached.
func WithAttachQuery(q AttachQuery) Option {
	return func(o *options) {
		o.attach = q
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
