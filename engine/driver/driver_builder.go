package driver

import (
	"github.com/Carmen-Shannon/oxy-lessons/engine/profiler"
	"go.uber.org/zap"
)

// DriverBuilderOption is a functional option for configuring a Driver via NewDriver.
type DriverBuilderOption func(*driver)

// WithLogger is an option builder that sets the structured logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - DriverBuilderOption: a function that applies the logger option to a driver
func WithLogger(logger *zap.Logger) DriverBuilderOption {
	return func(d *driver) {
		if logger != nil {
			d.logger = logger.Named("driver")
		}
	}
}

// WithProfiler is an option builder that ticks p after every completed frame.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - DriverBuilderOption: a function that applies the profiler option to a driver
func WithProfiler(p *profiler.Profiler) DriverBuilderOption {
	return func(d *driver) {
		d.profiler = p
	}
}

// WithUpdate is an option builder that registers an update function at construction.
//
// Parameters:
//   - name: the update label
//   - fn: the update function
//
// Returns:
//   - DriverBuilderOption: a function that applies the update option to a driver
func WithUpdate(name string, fn UpdateFunc) DriverBuilderOption {
	return func(d *driver) {
		if fn != nil {
			d.updates = append(d.updates, namedUpdate{name: name, fn: fn})
		}
	}
}

// WithRender is an option builder that sets the render step.
//
// Parameters:
//   - fn: the render function
//
// Returns:
//   - DriverBuilderOption: a function that applies the render option to a driver
func WithRender(fn RenderFunc) DriverBuilderOption {
	return func(d *driver) {
		d.render = fn
	}
}

// WithErrorObserver is an option builder that sets the frame error observer.
//
// Parameters:
//   - fn: the observer
//
// Returns:
//   - DriverBuilderOption: a function that applies the observer option to a driver
func WithErrorObserver(fn func(*FrameError)) DriverBuilderOption {
	return func(d *driver) {
		d.onError = fn
	}
}
