package harness

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/weiihann/evmbench/evm"
	"github.com/weiihann/evmbench/measure"
	"github.com/weiihann/evmbench/workload"
)

// UnknownHostname is reported when the hostname cannot be looked up.
const UnknownHostname = "unknown"

// maxPrealloc caps how many samples are preallocated up front.
const maxPrealloc = 1 << 20

var lookupHostname = os.Hostname

// Runner executes benchmark requests on an engine.
type Runner struct {
	Engine evm.Engine
	Logger *slog.Logger
}

// NewRunner creates a Runner for the given engine.
func NewRunner(engine evm.Engine, logger *slog.Logger) *Runner {
	return &Runner{
		Engine: engine,
		Logger: logger,
	}
}

// Run executes req.Code req.Iterations times, sampling meter around each
// execution. Any execution or measurement failure aborts the run. ctx is
// checked between iterations only.
func (r *Runner) Run(
	ctx context.Context,
	req workload.Request,
	meter measure.Meter,
) (*Result, error) {
	info := meter.Info()
	logger := r.Logger.With(slog.String("measurement", info.ID))

	n := int(min(req.Iterations, maxPrealloc))
	values := make([]uint64, 0, n)
	gas := make([]uint64, 0, n)

	logger.InfoContext(ctx, "starting measurement",
		slog.Uint64("iterations", req.Iterations),
		slog.Int("code_size", len(req.Code)),
	)

	wallStart := time.Now()

	for i := uint64(0); i < req.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}

		call, err := r.Engine.NewContext(req.Code)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: build context: %w", i, err)
		}

		var outcome evm.Outcome

		value, err := meter.Measure(func() error {
			var execErr error
			outcome, execErr = r.Engine.Execute(call)

			return execErr
		})
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}

		gasLeft, err := outcome.RemainingGas()
		if err != nil {
			return nil, fmt.Errorf(
				"iteration %d: %w (kind %d)", i, err, outcome.Kind,
			)
		}
		if gasLeft > call.Gas {
			return nil, fmt.Errorf(
				"iteration %d: gas left %d exceeds allowance %d",
				i, gasLeft, call.Gas,
			)
		}

		values = append(values, value)
		gas = append(gas, call.Gas-gasLeft)
	}

	logger.InfoContext(ctx, "measurement finished",
		slog.Duration("wall_time", time.Since(wallStart)),
	)

	return &Result{
		ID:       info.ID,
		Name:     info.Name,
		Unit:     info.Unit,
		Hostname: r.hostname(),
		Values:   values,
		Gas:      gas,
	}, nil
}

// RunAll opens each factory's meter in turn, runs req with it and closes
// it. The first failure aborts the remaining measurements and no results
// are returned.
func (r *Runner) RunAll(
	ctx context.Context,
	req workload.Request,
	factories []measure.Factory,
	opts measure.Options,
) ([]Result, error) {
	results := make([]Result, 0, len(factories))

	for _, f := range factories {
		result, err := r.runFactory(ctx, req, f, opts)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", f.ID, err)
		}

		results = append(results, *result)
	}

	return results, nil
}

func (r *Runner) runFactory(
	ctx context.Context,
	req workload.Request,
	f measure.Factory,
	opts measure.Options,
) (_ *Result, err error) {
	meter, err := f.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	defer func() {
		if closeErr := meter.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close: %w", closeErr)
		}
	}()

	result, err := r.Run(ctx, req, meter)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Runner) hostname() string {
	name, err := lookupHostname()
	if err != nil || name == "" {
		r.Logger.Warn("failed to look up hostname",
			slog.Any("error", err),
		)

		return UnknownHostname
	}

	return name
}
