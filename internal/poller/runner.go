// internal/poller/runner.go
package poller

import (
	"context"
	"errors"

	"github.com/tamzrod/plc-telemetry/internal/layout"
	"github.com/tamzrod/plc-telemetry/internal/record"
	"github.com/tamzrod/plc-telemetry/internal/status"
)

// Run loops PollOnce with a fixed sleep between cycles.
// Data-path errors are logged and never end the loop; only ctx does.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Infow("poller started",
		"device", p.cfg.Device,
		"address", p.cfg.Address,
		"block", p.cfg.Block,
		"block_size", p.cfg.BlockSize,
		"values", p.cfg.Schema.Count(),
		"interval", p.cfg.Interval,
	)

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Infow("poller stopped", "device", p.cfg.Device)
			return err
		}

		p.report(p.PollOnce(ctx))

		t := p.clock.Timer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			p.logger.Infow("poller stopped", "device", p.cfg.Device)
			return ctx.Err()
		case <-t.C:
		}
	}
}

// report logs one cycle and updates the status tracker.
func (p *Poller) report(c Cycle) {
	// A cancelled cycle is shutdown, not a device fault.
	if c.Err != nil && errors.Is(c.Err, context.Canceled) {
		p.logger.Infow("cycle interrupted by shutdown", "cycle", c.ID, "stage", c.Stage.String())
		return
	}

	p.tracker.Observe(c.At, c.Duration, errorCode(c.Err))

	if c.Err == nil {
		p.logger.Debugw("record published",
			"cycle", c.ID,
			"device", p.cfg.Device,
			"timestamp", c.Record.Timestamp(),
			"duration", c.Duration,
		)
		return
	}

	p.logger.Errorw("cycle failed, data point dropped",
		"cycle", c.ID,
		"device", p.cfg.Device,
		"stage", c.Stage.String(),
		"error", c.Err,
	)
}

// errorCode maps a cycle error onto the status error codes.
func errorCode(err error) uint16 {
	if err == nil {
		return status.ErrorNone
	}

	var (
		connErr  *ConnectionError
		readErr  *ReadError
		rangeErr *layout.OutOfRangeError
		arityErr *record.ArityMismatchError
		dupErr   *record.DuplicateNameError
	)
	switch {
	case errors.As(err, &connErr):
		return status.ErrorConnection
	case errors.As(err, &readErr):
		return status.ErrorRead
	case errors.As(err, &rangeErr):
		return status.ErrorDecode
	case errors.As(err, &arityErr), errors.As(err, &dupErr):
		return status.ErrorRecord
	default:
		return status.ErrorPublish
	}
}
