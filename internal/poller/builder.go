// internal/poller/builder.go
package poller

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	cfg "github.com/tamzrod/plc-telemetry/internal/config"
	pmodbus "github.com/tamzrod/plc-telemetry/internal/poller/modbus"
	ps7 "github.com/tamzrod/plc-telemetry/internal/poller/s7"
	"github.com/tamzrod/plc-telemetry/internal/writer"
)

// DialFunc adapts a function to Dialer.
type DialFunc func(ctx context.Context) (Session, error)

func (f DialFunc) Dial(ctx context.Context) (Session, error) { return f(ctx) }

// Build constructs a Poller from a normalized, validated config.
// Nothing connects here: the device is dialed once per cycle.
func Build(c *cfg.Config, logger *zap.SugaredLogger, opts ...Option) (*Poller, error) {
	dialer, address, err := buildDialer(c.Device)
	if err != nil {
		return nil, err
	}

	w, err := writer.New(writer.Config{
		URL:     c.Telemetry.URL,
		Token:   c.Telemetry.Token,
		Timeout: time.Duration(c.Telemetry.TimeoutMs) * time.Millisecond,
		Verbose: c.Log.Verbose,
	}, logger)
	if err != nil {
		return nil, err
	}

	loc, err := c.Record.Location()
	if err != nil {
		return nil, err
	}

	return New(
		Config{
			Device:    c.Device.Name,
			Address:   address,
			Block:     c.Device.Block,
			BlockSize: c.Device.BlockSize,
			Interval:  c.Poll.Interval(),
			Schema:    c.Layout,
			Names:     c.Record.Variables,
			Location:  loc,
		},
		dialer,
		w,
		logger,
		opts...,
	)
}

// buildDialer picks the driver. Each factory call is ONE connection attempt.
func buildDialer(d cfg.DeviceConfig) (Dialer, string, error) {
	timeout := time.Duration(d.TimeoutMs) * time.Millisecond

	switch d.Driver {
	case cfg.DriverS7:
		s7, err := ps7.New(ps7.Config{
			Address: d.Address,
			Rack:    d.Rack,
			Slot:    d.Slot,
			Port:    d.Port,
			Timeout: timeout,
		})
		if err != nil {
			return nil, "", err
		}
		return DialFunc(func(ctx context.Context) (Session, error) {
			s, err := s7.Dial(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		}), s7.Endpoint(), nil

	case cfg.DriverModbus:
		mb, err := pmodbus.New(pmodbus.Config{
			Address: d.Address,
			Port:    d.Port,
			UnitID:  d.Unit(),
			Timeout: timeout,
		})
		if err != nil {
			return nil, "", err
		}
		return DialFunc(func(ctx context.Context) (Session, error) {
			s, err := mb.Dial(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		}), mb.Endpoint(), nil

	default:
		return nil, "", fmt.Errorf("poller: unsupported driver %q", d.Driver)
	}
}
