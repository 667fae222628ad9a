// internal/config/normalize.go
package config

import (
	"strings"

	"github.com/tamzrod/plc-telemetry/internal/layout"
)

const (
	DefaultS7Port        = 102
	DefaultModbusPort    = 502
	DefaultUnitID        = 1
	DefaultDeviceTimeout = 5000
	DefaultTelemetryTO   = 10000
	DefaultIntervalS     = 60
	DefaultTimeZone      = "America/Bogota"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 5
)

// Normalize fills defaults.
// It is allowed to mutate configuration.
// It MUST be called before Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	if d.Driver == "" {
		d.Driver = DriverS7
	}
	if d.Port == 0 {
		switch d.Driver {
		case DriverModbus:
			d.Port = DefaultModbusPort
		default:
			d.Port = DefaultS7Port
		}
	}
	if d.Driver == DriverModbus && d.UnitID == nil {
		unit := uint8(DefaultUnitID)
		d.UnitID = &unit
	}
	if d.TimeoutMs == 0 {
		d.TimeoutMs = DefaultDeviceTimeout
	}
	if d.Name == "" {
		d.Name = d.Address
	}

	// No layout: the reference controller memory map.
	if len(cfg.Layout) == 0 {
		cfg.Layout = layout.Reference()
	}
	if d.BlockSize == 0 {
		d.BlockSize = cfg.Layout.Extent()
	}

	if cfg.Telemetry.TimeoutMs == 0 {
		cfg.Telemetry.TimeoutMs = DefaultTelemetryTO
	}
	if cfg.Record.TimeZone == "" {
		cfg.Record.TimeZone = DefaultTimeZone
	}
	for i, v := range cfg.Record.Variables {
		cfg.Record.Variables[i] = strings.TrimSpace(v)
	}
	if cfg.Poll.IntervalS == 0 {
		cfg.Poll.IntervalS = DefaultIntervalS
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = DefaultLogMaxBackups
	}
}
