// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	d := cfg.Device

	// device name sanity (ASCII only)
	for i := 0; i < len(d.Name); i++ {
		if d.Name[i] > 0x7F {
			return fmt.Errorf("device %q: name must contain ASCII characters only", d.Name)
		}
	}
	if d.Address == "" {
		return fmt.Errorf("device.address is required")
	}
	switch d.Driver {
	case DriverS7, DriverModbus:
	default:
		return fmt.Errorf("device.driver %q: must be %q or %q", d.Driver, DriverS7, DriverModbus)
	}
	if d.Rack < 0 || d.Slot < 0 {
		return fmt.Errorf("device %q: rack and slot must be >= 0", d.Name)
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("device %q: port %d out of range", d.Name, d.Port)
	}
	if d.TimeoutMs < 0 {
		return fmt.Errorf("device %q: timeout_ms must be >= 0", d.Name)
	}
	if d.Block < 0 {
		return fmt.Errorf("device %q: block must be >= 0", d.Name)
	}

	// ------------------------------------------------------------
	// LAYOUT GEOMETRY
	// ------------------------------------------------------------

	if err := cfg.Layout.Validate(); err != nil {
		return err
	}
	if extent := cfg.Layout.Extent(); d.BlockSize < extent {
		return fmt.Errorf(
			"device %q: block_size %d is smaller than layout extent %d",
			d.Name, d.BlockSize, extent,
		)
	}
	if d.Driver == DriverModbus && d.Block+(d.BlockSize+1)/2 > 1<<16 {
		return fmt.Errorf("device %q: modbus block exceeds register address space", d.Name)
	}

	// ------------------------------------------------------------
	// RECORD NAMES
	// ------------------------------------------------------------

	vars := cfg.Record.Variables
	if want := cfg.Layout.Count() + 1; len(vars) != want {
		return fmt.Errorf(
			"record.variables: got %d names, layout needs %d (timestamp + %d values)",
			len(vars), want, cfg.Layout.Count(),
		)
	}
	seen := make(map[string]int, len(vars))
	for i, v := range vars {
		if v == "" {
			return fmt.Errorf("record.variables[%d] is empty", i)
		}
		if prev, exists := seen[v]; exists {
			return fmt.Errorf("record.variables[%d] %q duplicates variables[%d]", i, v, prev)
		}
		seen[v] = i
	}
	if cfg.Record.TimeZone == "Local" {
		return fmt.Errorf("record.time_zone must name a zone, not the host's local time")
	}
	if _, err := cfg.Record.Location(); err != nil {
		return fmt.Errorf("record.time_zone: %w", err)
	}

	// ------------------------------------------------------------
	// TELEMETRY
	// ------------------------------------------------------------

	u, err := url.Parse(cfg.Telemetry.URL)
	if err != nil {
		return fmt.Errorf("telemetry.url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("telemetry.url %q must be an absolute http(s) url", cfg.Telemetry.URL)
	}
	if cfg.Telemetry.Token == "" {
		return fmt.Errorf("telemetry.token is required")
	}
	if cfg.Telemetry.TimeoutMs < 0 {
		return fmt.Errorf("telemetry.timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// POLL / LOG
	// ------------------------------------------------------------

	if cfg.Poll.IntervalS <= 0 {
		return fmt.Errorf("poll.interval_s must be > 0")
	}
	if cfg.Log.Path == "" {
		return fmt.Errorf("log.path is required")
	}

	return nil
}

// Location loads the configured civil time zone.
func (r RecordConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.TimeZone)
}

// Interval is the sleep between cycles.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalS) * time.Second
}
