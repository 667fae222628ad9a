// internal/config/config.go
package config

import (
	"github.com/tamzrod/plc-telemetry/internal/layout"
)

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Layout    layout.Schema   `yaml:"layout"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Record    RecordConfig    `yaml:"record"`
	Poll      PollConfig      `yaml:"poll"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ---- DEVICE ----

const (
	DriverS7     = "s7"
	DriverModbus = "modbus"
)

type DeviceConfig struct {
	Name      string `yaml:"name"`
	Driver    string `yaml:"driver"`
	Address   string `yaml:"address"`
	Rack      int    `yaml:"rack"`
	Slot      int    `yaml:"slot"`
	Port      int    `yaml:"port"`
	UnitID    *uint8 `yaml:"unit_id"` // modbus only; nil until Normalize
	TimeoutMs int    `yaml:"timeout_ms"`

	// Block is the S7 data block number, or the first holding register for modbus.
	Block     int `yaml:"block"`
	BlockSize int `yaml:"block_size"`
}

// Unit is the modbus unit id, DefaultUnitID when unset.
func (d DeviceConfig) Unit() uint8 {
	if d.UnitID == nil {
		return DefaultUnitID
	}
	return *d.UnitID
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- RECORD ----

type RecordConfig struct {
	TimeZone string `yaml:"time_zone"`

	// Variables[0] names the timestamp; the rest name decoded values in layout order.
	Variables []string `yaml:"variables"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalS int `yaml:"interval_s"`
}

// ---- LOG ----

type LogConfig struct {
	Path       string `yaml:"path"`
	Verbose    bool   `yaml:"verbose"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}
