// internal/poller/modbus/client.go
package modbus

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// maxRegistersPerRead is the Modbus limit for FC3.
const maxRegistersPerRead = 125

// registerReader is the only Modbus operation a session needs.
type registerReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

// Config is minimal transport config.
type Config struct {
	Address string
	Port    int
	UnitID  uint8
	Timeout time.Duration
}

// Dialer opens one Modbus TCP connection per cycle.
// The block number is the first holding register of the block; byte
// offsets map to registers two bytes at a time, high byte first.
type Dialer struct {
	cfg Config
}

// New validates cfg. It does not connect.
func New(cfg Config) (*Dialer, error) {
	if cfg.Address == "" {
		return nil, errors.New("modbus client: address required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, errors.Errorf("modbus client: invalid port %d", cfg.Port)
	}
	return &Dialer{cfg: cfg}, nil
}

// Endpoint is host:port.
func (d *Dialer) Endpoint() string {
	return net.JoinHostPort(d.cfg.Address, strconv.Itoa(d.cfg.Port))
}

// Dial connects once. No retries.
func (d *Dialer) Dial(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := modbus.NewTCPClientHandler(d.Endpoint())
	h.Timeout = d.cfg.Timeout
	h.SlaveId = d.cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, errors.Wrap(multierr.Append(err, h.Close()), "modbus connect")
	}

	return &Session{
		closer: h,
		client: modbus.NewClient(h),
	}, nil
}

// Session is one open connection; it is not safe for concurrent use.
type Session struct {
	closer interface{ Close() error }
	client registerReader
}

// Read returns exactly length bytes starting offset bytes into the block.
func (s *Session) Read(block, offset, length int) ([]byte, error) {
	if block < 0 || offset < 0 || length <= 0 {
		return nil, errors.Errorf("modbus: invalid range block=%d offset=%d length=%d", block, offset, length)
	}
	if offset%2 != 0 {
		return nil, errors.Errorf("modbus: offset %d is not register aligned", offset)
	}

	start := block + offset/2
	qty := (length + 1) / 2
	if start+qty > 1<<16 {
		return nil, errors.Errorf("modbus: registers %d..%d exceed address space", start, start+qty-1)
	}

	out := make([]byte, 0, qty*2)
	for done := 0; done < qty; {
		n := qty - done
		if n > maxRegistersPerRead {
			n = maxRegistersPerRead
		}

		addr := start + done
		b, err := s.client.ReadHoldingRegisters(uint16(addr), uint16(n))
		if err != nil {
			return nil, errors.Wrapf(err, "modbus read holding registers addr=%d qty=%d", addr, n)
		}
		if len(b) != n*2 {
			return nil, errors.Errorf("modbus: short read at addr=%d: got %d bytes want %d", addr, len(b), n*2)
		}

		out = append(out, b...)
		done += n
	}

	return out[:length], nil
}

func (s *Session) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
