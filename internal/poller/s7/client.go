// internal/poller/s7/client.go
package s7

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/robinson/gos7"
	"go.uber.org/multierr"
)

// DefaultPort is the ISO-on-TCP port.
const DefaultPort = 102

// dbReader is the only S7 operation a session needs.
type dbReader interface {
	AGReadDB(dbNumber int, start int, size int, buffer []byte) error
}

// Config is minimal transport config.
type Config struct {
	Address string
	Rack    int
	Slot    int
	Port    int
	Timeout time.Duration
}

// Dialer opens one S7 session per cycle.
type Dialer struct {
	cfg Config
}

// New validates cfg. It does not connect.
func New(cfg Config) (*Dialer, error) {
	if cfg.Address == "" {
		return nil, errors.New("s7 client: address required")
	}
	if cfg.Rack < 0 || cfg.Slot < 0 {
		return nil, errors.Errorf("s7 client: invalid rack/slot %d/%d", cfg.Rack, cfg.Slot)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, errors.Errorf("s7 client: invalid port %d", cfg.Port)
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

	h := d.handler()
	if err := h.Connect(); err != nil {
		return nil, errors.Wrapf(multierr.Append(err, h.Close()),
			"s7 connect rack=%d slot=%d", d.cfg.Rack, d.cfg.Slot)
	}

	return &Session{
		closer: h,
		client: gos7.NewClient(h),
	}, nil
}

// handler builds an unconnected gos7 handler. gos7 appends :102 only to a
// bare host, so the explicit host:port keeps a non-default port.
func (d *Dialer) handler() *gos7.TCPClientHandler {
	h := gos7.NewTCPClientHandler(d.Endpoint(), d.cfg.Rack, d.cfg.Slot)
	if d.cfg.Timeout > 0 {
		h.Timeout = d.cfg.Timeout
		h.IdleTimeout = d.cfg.Timeout
	}
	return h
}

// Session is one open S7 connection; it is not safe for concurrent use.
type Session struct {
	closer interface{ Close() error }
	client dbReader
}

// Read reads length bytes of data block `block` starting at offset.
func (s *Session) Read(block, offset, length int) ([]byte, error) {
	if block < 0 || offset < 0 || length <= 0 {
		return nil, errors.Errorf("s7: invalid range db=%d offset=%d length=%d", block, offset, length)
	}

	buf := make([]byte, length)
	if err := s.client.AGReadDB(block, offset, length, buf); err != nil {
		return nil, errors.Wrapf(err, "s7 read db=%d offset=%d length=%d", block, offset, length)
	}
	return buf, nil
}

func (s *Session) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
