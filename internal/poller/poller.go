// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tamzrod/plc-telemetry/internal/layout"
	"github.com/tamzrod/plc-telemetry/internal/record"
	"github.com/tamzrod/plc-telemetry/internal/status"
)

// Dialer opens one device session. Sessions are never reused across cycles.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// Session is an open device connection.
type Session interface {
	Read(block, offset, length int) ([]byte, error)
	Close() error
}

// Sink publishes one record. A nil error means the endpoint accepted it.
type Sink interface {
	Post(ctx context.Context, rec *record.Record) error
}

// Config is the immutable runtime config the poller needs.
type Config struct {
	Device    string
	Address   string
	Block     int
	BlockSize int
	Interval  time.Duration
	Schema    layout.Schema
	Names     []string
	Location  *time.Location
}

// Poller runs acquire, decode, publish, sleep until stopped.
// It is single-goroutine; cycles never overlap.
type Poller struct {
	cfg     Config
	dialer  Dialer
	sink    Sink
	logger  *zap.SugaredLogger
	clock   clock.Clock
	tracker *status.Tracker
}

// Option customizes a Poller.
type Option func(*Poller)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// WithTracker feeds every cycle outcome into t.
func WithTracker(t *status.Tracker) Option {
	return func(p *Poller) { p.tracker = t }
}

// New validates cfg and builds a poller.
// Names that cannot label the schema are rejected here, not per cycle.
func New(cfg Config, dialer Dialer, sink Sink, logger *zap.SugaredLogger, opts ...Option) (*Poller, error) {
	if dialer == nil {
		return nil, errors.New("poller: dialer required")
	}
	if sink == nil {
		return nil, errors.New("poller: sink required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.BlockSize <= 0 {
		return nil, errors.New("poller: block size must be > 0")
	}
	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}
	if cfg.Schema.Extent() > cfg.BlockSize {
		return nil, errors.New("poller: schema extends past block size")
	}
	if err := record.CheckNames(cfg.Names, cfg.Schema.Count()); err != nil {
		return nil, err
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	p := &Poller{
		cfg:    cfg,
		dialer: dialer,
		sink:   sink,
		logger: logger,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PollOnce performs exactly one cycle.
// All-or-nothing: any failure aborts the cycle and nothing is posted.
func (p *Poller) PollOnce(ctx context.Context) (c Cycle) {
	c = Cycle{
		ID: uuid.New(),
		At: p.clock.Now(),
	}
	defer func() { c.Duration = p.clock.Since(c.At) }()

	buf, err := p.acquire(ctx)
	if err != nil {
		c.Stage, c.Err = StageAcquire, err
		return c
	}

	values, err := layout.Decode(buf, p.cfg.Schema)
	if err != nil {
		c.Stage, c.Err = StageDecode, err
		return c
	}

	rec, err := record.Build(c.At, p.cfg.Location, p.cfg.Names, values)
	if err != nil {
		c.Stage, c.Err = StagePublish, err
		return c
	}

	if err := p.sink.Post(ctx, rec); err != nil {
		c.Stage, c.Err = StagePublish, err
		return c
	}

	c.Record = rec
	return c
}

// acquire opens a session, reads the block and always releases the session.
func (p *Poller) acquire(ctx context.Context) ([]byte, error) {
	sess, err := p.dialer.Dial(ctx)
	if err != nil {
		return nil, &ConnectionError{Device: p.cfg.Device, Address: p.cfg.Address, Err: err}
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			p.logger.Warnw("device disconnect failed", "device", p.cfg.Device, "error", cerr)
		}
	}()

	buf, err := sess.Read(p.cfg.Block, 0, p.cfg.BlockSize)
	if err != nil {
		return nil, &ReadError{
			Device: p.cfg.Device,
			Block:  p.cfg.Block,
			Offset: 0,
			Length: p.cfg.BlockSize,
			Err:    err,
		}
	}
	return buf, nil
}
