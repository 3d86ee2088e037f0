// Package engine implements the booking state machine: it owns every
// theater's seat inventory and statistics, the single staged selection,
// and the command channel that mirrors each committed transition to the
// external simulation.
//
// All public operations are serialized behind one mutex.  Each runs its
// read-validate-write sequence, the statistics update and the channel
// append as a single critical section, so seat state, counters and the
// command log advance together.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/cinema-booking-engine/internal/channel"
	"github.com/iliyamo/cinema-booking-engine/internal/inventory"
	"github.com/iliyamo/cinema-booking-engine/internal/model"
	"github.com/iliyamo/cinema-booking-engine/internal/pricing"
	"github.com/iliyamo/cinema-booking-engine/internal/stats"
)

// Reference dimensions and timings.
const (
	DefaultTheaters       = 4
	DefaultRows           = 8
	DefaultCols           = 8
	DefaultSettleDelay    = 100 * time.Millisecond
	DefaultPublishTimeout = 5 * time.Second
)

// Options configures an Engine.  Zero values fall back to the reference
// defaults, except SettleDelay where zero means no pause.
type Options struct {
	Theaters int
	Rows     int
	Cols     int

	Prices pricing.Table
	Policy pricing.Policy

	// Channel receives one command per committed Book or Cancel.
	Channel channel.Publisher
	// SettleDelay is the pause after each append that gives the external
	// process a chance to apply the command before the next operation.
	// It is a pacing aid, not an acknowledgment.
	SettleDelay time.Duration
	// PublishTimeout bounds a single channel append.
	PublishTimeout time.Duration

	Logger *slog.Logger
}

// Receipt describes a committed Book or Cancel.
type Receipt struct {
	Command model.Command
	// Amount is the price charged by Book or refunded by Cancel.
	Amount int64
	// Warning is non-nil when the command could not be appended to the
	// channel.  The transition is committed regardless.  It wraps
	// ErrChannelDesync.
	Warning error
}

// Engine is the booking engine.  Create it with New.
type Engine struct {
	mu sync.Mutex

	inv    *inventory.Inventory
	stats  *stats.Aggregator
	prices pricing.Table
	policy pricing.Policy

	pub            channel.Publisher
	settleDelay    time.Duration
	publishTimeout time.Duration
	log            *slog.Logger

	active   int // -1 when no theater is active
	selected *model.SeatRef
	version  uint64 // committed transitions
	revision uint64 // any change, selection included
}

// New builds an engine with every seat EMPTY and no active theater.
func New(opts Options) (*Engine, error) {
	if opts.Theaters == 0 {
		opts.Theaters = DefaultTheaters
	}
	if opts.Rows == 0 {
		opts.Rows = DefaultRows
	}
	if opts.Cols == 0 {
		opts.Cols = DefaultCols
	}
	if opts.Theaters < 0 || opts.Rows < 0 || opts.Cols < 0 {
		return nil, fmt.Errorf("engine: invalid dimensions %d×%d×%d", opts.Theaters, opts.Rows, opts.Cols)
	}
	if opts.Prices == (pricing.Table{}) {
		opts.Prices = pricing.Default
	}
	if err := opts.Prices.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if opts.Policy == (pricing.Policy{}) {
		opts.Policy = pricing.DefaultPolicy
	}
	if opts.Channel == nil {
		return nil, fmt.Errorf("engine: nil command channel")
	}
	if opts.SettleDelay < 0 {
		return nil, fmt.Errorf("engine: negative settle delay %s", opts.SettleDelay)
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	inv := inventory.New(opts.Theaters, opts.Rows, opts.Cols)
	return &Engine{
		inv:            inv,
		stats:          stats.New(opts.Theaters, inv.Capacity()),
		prices:         opts.Prices,
		policy:         opts.Policy,
		pub:            opts.Channel,
		settleDelay:    opts.SettleDelay,
		publishTimeout: opts.PublishTimeout,
		log:            opts.Logger,
		active:         -1,
	}, nil
}

// ListTheaters returns every theater id in ascending order.
func (e *Engine) ListTheaters() []int {
	ids := make([]int, e.inv.Theaters())
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// SelectTheater makes theater the active context and clears any staged
// seat, even when theater is already active.
func (e *Engine) SelectTheater(theater int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.inv.HasTheater(theater) {
		return fmt.Errorf("select theater %d: %w", theater, ErrInvalidTheater)
	}
	e.active = theater
	e.selected = nil
	e.revision++
	return nil
}

// Select stages seat (row, col) of the active theater, replacing any
// previous selection.  It never changes seat state.  A BOOKED seat is
// staged too so that it can be cancelled; the returned status tells the
// caller which action the selection is good for.
func (e *Engine) Select(row, col int) (model.SeatStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active < 0 {
		return 0, ErrNoTheaterSelected
	}
	if !e.inv.Contains(row, col) {
		return 0, fmt.Errorf("select %d/%d: %w", row, col, ErrSeatOutOfRange)
	}
	e.selected = &model.SeatRef{Theater: e.active, Row: row, Col: col}
	e.revision++
	return e.inv.Status(e.active, row, col), nil
}

// Book books the staged seat.  The category is derived from the row now
// and frozen on the seat; the returned receipt carries the price charged.
// On any error nothing changes, the selection included.
func (e *Engine) Book(ctx context.Context) (Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil {
		return Receipt{}, ErrNoSeatSelected
	}
	s := *e.selected
	if e.inv.Status(s.Theater, s.Row, s.Col) != model.SeatEmpty {
		return Receipt{}, fmt.Errorf("book %s: %w", s, ErrSeatAlreadyBooked)
	}

	cat := e.policy.CategoryFor(s.Row)
	price := e.prices.Price(cat)
	e.inv.SetBooked(s.Theater, s.Row, s.Col, cat)
	e.stats.RecordBook(s.Theater, price)
	e.selected = nil

	cmd := model.Command{Op: model.OpBook, Theater: s.Theater, Row: s.Row, Col: s.Col, Category: cat}
	e.log.Info("seat booked", "seat", s.String(), "category", cat.String(), "price", price)
	return e.commit(ctx, cmd, price), nil
}

// Cancel releases the staged seat and refunds exactly the price of the
// category frozen on it at booking time.  On any error nothing changes.
func (e *Engine) Cancel(ctx context.Context) (Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil {
		return Receipt{}, ErrNoSeatSelected
	}
	s := *e.selected
	cat, ok := e.inv.Category(s.Theater, s.Row, s.Col)
	if !ok {
		return Receipt{}, fmt.Errorf("cancel %s: %w", s, ErrSeatNotBooked)
	}

	refund := e.prices.Price(cat)
	e.inv.SetEmpty(s.Theater, s.Row, s.Col)
	e.stats.RecordCancel(s.Theater, refund)
	e.selected = nil

	cmd := model.Command{Op: model.OpCancel, Theater: s.Theater, Row: s.Row, Col: s.Col, Category: cat}
	e.log.Info("booking cancelled", "seat", s.String(), "category", cat.String(), "refund", refund)
	return e.commit(ctx, cmd, refund), nil
}

// commit appends cmd to the channel and waits out the settle delay.  The
// in-memory transition is already applied; a publish failure only turns
// into a warning on the receipt.  Called with e.mu held.
func (e *Engine) commit(ctx context.Context, cmd model.Command, amount int64) Receipt {
	e.version++
	e.revision++
	r := Receipt{Command: cmd, Amount: amount}

	// The transition is committed, so a caller giving up must not cut
	// the append short; the timeout still bounds it.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.publishTimeout)
	defer cancel()
	if err := e.pub.Publish(pctx, cmd); err != nil {
		r.Warning = fmt.Errorf("%w: %s: %w", ErrChannelDesync, cmd.Line(), err)
		e.log.Warn("command channel append failed", "command", cmd.Line(), "version", e.version, "err", err)
	}
	if e.settleDelay > 0 {
		time.Sleep(e.settleDelay)
	}
	return r
}
