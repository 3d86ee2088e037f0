// Package channel implements the command channel: the ordered,
// append-only log of committed bookings and cancellations that an
// external simulation process consumes.
//
// The engine only ever calls Publish, once per committed transition and
// in commit order.  Nothing here waits for the consumer; a Publish call
// either appends the record or returns an error.
package channel

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// Publisher appends one command to a channel.
type Publisher interface {
	Publish(ctx context.Context, cmd model.Command) error
}

// Resetter is implemented by channels that can be emptied.  Reset is
// called once at process start, before the first Publish.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Fanout publishes to a primary channel followed by any number of
// mirrors, always in the same order.  A failing mirror does not stop the
// others; every failure is returned joined.
type Fanout struct {
	Primary Publisher
	Mirrors []Publisher
}

// Publish implements Publisher.
func (f *Fanout) Publish(ctx context.Context, cmd model.Command) error {
	var errs []error
	if err := f.Primary.Publish(ctx, cmd); err != nil {
		errs = append(errs, err)
	}
	for _, m := range f.Mirrors {
		if err := m.Publish(ctx, cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset resets every member that supports it.
func (f *Fanout) Reset(ctx context.Context) error {
	var errs []error
	for _, p := range append([]Publisher{f.Primary}, f.Mirrors...) {
		if r, ok := p.(Resetter); ok {
			if err := r.Reset(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Memory keeps published commands in a slice.  It backs tests and
// deployments that run without an external consumer.
type Memory struct {
	mu   sync.Mutex
	cmds []model.Command
	// Err, when set, is returned by Publish instead of recording.
	Err error
}

// Publish implements Publisher.
func (m *Memory) Publish(_ context.Context, cmd model.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.cmds = append(m.cmds, cmd)
	return nil
}

// Reset drops every recorded command.
func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	m.cmds = nil
	m.mu.Unlock()
	return nil
}

// Commands returns a copy of the recorded commands in publish order.
func (m *Memory) Commands() []model.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Command, len(m.cmds))
	copy(out, m.cmds)
	return out
}
