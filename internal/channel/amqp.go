package channel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// AMQPMirror publishes every command line to a durable RabbitMQ queue.
// The connection is opened lazily and reopened after any failure, so a
// broker outage costs one failed Publish per attempt rather than a dead
// mirror for the rest of the run.
type AMQPMirror struct {
	url   string
	queue string
	log   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPMirror returns a mirror for queue on the broker at url.  No
// connection is made until the first Publish.
func NewAMQPMirror(url, queue string, log *slog.Logger) *AMQPMirror {
	if log == nil {
		log = slog.Default()
	}
	return &AMQPMirror{url: url, queue: queue, log: log}
}

// dialTimeout bounds connection setup when ctx carries no deadline.  It
// matches the library's own default.
const dialTimeout = 30 * time.Second

// dialBudget returns how long a dial may take under ctx.
func dialBudget(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d := dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		d = min(d, left)
	}
	return d, nil
}

// channel returns the open channel, dialing first if needed.  The TCP
// connect and the AMQP handshake both finish before ctx expires.
func (m *AMQPMirror) channel(ctx context.Context) (*amqp.Channel, error) {
	if m.ch != nil && !m.ch.IsClosed() {
		return m.ch, nil
	}
	m.closeLocked()
	budget, err := dialBudget(ctx)
	if err != nil {
		return nil, fmt.Errorf("amqp mirror: dial: %w", err)
	}
	conn, err := amqp.DialConfig(m.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(budget),
	})
	if err != nil {
		return nil, fmt.Errorf("amqp mirror: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp mirror: channel open: %w", err)
	}
	// durable so queued commands survive a broker restart
	if _, err := ch.QueueDeclare(m.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp mirror: queue declare: %w", err)
	}
	m.conn, m.ch = conn, ch
	m.log.Info("amqp mirror connected", "queue", m.queue)
	return ch, nil
}

// Publish implements Publisher.
func (m *AMQPMirror) Publish(ctx context.Context, cmd model.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, err := m.channel(ctx)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "text/plain",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         cmd.Op.String(),
		Body:         []byte(cmd.Line()),
	}
	if err := ch.PublishWithContext(ctx, "", m.queue, false, false, pub); err != nil {
		m.closeLocked()
		return fmt.Errorf("amqp mirror: publish: %w", err)
	}
	return nil
}

// Reset purges the queue of commands left over from a previous run.
func (m *AMQPMirror) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, err := m.channel(ctx)
	if err != nil {
		return err
	}
	if _, err := ch.QueuePurge(m.queue, false); err != nil {
		m.closeLocked()
		return fmt.Errorf("amqp mirror: purge: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (m *AMQPMirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	return nil
}

func (m *AMQPMirror) closeLocked() {
	if m.ch != nil {
		_ = m.ch.Close()
		m.ch = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}
