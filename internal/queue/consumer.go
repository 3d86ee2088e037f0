// Package queue contains the consumer that drains the AMQP command mirror
// and appends each command to a local command file, for a simulation that
// runs on a different host from the booking engine.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-booking-engine/internal/channel"
	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// ConsumerConfig tells the consumer where to read from and write to.
type ConsumerConfig struct {
	URL         string // broker URL
	Queue       string // durable queue the engine mirrors into
	CommandFile string // local file the simulation reads
}

// StartCommandConsumer connects to RabbitMQ, declares the queue (durable)
// and relays deliveries into the command file until ctx is cancelled.  It
// runs a reconnect loop with exponential backoff capped at 30s.  Malformed
// messages are logged and rejected without requeue so one bad message
// cannot stall the relay; messages that fail to be written are requeued
// after a growing delay.  The QoS prefetch is 1 so deliveries are
// written strictly in queue order.
func StartCommandConsumer(ctx context.Context, cfg ConsumerConfig, log *slog.Logger) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn("command-consumer: failed to dial broker", "err", err, "retry_in", backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, cfg, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("command-consumer: consume loop ended; reconnecting", "err", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, log *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(1, 0, false); err != nil {
		log.Warn("command-consumer: set QoS failed", "err", err)
	}

	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	var retry writeRetry
	for d := range msgs {
		cmd, err := HandleMessage(d.Body, cfg.CommandFile)
		switch {
		case err == nil:
			retry.reset()
			log.Info("command relayed", "command", cmd.Line())
			_ = d.Ack(false)
		case errors.Is(err, errWrite):
			// the message is fine, the disk is not; hold it back before
			// requeueing so a persistent fault does not spin
			wait := retry.next()
			log.Error("command-consumer: write failed; requeueing", "err", err, "retry_in", wait)
			if !sleepCtx(ctx, wait) {
				_ = d.Nack(false, true)
				return ctx.Err()
			}
			_ = d.Nack(false, true)
		default:
			log.Error("command-consumer: dropping malformed message", "err", err, "body", string(d.Body))
			_ = d.Nack(false, false)
		}
	}
	return errors.New("deliveries channel closed")
}

var errWrite = errors.New("write command file")

const (
	minWriteRetry = 500 * time.Millisecond
	maxWriteRetry = 30 * time.Second
)

// writeRetry is the delay before requeueing a message whose append
// failed.  It doubles per consecutive failure up to maxWriteRetry and
// starts over after a successful write.
type writeRetry struct{ last time.Duration }

func (w *writeRetry) next() time.Duration {
	switch {
	case w.last == 0:
		w.last = minWriteRetry
	case w.last < maxWriteRetry:
		w.last = min(2*w.last, maxWriteRetry)
	}
	return w.last
}

func (w *writeRetry) reset() { w.last = 0 }

// HandleMessage validates one delivery body and appends it to path in
// canonical wire form.
func HandleMessage(body []byte, path string) (model.Command, error) {
	cmd, err := model.ParseCommand(strings.TrimSpace(string(body)))
	if err != nil {
		return model.Command{}, err
	}
	if err := channel.AppendLine(path, cmd.Line()); err != nil {
		return model.Command{}, fmt.Errorf("%w: %w", errWrite, err)
	}
	return cmd, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
