// Command commandsink relays the AMQP command mirror into a local command
// file, so the simulation can run on a different host from the booking
// engine and still read the plain "op theater row col category" format.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/iliyamo/cinema-booking-engine/internal/channel"
	"github.com/iliyamo/cinema-booking-engine/internal/config"
	"github.com/iliyamo/cinema-booking-engine/internal/queue"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "commandsink: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	cfg := queue.ConsumerConfig{URL: config.AMQPURL()}
	var keep bool
	flagSet := pflag.NewFlagSet("commandsink", pflag.ContinueOnError)
	flagSet.StringVarP(&cfg.Queue, "queue", "q", envOr("COMMAND_QUEUE", "cinema.commands"), "queue to consume")
	flagSet.StringVarP(&cfg.CommandFile, "out", "o", envOr("COMMAND_FILE", "commands.txt"), "command file to append to")
	flagSet.BoolVar(&keep, "keep", false, "do not truncate the command file at start")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "commandsink")

	if !keep {
		if _, err := channel.OpenFile(cfg.CommandFile); err != nil {
			return fmt.Errorf("truncate command file: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("relaying", "queue", cfg.Queue, "out", cfg.CommandFile)
	if err := queue.StartCommandConsumer(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
