package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking-engine/internal/channel"
	"github.com/iliyamo/cinema-booking-engine/internal/config"
	"github.com/iliyamo/cinema-booking-engine/internal/database"
	"github.com/iliyamo/cinema-booking-engine/internal/engine"
	"github.com/iliyamo/cinema-booking-engine/internal/handler"
	"github.com/iliyamo/cinema-booking-engine/internal/repository"
	"github.com/iliyamo/cinema-booking-engine/internal/router"
)

func main() {
	_ = godotenv.Load() // Load .env if present, ignore error
	cfg := config.Load()
	log := newLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting, response cache and redis mirror disabled")
	} else {
		defer rdb.Close()
	}

	pub, closeChannel, err := openChannel(ctx, cfg, rdb, log)
	if err != nil {
		log.Error("open command channel", "err", err)
		os.Exit(1)
	}
	defer closeChannel()

	eng, err := engine.New(engine.Options{
		Theaters:       cfg.Theaters,
		Rows:           cfg.Rows,
		Cols:           cfg.Cols,
		Channel:        pub,
		SettleDelay:    cfg.SettleDelay,
		PublishTimeout: cfg.PublishTimeout,
		Logger:         log.With("component", "engine"),
	})
	if err != nil {
		log.Error("create engine", "err", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.RegisterRoutes(e, handler.New(eng), router.Deps{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env,
		"theaters", cfg.Theaters, "rows", cfg.Rows, "cols", cfg.Cols,
		"command_file", cfg.CommandFile, "settle_delay", cfg.SettleDelay,
		"auth", cfg.JWTSecret != "")

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
}

func newLogger(env string) *slog.Logger {
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openChannel truncates the command file and resets every enabled mirror,
// then returns them combined.  The file is mandatory; a mirror that
// cannot be reached at startup is skipped with a warning.
func openChannel(ctx context.Context, cfg config.Config, rdb *redis.Client, log *slog.Logger) (channel.Publisher, func(), error) {
	fc, err := channel.OpenFile(cfg.CommandFile)
	if err != nil {
		return nil, nil, err
	}
	fan := &channel.Fanout{Primary: fc}
	var closers []func()

	if cfg.RedisMirror {
		if rdb == nil {
			log.Warn("redis command mirror enabled but redis is unavailable")
		} else {
			fan.Mirrors = append(fan.Mirrors, channel.NewRedisList(rdb, cfg.RedisKey))
		}
	}
	if cfg.AMQPMirror {
		m := channel.NewAMQPMirror(cfg.AMQPURL, cfg.AMQPQueue, log.With("component", "amqp-mirror"))
		fan.Mirrors = append(fan.Mirrors, m)
		closers = append(closers, func() { _ = m.Close() })
	}
	if cfg.MySQLMirror {
		repo, db, err := openCommandLog(ctx, cfg)
		if err != nil {
			log.Warn("mysql command mirror disabled", "err", err)
		} else {
			fan.Mirrors = append(fan.Mirrors, repo)
			closers = append(closers, func() { _ = db.Close() })
		}
	}

	kept := fan.Mirrors[:0]
	for _, m := range fan.Mirrors {
		if r, ok := m.(channel.Resetter); ok {
			if err := r.Reset(ctx); err != nil {
				log.Warn("command mirror reset failed; mirror disabled", "err", err)
				continue
			}
		}
		kept = append(kept, m)
	}
	fan.Mirrors = kept
	log.Info("command channel ready", "file", fc.Path(), "mirrors", len(fan.Mirrors))

	return fan, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func openCommandLog(ctx context.Context, cfg config.Config) (*repository.CommandLogRepo, *sql.DB, error) {
	db, err := database.Open(cfg, 5*time.Second)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewCommandLogRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}
