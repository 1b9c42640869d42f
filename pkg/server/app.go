package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MarketPulse/internal/notify"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/queue"
)

// App encapsulates the application lifecycle. Every infrastructure
// component is optional; what is nil is simply skipped.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	jobs       *queue.RedisQueue
	consumer   *pkgkafka.Consumer
	producer   *pkgkafka.Producer
	chClient   *pkgch.Client
	hub        *notify.Hub
}

// AppOption configures App.
type AppOption func(*App)

// WithJobQueue attaches the async report worker pool.
func WithJobQueue(q *queue.RedisQueue) AppOption {
	return func(a *App) { a.jobs = q }
}

// WithConsumer attaches the Kafka refresh-command consumer.
func WithConsumer(c *pkgkafka.Consumer) AppOption {
	return func(a *App) { a.consumer = c }
}

// WithProducer attaches the Kafka event producer for shutdown.
func WithProducer(p *pkgkafka.Producer) AppOption {
	return func(a *App) { a.producer = p }
}

// WithClickHouse attaches the report archive client for shutdown.
func WithClickHouse(ch *pkgch.Client) AppOption {
	return func(a *App) { a.chClient = ch }
}

// WithHub attaches the dashboard event hub for shutdown.
func WithHub(h *notify.Hub) AppOption {
	return func(a *App) { a.hub = h }
}

// New creates an App around a configured HTTP server.
func New(cfg *config.Config, log *applogger.Logger, httpServer *xhttp.Server, opts ...AppOption) *App {
	a := &App{cfg: cfg, log: log, httpServer: httpServer}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every component and blocks until interrupted.
func (a *App) Run() error {
	if a.jobs != nil {
		if err := a.jobs.Start(); err != nil {
			return err
		}
	}

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started")
	}

	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.log.Info("server started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.jobs != nil {
		if err := a.jobs.Stop(ctx); err != nil {
			a.log.Warn("queue stop error", applogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.hub != nil {
		a.hub.Close()
	}

	a.log.Info("shutdown complete")
	return nil
}
