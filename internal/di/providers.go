package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"MarketPulse/internal/aggregator"
	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/enhance"
	"MarketPulse/internal/handler/api"
	"MarketPulse/internal/notify"
	"MarketPulse/internal/provider"
	"MarketPulse/internal/report"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/research"
	"MarketPulse/internal/usecase"
	pkgcache "MarketPulse/pkg/cache"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/queue"
	"MarketPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus recorder on the default registry.
func ProvideMetrics() domrepo.Metrics {
	return metrics.NewRecorder(prometheus.DefaultRegisterer)
}

// ProvideFetchers builds the live provider adapters from config.
func ProvideFetchers(cfg *config.Config) provider.Set {
	series := provider.Config{
		BaseURL:    cfg.Providers.Series.BaseURL,
		APIKey:     cfg.Providers.Series.APIKey,
		Timeout:    cfg.Providers.Series.Timeout,
		RatePerMin: cfg.Providers.Series.RatePerMin,
	}
	quotes := provider.Config{
		BaseURL:    cfg.Providers.Quotes.BaseURL,
		APIKey:     cfg.Providers.Quotes.APIKey,
		Timeout:    cfg.Providers.Quotes.Timeout,
		RatePerMin: cfg.Providers.Quotes.RatePerMin,
	}
	crypto := provider.Config{
		BaseURL:    cfg.Providers.Crypto.BaseURL,
		Timeout:    cfg.Providers.Crypto.Timeout,
		RatePerMin: cfg.Providers.Crypto.RatePerMin,
	}
	sentiment := provider.Config{
		BaseURL:    cfg.Providers.Sentiment.BaseURL,
		Timeout:    cfg.Providers.Sentiment.Timeout,
		RatePerMin: cfg.Providers.Sentiment.RatePerMin,
	}

	return provider.Set{
		models.DomainMacro:       provider.NewMacroFetcher(series),
		models.DomainEquities:    provider.NewEquitiesFetcher(quotes),
		models.DomainFX:          provider.NewFXFetcher(quotes),
		models.DomainCommodities: provider.NewCommoditiesFetcher(quotes),
		models.DomainCrypto:      provider.NewCryptoFetcher(crypto),
		models.DomainSentiment:   provider.NewSentimentFetcher(sentiment),
	}
}

// ProvideFreshness builds the per-domain TTL cache from config.
func ProvideFreshness(cfg *config.Config) *aggregator.Freshness {
	return aggregator.NewFreshness(aggregator.TTLTable{
		models.DomainMacro:       cfg.Cache.MacroTTL,
		models.DomainEquities:    cfg.Cache.EquitiesTTL,
		models.DomainFX:          cfg.Cache.FXTTL,
		models.DomainCommodities: cfg.Cache.CommoditiesTTL,
		models.DomainCrypto:      cfg.Cache.CryptoTTL,
		models.DomainSentiment:   cfg.Cache.SentimentTTL,
	})
}

// ProvideAggregator wires fetchers, fallback and cache together.
func ProvideAggregator(
	fetchers provider.Set,
	fresh *aggregator.Freshness,
	m domrepo.Metrics,
	log *applogger.Logger,
) *aggregator.Aggregator {
	return aggregator.New(fetchers, provider.NewMock(), fresh, log, aggregator.WithMetrics(m))
}

// ProvideBuilder creates the report builder. Research lookups are wired
// only when a search endpoint is configured.
func ProvideBuilder(
	agg *aggregator.Aggregator,
	m domrepo.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *report.Builder {
	opts := []report.Option{report.WithMetrics(m)}
	if cfg.Research.SearchURL != "" {
		opts = append(opts, report.WithSearcher(
			research.NewClient(cfg.Research.SearchURL, cfg.Research.Timeout, cfg.Research.Limit)))
	}
	return report.NewBuilder(agg, log, opts...)
}

// ProvideEnhancer creates the LLM enhancement service.
func ProvideEnhancer(cfg *config.Config, m domrepo.Metrics, log *applogger.Logger) *enhance.Enhancer {
	registry := enhance.NewRegistry(enhance.Keys{
		OpenAI:        cfg.Enhance.OpenAIKey,
		Gemini:        cfg.Enhance.GeminiKey,
		Anthropic:     cfg.Enhance.AnthropicKey,
		OllamaBaseURL: cfg.Enhance.OllamaBaseURL,
	}, cfg.Enhance.Timeout)
	return enhance.NewEnhancer(registry, log, m, cfg.Enhance.Timeout)
}

// ProvideHub creates the dashboard websocket hub.
func ProvideHub(log *applogger.Logger) *notify.Hub {
	return notify.NewHub(log)
}

// ProvideRedisCache connects to Redis when enabled, nil otherwise.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithAddr(cfg.Redis.Addr),
		pkgcache.WithPassword(cfg.Redis.Password),
		pkgcache.WithDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideRenderedCache picks Redis for rendered report bytes when
// available, falling back to the in-process cache.
func ProvideRenderedCache(rc *pkgcache.RedisCache) pkgcache.Service {
	if rc != nil {
		return rc
	}
	return pkgcache.NewMemoryCache()
}

// ProvideClickHouseClient connects to ClickHouse when enabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideReportStore picks the ClickHouse archive when available,
// falling back to the in-memory store.
func ProvideReportStore(ch *pkgch.Client) (domrepo.ReportStore, error) {
	if ch == nil {
		return internalrepo.NewMemoryReportStore(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := internalrepo.NewCHReportStore(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("report store: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates the event producer when Kafka is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	return pkgkafka.NewProducer(
		pkgkafka.WithProducerBrokers(cfg.Kafka.Brokers),
	)
}

// ProvidePublisher wraps the producer into the domain event publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return internalrepo.NopPublisher{}
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideKafkaConsumer creates the refresh-command consumer when Kafka
// is enabled.
func ProvideKafkaConsumer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	return pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID),
	)
}

// ProvideJobQueue creates the async report worker pool when Redis is
// available.
func ProvideJobQueue(cfg *config.Config, rc *pkgcache.RedisCache, log *applogger.Logger) *queue.RedisQueue {
	if rc == nil {
		return nil
	}
	return queue.NewRedisQueue(log, &queue.Config{
		Workers:    cfg.Jobs.Workers,
		RetryLimit: cfg.Jobs.RetryLimit,
		RetryDelay: cfg.Jobs.RetryDelay,
	}, rc.Client())
}

// ProvideReportUsecase assembles the report lifecycle service.
func ProvideReportUsecase(
	builder *report.Builder,
	enhancer *enhance.Enhancer,
	store domrepo.ReportStore,
	events domrepo.Publisher,
	hub *notify.Hub,
	rendered pkgcache.Service,
	jobs *queue.RedisQueue,
	log *applogger.Logger,
) *usecase.ReportUsecase {
	opts := []usecase.ReportUsecaseOption{usecase.WithRenderedCache(rendered)}
	if jobs != nil {
		opts = append(opts, usecase.WithJobQueue(jobs))
	}
	return usecase.NewReportUsecase(builder, enhancer, store, events, hub, log, opts...)
}

// ProvideMarketUsecase assembles the snapshot service.
func ProvideMarketUsecase(agg *aggregator.Aggregator, log *applogger.Logger) *usecase.MarketUsecase {
	return usecase.NewMarketUsecase(agg, log)
}

// ProvideRouter assembles the HTTP API surface. Readiness probes cover
// the enabled infrastructure plus every provider that can report
// upstream reachability.
func ProvideRouter(
	cfg *config.Config,
	log *applogger.Logger,
	reports *usecase.ReportUsecase,
	market *usecase.MarketUsecase,
	hub *notify.Hub,
	fetchers provider.Set,
	rc *pkgcache.RedisCache,
	ch *pkgch.Client,
) *api.Router {
	checks := []api.HealthCheck{}
	if rc != nil {
		checks = append(checks, api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rc.Client().Ping(ctx).Err()
		}})
	}
	if ch != nil {
		checks = append(checks, api.HealthCheck{Name: "clickhouse", Check: ch.Health})
	}
	for domain, f := range fetchers {
		if hc, ok := f.(provider.HealthChecker); ok {
			checks = append(checks, api.HealthCheck{Name: "provider_" + string(domain), Check: hc.HealthCheck})
		}
	}

	return api.NewRouter(
		api.NewReportsEchoHandler(log, reports),
		api.NewMarketEchoHandler(log, market),
		api.NewStreamEchoHandler(log, hub),
		api.NewHealthEchoHandler(checks...),
	)
}

// ProvideHTTPServer creates the Echo server with routes registered.
func ProvideHTTPServer(cfg *config.Config, router *api.Router) *xhttp.Server {
	return xhttp.NewServer(router,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}

// ProvideApp assembles the application, registering workers and
// consumers before start.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	jobs *queue.RedisQueue,
	consumer *pkgkafka.Consumer,
	producer *pkgkafka.Producer,
	ch *pkgch.Client,
	hub *notify.Hub,
	reports *usecase.ReportUsecase,
	market *usecase.MarketUsecase,
) *server.App {
	opts := []server.AppOption{server.WithHub(hub)}
	if jobs != nil {
		jobs.RegisterJob(usecase.NewReportJob(reports, log))
		opts = append(opts, server.WithJobQueue(jobs))
	}
	if consumer != nil {
		consumer.RegisterHandler(usecase.NewRefreshHandler(cfg.Kafka.RefreshTopic, market, hub, log))
		opts = append(opts, server.WithConsumer(consumer))
	}
	if producer != nil {
		opts = append(opts, server.WithProducer(producer))
	}
	if ch != nil {
		opts = append(opts, server.WithClickHouse(ch))
	}
	return server.New(cfg, log, httpServer, opts...)
}
