package di

import (
	"context"
	"fmt"
	"time"

	domrepo "PortfolioCore/internal/domain/repository"
	"PortfolioCore/internal/handler/api"
	internalrepo "PortfolioCore/internal/repository"
	"PortfolioCore/internal/service/rebalance"
	"PortfolioCore/internal/usecase"
	"PortfolioCore/pkg/cache"
	pkgch "PortfolioCore/pkg/clickhouse"
	"PortfolioCore/pkg/config"
	xhttp "PortfolioCore/pkg/http"
	pkgkafka "PortfolioCore/pkg/kafka"
	applogger "PortfolioCore/pkg/logger"
	"PortfolioCore/pkg/metrics"
	"PortfolioCore/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.price_points (symbol String, date Date, adj_close Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.dividends (symbol String, ex_date Date, amount Float64, inserted_at DateTime DEFAULT now()) ENGINE=MergeTree ORDER BY (symbol, ex_date)", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.holdings (symbol String, quantity Float64, price Float64, currency String, as_of DateTime) ENGINE=MergeTree ORDER BY (symbol, as_of)", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.target_allocations (symbol String, target_pct Float64, band_lower Float64, band_upper Float64) ENGINE=ReplacingMergeTree ORDER BY symbol", db),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideCache creates the cache backend selected in config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	newRedis := func() (*cache.RedisCache, error) {
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
	}

	switch cfg.Cache.Backend {
	case "redis":
		rc, err := newRedis()
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	case "layered":
		rc, err := newRedis()
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc), nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideHistorySource creates the ClickHouse history source.
func ProvideHistorySource(ch *pkgch.Client, l *applogger.Logger) domrepo.HistorySource {
	src := internalrepo.NewCHHistorySource(ch)
	src.SetLogger(l)
	return src
}

// ProvidePortfolioSource creates the ClickHouse portfolio source.
func ProvidePortfolioSource(ch *pkgch.Client, l *applogger.Logger) domrepo.PortfolioSource {
	src := internalrepo.NewCHPortfolioSource(ch)
	src.SetLogger(l)
	return src
}

// ProvidePublisher creates the Kafka recommendation publisher, or a no-op
// publisher when eventing is disabled.
func ProvidePublisher(cfg *config.Config) (domrepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic, cfg.Engine.PortfolioID), nil
}

// ProvideRebalanceEngine creates the rebalancing engine from config.
func ProvideRebalanceEngine(cfg *config.Config) *rebalance.Engine {
	return rebalance.NewEngine(rebalance.Config{
		BaseCurrency:   cfg.Engine.BaseCurrency,
		TradingFeeRate: cfg.Engine.TradingFeeRate,
		TaxRate:        cfg.Engine.TaxRate,
		MinTradeValue:  cfg.Engine.MinTradeValue,
	})
}

// ProvideMetricsAnalyzer creates the metrics usecase.
func ProvideMetricsAnalyzer(history domrepo.HistorySource, c cache.Service, m domrepo.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.MetricsAnalyzer {
	return usecase.NewMetricsAnalyzer(history, c, m, l.Named("metrics"), cfg.Cache.TTL)
}

// ProvideRebalancePlanner creates the rebalancing usecase.
func ProvideRebalancePlanner(engine *rebalance.Engine, portfolio domrepo.PortfolioSource, pub domrepo.Publisher, m domrepo.Metrics, l *applogger.Logger) *usecase.RebalancePlanner {
	return usecase.NewRebalancePlanner(engine, portfolio, pub, m, l.Named("rebalance"))
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(l *applogger.Logger, analyzer *usecase.MetricsAnalyzer, planner *usecase.RebalancePlanner) xhttp.Handler {
	return api.NewPortfolioHandler(l.Named("api"), analyzer, planner)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler, ch *pkgch.Client, pub domrepo.Publisher, c cache.Service) *server.App {
	return server.New(cfg, l, handler, ch, pub, c)
}
