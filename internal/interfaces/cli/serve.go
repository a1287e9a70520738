package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/config"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/database/redis"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/source"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/storage/minio"
	httpapi "github.com/turtacn/GrayZone-Monitor/internal/interfaces/http"
	"github.com/turtacn/GrayZone-Monitor/internal/interfaces/http/handlers"
	"github.com/turtacn/GrayZone-Monitor/internal/interfaces/http/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the refresh loop and the optional Kafka consumer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cc)
		},
	}
}

// service holds everything serve wires together.  Optional integrations
// stay nil when their section is not configured.
type service struct {
	cfg       *config.Config
	logger    logging.Logger
	collector prometheus.MetricsCollector
	metrics   *prometheus.GrayZoneMetrics
	composer  *viewmodel.Composer
	server    *httpapi.Server

	redis    *redis.Client
	minio    *minio.MinIOClient
	producer *kafka.Producer
	consumer *kafka.Consumer
	checks   []handlers.HealthChecker
}

func runServer(ctx context.Context, cc *CLIContext) error {
	svc, err := newService(ctx, cc.Config, cc.Logger)
	if err != nil {
		return err
	}
	defer svc.close()

	if cc.ConfigPath != "" {
		watchConfig(cc.ConfigPath, cc.Logger)
	}
	return svc.run(ctx)
}

func newService(ctx context.Context, cfg *config.Config, log logging.Logger) (*service, error) {
	s := &service{cfg: cfg, logger: log}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Monitoring.Namespace,
		EnableProcessMetrics: cfg.Monitoring.ProcessMetrics,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return nil, err
	}
	s.collector = collector
	s.metrics = prometheus.NewGrayZoneMetrics(collector)

	deps := viewmodel.Deps{Recorder: s.metrics, Logger: log}
	if deps.Zones, err = cfg.ZoneIndex(); err != nil {
		return nil, err
	}
	if deps.Hotspots, err = cfg.HotspotIndex(); err != nil {
		return nil, err
	}

	if err := s.openStore(); err != nil {
		s.close()
		return nil, err
	}
	var store minio.SnapshotStore
	if s.minio != nil {
		store = minio.NewSnapshotStore(s.minio, log)
	}
	if deps.Source, err = source.New(cfg.Source.Source(), store, log); err != nil {
		s.close()
		return nil, err
	}

	if cache := s.openCache(); cache != nil {
		deps.Cache = cache
	}
	if err := s.openKafka(ctx); err != nil {
		s.close()
		return nil, err
	}
	if s.producer != nil {
		deps.Publisher = s.producer
	}

	s.composer = viewmodel.NewComposer(deps, viewOptions(cfg))

	router := httpapi.NewRouter(httpapi.RouterConfig{
		ViewHandler:    handlers.NewViewHandler(s.composer, log),
		HealthHandler:  handlers.NewHealthHandler(Version, s.composer, s.checks...),
		Logger:         log,
		Logging:        middleware.DefaultLoggingConfig(),
		HTTPRecorder:   s.metrics,
		MetricsHandler: collector.Handler(),
		MetricsPath:    cfg.Monitoring.Path,
		CORSOrigins:    cfg.Server.CORSOrigins,
	})
	s.server = httpapi.NewServer(httpapi.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log)
	return s, nil
}

// openStore connects to MinIO.  A connection failure is fatal only when the
// snapshot source reads from MinIO.
func (s *service) openStore() error {
	client, _, err := openObjectStore(s.cfg, s.logger)
	if err != nil {
		if strings.EqualFold(s.cfg.Source.Kind, source.KindMinIO) {
			return err
		}
		s.logger.Warn("minio unavailable, continuing without it", logging.Err(err))
		return nil
	}
	if client == nil {
		return nil
	}
	s.minio = client
	s.checks = append(s.checks, handlers.NewCheck("minio", func(ctx context.Context) error {
		_, err := client.HealthCheck(ctx)
		return err
	}))
	return nil
}

// openCache connects to Redis.  The cache is best effort, so failures only
// disable it.
func (s *service) openCache() redis.ViewCache {
	if !s.cfg.Redis.Enabled() {
		return nil
	}
	client, err := redis.NewClient(&s.cfg.Redis, s.logger)
	if err != nil {
		s.logger.Warn("redis unavailable, view cache disabled", logging.Err(err))
		return nil
	}
	s.redis = client
	s.checks = append(s.checks, handlers.NewCheck("redis", client.Ping))
	return redis.NewViewCache(client, s.logger)
}

// openKafka creates the producer and, when snapshot notifications are
// consumed, the consumer.  The consumer is started in run.
func (s *service) openKafka(ctx context.Context) error {
	kc := s.cfg.Kafka
	if !kc.Enabled() {
		return nil
	}

	if kc.AutoCreateTopics {
		tm, err := kafka.NewTopicManager(kc.Brokers, s.logger)
		if err != nil {
			s.logger.Warn("kafka topic manager unavailable", logging.Err(err))
		} else {
			if err := tm.EnsureTopics(ctx, kafka.DefaultTopics()); err != nil {
				s.logger.Warn("failed to ensure kafka topics", logging.Err(err))
			}
			_ = tm.Close()
		}
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      kc.Brokers,
		WriteTimeout: kc.WriteTimeout,
		Security:     kc.Security,
	}, s.logger)
	if err != nil {
		return err
	}
	s.producer = producer

	if kc.ConsumeSnapshots {
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:         kc.Brokers,
			GroupID:         kc.GroupID,
			Topics:          []string{kafka.TopicSnapshotPublished},
			AutoOffsetReset: kc.AutoOffsetReset,
			Security:        kc.Security,
		}, s.logger)
		if err != nil {
			return err
		}
		s.consumer = consumer
	}
	return nil
}

// run warms the view, starts the loops and blocks until ctx is done or the
// HTTP server fails.
func (s *service) run(ctx context.Context) error {
	if s.cfg.Refresh.WarmFromCache {
		if _, err := s.composer.LoadCached(ctx); err != nil {
			s.logger.Warn("failed to warm view from cache", logging.Err(err))
		}
	}
	if s.cfg.Refresh.OnStart {
		// The error is already recorded in the refresh state.
		_, _ = s.composer.Refresh(ctx)
	}

	if s.consumer != nil {
		s.consumer.Subscribe(kafka.TopicSnapshotPublished, s.composer.HandleSnapshotPublished)
		if err := s.consumer.Start(ctx); err != nil {
			return err
		}
	}

	s.logger.Info("grayzone monitor starting",
		logging.String("version", Version),
		logging.String("addr", s.cfg.Server.Addr()),
		logging.String("source", s.composer.State().Source),
		logging.Duration("refresh_interval", s.cfg.Refresh.Interval),
		logging.Bool("redis", s.redis != nil),
		logging.Bool("kafka", s.producer != nil),
		logging.Bool("minio", s.minio != nil))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.composer.RefreshLoop(gctx, s.cfg.Refresh.Interval)
		return nil
	})
	g.Go(func() error {
		return s.server.ListenAndServe(gctx)
	})
	return g.Wait()
}

func (s *service) close() {
	if s.consumer != nil {
		if err := s.consumer.Close(); err != nil {
			s.logger.Warn("kafka consumer close failed", logging.Err(err))
		}
	}
	if s.producer != nil {
		if err := s.producer.Close(); err != nil {
			s.logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.minio != nil {
		_ = s.minio.Close()
	}
	_ = s.logger.Sync()
}

// watchConfig logs configuration file edits.  Settings are read once at
// startup, so a change takes effect on restart.
func watchConfig(path string, log logging.Logger) {
	err := config.Watch(path,
		func(cfg *config.Config) {
			log.Info("configuration file changed, restart to apply",
				logging.String("path", path),
				logging.String("source_kind", cfg.Source.Kind),
				logging.Duration("refresh_interval", cfg.Refresh.Interval))
		},
		func(err error) {
			log.Warn("configuration file changed but is invalid", logging.String("path", path), logging.Err(err))
		})
	if err != nil {
		log.Warn("config watch unavailable", logging.String("path", path), logging.Err(err))
	}
}

//Personal.AI order the ending
