package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"cityinfo/internal/archive"
	"cityinfo/internal/cityinfo"
	"cityinfo/internal/env"
	"cityinfo/internal/metrics"
	"cityinfo/internal/service"
	"cityinfo/internal/storage"
	"cityinfo/internal/synth"
	"cityinfo/internal/worker"
	"cityinfo/pkg/graceful"
	"cityinfo/pkg/kafkaclient"
	"cityinfo/pkg/logger"
)

func main() {
	env.LoadEnv()
	cfg := env.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	if !cfg.Kafka.Enabled() {
		slog.Error("KAFKA_BROKERS, CITY_REQUESTS_TOPIC and KAFKA_GROUP_ID must be set")
		os.Exit(1)
	}
	slog.Info("connecting to kafka",
		"brokers", cfg.Kafka.Brokers,
		"requests_topic", cfg.Kafka.RequestsTopic,
		"profiles_topic", cfg.Kafka.ProfilesTopic,
		"group_id", cfg.Kafka.GroupID,
	)

	m := metrics.New()
	shutdownMetrics := m.StartServer(cfg.Metrics, logger.WithComponent("metrics"))

	log := logger.WithComponent("worker")
	workflow := cityinfo.NewWorkflow(
		cityinfo.NewSources(cfg, log),
		synth.New(cityinfo.NewGenerator(ctx, cfg, log), log),
		cityinfo.WithLogger(log),
		cityinfo.WithObserver(m.ObserveStage),
	)

	producer := kafkaclient.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.ProfilesTopic, log)
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Warn("failed to close producer", "error", err)
		}
	}()

	opts := []worker.Option{worker.WithLogger(log), worker.WithMetrics(m)}

	if cfg.MinIO.Enabled() {
		s3Service, err := storage.NewS3Service(cfg.MinIO, log)
		if err != nil {
			slog.Error("failed to create object storage", "error", err)
			os.Exit(1)
		}
		if _, err := s3Service.CreateBucket(ctx, "us-east-1"); err != nil {
			slog.Error("failed to ensure bucket", "bucket", cfg.MinIO.Bucket, "error", err)
			os.Exit(1)
		}
		opts = append(opts, worker.WithObjectStore(s3Service))
	}

	if cfg.DBURL != "" {
		pool, err := archive.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo := archive.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare database", "error", err)
			os.Exit(1)
		}
		opts = append(opts, worker.WithRunRecorder(repo))
	}

	consumer := kafkaclient.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.RequestsTopic, cfg.Kafka.GroupID, log)
	consumer.StartConsuming(ctx)

	iterator := service.NewIterator(consumer, service.JSON[cityinfo.Request](), log)
	worker.New(workflow, producer, opts...).Run(ctx, iterator.Objects(ctx))

	consumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdownMetrics(shutdownCtx); err != nil {
		slog.Warn("metrics server shutdown", "error", err)
	}
	slog.Info("worker finished, application exiting")
}
