// Package app builds the objects shared by every entrypoint. Deps is created
// once in main and handed to the web server, the console or the worker.
package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Domenick1991/dummydata/config"
	"github.com/Domenick1991/dummydata/internal/auth"
	"github.com/Domenick1991/dummydata/internal/cache"
	"github.com/Domenick1991/dummydata/internal/catalog"
	"github.com/Domenick1991/dummydata/internal/database"
	"github.com/Domenick1991/dummydata/internal/generator"
	"github.com/Domenick1991/dummydata/internal/kafka"
	"github.com/Domenick1991/dummydata/internal/repository"
	"github.com/Domenick1991/dummydata/internal/service/dummy"
	"github.com/Domenick1991/dummydata/internal/service/schema"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	DB      *sql.DB
	Dialect database.Dialect

	Dummy  *dummy.DummyService
	Schema *schema.SchemaService

	closers []func() error
}

// New opens the database and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Deps, error) {
	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	d := &Deps{Config: cfg, Log: log, DB: db, Dialect: dialect}
	d.closers = append(d.closers, db.Close)

	faker := gofakeit.New(cfg.Dummy.Seed)
	registry := generator.NewRegistry(
		generator.NewBookingsTable(generator.NewBookingGenerator(faker, cfg.Dummy.Bookings, cfg.Dummy.MaxDrawAttempts)),
	)
	records := repository.NewRecordRepository(db, dialect, cfg.Dummy.InsertBatchSize)

	opts := []dummy.DummyServiceOption{
		dummy.WithLogger(log),
		dummy.WithMaxBatch(cfg.Dummy.MaxBatch),
	}
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.GenerationTopic != "" {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log, kafka.WithAttempts(cfg.Kafka.PublishAttempts))
		if err := producer.CheckConnection(ctx); err != nil {
			log.Warn("kafka is not reachable, generation events may be lost", zap.Error(err))
		}
		d.closers = append(d.closers, producer.Close)
		opts = append(opts, dummy.WithEvents(producer, cfg.Kafka.GenerationTopic))
	}
	d.Dummy = dummy.NewDummyService(registry, records, opts...)

	d.Schema = schema.NewSchemaService(
		catalog.New(db, dialect),
		dialect,
		cfg.Database.Schema,
		schema.WithViewSources(cfg.Schema.ViewSources),
		schema.WithConnectionInfo(cfg.Database.RedactedDSN()),
		schema.WithLogger(log),
	)
	return d, nil
}

// Authenticator builds the login service. Sessions live in redis when an
// address is configured, otherwise in process memory.
func (d *Deps) Authenticator(ctx context.Context) (*auth.Authenticator, error) {
	var sessions cache.SessionStore
	if d.Config.Redis.Addr != "" {
		rc := cache.NewRedisCache(d.Config.Redis)
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		d.closers = append(d.closers, rc.Close)
		sessions = rc
	} else {
		d.Log.Warn("redis.addr is empty, sessions are kept in memory")
		sessions = cache.NewMemoryCache()
	}

	authCfg := d.Config.Auth
	if authCfg.JWTSecret == "" {
		d.Log.Warn("auth.jwt_secret is empty, using a random secret; sessions will not survive a restart")
		authCfg.JWTSecret = uuid.NewString()
	}
	if len(authCfg.Users) == 0 {
		d.Log.Warn("no auth.users configured, nobody can log in")
	}
	return auth.NewAuthenticator(authCfg, sessions), nil
}

// Close releases everything New and Authenticator opened, in reverse order.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
