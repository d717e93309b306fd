package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/cloudinary"
	"hotel_booking/internal/adapters/events"
	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/adapters/stripe"
	"hotel_booking/internal/app"
	"hotel_booking/internal/auth"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage/memory"
	mongorepo "hotel_booking/internal/storage/mongo"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

type store interface {
	domain.UserRepository
	domain.HotelRepository
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	shutdownTracing, err := observability.InitTracing(ctx, cfg.OTLPEndpoint, "hotel-booking-api", cfg.AppEnv)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing init failed")
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("storage init failed")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.StoreDriver).Msg("storage ready")

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, cache misses will hit storage")
		}
		cache = rc
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, "")
	if err != nil {
		log.Fatal().Err(err).Msg("token manager init failed")
	}
	payments, err := stripe.New(cfg.StripeBase, cfg.StripeKey, cfg.StripeRPS, cfg.StripeMaxAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("stripe client init failed")
	}
	uploader, err := cloudinary.New(cfg.CloudinaryBase, cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret, 10)
	if err != nil {
		log.Fatal().Err(err).Msg("cloudinary client init failed")
	}

	var publisher domain.EventPublisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("amqp dial failed")
		}
		defer p.Close()
		publisher = p
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	// http
	srv := server.New(server.Options{AllowedOrigins: cfg.Origins()})
	srv.MountHandlers(&server.Handlers{
		Accounts:      app.NewAccountService(repo, auth.NewHasher(), tokens),
		Queries:       q,
		Bookings:      app.NewBookingService(repo, payments, publisher, q),
		MyHotels:      app.NewMyHotelsService(repo, uploader, publisher, q),
		Sessions:      tokens,
		Ready:         repo.Ping,
		SecureCookies: cfg.Prod(),
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	if cfg.StaticDir != "" {
		srv.MountStatic(cfg.StaticDir)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg shared.Config) (store, func(), error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, repo, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil
	case "memory":
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
