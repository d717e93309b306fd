package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/events"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/auth"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	mongorepo "hotel_booking/internal/storage/mongo"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

type store interface {
	domain.UserRepository
	domain.HotelRepository
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Str("driver", cfg.StoreDriver).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	hotels, err := readSeed(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}
	defer closeStore()

	ownerID, err := seedOwner(ctx, repo, cfg.SeedOwnerEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("seed owner failed")
	}

	svc := app.NewMyHotelsService(repo, nil, events.Noop{}, nil)
	sem := semaphore.NewWeighted(int64(max(cfg.SeedWorkers, 1)))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for i, in := range hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(i int, in app.HotelInput) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := svc.Import(ctx, ownerID, in)
			if err != nil {
				failed.Add(1)
				log.Warn().Int("index", i).Str("name", in.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("id", h.ID).Str("name", h.Name).Msg("seed ok")
		}(i, in)
	}

	wg.Wait()
	log.Info().Int("hotels", len(hotels)).Int64("failed", failed.Load()).Msg("seeding completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func readSeed(path string) ([]app.HotelInput, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var hs []app.HotelInput
	if err := json.Unmarshal(b, &hs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return hs, nil
}

// seedOwner returns the id of the account seeded hotels belong to, creating it
// with an unguessable password the first time.
func seedOwner(ctx context.Context, repo store, email string) (string, error) {
	u, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	tokens, err := auth.NewTokenManager(uuid.NewString(), "")
	if err != nil {
		return "", err
	}
	accounts := app.NewAccountService(repo, auth.NewHasher(), tokens)
	u, _, err = accounts.Register(ctx, app.RegisterInput{
		FirstName: "Seed",
		LastName:  "Owner",
		Email:     email,
		Password:  uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	log.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("seed owner created")
	return u.ID, nil
}

func openStore(ctx context.Context, cfg shared.Config) (store, func(), error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, repo, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("seeder needs a persistent STORE_DRIVER, got %q", cfg.StoreDriver)
	}
}
