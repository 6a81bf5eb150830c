package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"github.com/GoSim-25-26J-441/build-trigger/config"
	httpapi "github.com/GoSim-25-26J-441/build-trigger/internal/api/http"
	"github.com/GoSim-25-26J-441/build-trigger/internal/projects/repository"
	"github.com/GoSim-25-26J-441/build-trigger/internal/trigger"
)

// ProjectStore is the selected project backend plus what main needs to run it.
type ProjectStore struct {
	Store trigger.ProjectStore
	// Ping backs the health endpoint; nil when the backend has none.
	Ping  httpapi.PingFunc
	Close func()
}

// OpenProjectStore connects the backend named by cfg.Store.Backend. app is only
// used for the Firestore backend.
func OpenProjectStore(ctx context.Context, cfg *config.Config, app *firebase.App) (*ProjectStore, error) {
	switch cfg.Store.Backend {
	case config.StoreFirestore:
		if app == nil {
			return nil, fmt.Errorf("firestore store requires a firebase app")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		return &ProjectStore{
			Store: repository.NewFirestoreRepository(client, cfg.Store.Collection),
			Close: func() { _ = client.Close() },
		}, nil

	case config.StorePostgres:
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.DSN, MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, err
		}
		return &ProjectStore{
			Store: repository.NewProjectRepository(pool),
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil

	case config.StoreRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		repo := repository.NewRedisRepository(client)
		return &ProjectStore{
			Store: repo,
			Ping:  repo.Ping,
			Close: func() { _ = client.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown PROJECT_STORE %q", cfg.Store.Backend)
}
