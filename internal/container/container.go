package container

import (
	"context"
	"fmt"
	"path/filepath"

	"poetrade/scraper/internal/client"
	"poetrade/scraper/internal/config"
	"poetrade/scraper/internal/progress"
	"poetrade/scraper/internal/repository"
	"poetrade/scraper/internal/service"
	"poetrade/scraper/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.TradeClient
	Store      progress.Store
	Repository repository.ItemRepository

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	if err := storage.EnsureDir(cfg.Output.Dir); err != nil {
		return nil, err
	}

	tradeClient := client.NewTradeClient(cfg.Trade)
	container.Client = tradeClient

	store, err := container.initProgressStore(cfg)
	if err != nil {
		return nil, err
	}
	container.Store = store

	repo, err := container.initRepository(cfg)
	if err != nil {
		return nil, err
	}
	container.Repository = repo

	container.Service = service.NewService(tradeClient, store, repo, cfg)
	return container, nil
}

func (c *Container) initProgressStore(cfg *config.Config) (progress.Store, error) {
	switch cfg.Progress.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")
		c.redis = rdb
		return progress.NewRedisStore(rdb, cfg.Redis.KeyPrefix), nil
	default:
		path := filepath.Join(cfg.Output.Dir, cfg.Output.ProgressFile)
		return progress.NewFileStore(path), nil
	}
}

func (c *Container) initRepository(cfg *config.Config) (repository.ItemRepository, error) {
	if !cfg.Database.Enabled {
		return repository.NoopRepository{}, nil
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("✅ Connected to Postgres successfully")
	c.db = db
	return repository.NewItemRepository(db), nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
