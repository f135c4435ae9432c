package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/cache"
	"github.com/oggyb/matcha/internal/config"
	"github.com/oggyb/matcha/internal/repository"
	"github.com/oggyb/matcha/internal/service/discovery"
	"github.com/oggyb/matcha/internal/service/relationship"
)

// AppContext holds shared dependencies (config, DB, Redis, logger) and the
// domain engines built on top of them.
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger

	Profiles      *repository.ProfileRepository
	Discovery     *discovery.Engine
	Relationships *relationship.Service
}

// New creates a new AppContext. Lifecycle of db and rdb stays with the caller.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	var locker relationship.Locker
	if rdb != nil {
		locker = rdb
	}
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,

		Profiles: repository.NewProfileRepository(db),
		Discovery: discovery.NewGormEngine(db, discovery.Config{
			SuggestRadiusKm: cfg.Discovery.SuggestRadiusKm,
		}, logger),
		Relationships: relationship.NewGormService(db, locker, logger),
	}
}
