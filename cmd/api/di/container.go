package di

import (
	"fmt"
	"time"

	"newsfeed-service/cmd/api/infrastructure"
	"newsfeed-service/internal/adapter/cache"
	"newsfeed-service/internal/adapter/db/gormdb"
	"newsfeed-service/internal/adapter/db/jsonfile"
	ginhandler "newsfeed-service/internal/adapter/gin/handler"
	"newsfeed-service/internal/adapter/newsapi"
	"newsfeed-service/internal/adapter/repository/cached"
	"newsfeed-service/internal/config"
	"newsfeed-service/internal/usecase/news"
	"newsfeed-service/internal/usecase/user"
	redisclient "newsfeed-service/pkg/redis"
	"newsfeed-service/pkg/security"
	"newsfeed-service/pkg/token"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Tokens      *token.Manager
	UserUC      user.Usecase
	NewsUC      news.Usecase
	AccountH    *ginhandler.AccountHandler
	PrefsH      *ginhandler.PreferencesHandler
	NewsH       *ginhandler.NewsHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	// Initialize the user repository for the configured backend
	var repo user.Repository
	if cfg.DB.Driver == "jsonfile" {
		fileRepo, err := jsonfile.New(cfg.DB.Path, l)
		if err != nil {
			return nil, fmt.Errorf("failed to open user file store: %w", err)
		}
		repo = fileRepo
	} else {
		db, err := infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		repo = gormdb.NewUserRepo(db, l)
	}

	// Optional Redis cache in front of the repository
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewUserRepository(repo, userCache, l)
	}

	// Credential primitives
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	c.Tokens = token.NewManager(
		[]byte(cfg.Auth.JWTSecret),
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	// Upstream news provider
	provider := newsapi.NewClient(newsapi.Config{
		BaseURL: cfg.News.BaseURL,
		APIKey:  cfg.News.APIKey,
		Timeout: time.Duration(cfg.News.TimeoutSeconds) * time.Second,
	}, l)

	// Use cases
	c.UserUC = user.New(repo, hasher, c.Tokens, l)
	c.NewsUC = news.New(repo, provider, cfg.News.Country, l)

	// Gin handlers
	c.AccountH = ginhandler.NewAccountHandler(c.UserUC, l)
	c.PrefsH = ginhandler.NewPreferencesHandler(c.UserUC, l)
	c.NewsH = ginhandler.NewNewsHandler(c.NewsUC, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
