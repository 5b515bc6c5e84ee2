package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"newsfeed-service/internal/adapter/cache"
	domain "newsfeed-service/internal/domain/user"
	"newsfeed-service/internal/usecase/user"
)

// UserRepository implements user.Repository with caching support.
// It wraps a persistent repository and a cache implementation; every
// authenticated request resolves the caller by ID, which is the hot
// path this decorator serves.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the persistent repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID retrieves a user by ID using the Cache-Aside pattern.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.Int64("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.Int64("id", id))
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// GetByEmail delegates to the persistent repository.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// ReplacePreferences updates the topic list and invalidates the cache.
func (r *UserRepository) ReplacePreferences(ctx context.Context, id int64, preferences []string) error {
	if err := r.dbRepo.ReplacePreferences(ctx, id, preferences); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}
