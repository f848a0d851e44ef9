package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"auth_backend/internal/feature/auth/adapters"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/cache"
)

// userCacheTTL bounds staleness of cached user lookups. Writes invalidate
// eagerly, so the TTL only covers entries orphaned by failed deletes.
const userCacheTTL = 5 * time.Minute

// NewUserRepository creates the UserRepository implementation.
// If Redis is available, FindByID lookups are served through the cache
// decorator. Otherwise the plain MySQL repository is returned.
func NewUserRepository(rdb *redis.Client, db *gorm.DB) usecase.UserRepository {
	repo := adapters.NewUserMySQL(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingUserRepository(rdb, userCacheTTL, repo, "users")
}
