package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	libredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ticket9ja/ticket9ja-backend/config"
)

// RateLimiter limits requests per client IP: 100 per minute. The counter
// lives in Redis when REDIS_ADDR is set so limits hold across replicas,
// otherwise in process memory.
func RateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  100,
	}

	var store limiter.Store
	if cfg.RedisAddr != "" {
		client := libredis.NewClient(&libredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		s, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "ticket9ja:ratelimit",
		})
		if err != nil {
			log.Printf("⚠️ Redis rate limit store unavailable, falling back to memory: %v", err)
			store = memory.NewStore()
		} else {
			log.Println("✅ Rate limiter backed by Redis")
			store = s
		}
	} else {
		store = memory.NewStore()
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
