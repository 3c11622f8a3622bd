package webhook

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// registers the webhook route with a redis-backed rate limit in front;
// per-chat flood limiting happens inside the handler
func RegisterRoutes(router *gin.Engine, secret string, client *redis.Client, guard Guard, bot UpdateHandler) error {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "aigram:limiter",
	})
	if err != nil {
		return err
	}

	rate, err := limiter.NewRateFromFormatted("600-M")
	if err != nil {
		return err
	}

	middleware := mgin.NewMiddleware(limiter.New(store, rate))

	router.POST("/telegram/webhook", middleware, Handler(secret, guard, bot))

	return nil
}
