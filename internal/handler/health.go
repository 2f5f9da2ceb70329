package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/infra"
	"github.com/nicoxroll/tecno-car-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// BreakerState reports the state of the LLM circuit breaker.
type BreakerState interface {
	State() infra.CBState
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// An open LLM breaker and pending dead letters are reported but do not fail
// the check.
func Health(db *gorm.DB, rdb *redis.Client, llm BreakerState) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if redisStatus == "connected" {
			var muertos int64
			for _, q := range []string{worker.QueueNotificaciones, worker.QueueEmail} {
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					muertos += n
				}
			}
			body["dead_letters"] = muertos
		}
		if llm != nil {
			body["llm"] = llm.State().String()
		}
		c.JSON(status, body)
	}
}
