package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Pinger covers the TTL store implementations.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	pool  *pgxpool.Pool
	cache Pinger
}

func NewHealthHandler(pool *pgxpool.Pool, cache Pinger) *HealthHandler {
	return &HealthHandler{pool: pool, cache: cache}
}

func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "connected"
	cacheStatus := "connected"

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		if err := h.pool.Ping(ctx); err != nil {
			dbStatus = "disconnected"
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "disconnected"
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": dbStatus,
			"cache":    cacheStatus,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
