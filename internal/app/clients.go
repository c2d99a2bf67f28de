package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/applytrack-backend/internal/platform/agent"
	"github.com/yungbote/applytrack-backend/internal/platform/gcp"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

// Clients holds the optional external collaborators. Any of them may be nil
// when its configuration is absent.
type Clients struct {
	Redis     redis.UniversalClient
	Bucket    gcp.Bucket
	Extractor gcp.TextExtractor
	Agent     agent.Agent
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	// Redis
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unreachable, agent cache disabled", "addr", cfg.RedisAddr, "error", err)
			_ = rdb.Close()
		} else {
			c.Redis = rdb
		}
	}

	// GCS
	if cfg.Bucket.Name != "" {
		b, err := gcp.NewBucket(ctx, log, cfg.Bucket)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init bucket client: %w", err)
		}
		c.Bucket = b
	} else {
		log.Warn("GCS_BUCKET_NAME not set, uploads disabled")
	}

	// Document AI
	if cfg.Document.Configured() {
		d, err := gcp.NewDocumentExtractor(ctx, log, cfg.Document)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init document client: %w", err)
		}
		c.Extractor = d
	}

	// Agent
	ag, err := agent.New(ctx, log, cfg.Agent, c.Redis)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init agent: %w", err)
	}
	c.Agent = ag

	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Extractor != nil {
		_ = c.Extractor.Close()
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
