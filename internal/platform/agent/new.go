package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

// New selects the backend named by cfg.Mode and wraps it with the redis
// cache when rdb is non-nil.
func New(ctx context.Context, log *logger.Logger, cfg Config, rdb redis.UniversalClient) (Agent, error) {
	var (
		a   Agent
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", "off", "disabled":
		return Disabled(), nil
	case "http":
		a, err = NewHTTP(log, cfg)
	case "llm":
		a, err = NewLLM(ctx, log, cfg)
	default:
		return nil, fmt.Errorf("unknown AGENT_MODE %q", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}
	return WithCache(a, rdb, cfg.CacheTTL, log), nil
}
