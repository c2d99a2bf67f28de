package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

const cachePrefix = "applytrack:agent:"

// cached memoizes the deterministic analysis calls in redis. Everything
// else passes through to the wrapped agent.
type cached struct {
	Agent
	log *logger.Logger
	rdb redis.UniversalClient
	ttl time.Duration
}

// WithCache wraps next with a redis cache. A nil client disables caching.
func WithCache(next Agent, rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) Agent {
	if rdb == nil || ttl <= 0 {
		return next
	}
	if log == nil {
		log = logger.Nop()
	}
	return &cached{Agent: next, log: log.With("client", "AgentCache"), rdb: rdb, ttl: ttl}
}

func (c *cached) ExtractJobDetails(ctx context.Context, raw string) (*JobDetails, error) {
	key, err := cacheKey("extract_job", raw)
	if err != nil {
		return c.Agent.ExtractJobDetails(ctx, raw)
	}
	var out JobDetails
	if c.get(ctx, "extract_job", key, &out) {
		return &out, nil
	}
	res, err := c.Agent.ExtractJobDetails(ctx, raw)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, res)
	return res, nil
}

func (c *cached) GapAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error) {
	return c.rawCall(ctx, "gap_analysis", in, c.Agent.GapAnalysis)
}

func (c *cached) StakeholderAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error) {
	return c.rawCall(ctx, "stakeholder_analysis", in, c.Agent.StakeholderAnalysis)
}

func (c *cached) rawCall(ctx context.Context, op string, in AnalysisRequest, call func(context.Context, AnalysisRequest) (json.RawMessage, error)) (json.RawMessage, error) {
	key, err := cacheKey(op, in)
	if err != nil {
		return call(ctx, in)
	}
	var out json.RawMessage
	if c.get(ctx, op, key, &out) {
		return out, nil
	}
	res, err := call(ctx, in)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, res)
	return res, nil
}

func (c *cached) get(ctx context.Context, op, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		observeCache(op, false)
		return false
	case err != nil:
		c.log.Warn("agent cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("agent cache entry unreadable", "key", key, "error", err)
		return false
	}
	observeCache(op, true)
	return true
}

func (c *cached) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("agent cache write failed", "key", key, "error", err)
	}
}

func cacheKey(op string, in any) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return cachePrefix + op + ":" + hex.EncodeToString(sum[:]), nil
}

func observeCache(op string, hit bool) {
	if m := observability.Current(); m != nil {
		m.IncAgentCache(op, hit)
	}
}
