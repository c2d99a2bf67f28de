package agent

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	types "github.com/yungbote/applytrack-backend/internal/domain"
)

type countingAgent struct {
	Agent
	gapCalls int
}

func (c *countingAgent) GapAnalysis(context.Context, AnalysisRequest) (json.RawMessage, error) {
	c.gapCalls++
	return json.RawMessage(`{"gaps":["kubernetes"]}`), nil
}

func TestWithCacheWithoutClientReturnsNext(t *testing.T) {
	next := Disabled()
	if got := WithCache(next, nil, time.Hour, nil); got != next {
		t.Fatalf("expected the wrapped agent to be returned unchanged")
	}
}

func TestCacheKeyIsStablePerInput(t *testing.T) {
	a := AnalysisRequest{Job: &types.Job{ID: 1, Title: "SRE"}}
	b := AnalysisRequest{Job: &types.Job{ID: 2, Title: "SRE"}}
	k1, _ := cacheKey("gap_analysis", a)
	k2, _ := cacheKey("gap_analysis", a)
	k3, _ := cacheKey("gap_analysis", b)
	k4, _ := cacheKey("stakeholder_analysis", a)
	if k1 != k2 {
		t.Fatalf("same input produced different keys")
	}
	if k1 == k3 || k1 == k4 {
		t.Fatalf("distinct inputs collided: %s", k1)
	}
}

func TestCachedGapAnalysisHitsRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	inner := &countingAgent{Agent: Disabled()}
	a := WithCache(inner, rdb, time.Minute, nil)
	req := AnalysisRequest{Job: &types.Job{Title: uuid.NewString()}}

	for i := 0; i < 2; i++ {
		out, err := a.GapAnalysis(context.Background(), req)
		if err != nil {
			t.Fatalf("GapAnalysis: %v", err)
		}
		if string(out) != `{"gaps":["kubernetes"]}` {
			t.Fatalf("unexpected result %s", out)
		}
	}
	if inner.gapCalls != 1 {
		t.Fatalf("expected one upstream call, got %d", inner.gapCalls)
	}
}

func TestCacheFallsThroughWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	inner := &countingAgent{Agent: Disabled()}
	a := WithCache(inner, rdb, time.Minute, nil)
	if _, err := a.GapAnalysis(context.Background(), AnalysisRequest{}); err != nil {
		t.Fatalf("GapAnalysis: %v", err)
	}
	if inner.gapCalls != 1 {
		t.Fatalf("expected the upstream agent to be called")
	}
}
