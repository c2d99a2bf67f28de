package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

// Metrics holds every process-wide series. All methods are safe on a nil
// receiver so callers can skip the enabled check.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	writeOps      *CounterVec
	writeLatency  *HistogramVec
	writeOutcomes *CounterVec

	agentCalls   *CounterVec
	agentLatency *HistogramVec
	agentCache   *CounterVec

	dbStats     *GaugeVec
	redisUp     *Gauge
	redisPing   *Gauge
	scrapeEvery time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process metrics, or nil when Init was not called.
func Current() *Metrics {
	return instance
}

// Init installs the process-wide Metrics once. It returns nil when disabled.
func Init(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
	})
	return instance
}

// New builds a standalone Metrics, mostly for tests.
func New() *Metrics {
	latency := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	return &Metrics{
		apiRequests: NewCounterVec("applytrack_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("applytrack_api_request_duration_seconds", "API request latency by method/route/status.", []string{"method", "route", "status"}, latency),
		apiInflight: NewGauge("applytrack_api_inflight_requests", "In-flight API requests."),

		writeOps:      NewCounterVec("applytrack_aggregate_writes_total", "Aggregate write operations by operation/status.", []string{"op", "status"}),
		writeLatency:  NewHistogramVec("applytrack_aggregate_write_duration_seconds", "Aggregate write latency by operation.", []string{"op"}, latency),
		writeOutcomes: NewCounterVec("applytrack_aggregate_write_outcomes_total", "Conflicting and retryable aggregate writes.", []string{"op", "outcome"}),

		agentCalls:   NewCounterVec("applytrack_agent_calls_total", "Agent calls by operation/status.", []string{"op", "status"}),
		agentLatency: NewHistogramVec("applytrack_agent_call_duration_seconds", "Agent call latency by operation.", []string{"op"}, []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120}),
		agentCache:   NewCounterVec("applytrack_agent_cache_total", "Agent cache lookups by operation/result.", []string{"op", "result"}),

		dbStats:     NewGaugeVec("applytrack_db_pool", "database/sql pool statistics.", []string{"stat"}),
		redisUp:     NewGauge("applytrack_redis_up", "1 when the last redis ping succeeded."),
		redisPing:   NewGauge("applytrack_redis_ping_seconds", "Latency of the last redis ping."),
		scrapeEvery: 15 * time.Second,
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveWrite records one aggregate write and its final status.
func (m *Metrics) ObserveWrite(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.writeOps.Inc(op, status)
	m.writeLatency.Observe(dur.Seconds(), op)
}

// IncWriteOutcome counts "conflict" and "retryable" write failures.
func (m *Metrics) IncWriteOutcome(op, outcome string) {
	if m == nil {
		return
	}
	m.writeOutcomes.Inc(op, outcome)
}

func (m *Metrics) ObserveAgentCall(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.agentCalls.Inc(op, status)
	m.agentLatency.Observe(dur.Seconds(), op)
}

func (m *Metrics) IncAgentCache(op string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.agentCache.Inc(op, result)
}

// StartServer serves the exposition on addr until ctx is done.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", m.WriteHTTP)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && log != nil {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
	if log != nil {
		log.Info("metrics server listening", "addr", addr)
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.writeOps, m.writeLatency, m.writeOutcomes,
		m.agentCalls, m.agentLatency, m.agentCache,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// StartDBCollector samples the gorm connection pool until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings the agent cache until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
