package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/httpx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type httpAgent struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// NewHTTP talks to the workflow service at cfg.BaseURL.
func NewHTTP(log *logger.Logger, cfg Config) (Agent, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("missing AGENT_BASE_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &httpAgent{
		log:        log.With("client", "AgentHTTP"),
		baseURL:    base,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: retries,
	}, nil
}

func (a *httpAgent) ExtractJobDetails(ctx context.Context, raw string) (*JobDetails, error) {
	var out JobDetails
	if err := a.do(ctx, "extract_job", "/v1/extract/job", map[string]string{"raw": raw}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *httpAgent) ExtractExperiences(ctx context.Context, text string) ([]ExperienceDraft, error) {
	var out struct {
		Experiences []ExperienceDraft `json:"experiences"`
	}
	if err := a.do(ctx, "extract_experiences", "/v1/extract/experiences", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return out.Experiences, nil
}

func (a *httpAgent) GapAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := a.do(ctx, "gap_analysis", "/v1/analysis/gap", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *httpAgent) StakeholderAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := a.do(ctx, "stakeholder_analysis", "/v1/analysis/stakeholder", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *httpAgent) ProposeExperienceEdits(ctx context.Context, in AnalysisRequest) ([]ProposalDraft, error) {
	var out struct {
		Proposals []ProposalDraft `json:"proposals"`
	}
	if err := a.do(ctx, "propose_edits", "/v1/proposals", in, &out); err != nil {
		return nil, err
	}
	return out.Proposals, nil
}

func (a *httpAgent) GenerateDocument(ctx context.Context, in GenerateRequest) (string, error) {
	var out struct {
		Document json.RawMessage `json:"document"`
	}
	if err := a.do(ctx, "generate_document", "/v1/documents/generate", in, &out); err != nil {
		return "", err
	}
	return documentString(out.Document), nil
}

func (a *httpAgent) Chat(ctx context.Context, in ChatRequest) (*ChatResult, error) {
	var out struct {
		Reply    string          `json:"reply"`
		Document json.RawMessage `json:"document"`
	}
	if err := a.do(ctx, "chat", "/v1/documents/chat", in, &out); err != nil {
		return nil, err
	}
	return &ChatResult{Reply: out.Reply, Document: documentString(out.Document)}, nil
}

// documentString accepts the document either as a JSON string holding the
// body or as the body object itself.
func documentString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (a *httpAgent) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{Service: "agent", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (a *httpAgent) do(ctx context.Context, op, path string, body any, out any) error {
	backoff := 500 * time.Millisecond
	start := time.Now()

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := a.doOnce(ctx, path, body)
		if err == nil {
			observeCall(op, "ok", start)
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("agent decode %s: %w", op, uErr)
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == a.maxRetries {
			observeCall(op, "error", start)
			return fmt.Errorf("agent %s: %w", op, err)
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		a.log.Warn("agent request retrying",
			"op", op,
			"attempt", attempt+1,
			"max_retries", a.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

func observeCall(op, status string, start time.Time) {
	if m := observability.Current(); m != nil {
		m.ObserveAgentCall(op, status, time.Since(start))
	}
}
