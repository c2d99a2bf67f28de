// Package agent is the client side of the AI workflow service used during
// intake: job and experience extraction, gap and stakeholder analyses,
// experience edit proposals, document generation and document chat.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
)

// ErrDisabled is returned by every call when no agent backend is configured.
var ErrDisabled = errors.New("agent is not configured")

type JobDetails struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	SalaryRange string   `json:"salary_range"`
	URL         string   `json:"url"`
	Skills      []string `json:"skills"`
}

type AchievementDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ExperienceDraft struct {
	Company         string             `json:"company"`
	Title           string             `json:"title"`
	Location        string             `json:"location"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	IsCurrent       bool               `json:"is_current"`
	RoleOverview    string             `json:"role_overview"`
	CompanyOverview string             `json:"company_overview"`
	Skills          []string           `json:"skills"`
	Achievements    []AchievementDraft `json:"achievements"`
}

// AnalysisRequest is the job plus everything known about the candidate.
type AnalysisRequest struct {
	Job     *types.Job     `json:"job"`
	Profile *types.Profile `json:"profile"`
	// GapAnalysis is passed along once it exists so later steps can use it.
	GapAnalysis json.RawMessage `json:"gap_analysis,omitempty"`
}

// ProposalDraft is an unvalidated experience edit suggested by the agent.
type ProposalDraft struct {
	ExperienceID    uint            `json:"experience_id"`
	AchievementID   *uint           `json:"achievement_id,omitempty"`
	ProposalType    string          `json:"proposal_type"`
	ProposedContent json.RawMessage `json:"proposed_content"`
}

type GenerateRequest struct {
	Kind            documents.Kind `json:"kind"`
	Job             *types.Job     `json:"job"`
	Profile         *types.Profile `json:"profile"`
	TemplateName    string         `json:"template_name"`
	TemplateContent string         `json:"template_content,omitempty"`
}

type ChatRequest struct {
	Kind     documents.Kind `json:"kind"`
	Job      *types.Job     `json:"job"`
	Document string         `json:"document"`
	Message  string         `json:"message"`
}

// ChatResult carries the agent's reply. Document is empty when the agent
// did not produce a revised document.
type ChatResult struct {
	Reply    string `json:"reply"`
	Document string `json:"document,omitempty"`
}

type Agent interface {
	ExtractJobDetails(ctx context.Context, raw string) (*JobDetails, error)
	ExtractExperiences(ctx context.Context, text string) ([]ExperienceDraft, error)
	GapAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error)
	StakeholderAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error)
	ProposeExperienceEdits(ctx context.Context, in AnalysisRequest) ([]ProposalDraft, error)
	GenerateDocument(ctx context.Context, in GenerateRequest) (string, error)
	Chat(ctx context.Context, in ChatRequest) (*ChatResult, error)
}

type Config struct {
	// Mode is "http", "llm" or "off".
	Mode       string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int

	GeminiAPIKey string
	GeminiModel  string

	CacheTTL time.Duration
}
