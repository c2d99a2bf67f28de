package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

const defaultGeminiModel = "gemini-2.5-flash"

// llmAgent runs every workflow step as a single prompt against a chat model.
type llmAgent struct {
	log   *logger.Logger
	model llms.Model
}

// NewLLM builds an Agent backed by Gemini through langchaingo.
func NewLLM(ctx context.Context, log *logger.Logger, cfg Config) (Agent, error) {
	key := strings.TrimSpace(cfg.GeminiAPIKey)
	if key == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	model := strings.TrimSpace(cfg.GeminiModel)
	if model == "" {
		model = defaultGeminiModel
	}
	llm, err := googleai.New(ctx, googleai.WithAPIKey(key), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, fmt.Errorf("googleai: %w", err)
	}
	return NewLLMWithModel(log, llm), nil
}

// NewLLMWithModel wraps an already constructed model.
func NewLLMWithModel(log *logger.Logger, model llms.Model) Agent {
	if log == nil {
		log = logger.Nop()
	}
	return &llmAgent{log: log.With("client", "AgentLLM"), model: model}
}

func (a *llmAgent) ExtractJobDetails(ctx context.Context, raw string) (*JobDetails, error) {
	var out JobDetails
	if err := a.generate(ctx, "extract_job", map[string]string{"Raw": raw}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *llmAgent) ExtractExperiences(ctx context.Context, text string) ([]ExperienceDraft, error) {
	var out struct {
		Experiences []ExperienceDraft `json:"experiences"`
	}
	if err := a.generate(ctx, "extract_experiences", map[string]string{"Text": text}, &out); err != nil {
		return nil, err
	}
	return out.Experiences, nil
}

func (a *llmAgent) GapAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := a.generate(ctx, "gap_analysis", analysisData(in), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *llmAgent) StakeholderAnalysis(ctx context.Context, in AnalysisRequest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := a.generate(ctx, "stakeholder_analysis", analysisData(in), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *llmAgent) ProposeExperienceEdits(ctx context.Context, in AnalysisRequest) ([]ProposalDraft, error) {
	var out struct {
		Proposals []ProposalDraft `json:"proposals"`
	}
	if err := a.generate(ctx, "propose_edits", analysisData(in), &out); err != nil {
		return nil, err
	}
	return out.Proposals, nil
}

func (a *llmAgent) GenerateDocument(ctx context.Context, in GenerateRequest) (string, error) {
	var out struct {
		Document json.RawMessage `json:"document"`
	}
	data := map[string]string{
		"Kind":            string(in.Kind),
		"Job":             indent(in.Job),
		"Profile":         indent(in.Profile),
		"TemplateName":    in.TemplateName,
		"TemplateContent": in.TemplateContent,
	}
	if err := a.generate(ctx, "generate_document", data, &out); err != nil {
		return "", err
	}
	return documentString(out.Document), nil
}

func (a *llmAgent) Chat(ctx context.Context, in ChatRequest) (*ChatResult, error) {
	var out struct {
		Reply    string          `json:"reply"`
		Document json.RawMessage `json:"document"`
	}
	data := map[string]string{
		"Kind":     string(in.Kind),
		"Job":      indent(in.Job),
		"Document": in.Document,
		"Message":  in.Message,
	}
	if err := a.generate(ctx, "chat", data, &out); err != nil {
		return nil, err
	}
	return &ChatResult{Reply: out.Reply, Document: documentString(out.Document)}, nil
}

func analysisData(in AnalysisRequest) map[string]string {
	data := map[string]string{
		"Job":     indent(in.Job),
		"Profile": indent(in.Profile),
	}
	if len(in.GapAnalysis) > 0 {
		data["GapAnalysis"] = string(in.GapAnalysis)
	}
	return data
}

func (a *llmAgent) generate(ctx context.Context, op string, data any, out any) error {
	prompt, err := render(op, data)
	if err != nil {
		return err
	}
	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt, llms.WithTemperature(0.2))
	if err != nil {
		observeCall(op, "error", start)
		return fmt.Errorf("agent %s: %w", op, err)
	}
	observeCall(op, "ok", start)

	body := stripFences(text)
	if err := json.Unmarshal(body, out); err != nil {
		a.log.Warn("agent returned non-JSON output", "op", op, "error", err)
		return fmt.Errorf("agent decode %s: %w", op, err)
	}
	return nil
}

// stripFences removes a markdown code fence around the model output.
func stripFences(s string) []byte {
	b := bytes.TrimSpace([]byte(s))
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	} else {
		return nil
	}
	b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	return bytes.TrimSpace(b)
}
