package agent

import (
	"context"
	"encoding/json"
)

type disabled struct{}

// Disabled returns an Agent whose calls all fail with ErrDisabled.
func Disabled() Agent { return disabled{} }

func (disabled) ExtractJobDetails(context.Context, string) (*JobDetails, error) {
	return nil, ErrDisabled
}

func (disabled) ExtractExperiences(context.Context, string) ([]ExperienceDraft, error) {
	return nil, ErrDisabled
}

func (disabled) GapAnalysis(context.Context, AnalysisRequest) (json.RawMessage, error) {
	return nil, ErrDisabled
}

func (disabled) StakeholderAnalysis(context.Context, AnalysisRequest) (json.RawMessage, error) {
	return nil, ErrDisabled
}

func (disabled) ProposeExperienceEdits(context.Context, AnalysisRequest) ([]ProposalDraft, error) {
	return nil, ErrDisabled
}

func (disabled) GenerateDocument(context.Context, GenerateRequest) (string, error) {
	return "", ErrDisabled
}

func (disabled) Chat(context.Context, ChatRequest) (*ChatResult, error) {
	return nil, ErrDisabled
}
