package services

import (
	"context"
	"strings"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/responses"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ResponseInput struct {
	JobID     *uint
	SessionID *uint
	Prompt    string
	Response  string
	Source    string
	Ignore    bool
	Locked    bool
}

type ResponsePatch struct {
	Prompt   *string
	Response *string
	Source   *string
	Ignore   *bool
	Locked   *bool
}

type ResponseListParams struct {
	JobID          *uint
	SessionID      *uint
	Source         *string
	IncludeIgnored bool
}

type ResponseService interface {
	List(ctx context.Context, params ResponseListParams) ([]*types.Response, error)
	Get(ctx context.Context, id uint) (*types.Response, error)
	Create(ctx context.Context, in ResponseInput) (*types.Response, error)
	// Update rejects every change to a locked row except unlocking it.
	Update(ctx context.Context, id uint, patch ResponsePatch) (*types.Response, error)
	Delete(ctx context.Context, id uint) error
}

type responseService struct {
	log       *logger.Logger
	responses repos.ResponseRepo
	jobs      repos.JobRepo
	sessions  repos.SessionRepo
}

func NewResponseService(
	log *logger.Logger,
	responseRepo repos.ResponseRepo,
	jobs repos.JobRepo,
	sessions repos.SessionRepo,
) ResponseService {
	return &responseService{
		log:       log.With("service", "ResponseService"),
		responses: responseRepo,
		jobs:      jobs,
		sessions:  sessions,
	}
}

func parseSource(op, raw string) (types.ResponseSource, error) {
	src := types.ResponseSource(strings.TrimSpace(raw))
	if !src.Valid() {
		return "", invalid(op, "source must be one of manual, gap_analysis, stakeholder_analysis, chat, extraction, proposal_generation")
	}
	return src, nil
}

func (s *responseService) List(ctx context.Context, params ResponseListParams) ([]*types.Response, error) {
	const op = "Responses.List"
	filter := repos.ResponseListFilter{
		JobID:          params.JobID,
		SessionID:      params.SessionID,
		IncludeIgnored: params.IncludeIgnored,
	}
	if params.Source != nil {
		src, err := parseSource(op, *params.Source)
		if err != nil {
			return nil, err
		}
		filter.Source = &src
	}
	rows, err := s.responses.List(bg(ctx), filter)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rows, nil
}

func (s *responseService) Get(ctx context.Context, id uint) (*types.Response, error) {
	row, err := s.responses.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Responses.Get", err)
	}
	if row == nil {
		return nil, notFound("Responses.Get", "Response")
	}
	return row, nil
}

func (s *responseService) Create(ctx context.Context, in ResponseInput) (*types.Response, error) {
	const op = "Responses.Create"
	src := responses.SourceManual
	if strings.TrimSpace(in.Source) != "" {
		var err error
		if src, err = parseSource(op, in.Source); err != nil {
			return nil, err
		}
	}
	if in.JobID != nil {
		job, err := s.jobs.GetByID(bg(ctx), *in.JobID)
		if err != nil {
			return nil, storeErr(op, err)
		}
		if job == nil {
			return nil, notFound(op, "Job")
		}
	}
	if in.SessionID != nil {
		session, err := s.sessions.GetByID(bg(ctx), *in.SessionID)
		if err != nil {
			return nil, storeErr(op, err)
		}
		if session == nil {
			return nil, notFound(op, "Intake session")
		}
	}
	row, err := s.responses.Create(bg(ctx), &types.Response{
		JobID:     in.JobID,
		SessionID: in.SessionID,
		Prompt:    in.Prompt,
		Response:  in.Response,
		Source:    src,
		Ignore:    in.Ignore,
		Locked:    in.Locked,
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return row, nil
}

func (s *responseService) Update(ctx context.Context, id uint, patch ResponsePatch) (*types.Response, error) {
	const op = "Responses.Update"
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Locked {
		unlockOnly := patch.Locked != nil && !*patch.Locked &&
			patch.Prompt == nil && patch.Response == nil && patch.Source == nil && patch.Ignore == nil
		if !unlockOnly {
			return nil, invariant(op, "Response is locked")
		}
	}
	updates := map[string]any{}
	setIf(updates, "prompt", patch.Prompt)
	setIf(updates, "response", patch.Response)
	if patch.Source != nil {
		src, err := parseSource(op, *patch.Source)
		if err != nil {
			return nil, err
		}
		updates["source"] = src
	}
	setIf(updates, "ignored", patch.Ignore)
	setIf(updates, "locked", patch.Locked)
	if _, err := s.responses.UpdateFields(bg(ctx), id, updates); err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

func (s *responseService) Delete(ctx context.Context, id uint) error {
	n, err := s.responses.Delete(bg(ctx), id)
	if err != nil {
		return storeErr("Responses.Delete", err)
	}
	if n == 0 {
		return notFound("Responses.Delete", "Response")
	}
	return nil
}
