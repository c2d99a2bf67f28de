package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ProposalInput struct {
	SessionID               uint
	ExperienceID            uint
	AchievementID           *uint
	ProposalType            string
	ProposedContent         json.RawMessage
	OriginalProposedContent json.RawMessage
	Status                  *string
}

type ProposalListParams struct {
	SessionID    uint
	ExperienceID *uint
	Status       *string
}

type ProposalService interface {
	List(ctx context.Context, params ProposalListParams) ([]*types.Proposal, error)
	Get(ctx context.Context, id uint) (*types.Proposal, error)
	Create(ctx context.Context, in ProposalInput) (*types.Proposal, error)
	// UpdateContent replaces proposed_content on a pending proposal.
	UpdateContent(ctx context.Context, id uint, content json.RawMessage) (*types.Proposal, error)
	Accept(ctx context.Context, id uint) (*domainagg.AcceptProposalResult, error)
	Reject(ctx context.Context, id uint) (*types.Proposal, error)
	Delete(ctx context.Context, id uint) error
}

type proposalService struct {
	log          *logger.Logger
	proposals    repos.ProposalRepo
	sessions     repos.SessionRepo
	experiences  repos.ExperienceRepo
	achievements repos.AchievementRepo
	agg          domainagg.ProposalAggregate
}

func NewProposalService(
	log *logger.Logger,
	proposalRepo repos.ProposalRepo,
	sessions repos.SessionRepo,
	experiences repos.ExperienceRepo,
	achievements repos.AchievementRepo,
	agg domainagg.ProposalAggregate,
) ProposalService {
	return &proposalService{
		log:          log.With("service", "ProposalService"),
		proposals:    proposalRepo,
		sessions:     sessions,
		experiences:  experiences,
		achievements: achievements,
		agg:          agg,
	}
}

// decodeContent turns a decode failure into a validation error listing
// the offending fields.
func decodeContent(op string, t types.ProposalType, raw []byte, achievementID *uint) (proposals.Change, error) {
	change, err := proposals.Decode(t, raw, achievementID)
	if err == nil {
		return change, nil
	}
	var derr *proposals.DecodeError
	if errors.As(err, &derr) {
		return nil, domainagg.WithDetails(invalid(op, "Validation failed"), derr.Fields)
	}
	return nil, invalid(op, err.Error())
}

// checkTargets verifies the experience, the achievement a change touches and
// any achievement_id set on the row, whatever the proposal type.
func checkTargets(
	ctx context.Context,
	op string,
	experiences repos.ExperienceRepo,
	achievements repos.AchievementRepo,
	experienceID uint,
	achievementID *uint,
	change proposals.Change,
) error {
	exp, err := experiences.GetByID(bg(ctx), experienceID)
	if err != nil {
		return storeErr(op, err)
	}
	if exp == nil {
		return notFound(op, "Experience")
	}
	var ids []uint
	if achievementID != nil {
		ids = append(ids, *achievementID)
	}
	if achID, ok := proposals.TargetAchievementID(change); ok && (achievementID == nil || achID != *achievementID) {
		ids = append(ids, achID)
	}
	for _, achID := range ids {
		ach, err := achievements.GetByID(bg(ctx), achID)
		if err != nil {
			return storeErr(op, err)
		}
		if ach == nil {
			return notFound(op, "Achievement")
		}
		if ach.ExperienceID != experienceID {
			return invalid(op, "achievement_id must belong to experience_id")
		}
	}
	return nil
}

func (s *proposalService) List(ctx context.Context, params ProposalListParams) ([]*types.Proposal, error) {
	const op = "Proposals.List"
	if params.SessionID == 0 {
		return nil, invalid(op, "session_id is required")
	}
	filter := repos.ProposalListFilter{SessionID: params.SessionID, ExperienceID: params.ExperienceID}
	if params.Status != nil {
		st := types.ProposalStatus(strings.TrimSpace(*params.Status))
		if !st.Valid() {
			return nil, invalid(op, "status must be one of pending, accepted, rejected")
		}
		filter.Status = &st
	}
	rows, err := s.proposals.List(bg(ctx), filter)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rows, nil
}

func (s *proposalService) Get(ctx context.Context, id uint) (*types.Proposal, error) {
	p, err := s.proposals.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Proposals.Get", err)
	}
	if p == nil {
		return nil, notFound("Proposals.Get", "Proposal")
	}
	return p, nil
}

func (s *proposalService) Create(ctx context.Context, in ProposalInput) (*types.Proposal, error) {
	const op = "Proposals.Create"
	if in.SessionID == 0 {
		return nil, invalid(op, "session_id is required")
	}
	if in.ExperienceID == 0 {
		return nil, invalid(op, "experience_id is required")
	}
	status := proposals.StatusPending
	if in.Status != nil {
		status = types.ProposalStatus(strings.TrimSpace(*in.Status))
		if !status.Valid() {
			return nil, invalid(op, "status must be one of pending, accepted, rejected")
		}
	}
	t := types.ProposalType(strings.TrimSpace(in.ProposalType))
	change, err := decodeContent(op, t, in.ProposedContent, in.AchievementID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(bg(ctx), in.SessionID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if session == nil {
		return nil, notFound(op, "Intake session")
	}
	if err := checkTargets(ctx, op, s.experiences, s.achievements, in.ExperienceID, in.AchievementID, change); err != nil {
		return nil, err
	}

	row := &types.Proposal{
		SessionID:               in.SessionID,
		ExperienceID:            in.ExperienceID,
		AchievementID:           in.AchievementID,
		ProposalType:            t,
		ProposedContent:         datatypes.JSON(in.ProposedContent),
		OriginalProposedContent: datatypes.JSON(in.OriginalProposedContent),
		Status:                  status,
	}
	if achID, ok := proposals.TargetAchievementID(change); ok && row.AchievementID == nil {
		row.AchievementID = &achID
	}
	if len(row.OriginalProposedContent) == 0 {
		row.OriginalProposedContent = row.ProposedContent
	}
	created, err := s.proposals.Create(bg(ctx), []*types.Proposal{row})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return created[0], nil
}

func (s *proposalService) UpdateContent(ctx context.Context, id uint, content json.RawMessage) (*types.Proposal, error) {
	const op = "Proposals.Update"
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != proposals.StatusPending {
		return nil, invariant(op, "Proposal is already "+string(p.Status))
	}
	change, err := decodeContent(op, p.ProposalType, content, p.AchievementID)
	if err != nil {
		return nil, err
	}
	if err := checkTargets(ctx, op, s.experiences, s.achievements, p.ExperienceID, p.AchievementID, change); err != nil {
		return nil, err
	}
	return s.agg.ReviseContent(ctx, id, content)
}

func (s *proposalService) Accept(ctx context.Context, id uint) (*domainagg.AcceptProposalResult, error) {
	res, err := s.agg.Accept(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("proposal accepted",
		"proposal_id", id,
		"proposal_type", string(res.Proposal.ProposalType),
		"experience_id", res.Proposal.ExperienceID,
	)
	return res, nil
}

func (s *proposalService) Reject(ctx context.Context, id uint) (*types.Proposal, error) {
	return s.agg.Reject(ctx, id)
}

func (s *proposalService) Delete(ctx context.Context, id uint) error {
	n, err := s.proposals.Delete(bg(ctx), id)
	if err != nil {
		return storeErr("Proposals.Delete", err)
	}
	if n == 0 {
		return notFound("Proposals.Delete", "Proposal")
	}
	return nil
}
