package aggregates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

type ProposalAggregateDeps struct {
	Base BaseDeps

	Proposals    repos.ProposalRepo
	Experiences  repos.ExperienceRepo
	Achievements repos.AchievementRepo
}

type proposalAggregate struct {
	deps ProposalAggregateDeps
}

func NewProposalAggregate(deps ProposalAggregateDeps) domainagg.ProposalAggregate {
	deps.Base = deps.Base.withDefaults()
	return &proposalAggregate{deps: deps}
}

func (a *proposalAggregate) Contract() domainagg.Contract {
	return domainagg.ProposalAggregateContract
}

func (a *proposalAggregate) Accept(ctx context.Context, proposalID uint) (*domainagg.AcceptProposalResult, error) {
	const op = "Profile.Proposal.Accept"
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out *domainagg.AcceptProposalResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		p, err := a.lockPending(dbc, op, proposalID)
		if err != nil {
			return err
		}
		change, err := proposals.Decode(p.ProposalType, p.ProposedContent, p.AchievementID)
		if err != nil {
			return decodeFailure(op, err)
		}
		exp, err := a.deps.Experiences.LockByID(dbc, p.ExperienceID)
		if err != nil {
			return err
		}
		if exp == nil {
			return domainagg.NotFound(op, "Experience")
		}

		achievementID, err := a.apply(dbc, op, exp, change)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, types.Proposal{}.TableName(), p.ID,
			[]string{string(proposals.StatusPending)},
			map[string]any{"status": proposals.StatusAccepted, "updated_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return a.casFailure(dbc, op, p.ID)
		}
		p.Status = proposals.StatusAccepted
		p.UpdatedAt = now
		out = &domainagg.AcceptProposalResult{Proposal: p, AchievementID: achievementID}
		return nil
	})
	return out, err
}

func (a *proposalAggregate) Reject(ctx context.Context, proposalID uint) (*proposals.Proposal, error) {
	const op = "Profile.Proposal.Reject"
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out *proposals.Proposal
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		p, err := a.lockPending(dbc, op, proposalID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, types.Proposal{}.TableName(), p.ID,
			[]string{string(proposals.StatusPending)},
			map[string]any{"status": proposals.StatusRejected, "updated_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return a.casFailure(dbc, op, p.ID)
		}
		p.Status = proposals.StatusRejected
		p.UpdatedAt = now
		out = p
		return nil
	})
	return out, err
}

func (a *proposalAggregate) ReviseContent(ctx context.Context, proposalID uint, content []byte) (*proposals.Proposal, error) {
	const op = "Profile.Proposal.ReviseContent"
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out *proposals.Proposal
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		p, err := a.lockPending(dbc, op, proposalID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, types.Proposal{}.TableName(), p.ID,
			[]string{string(proposals.StatusPending)},
			map[string]any{"proposed_content": datatypes.JSON(content), "updated_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return a.casFailure(dbc, op, p.ID)
		}
		p.ProposedContent = datatypes.JSON(content)
		p.UpdatedAt = now
		out = p
		return nil
	})
	return out, err
}

func (a *proposalAggregate) lockPending(dbc dbctx.Context, op string, proposalID uint) (*proposals.Proposal, error) {
	p, err := a.deps.Proposals.LockByID(dbc, proposalID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domainagg.NotFound(op, "Proposal")
	}
	if err := RequireStatusAllowed(string(p.Status), alreadyProcessed(p.Status), string(proposals.StatusPending)); err != nil {
		return nil, err
	}
	return p, nil
}

// casFailure reports the status that won when a pending-guarded update
// matched no row.
func (a *proposalAggregate) casFailure(dbc dbctx.Context, op string, proposalID uint) error {
	p, err := a.deps.Proposals.GetByID(dbc, proposalID)
	if err != nil {
		return err
	}
	if p == nil {
		return domainagg.NotFound(op, "Proposal")
	}
	return InvariantError(alreadyProcessed(p.Status))
}

func alreadyProcessed(status proposals.Status) string {
	return "Proposal is already " + string(status)
}

// apply performs the change against exp. It returns the achievement the
// change touched, if any.
func (a *proposalAggregate) apply(dbc dbctx.Context, op string, exp *types.Experience, change proposals.Change) (*uint, error) {
	switch c := change.(type) {
	case proposals.AchievementAdd:
		order := 0
		if c.Order != nil {
			order = *c.Order
		} else {
			top, err := a.deps.Achievements.MaxOrder(dbc, exp.ID)
			if err != nil {
				return nil, err
			}
			order = top + 1
		}
		row, err := a.deps.Achievements.Create(dbc, &types.Achievement{
			ExperienceID: exp.ID,
			Title:        c.Title,
			Content:      c.Content,
			Order:        order,
		})
		if err != nil {
			return nil, err
		}
		return &row.ID, nil

	case proposals.AchievementUpdate:
		if err := a.requireAchievement(dbc, op, exp.ID, c.AchievementID); err != nil {
			return nil, err
		}
		updates := map[string]any{"updated_at": time.Now().UTC()}
		if c.Title != nil {
			updates["title"] = *c.Title
		}
		if c.Content != nil {
			updates["content"] = *c.Content
		}
		if _, err := a.deps.Achievements.UpdateFields(dbc, c.AchievementID, updates); err != nil {
			return nil, err
		}
		id := c.AchievementID
		return &id, nil

	case proposals.AchievementDelete:
		if err := a.requireAchievement(dbc, op, exp.ID, c.AchievementID); err != nil {
			return nil, err
		}
		if _, err := a.deps.Achievements.Delete(dbc, c.AchievementID); err != nil {
			return nil, err
		}
		id := c.AchievementID
		return &id, nil

	case proposals.SkillAdd:
		skills := proposals.AddSkill(exp.Skills, c.Skill)
		if err := a.deps.Experiences.SetSkills(dbc, exp.ID, skills); err != nil {
			return nil, err
		}
		exp.Skills = skills
		return nil, nil

	case proposals.SkillDelete:
		skills := proposals.RemoveSkill(exp.Skills, c.Skill)
		if err := a.deps.Experiences.SetSkills(dbc, exp.ID, skills); err != nil {
			return nil, err
		}
		exp.Skills = skills
		return nil, nil

	case proposals.RoleOverviewUpdate:
		_, err := a.deps.Experiences.UpdateFields(dbc, exp.ID, map[string]any{"role_overview": c.RoleOverview, "updated_at": time.Now().UTC()})
		if err == nil {
			exp.RoleOverview = c.RoleOverview
		}
		return nil, err

	case proposals.CompanyOverviewUpdate:
		_, err := a.deps.Experiences.UpdateFields(dbc, exp.ID, map[string]any{"company_overview": c.CompanyOverview, "updated_at": time.Now().UTC()})
		if err == nil {
			exp.CompanyOverview = c.CompanyOverview
		}
		return nil, err
	}
	return nil, domainagg.NewError(domainagg.CodeInternal, op, "unhandled proposal change", nil)
}

func (a *proposalAggregate) requireAchievement(dbc dbctx.Context, op string, experienceID, achievementID uint) error {
	ach, err := a.deps.Achievements.GetByID(dbc, achievementID)
	if err != nil {
		return err
	}
	if ach == nil || ach.ExperienceID != experienceID {
		return domainagg.NotFound(op, "Achievement")
	}
	return nil
}

func (a *proposalAggregate) configured(op string) error {
	if a.deps.Proposals == nil || a.deps.Experiences == nil || a.deps.Achievements == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "proposal aggregate repos not configured", nil)
	}
	return nil
}

// decodeFailure turns a content decode error into a validation error whose
// details list the offending fields.
func decodeFailure(op string, err error) error {
	var de *proposals.DecodeError
	if errors.As(err, &de) {
		return domainagg.WithDetails(
			domainagg.NewError(domainagg.CodeValidation, op, "Invalid proposed_content for "+strings.TrimSpace(string(de.Type)), err),
			de.Fields,
		)
	}
	return domainagg.Wrap(domainagg.CodeValidation, op, err)
}
