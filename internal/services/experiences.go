package services

import (
	"context"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
	"github.com/yungbote/applytrack-backend/internal/platform/agent"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ExperienceInput struct {
	UserID          uint
	Company         string
	Title           string
	Location        string
	StartDate       string
	EndDate         string
	IsCurrent       bool
	RoleOverview    string
	CompanyOverview string
	Skills          []string
	SortOrder       int
	Achievements    []AchievementInput
}

type ExperiencePatch struct {
	Company         *string
	Title           *string
	Location        *string
	StartDate       *string
	EndDate         *string
	IsCurrent       *bool
	RoleOverview    *string
	CompanyOverview *string
	Skills          *[]string
	SortOrder       *int
}

type AchievementInput struct {
	ExperienceID uint
	Title        string
	Content      string
	// Order nil appends after the last achievement.
	Order *int
}

type AchievementPatch struct {
	Title   *string
	Content *string
	Order   *int
}

type ExperienceService interface {
	// List returns userID's experiences; zero means the request user.
	List(ctx context.Context, userID uint, withAchievements bool) ([]*types.Experience, error)
	Get(ctx context.Context, id uint) (*types.Experience, error)
	Create(ctx context.Context, in ExperienceInput) (*types.Experience, error)
	Update(ctx context.Context, id uint, patch ExperiencePatch) (*types.Experience, error)
	Delete(ctx context.Context, id uint) error

	ListAchievements(ctx context.Context, experienceID uint) ([]*types.Achievement, error)
	GetAchievement(ctx context.Context, id uint) (*types.Achievement, error)
	CreateAchievement(ctx context.Context, in AchievementInput) (*types.Achievement, error)
	UpdateAchievement(ctx context.Context, id uint, patch AchievementPatch) (*types.Achievement, error)
	DeleteAchievement(ctx context.Context, id uint) error

	// Extract asks the agent to structure free text, or the text of a
	// previous upload, into experience drafts. Nothing is stored.
	Extract(ctx context.Context, text string, uploadID *uint) ([]agent.ExperienceDraft, error)
}

type experienceService struct {
	db           *gorm.DB
	log          *logger.Logger
	experiences  repos.ExperienceRepo
	achievements repos.AchievementRepo
	uploads      repos.UploadRepo
	agent        agent.Agent
}

func NewExperienceService(
	db *gorm.DB,
	log *logger.Logger,
	experiences repos.ExperienceRepo,
	achievements repos.AchievementRepo,
	uploads repos.UploadRepo,
	ag agent.Agent,
) ExperienceService {
	return &experienceService{
		db:           db,
		log:          log.With("service", "ExperienceService"),
		experiences:  experiences,
		achievements: achievements,
		uploads:      uploads,
		agent:        ag,
	}
}

func (s *experienceService) List(ctx context.Context, userID uint, withAchievements bool) ([]*types.Experience, error) {
	const op = "Experiences.List"
	if userID == 0 {
		var err error
		if userID, err = requestUser(op, ctx); err != nil {
			return nil, err
		}
	}
	rows, err := s.experiences.ListByUserID(bg(ctx), userID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if withAchievements {
		if err := loadAchievements(ctx, s.achievements, rows); err != nil {
			return nil, storeErr(op, err)
		}
	}
	return rows, nil
}

func (s *experienceService) Get(ctx context.Context, id uint) (*types.Experience, error) {
	exp, err := s.experiences.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Experiences.Get", err)
	}
	if exp == nil {
		return nil, notFound("Experiences.Get", "Experience")
	}
	achievements, err := s.achievements.ListByExperienceID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Experiences.Get", err)
	}
	exp.Achievements = achievements
	return exp, nil
}

func (s *experienceService) Create(ctx context.Context, in ExperienceInput) (*types.Experience, error) {
	const op = "Experiences.Create"
	userID := in.UserID
	if userID == 0 {
		var err error
		if userID, err = requestUser(op, ctx); err != nil {
			return nil, err
		}
	}
	for _, a := range in.Achievements {
		if strings.TrimSpace(a.Content) == "" {
			return nil, invalid(op, "achievement content is required")
		}
	}
	row := &types.Experience{
		UserID:          userID,
		Company:         strings.TrimSpace(in.Company),
		Title:           strings.TrimSpace(in.Title),
		Location:        strings.TrimSpace(in.Location),
		StartDate:       strings.TrimSpace(in.StartDate),
		EndDate:         strings.TrimSpace(in.EndDate),
		IsCurrent:       in.IsCurrent,
		RoleOverview:    in.RoleOverview,
		CompanyOverview: in.CompanyOverview,
		Skills:          datatypes.JSONSlice[string](normalizeSkills(in.Skills)),
		SortOrder:       in.SortOrder,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.experiences.Create(dbc, row); err != nil {
			return err
		}
		for i, a := range in.Achievements {
			order := i + 1
			if a.Order != nil {
				order = *a.Order
			}
			ach, err := s.achievements.Create(dbc, &types.Achievement{
				ExperienceID: row.ID,
				Title:        strings.TrimSpace(a.Title),
				Content:      strings.TrimSpace(a.Content),
				Order:        order,
			})
			if err != nil {
				return err
			}
			row.Achievements = append(row.Achievements, ach)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return row, nil
}

func normalizeSkills(in []string) []string {
	out := []string{}
	for _, s := range in {
		out = proposals.AddSkill(out, s)
	}
	return out
}

func (s *experienceService) Update(ctx context.Context, id uint, patch ExperiencePatch) (*types.Experience, error) {
	const op = "Experiences.Update"
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	setIf(updates, "company", trimPtr(patch.Company))
	setIf(updates, "title", trimPtr(patch.Title))
	setIf(updates, "location", trimPtr(patch.Location))
	setIf(updates, "start_date", trimPtr(patch.StartDate))
	setIf(updates, "end_date", trimPtr(patch.EndDate))
	setIf(updates, "is_current", patch.IsCurrent)
	setIf(updates, "role_overview", patch.RoleOverview)
	setIf(updates, "company_overview", patch.CompanyOverview)
	setIf(updates, "sort_order", patch.SortOrder)
	if len(updates) > 0 {
		if _, err := s.experiences.UpdateFields(bg(ctx), id, updates); err != nil {
			return nil, storeErr(op, err)
		}
	}
	if patch.Skills != nil {
		if err := s.experiences.SetSkills(bg(ctx), id, normalizeSkills(*patch.Skills)); err != nil {
			return nil, storeErr(op, err)
		}
	}
	return s.Get(ctx, id)
}

func (s *experienceService) Delete(ctx context.Context, id uint) error {
	const op = "Experiences.Delete"
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = s.experiences.Delete(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		return err
	})
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return notFound(op, "Experience")
	}
	return nil
}

func (s *experienceService) ListAchievements(ctx context.Context, experienceID uint) ([]*types.Achievement, error) {
	const op = "Achievements.List"
	exp, err := s.experiences.GetByID(bg(ctx), experienceID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if exp == nil {
		return nil, notFound(op, "Experience")
	}
	rows, err := s.achievements.ListByExperienceID(bg(ctx), experienceID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rows, nil
}

func (s *experienceService) GetAchievement(ctx context.Context, id uint) (*types.Achievement, error) {
	a, err := s.achievements.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Achievements.Get", err)
	}
	if a == nil {
		return nil, notFound("Achievements.Get", "Achievement")
	}
	return a, nil
}

func (s *experienceService) CreateAchievement(ctx context.Context, in AchievementInput) (*types.Achievement, error) {
	const op = "Achievements.Create"
	if strings.TrimSpace(in.Content) == "" {
		return nil, invalid(op, "content is required")
	}
	exp, err := s.experiences.GetByID(bg(ctx), in.ExperienceID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if exp == nil {
		return nil, notFound(op, "Experience")
	}
	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		top, err := s.achievements.MaxOrder(bg(ctx), in.ExperienceID)
		if err != nil {
			return nil, storeErr(op, err)
		}
		order = top + 1
	}
	created, err := s.achievements.Create(bg(ctx), &types.Achievement{
		ExperienceID: in.ExperienceID,
		Title:        strings.TrimSpace(in.Title),
		Content:      strings.TrimSpace(in.Content),
		Order:        order,
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return created, nil
}

func (s *experienceService) UpdateAchievement(ctx context.Context, id uint, patch AchievementPatch) (*types.Achievement, error) {
	const op = "Achievements.Update"
	if _, err := s.GetAchievement(ctx, id); err != nil {
		return nil, err
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, invalid(op, "content must not be empty")
	}
	updates := map[string]any{}
	setIf(updates, "title", trimPtr(patch.Title))
	setIf(updates, "content", trimPtr(patch.Content))
	setIf(updates, "sort_order", patch.Order)
	if len(updates) > 0 {
		if _, err := s.achievements.UpdateFields(bg(ctx), id, updates); err != nil {
			return nil, storeErr(op, err)
		}
	}
	return s.GetAchievement(ctx, id)
}

func (s *experienceService) DeleteAchievement(ctx context.Context, id uint) error {
	n, err := s.achievements.Delete(bg(ctx), id)
	if err != nil {
		return storeErr("Achievements.Delete", err)
	}
	if n == 0 {
		return notFound("Achievements.Delete", "Achievement")
	}
	return nil
}

func (s *experienceService) Extract(ctx context.Context, text string, uploadID *uint) ([]agent.ExperienceDraft, error) {
	const op = "Experiences.Extract"
	if uploadID != nil {
		up, err := s.uploads.GetByID(bg(ctx), *uploadID)
		if err != nil {
			return nil, storeErr(op, err)
		}
		if up == nil {
			return nil, notFound(op, "Upload")
		}
		text = up.ExtractedText
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalid(op, "text or upload_id with extracted text is required")
	}
	drafts, err := s.agent.ExtractExperiences(ctx, text)
	if err != nil {
		s.log.Warn("experience extraction failed", "error", err)
		return nil, agentErr(op, err)
	}
	if drafts == nil {
		drafts = []agent.ExperienceDraft{}
	}
	return drafts, nil
}
