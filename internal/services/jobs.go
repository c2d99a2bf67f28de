package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/jobs"
	"github.com/yungbote/applytrack-backend/internal/platform/agent"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type JobInput struct {
	Title       string
	Company     string
	Description string
	Location    string
	URL         string
	SalaryRange string
	Notes       string
	Status      string
	IsFavorite  bool
}

type JobPatch struct {
	Title       *string
	Company     *string
	Description *string
	Location    *string
	URL         *string
	SalaryRange *string
	Notes       *string
	Status      *string
	IsFavorite  *bool
}

type JobListParams struct {
	Status   *string
	Favorite *bool
}

type JobService interface {
	List(ctx context.Context, params JobListParams) ([]*types.Job, error)
	Get(ctx context.Context, id uint) (*types.Job, error)
	Create(ctx context.Context, in JobInput) (*types.Job, error)
	Update(ctx context.Context, id uint, patch JobPatch) (*types.Job, error)
	Delete(ctx context.Context, id uint) error
	// SetFavorite sets the flag, or toggles it when value is nil.
	SetFavorite(ctx context.Context, id uint, value *bool) (*types.Job, error)
	SetStatus(ctx context.Context, id uint, status string) (*types.Job, error)
	Extract(ctx context.Context, raw string) (*agent.JobDetails, error)
}

type jobService struct {
	db    *gorm.DB
	log   *logger.Logger
	jobs  repos.JobRepo
	agent agent.Agent
}

func NewJobService(db *gorm.DB, log *logger.Logger, jobRepo repos.JobRepo, ag agent.Agent) JobService {
	return &jobService{db: db, log: log.With("service", "JobService"), jobs: jobRepo, agent: ag}
}

func parseJobStatus(op, raw string) (types.JobStatus, error) {
	st := types.JobStatus(strings.TrimSpace(raw))
	if !st.Valid() {
		return "", invalid(op, "status must be one of Saved, Applied, Interviewing, Not Selected, No Offer, Hired")
	}
	return st, nil
}

func (s *jobService) List(ctx context.Context, params JobListParams) ([]*types.Job, error) {
	const op = "Jobs.List"
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	filter := repos.JobListFilter{UserID: userID, Favorite: params.Favorite}
	if params.Status != nil {
		st, err := parseJobStatus(op, *params.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}
	rows, err := s.jobs.List(bg(ctx), filter)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rows, nil
}

func (s *jobService) Get(ctx context.Context, id uint) (*types.Job, error) {
	job, err := s.jobs.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Jobs.Get", err)
	}
	if job == nil {
		return nil, notFound("Jobs.Get", "Job")
	}
	return job, nil
}

func (s *jobService) Create(ctx context.Context, in JobInput) (*types.Job, error) {
	const op = "Jobs.Create"
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	status := jobs.StatusSaved
	if strings.TrimSpace(in.Status) != "" {
		if status, err = parseJobStatus(op, in.Status); err != nil {
			return nil, err
		}
	}
	job := &types.Job{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		URL:         strings.TrimSpace(in.URL),
		SalaryRange: strings.TrimSpace(in.SalaryRange),
		Notes:       in.Notes,
		Status:      status,
		IsFavorite:  in.IsFavorite,
	}
	if status == jobs.StatusApplied {
		now := time.Now().UTC()
		job.AppliedAt = &now
	}
	created, err := s.jobs.Create(bg(ctx), job)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return created, nil
}

func (s *jobService) Update(ctx context.Context, id uint, patch JobPatch) (*types.Job, error) {
	const op = "Jobs.Update"
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	setIf(updates, "title", trimPtr(patch.Title))
	setIf(updates, "company", trimPtr(patch.Company))
	setIf(updates, "description", patch.Description)
	setIf(updates, "location", trimPtr(patch.Location))
	setIf(updates, "url", trimPtr(patch.URL))
	setIf(updates, "salary_range", trimPtr(patch.SalaryRange))
	setIf(updates, "notes", patch.Notes)
	setIf(updates, "is_favorite", patch.IsFavorite)
	if patch.Status != nil {
		st, err := parseJobStatus(op, *patch.Status)
		if err != nil {
			return nil, err
		}
		statusUpdates(updates, current, st)
	}
	if len(updates) == 0 {
		return current, nil
	}
	if _, err := s.jobs.UpdateFields(bg(ctx), id, updates); err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

// statusUpdates stamps applied_at the first time a job reaches Applied.
func statusUpdates(updates map[string]any, current *types.Job, st types.JobStatus) {
	updates["status"] = st
	if st == jobs.StatusApplied && current.AppliedAt == nil {
		updates["applied_at"] = time.Now().UTC()
	}
}

func (s *jobService) Delete(ctx context.Context, id uint) error {
	const op = "Jobs.Delete"
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.jobs.DeleteCascade(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		deleted = n
		return err
	})
	if err != nil {
		s.log.Error("job delete failed", "job_id", id, "error", err)
		return storeErr(op, err)
	}
	if deleted == 0 {
		return notFound(op, "Job")
	}
	return nil
}

func (s *jobService) SetFavorite(ctx context.Context, id uint, value *bool) (*types.Job, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := !current.IsFavorite
	if value != nil {
		next = *value
	}
	if _, err := s.jobs.UpdateFields(bg(ctx), id, map[string]any{"is_favorite": next}); err != nil {
		return nil, storeErr("Jobs.SetFavorite", err)
	}
	return s.Get(ctx, id)
}

func (s *jobService) SetStatus(ctx context.Context, id uint, status string) (*types.Job, error) {
	const op = "Jobs.SetStatus"
	st, err := parseJobStatus(op, status)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	statusUpdates(updates, current, st)
	if _, err := s.jobs.UpdateFields(bg(ctx), id, updates); err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

func (s *jobService) Extract(ctx context.Context, raw string) (*agent.JobDetails, error) {
	const op = "Jobs.Extract"
	if strings.TrimSpace(raw) == "" {
		return nil, invalid(op, "raw_text or raw_html is required")
	}
	details, err := s.agent.ExtractJobDetails(ctx, raw)
	if err != nil {
		s.log.Warn("job extraction failed", "error", err)
		return nil, agentErr(op, err)
	}
	return details, nil
}
