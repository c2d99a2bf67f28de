package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/domain/intake"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
	"github.com/yungbote/applytrack-backend/internal/domain/responses"
	"github.com/yungbote/applytrack-backend/internal/domain/templates"
	"github.com/yungbote/applytrack-backend/internal/platform/agent"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type SessionPatch struct {
	Step   *string
	Status *string
}

type SessionListParams struct {
	JobID  *uint
	Status *string
}

type AnalysisResult struct {
	Session  *types.IntakeSession `json:"session"`
	Analysis json.RawMessage      `json:"analysis"`
	Response *types.Response      `json:"response"`
}

// SkippedDraft reports an agent proposal that could not be stored.
type SkippedDraft struct {
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
	Details any    `json:"details,omitempty"`
}

type GenerateProposalsResult struct {
	Proposals []*types.Proposal `json:"proposals"`
	Skipped   []SkippedDraft    `json:"skipped"`
}

type ChatOutcome struct {
	Reply    string                 `json:"reply"`
	Version  *types.DocumentVersion `json:"version,omitempty"`
	Response *types.Response        `json:"response"`
	// Warning is set when the agent returned a document that could not be stored.
	Warning string `json:"warning,omitempty"`
}

type IntakeService interface {
	List(ctx context.Context, params SessionListParams) ([]*types.IntakeSession, error)
	Get(ctx context.Context, id uint) (*types.IntakeSession, error)
	Create(ctx context.Context, jobID uint) (*types.IntakeSession, error)
	Update(ctx context.Context, id uint, patch SessionPatch) (*types.IntakeSession, error)
	Delete(ctx context.Context, id uint) error

	GapAnalysis(ctx context.Context, id uint) (*AnalysisResult, error)
	StakeholderAnalysis(ctx context.Context, id uint) (*AnalysisResult, error)
	GenerateProposals(ctx context.Context, id uint) (*GenerateProposalsResult, error)
	Chat(ctx context.Context, id uint, kind documents.Kind, message string) (*ChatOutcome, error)
	Generate(ctx context.Context, id uint, kind documents.Kind, templateName string) (*types.DocumentVersion, error)
	Complete(ctx context.Context, id uint) (*types.IntakeSession, error)
}

type IntakeDeps struct {
	DB             *gorm.DB
	Log            *logger.Logger
	Sessions       repos.SessionRepo
	Jobs           repos.JobRepo
	Experiences    repos.ExperienceRepo
	Achievements   repos.AchievementRepo
	Education      repos.EducationRepo
	Certifications repos.CertificationRepo
	Proposals      repos.ProposalRepo
	Responses      repos.ResponseRepo
	Documents      map[documents.Kind]DocumentService
	Templates      TemplateService
	Agent          agent.Agent
}

type intakeService struct {
	deps IntakeDeps
	log  *logger.Logger
}

func NewIntakeService(deps IntakeDeps) IntakeService {
	return &intakeService{deps: deps, log: deps.Log.With("service", "IntakeService")}
}

func (s *intakeService) List(ctx context.Context, params SessionListParams) ([]*types.IntakeSession, error) {
	const op = "Intake.List"
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	filter := repos.SessionListFilter{UserID: userID, JobID: params.JobID}
	if params.Status != nil {
		st := intake.Status(strings.TrimSpace(*params.Status))
		if !st.Valid() {
			return nil, invalid(op, "status must be one of active, completed, abandoned")
		}
		v := string(st)
		filter.Status = &v
	}
	rows, err := s.deps.Sessions.List(bg(ctx), filter)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rows, nil
}

func (s *intakeService) Get(ctx context.Context, id uint) (*types.IntakeSession, error) {
	row, err := s.deps.Sessions.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Intake.Get", err)
	}
	if row == nil {
		return nil, notFound("Intake.Get", "Intake session")
	}
	return row, nil
}

func (s *intakeService) Create(ctx context.Context, jobID uint) (*types.IntakeSession, error) {
	const op = "Intake.Create"
	if jobID == 0 {
		return nil, invalid(op, "job_id is required")
	}
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	job, err := s.deps.Jobs.GetByID(bg(ctx), jobID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if job == nil {
		return nil, notFound(op, "Job")
	}
	row, err := s.deps.Sessions.Create(bg(ctx), &types.IntakeSession{
		JobID:  jobID,
		UserID: userID,
		Step:   intake.StepDetails,
		Status: intake.StatusActive,
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return row, nil
}

func (s *intakeService) Update(ctx context.Context, id uint, patch SessionPatch) (*types.IntakeSession, error) {
	const op = "Intake.Update"
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if patch.Step != nil {
		step := intake.Step(strings.TrimSpace(*patch.Step))
		if !step.Valid() {
			return nil, invalid(op, "step must be one of details, experience, proposals, documents, complete")
		}
		updates["step"] = step
	}
	if patch.Status != nil {
		st := intake.Status(strings.TrimSpace(*patch.Status))
		if !st.Valid() {
			return nil, invalid(op, "status must be one of active, completed, abandoned")
		}
		updates["status"] = st
		if st == intake.StatusCompleted {
			updates["completed_at"] = time.Now().UTC()
		}
	}
	if _, err := s.deps.Sessions.UpdateFields(bg(ctx), id, updates); err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

func (s *intakeService) Delete(ctx context.Context, id uint) error {
	const op = "Intake.Delete"
	var n int64
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = s.deps.Sessions.Delete(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		return err
	})
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return notFound(op, "Intake session")
	}
	return nil
}

func (s *intakeService) Complete(ctx context.Context, id uint) (*types.IntakeSession, error) {
	step := string(intake.StepComplete)
	status := string(intake.StatusCompleted)
	return s.Update(ctx, id, SessionPatch{Step: &step, Status: &status})
}

type intakeContext struct {
	session *types.IntakeSession
	job     *types.Job
	profile *types.Profile
}

// load fetches the session, then its job and the owner's profile concurrently.
func (s *intakeService) load(ctx context.Context, op string, id uint, withProfile bool) (*intakeContext, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &intakeContext{session: session}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		job, err := s.deps.Jobs.GetByID(bg(gctx), session.JobID)
		if err != nil {
			return storeErr(op, err)
		}
		if job == nil {
			return notFound(op, "Job")
		}
		out.job = job
		return nil
	})
	if withProfile {
		g.Go(func() error {
			p, err := buildProfile(gctx, session.UserID, s.deps.Experiences, s.deps.Achievements, s.deps.Education, s.deps.Certifications)
			out.profile = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *intakeService) logResponse(ctx context.Context, session *types.IntakeSession, source types.ResponseSource, prompt, body string) (*types.Response, error) {
	jobID, sessionID := session.JobID, session.ID
	return s.deps.Responses.Create(bg(ctx), &types.Response{
		JobID:     &jobID,
		SessionID: &sessionID,
		Prompt:    prompt,
		Response:  body,
		Source:    source,
	})
}

func (s *intakeService) GapAnalysis(ctx context.Context, id uint) (*AnalysisResult, error) {
	return s.analyze(ctx, "Intake.GapAnalysis", id, responses.SourceGapAnalysis, "gap_analysis", s.deps.Agent.GapAnalysis)
}

func (s *intakeService) StakeholderAnalysis(ctx context.Context, id uint) (*AnalysisResult, error) {
	return s.analyze(ctx, "Intake.StakeholderAnalysis", id, responses.SourceStakeholderAnalysis, "stakeholder_analysis", s.deps.Agent.StakeholderAnalysis)
}

func (s *intakeService) analyze(
	ctx context.Context,
	op string,
	id uint,
	source types.ResponseSource,
	column string,
	call func(context.Context, agent.AnalysisRequest) (json.RawMessage, error),
) (*AnalysisResult, error) {
	ic, err := s.load(ctx, op, id, true)
	if err != nil {
		return nil, err
	}
	req := agent.AnalysisRequest{Job: ic.job, Profile: ic.profile}
	if source == responses.SourceStakeholderAnalysis {
		req.GapAnalysis = json.RawMessage(ic.session.GapAnalysis)
	}
	result, err := call(ctx, req)
	if err != nil {
		s.log.Warn("analysis failed", "op", op, "session_id", id, "error", err)
		return nil, agentErr(op, err)
	}
	if !json.Valid(result) {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "Agent returned invalid JSON", nil)
	}
	if _, err := s.deps.Sessions.UpdateFields(bg(ctx), id, map[string]any{column: datatypes.JSON(result)}); err != nil {
		return nil, storeErr(op, err)
	}
	resp, err := s.logResponse(ctx, ic.session, source, column+" for job "+ic.job.Title, string(result))
	if err != nil {
		return nil, storeErr(op, err)
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Session: session, Analysis: result, Response: resp}, nil
}

func (s *intakeService) GenerateProposals(ctx context.Context, id uint) (*GenerateProposalsResult, error) {
	const op = "Intake.GenerateProposals"
	ic, err := s.load(ctx, op, id, true)
	if err != nil {
		return nil, err
	}
	drafts, err := s.deps.Agent.ProposeExperienceEdits(ctx, agent.AnalysisRequest{
		Job:         ic.job,
		Profile:     ic.profile,
		GapAnalysis: json.RawMessage(ic.session.GapAnalysis),
	})
	if err != nil {
		s.log.Warn("proposal generation failed", "session_id", id, "error", err)
		return nil, agentErr(op, err)
	}

	out := &GenerateProposalsResult{Proposals: []*types.Proposal{}, Skipped: []SkippedDraft{}}
	var rows []*types.Proposal
	for i, d := range drafts {
		t := types.ProposalType(strings.TrimSpace(d.ProposalType))
		change, err := decodeContent(op, t, d.ProposedContent, d.AchievementID)
		if err == nil {
			err = checkTargets(ctx, op, s.deps.Experiences, s.deps.Achievements, d.ExperienceID, d.AchievementID, change)
		}
		if err != nil {
			if !domainagg.IsCode(err, domainagg.CodeValidation) && !domainagg.IsCode(err, domainagg.CodeNotFound) {
				return nil, err
			}
			out.Skipped = append(out.Skipped, SkippedDraft{
				Index:   i,
				Reason:  domainagg.MessageOf(err),
				Details: domainagg.DetailsOf(err),
			})
			continue
		}
		row := &types.Proposal{
			SessionID:               id,
			ExperienceID:            d.ExperienceID,
			AchievementID:           d.AchievementID,
			ProposalType:            t,
			ProposedContent:         datatypes.JSON(d.ProposedContent),
			OriginalProposedContent: datatypes.JSON(d.ProposedContent),
			Status:                  proposals.StatusPending,
		}
		if achID, ok := proposals.TargetAchievementID(change); ok && row.AchievementID == nil {
			row.AchievementID = &achID
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		created, err := s.deps.Proposals.Create(bg(ctx), rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out.Proposals = created
	}

	raw, _ := json.Marshal(drafts)
	if _, err := s.logResponse(ctx, ic.session, responses.SourceProposalGeneration, "experience proposals for job "+ic.job.Title, string(raw)); err != nil {
		return nil, storeErr(op, err)
	}
	s.log.Info("proposals generated", "session_id", id, "created", len(out.Proposals), "skipped", len(out.Skipped))
	return out, nil
}

func (s *intakeService) documents(op string, kind documents.Kind) (DocumentService, error) {
	docs, ok := s.deps.Documents[kind]
	if !ok {
		return nil, invalid(op, "kind must be one of resume, cover_letter")
	}
	return docs, nil
}

func (s *intakeService) Chat(ctx context.Context, id uint, kind documents.Kind, message string) (*ChatOutcome, error) {
	const op = "Intake.Chat"
	if strings.TrimSpace(message) == "" {
		return nil, invalid(op, "message is required")
	}
	docs, err := s.documents(op, kind)
	if err != nil {
		return nil, err
	}
	ic, err := s.load(ctx, op, id, false)
	if err != nil {
		return nil, err
	}
	canonical, err := docs.CanonicalForJob(ctx, ic.job.ID)
	if err != nil && !domainagg.IsCode(err, domainagg.CodeNotFound) {
		return nil, err
	}
	req := agent.ChatRequest{Kind: kind, Job: ic.job, Message: message}
	if canonical != nil {
		req.Document = canonical.Body
	}
	res, err := s.deps.Agent.Chat(ctx, req)
	if err != nil {
		s.log.Warn("chat failed", "session_id", id, "error", err)
		return nil, agentErr(op, err)
	}

	out := &ChatOutcome{Reply: res.Reply}
	if strings.TrimSpace(res.Document) != "" {
		in := VersionInput{
			JobID:           ic.job.ID,
			Body:            res.Document,
			EventType:       string(documents.EventGenerate),
			CreatedByUserID: ic.session.UserID,
			IsPinned:        true,
		}
		if canonical != nil {
			in.ParentVersionID = &canonical.ID
			in.TemplateName = canonical.TemplateName
		}
		v, err := docs.Create(ctx, in)
		switch {
		case err == nil:
			out.Version = v
		case domainagg.IsCode(err, domainagg.CodeValidation):
			s.log.Warn("agent document rejected", "session_id", id, "kind", string(kind), "error", err)
			out.Warning = domainagg.MessageOf(err)
		default:
			return nil, err
		}
	}
	out.Response, err = s.logResponse(ctx, ic.session, responses.SourceChat, message, res.Reply)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *intakeService) Generate(ctx context.Context, id uint, kind documents.Kind, templateName string) (*types.DocumentVersion, error) {
	const op = "Intake.Generate"
	docs, err := s.documents(op, kind)
	if err != nil {
		return nil, err
	}
	ic, err := s.load(ctx, op, id, true)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.deps.Templates.FindByName(ctx, templates.Type(kind), templateName)
	if err != nil {
		return nil, err
	}
	if tmpl == nil && strings.TrimSpace(templateName) != "" {
		return nil, notFound(op, "Template")
	}
	req := agent.GenerateRequest{Kind: kind, Job: ic.job, Profile: ic.profile, TemplateName: strings.TrimSpace(templateName)}
	if tmpl != nil {
		req.TemplateName = tmpl.Name
		req.TemplateContent = tmpl.Content
	}
	body, err := s.deps.Agent.GenerateDocument(ctx, req)
	if err != nil {
		s.log.Warn("document generation failed", "session_id", id, "kind", string(kind), "error", err)
		return nil, agentErr(op, err)
	}
	in := VersionInput{
		JobID:           ic.job.ID,
		Body:            body,
		TemplateName:    req.TemplateName,
		EventType:       string(documents.EventGenerate),
		CreatedByUserID: ic.session.UserID,
		IsPinned:        true,
	}
	if canonical, err := docs.CanonicalForJob(ctx, ic.job.ID); err == nil {
		in.ParentVersionID = &canonical.ID
	} else if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		return nil, err
	}
	v, err := docs.Create(ctx, in)
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeValidation) {
			return nil, domainagg.WithDetails(
				domainagg.NewError(domainagg.CodeInternal, op, "Agent returned an invalid document", err),
				domainagg.DetailsOf(err),
			)
		}
		return nil, err
	}
	return v, nil
}
