package services

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/aggregates"
	"github.com/yungbote/applytrack-backend/internal/data/repos"
	repotest "github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/platform/agent"
	"github.com/yungbote/applytrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

// fixture wires every service against a fresh database. The services run on
// the pool rather than a test transaction because profile loading fans out
// across goroutines.
type fixture struct {
	ctx   context.Context
	db    *gorm.DB
	log   *logger.Logger
	user  *types.User
	agent *fakeAgent

	jobRepo         repos.JobRepo
	experienceRepo  repos.ExperienceRepo
	achievementRepo repos.AchievementRepo
	proposalRepo    repos.ProposalRepo
	sessionRepo     repos.SessionRepo
	responseRepo    repos.ResponseRepo
	uploadRepo      repos.UploadRepo

	jobs        JobService
	experiences ExperienceService
	profile     ProfileService
	resumes     DocumentService
	letters     DocumentService
	proposals   ProposalService
	templates   TemplateService
	responses   ResponseService
	intake      IntakeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	user := repotest.SeedUser(t, context.Background(), db)
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: user.ID})

	f := &fixture{
		ctx:             ctx,
		db:              db,
		log:             log,
		user:            user,
		agent:           &fakeAgent{},
		jobRepo:         repos.NewJobRepo(db, log),
		experienceRepo:  repos.NewExperienceRepo(db, log),
		achievementRepo: repos.NewAchievementRepo(db, log),
		proposalRepo:    repos.NewProposalRepo(db, log),
		sessionRepo:     repos.NewSessionRepo(db, log),
		responseRepo:    repos.NewResponseRepo(db, log),
		uploadRepo:      repos.NewUploadRepo(db, log),
	}
	versionRepo := repos.NewVersionRepo(db, log)
	educationRepo := repos.NewEducationRepo(db, log)
	certRepo := repos.NewCertificationRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log}
	versionAgg := aggregates.NewDocumentVersionAggregate(aggregates.DocumentVersionAggregateDeps{
		Base:     base,
		Jobs:     f.jobRepo,
		Versions: versionRepo,
	})
	proposalAgg := aggregates.NewProposalAggregate(aggregates.ProposalAggregateDeps{
		Base:         base,
		Proposals:    f.proposalRepo,
		Experiences:  f.experienceRepo,
		Achievements: f.achievementRepo,
	})

	f.jobs = NewJobService(db, log, f.jobRepo, f.agent)
	f.experiences = NewExperienceService(db, log, f.experienceRepo, f.achievementRepo, f.uploadRepo, f.agent)
	f.profile = NewProfileService(log, f.experienceRepo, f.achievementRepo, educationRepo, certRepo)
	f.resumes = NewDocumentService(documents.KindResume, log, f.jobRepo, versionRepo, versionAgg, nil)
	f.letters = NewDocumentService(documents.KindCoverLetter, log, f.jobRepo, versionRepo, versionAgg, nil)
	f.proposals = NewProposalService(log, f.proposalRepo, f.sessionRepo, f.experienceRepo, f.achievementRepo, proposalAgg)
	f.templates = NewTemplateService(log, repos.NewTemplateRepo(db, log))
	f.responses = NewResponseService(log, f.responseRepo, f.jobRepo, f.sessionRepo)
	f.intake = NewIntakeService(IntakeDeps{
		DB:             db,
		Log:            log,
		Sessions:       f.sessionRepo,
		Jobs:           f.jobRepo,
		Experiences:    f.experienceRepo,
		Achievements:   f.achievementRepo,
		Education:      educationRepo,
		Certifications: certRepo,
		Proposals:      f.proposalRepo,
		Responses:      f.responseRepo,
		Documents: map[documents.Kind]DocumentService{
			documents.KindResume:      f.resumes,
			documents.KindCoverLetter: f.letters,
		},
		Templates: f.templates,
		Agent:     f.agent,
	})
	return f
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := domainagg.CodeOf(err); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}

func requireMessage(t *testing.T, err error, want string) {
	t.Helper()
	if got := domainagg.MessageOf(err); got != want {
		t.Fatalf("message: got %q want %q", got, want)
	}
}

// fakeAgent returns canned results and records what it was asked.
type fakeAgent struct {
	job         *agent.JobDetails
	experiences []agent.ExperienceDraft
	gap         json.RawMessage
	stakeholder json.RawMessage
	drafts      []agent.ProposalDraft
	document    string
	chat        *agent.ChatResult
	err         error

	lastText     string
	lastAnalysis agent.AnalysisRequest
	lastGenerate agent.GenerateRequest
	lastChat     agent.ChatRequest
}

func (a *fakeAgent) ExtractJobDetails(_ context.Context, raw string) (*agent.JobDetails, error) {
	a.lastText = raw
	return a.job, a.err
}

func (a *fakeAgent) ExtractExperiences(_ context.Context, text string) ([]agent.ExperienceDraft, error) {
	a.lastText = text
	return a.experiences, a.err
}

func (a *fakeAgent) GapAnalysis(_ context.Context, in agent.AnalysisRequest) (json.RawMessage, error) {
	a.lastAnalysis = in
	return a.gap, a.err
}

func (a *fakeAgent) StakeholderAnalysis(_ context.Context, in agent.AnalysisRequest) (json.RawMessage, error) {
	a.lastAnalysis = in
	return a.stakeholder, a.err
}

func (a *fakeAgent) ProposeExperienceEdits(_ context.Context, in agent.AnalysisRequest) ([]agent.ProposalDraft, error) {
	a.lastAnalysis = in
	return a.drafts, a.err
}

func (a *fakeAgent) GenerateDocument(_ context.Context, in agent.GenerateRequest) (string, error) {
	a.lastGenerate = in
	return a.document, a.err
}

func (a *fakeAgent) Chat(_ context.Context, in agent.ChatRequest) (*agent.ChatResult, error) {
	a.lastChat = in
	return a.chat, a.err
}

func itoa(v uint) string { return strconv.FormatUint(uint64(v), 10) }

// jsonEqual compares JSON by value; Postgres jsonb does not keep the input spacing.
func jsonEqual(raw []byte, want string) bool {
	var a, b any
	if json.Unmarshal(raw, &a) != nil || json.Unmarshal([]byte(want), &b) != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}
