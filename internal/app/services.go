package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type Services struct {
	User        services.UserService
	Job         services.JobService
	Experience  services.ExperienceService
	Profile     services.ProfileService
	Resume      services.DocumentService
	CoverLetter services.DocumentService
	Proposal    services.ProposalService
	Intake      services.IntakeService
	Template    services.TemplateService
	Response    services.ResponseService
	Upload      services.UploadService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	base := aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewObservabilityHooks(metrics)}
	versionAgg := aggregates.NewDocumentVersionAggregate(aggregates.DocumentVersionAggregateDeps{
		Base:     base,
		Jobs:     r.Job,
		Versions: r.Version,
	})
	proposalAgg := aggregates.NewProposalAggregate(aggregates.ProposalAggregateDeps{
		Base:         base,
		Proposals:    r.Proposal,
		Experiences:  r.Experience,
		Achievements: r.Achievement,
	})

	for _, agg := range []domainagg.Aggregate{versionAgg, proposalAgg} {
		c := agg.Contract()
		log.Info("Aggregate wired", "aggregate", c.Name, "tables", c.Tables, "writes", c.Writes)
	}

	resumes := services.NewDocumentService(documents.KindResume, log, r.Job, r.Version, versionAgg, nil)
	letters := services.NewDocumentService(documents.KindCoverLetter, log, r.Job, r.Version, versionAgg, nil)
	templates := services.NewTemplateService(log, r.Template)

	return Services{
		User:        services.NewUserService(log, r.User),
		Job:         services.NewJobService(db, log, r.Job, c.Agent),
		Experience:  services.NewExperienceService(db, log, r.Experience, r.Achievement, r.Upload, c.Agent),
		Profile:     services.NewProfileService(log, r.Experience, r.Achievement, r.Education, r.Certification),
		Resume:      resumes,
		CoverLetter: letters,
		Proposal:    services.NewProposalService(log, r.Proposal, r.Session, r.Experience, r.Achievement, proposalAgg),
		Intake: services.NewIntakeService(services.IntakeDeps{
			DB:             db,
			Log:            log,
			Sessions:       r.Session,
			Jobs:           r.Job,
			Experiences:    r.Experience,
			Achievements:   r.Achievement,
			Education:      r.Education,
			Certifications: r.Certification,
			Proposals:      r.Proposal,
			Responses:      r.Response,
			Documents: map[documents.Kind]services.DocumentService{
				documents.KindResume:      resumes,
				documents.KindCoverLetter: letters,
			},
			Templates: templates,
			Agent:     c.Agent,
		}),
		Template: templates,
		Response: services.NewResponseService(log, r.Response, r.Job, r.Session),
		Upload: services.NewUploadService(services.UploadDeps{
			Log:       log,
			Uploads:   r.Upload,
			Jobs:      r.Job,
			Bucket:    c.Bucket,
			Extractor: c.Extractor,
			MaxBytes:  cfg.UploadMaxBytes,
		}),
	}
}
