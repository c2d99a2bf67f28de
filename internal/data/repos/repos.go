package repos

import (
	"github.com/yungbote/applytrack-backend/internal/data/repos/documents"
	"github.com/yungbote/applytrack-backend/internal/data/repos/intake"
	"github.com/yungbote/applytrack-backend/internal/data/repos/jobs"
	"github.com/yungbote/applytrack-backend/internal/data/repos/profile"
	"github.com/yungbote/applytrack-backend/internal/data/repos/proposals"
	"github.com/yungbote/applytrack-backend/internal/data/repos/responses"
	"github.com/yungbote/applytrack-backend/internal/data/repos/templates"
	"github.com/yungbote/applytrack-backend/internal/data/repos/uploads"
	"github.com/yungbote/applytrack-backend/internal/data/repos/user"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type JobRepo = jobs.JobRepo
type JobListFilter = jobs.ListFilter

type ExperienceRepo = profile.ExperienceRepo
type AchievementRepo = profile.AchievementRepo
type EducationRepo = profile.EducationRepo
type CertificationRepo = profile.CertificationRepo

type VersionRepo = documents.VersionRepo

type ProposalRepo = proposals.ProposalRepo
type ProposalListFilter = proposals.ListFilter

type SessionRepo = intake.SessionRepo
type SessionListFilter = intake.ListFilter

type TemplateRepo = templates.TemplateRepo
type ResponseRepo = responses.ResponseRepo
type ResponseListFilter = responses.ListFilter
type UploadRepo = uploads.UploadRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo   { return jobs.NewJobRepo(db, baseLog) }

func NewExperienceRepo(db *gorm.DB, baseLog *logger.Logger) ExperienceRepo {
	return profile.NewExperienceRepo(db, baseLog)
}
func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return profile.NewAchievementRepo(db, baseLog)
}
func NewEducationRepo(db *gorm.DB, baseLog *logger.Logger) EducationRepo {
	return profile.NewEducationRepo(db, baseLog)
}
func NewCertificationRepo(db *gorm.DB, baseLog *logger.Logger) CertificationRepo {
	return profile.NewCertificationRepo(db, baseLog)
}

func NewVersionRepo(db *gorm.DB, baseLog *logger.Logger) VersionRepo {
	return documents.NewVersionRepo(db, baseLog)
}

func NewProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProposalRepo {
	return proposals.NewProposalRepo(db, baseLog)
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return intake.NewSessionRepo(db, baseLog)
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	return templates.NewTemplateRepo(db, baseLog)
}
func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return responses.NewResponseRepo(db, baseLog)
}
func NewUploadRepo(db *gorm.DB, baseLog *logger.Logger) UploadRepo {
	return uploads.NewUploadRepo(db, baseLog)
}
