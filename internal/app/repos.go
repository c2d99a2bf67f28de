package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	Job           repos.JobRepo
	Experience    repos.ExperienceRepo
	Achievement   repos.AchievementRepo
	Education     repos.EducationRepo
	Certification repos.CertificationRepo
	Version       repos.VersionRepo
	Proposal      repos.ProposalRepo
	Session       repos.SessionRepo
	Template      repos.TemplateRepo
	Response      repos.ResponseRepo
	Upload        repos.UploadRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Job:           repos.NewJobRepo(db, log),
		Experience:    repos.NewExperienceRepo(db, log),
		Achievement:   repos.NewAchievementRepo(db, log),
		Education:     repos.NewEducationRepo(db, log),
		Certification: repos.NewCertificationRepo(db, log),
		Version:       repos.NewVersionRepo(db, log),
		Proposal:      repos.NewProposalRepo(db, log),
		Session:       repos.NewSessionRepo(db, log),
		Template:      repos.NewTemplateRepo(db, log),
		Response:      repos.NewResponseRepo(db, log),
		Upload:        repos.NewUploadRepo(db, log),
	}
}
