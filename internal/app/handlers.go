package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/http"
	httpH "github.com/yungbote/applytrack-backend/internal/http/handlers"
	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

func dbPinger(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func wireRouter(db *gorm.DB, log *logger.Logger, cfg Config, s Services, metrics *observability.Metrics) *gin.Engine {
	log.Info("Wiring handlers...")
	return http.NewRouter(http.RouterConfig{
		Log:           log,
		Metrics:       metrics,
		ServiceName:   cfg.Otel.ServiceName,
		TracingOn:     cfg.Otel.Enabled,
		DefaultUserID: cfg.DefaultUserID,
		CORSOrigins:   cfg.CORSOrigins,

		HealthHandler:      httpH.NewHealthHandler(dbPinger(db)),
		UserHandler:        httpH.NewUserHandler(s.User),
		JobHandler:         httpH.NewJobHandler(s.Job),
		ExperienceHandler:  httpH.NewExperienceHandler(s.Experience),
		ProfileHandler:     httpH.NewProfileHandler(s.Profile),
		ResumeHandler:      httpH.NewDocumentHandler(s.Resume),
		CoverLetterHandler: httpH.NewDocumentHandler(s.CoverLetter),
		ProposalHandler:    httpH.NewProposalHandler(s.Proposal),
		IntakeHandler:      httpH.NewIntakeHandler(s.Intake),
		TemplateHandler:    httpH.NewTemplateHandler(s.Template),
		ResponseHandler:    httpH.NewResponseHandler(s.Response),
		UploadHandler:      httpH.NewUploadHandler(s.Upload),
	})
}
