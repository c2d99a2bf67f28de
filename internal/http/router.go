package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/applytrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/applytrack-backend/internal/http/middleware"
	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/observability"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log           *logger.Logger
	Metrics       *observability.Metrics
	ServiceName   string
	TracingOn     bool
	DefaultUserID uint
	CORSOrigins   []string

	HealthHandler      *httpH.HealthHandler
	UserHandler        *httpH.UserHandler
	JobHandler         *httpH.JobHandler
	ExperienceHandler  *httpH.ExperienceHandler
	ProfileHandler     *httpH.ProfileHandler
	ResumeHandler      *httpH.DocumentHandler
	CoverLetterHandler *httpH.DocumentHandler
	ProposalHandler    *httpH.ProposalHandler
	IntakeHandler      *httpH.IntakeHandler
	TemplateHandler    *httpH.TemplateHandler
	ResponseHandler    *httpH.ResponseHandler
	UploadHandler      *httpH.UploadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	response.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingOn {
		name := cfg.ServiceName
		if name == "" {
			name = "applytrack-api"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestUser(cfg.DefaultUserID))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Users
	if h := cfg.UserHandler; h != nil {
		api.GET("/me", h.Me)
		api.GET("/users", h.List)
		api.POST("/users", h.Create)
		api.GET("/users/:id", h.Get)
		api.PATCH("/users/:id", h.Update)
		api.DELETE("/users/:id", h.Delete)
	}

	// Jobs
	if h := cfg.JobHandler; h != nil {
		api.GET("/jobs", h.List)
		api.POST("/jobs", h.Create)
		api.POST("/jobs/extract", h.Extract)
		api.GET("/jobs/:id", h.Get)
		api.PATCH("/jobs/:id", h.Update)
		api.DELETE("/jobs/:id", h.Delete)
		api.PATCH("/jobs/:id/favorite", h.Favorite)
		api.PATCH("/jobs/:id/status", h.Status)
	}

	// Profile
	if h := cfg.ExperienceHandler; h != nil {
		api.GET("/experiences", h.List)
		api.POST("/experiences", h.Create)
		api.POST("/experiences/extract", h.Extract)
		api.GET("/experiences/:id", h.Get)
		api.PATCH("/experiences/:id", h.Update)
		api.DELETE("/experiences/:id", h.Delete)
		api.GET("/experiences/:id/achievements", h.ListAchievements)
		api.POST("/experiences/:id/achievements", h.CreateAchievement)
		api.GET("/achievements/:id", h.GetAchievement)
		api.PATCH("/achievements/:id", h.UpdateAchievement)
		api.DELETE("/achievements/:id", h.DeleteAchievement)
	}
	if h := cfg.ProfileHandler; h != nil {
		api.GET("/profile", h.Get)
		api.GET("/education", h.ListEducation)
		api.POST("/education", h.CreateEducation)
		api.GET("/education/:id", h.GetEducation)
		api.PATCH("/education/:id", h.UpdateEducation)
		api.DELETE("/education/:id", h.DeleteEducation)
		api.GET("/certifications", h.ListCertifications)
		api.POST("/certifications", h.CreateCertification)
		api.GET("/certifications/:id", h.GetCertification)
		api.PATCH("/certifications/:id", h.UpdateCertification)
		api.DELETE("/certifications/:id", h.DeleteCertification)
	}

	// Documents
	mountDocuments(api, "/resumes", "/resume", cfg.ResumeHandler)
	mountDocuments(api, "/cover-letters", "/cover-letter", cfg.CoverLetterHandler)

	// Proposals
	if h := cfg.ProposalHandler; h != nil {
		api.GET("/experience-proposals", h.List)
		api.POST("/experience-proposals", h.Create)
		api.GET("/experience-proposals/:id", h.Get)
		api.PATCH("/experience-proposals/:id", h.Update)
		api.DELETE("/experience-proposals/:id", h.Delete)
		api.PATCH("/experience-proposals/:id/accept", h.Accept)
		api.PATCH("/experience-proposals/:id/reject", h.Reject)
	}

	// Intake
	if h := cfg.IntakeHandler; h != nil {
		api.GET("/intake-sessions", h.List)
		api.POST("/intake-sessions", h.Create)
		api.GET("/intake-sessions/:id", h.Get)
		api.PATCH("/intake-sessions/:id", h.Update)
		api.DELETE("/intake-sessions/:id", h.Delete)
		api.POST("/intake-sessions/:id/gap-analysis", h.GapAnalysis)
		api.POST("/intake-sessions/:id/stakeholder-analysis", h.StakeholderAnalysis)
		api.POST("/intake-sessions/:id/proposals/generate", h.GenerateProposals)
		api.POST("/intake-sessions/:id/chat", h.Chat)
		api.POST("/intake-sessions/:id/generate", h.Generate)
		api.POST("/intake-sessions/:id/complete", h.Complete)
	}

	// Templates
	if h := cfg.TemplateHandler; h != nil {
		api.GET("/templates", h.List)
		api.POST("/templates", h.Create)
		api.GET("/templates/:id", h.Get)
		api.PATCH("/templates/:id", h.Update)
		api.DELETE("/templates/:id", h.Delete)
	}

	// Responses
	if h := cfg.ResponseHandler; h != nil {
		api.GET("/responses", h.List)
		api.POST("/responses", h.Create)
		api.GET("/responses/:id", h.Get)
		api.PATCH("/responses/:id", h.Update)
		api.DELETE("/responses/:id", h.Delete)
	}

	// Uploads
	if h := cfg.UploadHandler; h != nil {
		api.GET("/uploads", h.List)
		api.POST("/uploads", h.Create)
		api.GET("/uploads/:id", h.Get)
	}

	return r
}

func mountDocuments(api *gin.RouterGroup, base, jobSuffix string, h *httpH.DocumentHandler) {
	if h == nil {
		return
	}
	api.GET(base, h.ListCanonical)
	api.POST(base, h.Create)
	api.GET(base+"/:id", h.Get)
	api.PATCH(base+"/:id", h.Update)
	api.GET(base+"/:id/versions", h.ListVersions)
	api.POST(base+"/:id/versions", h.CreateVersion)
	api.PATCH(base+"/:id/pin", h.Pin)
	api.PATCH(base+"/:id/unpin", h.Unpin)
	api.GET("/jobs/:id"+jobSuffix, h.CanonicalForJob)
}
