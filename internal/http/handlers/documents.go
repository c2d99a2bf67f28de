package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/services"
)

// DocumentHandler serves one document kind; the router mounts one per kind.
type DocumentHandler struct {
	docs services.DocumentService
}

func NewDocumentHandler(docs services.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// versionRequest carries the body under either kind's field name; only the
// one matching the handler's kind is read.
type versionRequest struct {
	JobID           uint     `json:"job_id"`
	ResumeJSON      jsonText `json:"resume_json"`
	CoverLetterJSON jsonText `json:"cover_letter_json"`
	TemplateName    string   `json:"template_name" binding:"max=200"`
	EventType       string   `json:"event_type" binding:"omitempty,oneof=generate save reset"`
	ParentVersionID *uint    `json:"parent_version_id" binding:"omitempty,min=1"`
	CreatedByUserID uint     `json:"created_by_user_id"`
	IsPinned        bool     `json:"is_pinned"`
}

func (h *DocumentHandler) input(req versionRequest) services.VersionInput {
	body := req.ResumeJSON
	if h.docs.Kind() == documents.KindCoverLetter {
		body = req.CoverLetterJSON
	}
	return services.VersionInput{
		JobID:           req.JobID,
		Body:            string(body),
		TemplateName:    req.TemplateName,
		EventType:       req.EventType,
		ParentVersionID: req.ParentVersionID,
		CreatedByUserID: req.CreatedByUserID,
		IsPinned:        req.IsPinned,
	}
}

// GET /api/resumes?job_id=
func (h *DocumentHandler) ListCanonical(c *gin.Context) {
	jobID, err := queryID(c, "job_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.docs.ListCanonical(c.Request.Context(), jobID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/resumes
func (h *DocumentHandler) Create(c *gin.Context) {
	var req versionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	v, err := h.docs.Create(c.Request.Context(), h.input(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, v)
}

// GET /api/resumes/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	v, err := h.docs.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, v)
}

// PATCH /api/resumes/:id
// body: { "locked": true }
func (h *DocumentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Locked *bool `json:"locked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	v, err := h.docs.SetLocked(c.Request.Context(), id, *req.Locked)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, v)
}

// GET /api/resumes/:id/versions
func (h *DocumentHandler) ListVersions(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.docs.ListVersionsFor(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/resumes/:id/versions
func (h *DocumentHandler) CreateVersion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req versionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	v, err := h.docs.CreateVersionFor(c.Request.Context(), id, h.input(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, v)
}

// PATCH /api/resumes/:id/pin
func (h *DocumentHandler) Pin(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	v, err := h.docs.Pin(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, v)
}

// PATCH /api/resumes/:id/unpin
func (h *DocumentHandler) Unpin(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	v, err := h.docs.Unpin(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, v)
}

// GET /api/jobs/:id/resume
func (h *DocumentHandler) CanonicalForJob(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	v, err := h.docs.CanonicalForJob(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, v)
}
