package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/platform/apierr"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type IntakeHandler struct {
	intake services.IntakeService
}

func NewIntakeHandler(intake services.IntakeService) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

func parseKind(raw string) (documents.Kind, error) {
	if raw == "" {
		return documents.KindResume, nil
	}
	k, err := documents.ParseKind(raw)
	if err != nil {
		return "", apierr.BadRequest("validation", "kind must be resume or cover_letter")
	}
	return k, nil
}

// GET /api/intake-sessions?job_id=&status=
func (h *IntakeHandler) List(c *gin.Context) {
	jobID, err := queryID(c, "job_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.intake.List(c.Request.Context(), services.SessionListParams{JobID: jobID, Status: queryString(c, "status")})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/intake-sessions/:id
func (h *IntakeHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	s, err := h.intake.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, s)
}

// POST /api/intake-sessions
// body: { "job_id": 7 }
func (h *IntakeHandler) Create(c *gin.Context) {
	var req struct {
		JobID uint `json:"job_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	s, err := h.intake.Create(c.Request.Context(), req.JobID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, s)
}

// PATCH /api/intake-sessions/:id
func (h *IntakeHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Step   *string `json:"step"`
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	s, err := h.intake.Update(c.Request.Context(), id, services.SessionPatch{Step: req.Step, Status: req.Status})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, s)
}

// DELETE /api/intake-sessions/:id
func (h *IntakeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.intake.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/intake-sessions/:id/gap-analysis
func (h *IntakeHandler) GapAnalysis(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	res, err := h.intake.GapAnalysis(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/intake-sessions/:id/stakeholder-analysis
func (h *IntakeHandler) StakeholderAnalysis(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	res, err := h.intake.StakeholderAnalysis(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/intake-sessions/:id/proposals/generate
func (h *IntakeHandler) GenerateProposals(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	res, err := h.intake.GenerateProposals(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// POST /api/intake-sessions/:id/chat
// body: { "message": "...", "kind": "resume" | "cover_letter" }
func (h *IntakeHandler) Chat(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Message string `json:"message" binding:"required"`
		Kind    string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	out, err := h.intake.Chat(c.Request.Context(), id, kind, req.Message)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/intake-sessions/:id/generate
// body: { "kind": "resume", "template_name": "Classic" }
func (h *IntakeHandler) Generate(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Kind         string `json:"kind"`
		TemplateName string `json:"template_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	v, err := h.intake.Generate(c.Request.Context(), id, kind, req.TemplateName)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, v)
}

// POST /api/intake-sessions/:id/complete
func (h *IntakeHandler) Complete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	s, err := h.intake.Complete(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, s)
}
