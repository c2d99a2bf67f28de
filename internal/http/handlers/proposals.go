package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/platform/apierr"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type ProposalHandler struct {
	proposals services.ProposalService
}

func NewProposalHandler(proposals services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

type createProposalRequest struct {
	SessionID               uint            `json:"session_id" binding:"required"`
	ExperienceID            uint            `json:"experience_id" binding:"required"`
	AchievementID           *uint           `json:"achievement_id" binding:"omitempty,min=1"`
	ProposalType            string          `json:"proposal_type" binding:"required"`
	ProposedContent         json.RawMessage `json:"proposed_content" binding:"required"`
	OriginalProposedContent json.RawMessage `json:"original_proposed_content"`
	Status                  *string         `json:"status" binding:"omitempty,oneof=pending accepted rejected"`
}

// GET /api/experience-proposals?session_id=&experience_id=&status=
func (h *ProposalHandler) List(c *gin.Context) {
	sessionID, err := queryID(c, "session_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if sessionID == nil {
		response.RespondError(c, apierr.BadRequest("validation", "session_id is required"))
		return
	}
	experienceID, err := queryID(c, "experience_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.proposals.List(c.Request.Context(), services.ProposalListParams{
		SessionID:    *sessionID,
		ExperienceID: experienceID,
		Status:       queryString(c, "status"),
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/experience-proposals/:id
func (h *ProposalHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	p, err := h.proposals.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// POST /api/experience-proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	var req createProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	p, err := h.proposals.Create(c.Request.Context(), services.ProposalInput{
		SessionID:               req.SessionID,
		ExperienceID:            req.ExperienceID,
		AchievementID:           req.AchievementID,
		ProposalType:            req.ProposalType,
		ProposedContent:         req.ProposedContent,
		OriginalProposedContent: req.OriginalProposedContent,
		Status:                  req.Status,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, p)
}

// PATCH /api/experience-proposals/:id
// body: { "proposed_content": {...} }
func (h *ProposalHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		ProposedContent json.RawMessage `json:"proposed_content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	p, err := h.proposals.UpdateContent(c.Request.Context(), id, req.ProposedContent)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// PATCH /api/experience-proposals/:id/accept
func (h *ProposalHandler) Accept(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	res, err := h.proposals.Accept(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, res.Proposal)
}

// PATCH /api/experience-proposals/:id/reject
func (h *ProposalHandler) Reject(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	p, err := h.proposals.Reject(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// DELETE /api/experience-proposals/:id
func (h *ProposalHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.proposals.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
