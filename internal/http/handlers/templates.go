package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type TemplateHandler struct {
	templates services.TemplateService
}

func NewTemplateHandler(templates services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type createTemplateRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Type        string `json:"type" binding:"required,oneof=resume cover_letter"`
	Description string `json:"description"`
	Content     string `json:"content" binding:"required"`
	IsDefault   bool   `json:"is_default"`
}

type updateTemplateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Type        *string `json:"type" binding:"omitempty,oneof=resume cover_letter"`
	Description *string `json:"description"`
	Content     *string `json:"content" binding:"omitempty,min=1"`
	IsDefault   *bool   `json:"is_default"`
}

// GET /api/templates?type=
func (h *TemplateHandler) List(c *gin.Context) {
	rows, err := h.templates.List(c.Request.Context(), queryString(c, "type"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	t, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, t)
}

// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	t, err := h.templates.Create(c.Request.Context(), services.TemplateInput(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, t)
}

// PATCH /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	t, err := h.templates.Update(c.Request.Context(), id, services.TemplatePatch(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, t)
}

// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
