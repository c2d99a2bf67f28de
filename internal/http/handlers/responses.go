package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type ResponseHandler struct {
	responses services.ResponseService
}

func NewResponseHandler(responses services.ResponseService) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

type createResponseRequest struct {
	JobID     *uint  `json:"job_id" binding:"omitempty,min=1"`
	SessionID *uint  `json:"session_id" binding:"omitempty,min=1"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response" binding:"required"`
	Source    string `json:"source"`
	Ignore    bool   `json:"ignore"`
	Locked    bool   `json:"locked"`
}

type updateResponseRequest struct {
	Prompt   *string `json:"prompt"`
	Response *string `json:"response" binding:"omitempty,min=1"`
	Source   *string `json:"source"`
	Ignore   *bool   `json:"ignore"`
	Locked   *bool   `json:"locked"`
}

// GET /api/responses?job_id=&session_id=&source=&include_ignored=
func (h *ResponseHandler) List(c *gin.Context) {
	jobID, err := queryID(c, "job_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	sessionID, err := queryID(c, "session_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	includeIgnored, err := queryBool(c, "include_ignored")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	params := services.ResponseListParams{JobID: jobID, SessionID: sessionID, Source: queryString(c, "source")}
	if includeIgnored != nil {
		params.IncludeIgnored = *includeIgnored
	}
	rows, err := h.responses.List(c.Request.Context(), params)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/responses/:id
func (h *ResponseHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	r, err := h.responses.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, r)
}

// POST /api/responses
func (h *ResponseHandler) Create(c *gin.Context) {
	var req createResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	r, err := h.responses.Create(c.Request.Context(), services.ResponseInput(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, r)
}

// PATCH /api/responses/:id
func (h *ResponseHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req updateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	r, err := h.responses.Update(c.Request.Context(), id, services.ResponsePatch(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, r)
}

// DELETE /api/responses/:id
func (h *ResponseHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.responses.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
