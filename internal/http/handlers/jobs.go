package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/platform/apierr"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type JobHandler struct {
	jobs services.JobService
}

func NewJobHandler(jobs services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type createJobRequest struct {
	Title       string `json:"title" binding:"required,max=300"`
	Company     string `json:"company" binding:"required,max=300"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"max=300"`
	URL         string `json:"url" binding:"omitempty,url"`
	SalaryRange string `json:"salary_range" binding:"max=100"`
	Notes       string `json:"notes"`
	Status      string `json:"status"`
	IsFavorite  bool   `json:"is_favorite"`
}

type updateJobRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=300"`
	Company     *string `json:"company" binding:"omitempty,min=1,max=300"`
	Description *string `json:"description"`
	Location    *string `json:"location" binding:"omitempty,max=300"`
	URL         *string `json:"url" binding:"omitempty,url"`
	SalaryRange *string `json:"salary_range" binding:"omitempty,max=100"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status"`
	IsFavorite  *bool   `json:"is_favorite"`
}

type extractJobRequest struct {
	RawText string `json:"raw_text"`
	RawHTML string `json:"raw_html"`
}

// GET /api/jobs?status=&favorite=
func (h *JobHandler) List(c *gin.Context) {
	fav, err := queryBool(c, "favorite")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.jobs.List(c.Request.Context(), services.JobListParams{Status: queryString(c, "status"), Favorite: fav})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, job)
}

// POST /api/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	job, err := h.jobs.Create(c.Request.Context(), services.JobInput{
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Location:    req.Location,
		URL:         req.URL,
		SalaryRange: req.SalaryRange,
		Notes:       req.Notes,
		Status:      req.Status,
		IsFavorite:  req.IsFavorite,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, job)
}

// PATCH /api/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req updateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	job, err := h.jobs.Update(c.Request.Context(), id, services.JobPatch{
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Location:    req.Location,
		URL:         req.URL,
		SalaryRange: req.SalaryRange,
		Notes:       req.Notes,
		Status:      req.Status,
		IsFavorite:  req.IsFavorite,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, job)
}

// DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// PATCH /api/jobs/:id/favorite
// body (optional): { "is_favorite": true }; an empty body toggles.
func (h *JobHandler) Favorite(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		IsFavorite *bool `json:"is_favorite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondBindError(c, err)
		return
	}
	job, err := h.jobs.SetFavorite(c.Request.Context(), id, req.IsFavorite)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, job)
}

// PATCH /api/jobs/:id/status
func (h *JobHandler) Status(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	job, err := h.jobs.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, job)
}

// POST /api/jobs/extract
func (h *JobHandler) Extract(c *gin.Context) {
	var req extractJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	raw := req.RawText
	if strings.TrimSpace(raw) == "" {
		raw = req.RawHTML
	}
	if strings.TrimSpace(raw) == "" {
		response.RespondError(c, apierr.BadRequest("validation", "raw_text or raw_html is required"))
		return
	}
	details, err := h.jobs.Extract(c.Request.Context(), raw)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, details)
}
