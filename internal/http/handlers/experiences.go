package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/platform/apierr"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type ExperienceHandler struct {
	experiences services.ExperienceService
}

func NewExperienceHandler(experiences services.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences}
}

type achievementRequest struct {
	Title   string `json:"title" binding:"max=300"`
	Content string `json:"content" binding:"required"`
	Order   *int   `json:"order" binding:"omitempty,min=0"`
}

type createExperienceRequest struct {
	Company         string               `json:"company" binding:"required,max=300"`
	Title           string               `json:"title" binding:"required,max=300"`
	Location        string               `json:"location" binding:"max=300"`
	StartDate       string               `json:"start_date" binding:"max=32"`
	EndDate         string               `json:"end_date" binding:"max=32"`
	IsCurrent       bool                 `json:"is_current"`
	RoleOverview    string               `json:"role_overview"`
	CompanyOverview string               `json:"company_overview"`
	Skills          []string             `json:"skills" binding:"omitempty,dive,required,max=100"`
	SortOrder       int                  `json:"sort_order"`
	Achievements    []achievementRequest `json:"achievements" binding:"omitempty,dive"`
}

type updateExperienceRequest struct {
	Company         *string   `json:"company" binding:"omitempty,min=1,max=300"`
	Title           *string   `json:"title" binding:"omitempty,min=1,max=300"`
	Location        *string   `json:"location" binding:"omitempty,max=300"`
	StartDate       *string   `json:"start_date" binding:"omitempty,max=32"`
	EndDate         *string   `json:"end_date" binding:"omitempty,max=32"`
	IsCurrent       *bool     `json:"is_current"`
	RoleOverview    *string   `json:"role_overview"`
	CompanyOverview *string   `json:"company_overview"`
	Skills          *[]string `json:"skills" binding:"omitempty,dive,required,max=100"`
	SortOrder       *int      `json:"sort_order"`
}

type updateAchievementRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=300"`
	Content *string `json:"content" binding:"omitempty,min=1"`
	Order   *int    `json:"order" binding:"omitempty,min=0"`
}

// GET /api/experiences?user_id=&include=achievements
func (h *ExperienceHandler) List(c *gin.Context) {
	userID, err := queryID(c, "user_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var uid uint
	if userID != nil {
		uid = *userID
	}
	include := strings.Contains(c.Query("include"), "achievements")
	rows, err := h.experiences.List(c.Request.Context(), uid, include)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/experiences/:id
func (h *ExperienceHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	exp, err := h.experiences.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, exp)
}

// POST /api/experiences?user_id=
func (h *ExperienceHandler) Create(c *gin.Context) {
	userID, err := queryID(c, "user_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req createExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	in := services.ExperienceInput{
		Company:         req.Company,
		Title:           req.Title,
		Location:        req.Location,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsCurrent:       req.IsCurrent,
		RoleOverview:    req.RoleOverview,
		CompanyOverview: req.CompanyOverview,
		Skills:          req.Skills,
		SortOrder:       req.SortOrder,
	}
	if userID != nil {
		in.UserID = *userID
	}
	for _, a := range req.Achievements {
		in.Achievements = append(in.Achievements, services.AchievementInput{Title: a.Title, Content: a.Content, Order: a.Order})
	}
	exp, err := h.experiences.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, exp)
}

// PATCH /api/experiences/:id
func (h *ExperienceHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req updateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	exp, err := h.experiences.Update(c.Request.Context(), id, services.ExperiencePatch{
		Company:         req.Company,
		Title:           req.Title,
		Location:        req.Location,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsCurrent:       req.IsCurrent,
		RoleOverview:    req.RoleOverview,
		CompanyOverview: req.CompanyOverview,
		Skills:          req.Skills,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, exp)
}

// DELETE /api/experiences/:id
func (h *ExperienceHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.experiences.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/experiences/extract
// body: { "text": "..." } or { "upload_id": 3 }
func (h *ExperienceHandler) Extract(c *gin.Context) {
	var req struct {
		Text     string `json:"text"`
		UploadID *uint  `json:"upload_id" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.UploadID == nil {
		response.RespondError(c, apierr.BadRequest("validation", "text or upload_id is required"))
		return
	}
	drafts, err := h.experiences.Extract(c.Request.Context(), req.Text, req.UploadID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"experiences": drafts})
}

// GET /api/experiences/:id/achievements
func (h *ExperienceHandler) ListAchievements(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.experiences.ListAchievements(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /api/experiences/:id/achievements
func (h *ExperienceHandler) CreateAchievement(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	a, err := h.experiences.CreateAchievement(c.Request.Context(), services.AchievementInput{
		ExperienceID: id,
		Title:        req.Title,
		Content:      req.Content,
		Order:        req.Order,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, a)
}

// GET /api/achievements/:id
func (h *ExperienceHandler) GetAchievement(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	a, err := h.experiences.GetAchievement(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, a)
}

// PATCH /api/achievements/:id
func (h *ExperienceHandler) UpdateAchievement(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req updateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	a, err := h.experiences.UpdateAchievement(c.Request.Context(), id, services.AchievementPatch{
		Title:   req.Title,
		Content: req.Content,
		Order:   req.Order,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, a)
}

// DELETE /api/achievements/:id
func (h *ExperienceHandler) DeleteAchievement(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.experiences.DeleteAchievement(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
