package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type ProfileHandler struct {
	profile services.ProfileService
}

func NewProfileHandler(profile services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

type educationRequest struct {
	School      string `json:"school" binding:"required,max=300"`
	Degree      string `json:"degree" binding:"max=300"`
	Field       string `json:"field" binding:"max=300"`
	StartDate   string `json:"start_date" binding:"max=32"`
	EndDate     string `json:"end_date" binding:"max=32"`
	Description string `json:"description"`
}

type educationPatchRequest struct {
	School      *string `json:"school" binding:"omitempty,min=1,max=300"`
	Degree      *string `json:"degree" binding:"omitempty,max=300"`
	Field       *string `json:"field" binding:"omitempty,max=300"`
	StartDate   *string `json:"start_date" binding:"omitempty,max=32"`
	EndDate     *string `json:"end_date" binding:"omitempty,max=32"`
	Description *string `json:"description"`
}

type certificationRequest struct {
	Name          string `json:"name" binding:"required,max=300"`
	Issuer        string `json:"issuer" binding:"max=300"`
	IssuedOn      string `json:"issued_on" binding:"max=32"`
	ExpiresOn     string `json:"expires_on" binding:"max=32"`
	CredentialURL string `json:"credential_url" binding:"omitempty,url"`
}

type certificationPatchRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=300"`
	Issuer        *string `json:"issuer" binding:"omitempty,max=300"`
	IssuedOn      *string `json:"issued_on" binding:"omitempty,max=32"`
	ExpiresOn     *string `json:"expires_on" binding:"omitempty,max=32"`
	CredentialURL *string `json:"credential_url" binding:"omitempty,url"`
}

// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profile.Get(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// GET /api/education
func (h *ProfileHandler) ListEducation(c *gin.Context) {
	rows, err := h.profile.ListEducation(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/education/:id
func (h *ProfileHandler) GetEducation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.profile.GetEducation(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// POST /api/education
func (h *ProfileHandler) CreateEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	row, err := h.profile.CreateEducation(c.Request.Context(), services.EducationInput(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// PATCH /api/education/:id
func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req educationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	row, err := h.profile.UpdateEducation(c.Request.Context(), id, services.EducationPatch(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// DELETE /api/education/:id
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.profile.DeleteEducation(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/certifications
func (h *ProfileHandler) ListCertifications(c *gin.Context) {
	rows, err := h.profile.ListCertifications(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/certifications/:id
func (h *ProfileHandler) GetCertification(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.profile.GetCertification(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// POST /api/certifications
func (h *ProfileHandler) CreateCertification(c *gin.Context) {
	var req certificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	row, err := h.profile.CreateCertification(c.Request.Context(), services.CertificationInput(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// PATCH /api/certifications/:id
func (h *ProfileHandler) UpdateCertification(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req certificationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	row, err := h.profile.UpdateCertification(c.Request.Context(), id, services.CertificationPatch(req))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// DELETE /api/certifications/:id
func (h *ProfileHandler) DeleteCertification(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.profile.DeleteCertification(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
