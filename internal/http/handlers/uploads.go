package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/http/response"
	"github.com/yungbote/applytrack-backend/internal/platform/apierr"
	"github.com/yungbote/applytrack-backend/internal/services"
)

type UploadHandler struct {
	uploads services.UploadService
}

func NewUploadHandler(uploads services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// POST /api/uploads (multipart: file, job_id?)
func (h *UploadHandler) Create(c *gin.Context) {
	limit := h.uploads.MaxBytes()
	// Multipart framing adds a little on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, apierr.BadRequest("file_too_large", fmt.Sprintf("File exceeds %d bytes", limit)))
			return
		}
		response.RespondError(c, apierr.BadRequest("validation", "file is required"))
		return
	}
	jobID, err := formID(c, "job_id")
	if err != nil {
		response.RespondError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, apierr.New(http.StatusBadRequest, "invalid_file", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		response.RespondError(c, apierr.New(http.StatusBadRequest, "invalid_file", err))
		return
	}

	up, err := h.uploads.Create(c.Request.Context(), services.UploadInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		JobID:       jobID,
		Data:        data,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, up)
}

// GET /api/uploads
func (h *UploadHandler) List(c *gin.Context) {
	rows, err := h.uploads.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/uploads/:id
func (h *UploadHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	up, err := h.uploads.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, up)
}
