package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/platform/gcp"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

const defaultUploadMaxBytes int64 = 10 << 20

type UploadInput struct {
	FileName    string
	ContentType string
	JobID       *uint
	Data        []byte
}

type UploadService interface {
	MaxBytes() int64
	Create(ctx context.Context, in UploadInput) (*types.Upload, error)
	Get(ctx context.Context, id uint) (*types.Upload, error)
	List(ctx context.Context) ([]*types.Upload, error)
}

type UploadDeps struct {
	Log     *logger.Logger
	Uploads repos.UploadRepo
	Jobs    repos.JobRepo
	// Bucket may be nil; every write then fails as not configured.
	Bucket gcp.Bucket
	// Extractor may be nil; binary documents are then stored without text.
	Extractor gcp.TextExtractor
	MaxBytes  int64
}

type uploadService struct {
	deps UploadDeps
	log  *logger.Logger
}

func NewUploadService(deps UploadDeps) UploadService {
	if deps.MaxBytes <= 0 {
		deps.MaxBytes = defaultUploadMaxBytes
	}
	return &uploadService{deps: deps, log: deps.Log.With("service", "UploadService")}
}

func (s *uploadService) MaxBytes() int64 { return s.deps.MaxBytes }

// storageKey builds uploads/<user>/<uuid>/<name> with a path-safe name.
func storageKey(userID uint, name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." || base == "/" {
		base = "file"
	}
	return fmt.Sprintf("uploads/%d/%s/%s", userID, uuid.NewString(), base)
}

func isTextType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") || mimeType == "application/json"
}

func isDocumentType(mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}

func (s *uploadService) extract(ctx context.Context, mimeType string, data []byte) string {
	switch {
	case isTextType(mimeType):
		if !utf8.Valid(data) {
			return strings.ToValidUTF8(string(data), "")
		}
		return string(bytes.TrimSpace(data))
	case isDocumentType(mimeType) && s.deps.Extractor != nil:
		text, err := s.deps.Extractor.ExtractText(ctx, mimeType, data)
		if err != nil {
			s.log.Warn("text extraction failed", "mime_type", mimeType, "error", err)
			return ""
		}
		return text
	}
	return ""
}

func (s *uploadService) Create(ctx context.Context, in UploadInput) (*types.Upload, error) {
	const op = "Uploads.Create"
	if s.deps.Bucket == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "Uploads are not configured", nil)
	}
	userID, err := requestUser(op, ctx)
	if err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, invalid(op, "file is required")
	}
	if int64(len(in.Data)) > s.deps.MaxBytes {
		return nil, invalid(op, fmt.Sprintf("file exceeds %d bytes", s.deps.MaxBytes))
	}
	if in.JobID != nil {
		job, err := s.deps.Jobs.GetByID(bg(ctx), *in.JobID)
		if err != nil {
			return nil, storeErr(op, err)
		}
		if job == nil {
			return nil, notFound(op, "Job")
		}
	}
	mimeType := strings.TrimSpace(strings.Split(in.ContentType, ";")[0])
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = gcp.ContentTypeForName(in.FileName)
	}

	key := storageKey(userID, in.FileName)
	if err := s.deps.Bucket.Upload(ctx, key, mimeType, bytes.NewReader(in.Data)); err != nil {
		s.log.Error("upload to bucket failed", "key", key, "error", err)
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "Upload failed", err)
	}
	row, err := s.deps.Uploads.Create(bg(ctx), &types.Upload{
		UserID:        userID,
		JobID:         in.JobID,
		FileName:      strings.TrimSpace(in.FileName),
		MimeType:      mimeType,
		SizeBytes:     int64(len(in.Data)),
		StorageKey:    key,
		ExtractedText: s.extract(ctx, mimeType, in.Data),
	})
	if err != nil {
		if derr := s.deps.Bucket.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Warn("orphaned upload object", "key", key, "error", derr)
		}
		return nil, storeErr(op, err)
	}
	s.log.Info("upload stored", "upload_id", row.ID, "mime_type", mimeType, "size_bytes", row.SizeBytes)
	return row, nil
}

func (s *uploadService) Get(ctx context.Context, id uint) (*types.Upload, error) {
	row, err := s.deps.Uploads.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Uploads.Get", err)
	}
	if row == nil {
		return nil, notFound("Uploads.Get", "Upload")
	}
	return row, nil
}

func (s *uploadService) List(ctx context.Context) ([]*types.Upload, error) {
	userID, err := requestUser("Uploads.List", ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.deps.Uploads.ListByUserID(bg(ctx), userID)
	if err != nil {
		return nil, storeErr("Uploads.List", err)
	}
	return rows, nil
}
