package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/platform/docschema"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type VersionInput struct {
	JobID           uint
	Body            string
	TemplateName    string
	EventType       string
	ParentVersionID *uint
	CreatedByUserID uint
	IsPinned        bool
}

// DocumentService serves one document kind. Writes go through the version
// aggregate; reads go straight to the version repo.
type DocumentService interface {
	Kind() documents.Kind
	// ListCanonical returns pinned versions, optionally for a single job.
	ListCanonical(ctx context.Context, jobID *uint) ([]*types.DocumentVersion, error)
	Create(ctx context.Context, in VersionInput) (*types.DocumentVersion, error)
	Get(ctx context.Context, id uint) (*types.DocumentVersion, error)
	SetLocked(ctx context.Context, id uint, locked bool) (*types.DocumentVersion, error)
	// ListVersionsFor lists every version of the job that version id belongs to.
	ListVersionsFor(ctx context.Context, id uint) ([]*types.DocumentVersion, error)
	// CreateVersionFor creates a version on the job that version id belongs to.
	CreateVersionFor(ctx context.Context, id uint, in VersionInput) (*types.DocumentVersion, error)
	Pin(ctx context.Context, id uint) (*types.DocumentVersion, error)
	Unpin(ctx context.Context, id uint) (*types.DocumentVersion, error)
	CanonicalForJob(ctx context.Context, jobID uint) (*types.DocumentVersion, error)
}

type documentService struct {
	kind      documents.Kind
	log       *logger.Logger
	jobs      repos.JobRepo
	versions  repos.VersionRepo
	agg       domainagg.DocumentVersionAggregate
	validator *docschema.Validator
}

func NewDocumentService(
	kind documents.Kind,
	log *logger.Logger,
	jobs repos.JobRepo,
	versions repos.VersionRepo,
	agg domainagg.DocumentVersionAggregate,
	validator *docschema.Validator,
) DocumentService {
	if validator == nil {
		validator = docschema.New()
	}
	return &documentService{
		kind:      kind,
		log:       log.With("service", "DocumentService", "kind", string(kind)),
		jobs:      jobs,
		versions:  versions,
		agg:       agg,
		validator: validator,
	}
}

func (s *documentService) Kind() documents.Kind { return s.kind }

func (s *documentService) op(name string) string { return s.kind.Label() + "." + name }

func (s *documentService) stamp(v *types.DocumentVersion) *types.DocumentVersion {
	if v != nil {
		v.Kind = s.kind
	}
	return v
}

func (s *documentService) ListCanonical(ctx context.Context, jobID *uint) ([]*types.DocumentVersion, error) {
	rows, err := s.versions.ListPinned(bg(ctx), s.kind, jobID)
	if err != nil {
		return nil, storeErr(s.op("ListCanonical"), err)
	}
	return documents.WithKind(rows, s.kind), nil
}

// validateBody checks the body shape before anything is written.
func (s *documentService) validateBody(op, body string) error {
	if strings.TrimSpace(body) == "" {
		return invalid(op, s.kind.BodyField()+" is required")
	}
	err := s.validator.Validate(s.kind, body)
	if err == nil {
		return nil
	}
	var verr *docschema.Error
	if errors.As(err, &verr) {
		out := invalid(op, verr.Message)
		if len(verr.Violations) > 0 {
			out = domainagg.WithDetails(out, verr.Violations)
		}
		return out
	}
	return domainagg.NewError(domainagg.CodeInternal, op, "Schema validation unavailable", err)
}

func (s *documentService) Create(ctx context.Context, in VersionInput) (*types.DocumentVersion, error) {
	op := s.op("Create")
	if in.JobID == 0 {
		return nil, invalid(op, "job_id is required")
	}
	if err := s.validateBody(op, in.Body); err != nil {
		return nil, err
	}
	eventType := documents.EventType(strings.TrimSpace(in.EventType))
	if eventType == "" {
		eventType = documents.EventSave
	}
	createdBy := in.CreatedByUserID
	if createdBy == 0 {
		var err error
		if createdBy, err = requestUser(op, ctx); err != nil {
			return nil, err
		}
	}
	v, err := s.agg.CreateVersion(ctx, domainagg.CreateVersionInput{
		Kind:            s.kind,
		JobID:           in.JobID,
		Body:            in.Body,
		TemplateName:    strings.TrimSpace(in.TemplateName),
		EventType:       eventType,
		ParentVersionID: in.ParentVersionID,
		CreatedByUserID: createdBy,
		IsPinned:        in.IsPinned,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("document version created",
		"job_id", v.JobID,
		"version_id", v.ID,
		"version_index", v.VersionIndex,
		"pinned", v.IsPinned,
	)
	return s.stamp(v), nil
}

func (s *documentService) Get(ctx context.Context, id uint) (*types.DocumentVersion, error) {
	op := s.op("Get")
	v, err := s.versions.GetByID(bg(ctx), s.kind, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if v == nil {
		return nil, notFound(op, s.kind.Label()+" version")
	}
	return s.stamp(v), nil
}

func (s *documentService) SetLocked(ctx context.Context, id uint, locked bool) (*types.DocumentVersion, error) {
	v, err := s.agg.SetLocked(ctx, s.kind, id, locked)
	if err != nil {
		return nil, err
	}
	return s.stamp(v), nil
}

func (s *documentService) ListVersionsFor(ctx context.Context, id uint) ([]*types.DocumentVersion, error) {
	anchor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.versions.ListByJobID(bg(ctx), s.kind, anchor.JobID)
	if err != nil {
		return nil, storeErr(s.op("ListVersions"), err)
	}
	return documents.WithKind(rows, s.kind), nil
}

func (s *documentService) CreateVersionFor(ctx context.Context, id uint, in VersionInput) (*types.DocumentVersion, error) {
	anchor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.JobID = anchor.JobID
	return s.Create(ctx, in)
}

func (s *documentService) Pin(ctx context.Context, id uint) (*types.DocumentVersion, error) {
	v, err := s.agg.Pin(ctx, s.kind, id)
	if err != nil {
		return nil, err
	}
	return s.stamp(v), nil
}

func (s *documentService) Unpin(ctx context.Context, id uint) (*types.DocumentVersion, error) {
	v, err := s.agg.Unpin(ctx, s.kind, id)
	if err != nil {
		return nil, err
	}
	return s.stamp(v), nil
}

func (s *documentService) CanonicalForJob(ctx context.Context, jobID uint) (*types.DocumentVersion, error) {
	op := s.op("Canonical")
	job, err := s.jobs.GetByID(bg(ctx), jobID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if job == nil {
		return nil, notFound(op, "Job")
	}
	v, err := s.versions.GetPinned(bg(ctx), s.kind, jobID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if v == nil {
		return nil, notFound(op, "Canonical "+strings.ToLower(s.kind.Label()))
	}
	return s.stamp(v), nil
}
