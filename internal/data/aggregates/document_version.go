package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

type DocumentVersionAggregateDeps struct {
	Base BaseDeps

	Jobs     repos.JobRepo
	Versions repos.VersionRepo
}

type documentVersionAggregate struct {
	deps DocumentVersionAggregateDeps
}

func NewDocumentVersionAggregate(deps DocumentVersionAggregateDeps) domainagg.DocumentVersionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &documentVersionAggregate{deps: deps}
}

func (a *documentVersionAggregate) Contract() domainagg.Contract {
	return domainagg.DocumentVersionAggregateContract
}

func (a *documentVersionAggregate) CreateVersion(ctx context.Context, in domainagg.CreateVersionInput) (*documents.Version, error) {
	const op = "Documents.Version.Create"
	if !in.Kind.Valid() {
		return nil, domainagg.Validation(op, "unknown document kind")
	}
	if in.JobID == 0 {
		return nil, domainagg.Validation(op, "job_id is required")
	}
	if !in.EventType.Valid() {
		return nil, domainagg.Validation(op, "event_type must be one of generate, save, reset")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, domainagg.Validation(op, in.Kind.BodyField()+" is required")
	}
	if err := a.configured(op); err != nil {
		return nil, err
	}

	var out *documents.Version
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		job, err := a.deps.Jobs.LockByID(dbc, in.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			return domainagg.NotFound(op, "Job")
		}

		if in.ParentVersionID != nil {
			parent, err := a.deps.Versions.GetByID(dbc, in.Kind, *in.ParentVersionID)
			if err != nil {
				return err
			}
			if parent == nil || parent.JobID != job.ID {
				return ValidationError("parent_version_id must reference a " + strings.ToLower(in.Kind.Label()) + " version of the same job")
			}
		}

		top, err := a.deps.Versions.MaxIndex(dbc, in.Kind, job.ID)
		if err != nil {
			return err
		}
		if in.IsPinned {
			if _, err := a.deps.Versions.UnpinAll(dbc, in.Kind, job.ID, 0); err != nil {
				return err
			}
		}

		row := &documents.Version{
			JobID:           job.ID,
			Body:            in.Body,
			TemplateName:    strings.TrimSpace(in.TemplateName),
			VersionIndex:    top + 1,
			ParentVersionID: in.ParentVersionID,
			EventType:       in.EventType,
			IsPinned:        in.IsPinned,
			CreatedByUserID: in.CreatedByUserID,
			CreatedAt:       time.Now().UTC(),
		}
		created, err := a.deps.Versions.Create(dbc, in.Kind, row)
		if err != nil {
			return err
		}

		if top == 0 || in.IsPinned {
			if _, err := a.deps.Jobs.UpdateFields(dbc, job.ID, map[string]any{in.Kind.JobFlag(): true}); err != nil {
				return err
			}
		}
		out = created
		return nil
	})
	return out, err
}

func (a *documentVersionAggregate) Pin(ctx context.Context, kind documents.Kind, versionID uint) (*documents.Version, error) {
	const op = "Documents.Version.Pin"
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out *documents.Version
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		v, err := a.lockVersion(dbc, op, kind, versionID)
		if err != nil {
			return err
		}
		if _, err := a.deps.Versions.UnpinAll(dbc, kind, v.JobID, v.ID); err != nil {
			return err
		}
		if !v.IsPinned {
			n, err := a.deps.Versions.SetPinned(dbc, kind, v.ID, true)
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(n > 0, kind.Label()+" version changed while pinning"); err != nil {
				return err
			}
			v.IsPinned = true
		}
		if _, err := a.deps.Jobs.UpdateFields(dbc, v.JobID, map[string]any{kind.JobFlag(): true}); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (a *documentVersionAggregate) Unpin(ctx context.Context, kind documents.Kind, versionID uint) (*documents.Version, error) {
	const op = "Documents.Version.Unpin"
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out *documents.Version
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		v, err := a.lockVersion(dbc, op, kind, versionID)
		if err != nil {
			return err
		}
		if v.IsPinned {
			n, err := a.deps.Versions.SetPinned(dbc, kind, v.ID, false)
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(n > 0, kind.Label()+" version changed while unpinning"); err != nil {
				return err
			}
			v.IsPinned = false
		}
		out = v
		return nil
	})
	return out, err
}

func (a *documentVersionAggregate) SetLocked(ctx context.Context, kind documents.Kind, versionID uint, locked bool) (*documents.Version, error) {
	const op = "Documents.Version.SetLocked"
	if err := a.configured(op); err != nil {
		return nil, err
	}
	var out *documents.Version
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		v, err := a.lockVersion(dbc, op, kind, versionID)
		if err != nil {
			return err
		}
		if v.Locked != locked {
			n, err := a.deps.Versions.SetLocked(dbc, kind, v.ID, locked)
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(n > 0, kind.Label()+" version changed while locking"); err != nil {
				return err
			}
			v.Locked = locked
		}
		out = v
		return nil
	})
	return out, err
}

// lockVersion loads the version and locks its job so pin changes for the
// same job are serialized.
func (a *documentVersionAggregate) lockVersion(dbc dbctx.Context, op string, kind documents.Kind, versionID uint) (*documents.Version, error) {
	if !kind.Valid() {
		return nil, domainagg.Validation(op, "unknown document kind")
	}
	v, err := a.deps.Versions.GetByID(dbc, kind, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domainagg.NotFound(op, kind.Label()+" version")
	}
	job, err := a.deps.Jobs.LockByID(dbc, v.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domainagg.NotFound(op, "Job")
	}
	return v, nil
}

func (a *documentVersionAggregate) configured(op string) error {
	if a.deps.Jobs == nil || a.deps.Versions == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "document version aggregate repos not configured", nil)
	}
	return nil
}
