package documents

import (
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

// VersionRepo reads and writes resume_versions and cover_letter_versions.
// Every call names the kind; rows come back with Kind set.
type VersionRepo interface {
	Create(dbc dbctx.Context, kind documents.Kind, row *types.DocumentVersion) (*types.DocumentVersion, error)
	GetByID(dbc dbctx.Context, kind documents.Kind, id uint) (*types.DocumentVersion, error)
	ListByJobID(dbc dbctx.Context, kind documents.Kind, jobID uint) ([]*types.DocumentVersion, error)
	ListPinned(dbc dbctx.Context, kind documents.Kind, jobID *uint) ([]*types.DocumentVersion, error)
	GetPinned(dbc dbctx.Context, kind documents.Kind, jobID uint) (*types.DocumentVersion, error)
	MaxIndex(dbc dbctx.Context, kind documents.Kind, jobID uint) (int, error)
	UnpinAll(dbc dbctx.Context, kind documents.Kind, jobID uint, exceptID uint) (int64, error)
	SetPinned(dbc dbctx.Context, kind documents.Kind, id uint, pinned bool) (int64, error)
	SetLocked(dbc dbctx.Context, kind documents.Kind, id uint, locked bool) (int64, error)
}

type versionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVersionRepo(db *gorm.DB, baseLog *logger.Logger) VersionRepo {
	return &versionRepo{db: db, log: baseLog.With("repo", "VersionRepo")}
}

func (r *versionRepo) table(dbc dbctx.Context, kind documents.Kind) *gorm.DB {
	t := r.db
	if dbc.Tx != nil {
		t = dbc.Tx
	}
	return t.WithContext(dbc.Ctx).Table(kind.Table())
}

func (r *versionRepo) Create(dbc dbctx.Context, kind documents.Kind, row *types.DocumentVersion) (*types.DocumentVersion, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.table(dbc, kind).Create(row).Error; err != nil {
		return nil, err
	}
	row.Kind = kind
	return row, nil
}

func (r *versionRepo) GetByID(dbc dbctx.Context, kind documents.Kind, id uint) (*types.DocumentVersion, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.DocumentVersion
	if err := r.table(dbc, kind).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	row.Kind = kind
	return &row, nil
}

// ListByJobID returns the job's versions newest first.
func (r *versionRepo) ListByJobID(dbc dbctx.Context, kind documents.Kind, jobID uint) ([]*types.DocumentVersion, error) {
	var out []*types.DocumentVersion
	if err := r.table(dbc, kind).
		Where("job_id = ?", jobID).
		Order("version_index DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return documents.WithKind(out, kind), nil
}

func (r *versionRepo) ListPinned(dbc dbctx.Context, kind documents.Kind, jobID *uint) ([]*types.DocumentVersion, error) {
	q := r.table(dbc, kind).Where("is_pinned = ?", true)
	if jobID != nil {
		q = q.Where("job_id = ?", *jobID)
	}
	var out []*types.DocumentVersion
	if err := q.Order("job_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return documents.WithKind(out, kind), nil
}

func (r *versionRepo) GetPinned(dbc dbctx.Context, kind documents.Kind, jobID uint) (*types.DocumentVersion, error) {
	var row types.DocumentVersion
	if err := r.table(dbc, kind).
		Where("job_id = ? AND is_pinned = ?", jobID, true).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	row.Kind = kind
	return &row, nil
}

// MaxIndex returns the highest version_index for the job, or 0 when it has none.
func (r *versionRepo) MaxIndex(dbc dbctx.Context, kind documents.Kind, jobID uint) (int, error) {
	var top int
	err := r.table(dbc, kind).
		Where("job_id = ?", jobID).
		Select("COALESCE(MAX(version_index), 0)").
		Scan(&top).Error
	return top, err
}

// UnpinAll clears is_pinned on the job's pinned rows other than exceptID.
func (r *versionRepo) UnpinAll(dbc dbctx.Context, kind documents.Kind, jobID uint, exceptID uint) (int64, error) {
	q := r.table(dbc, kind).Where("job_id = ? AND is_pinned = ?", jobID, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	res := q.Update("is_pinned", false)
	return res.RowsAffected, res.Error
}

func (r *versionRepo) SetPinned(dbc dbctx.Context, kind documents.Kind, id uint, pinned bool) (int64, error) {
	res := r.table(dbc, kind).Where("id = ?", id).Update("is_pinned", pinned)
	return res.RowsAffected, res.Error
}

func (r *versionRepo) SetLocked(dbc dbctx.Context, kind documents.Kind, id uint, locked bool) (int64, error) {
	res := r.table(dbc, kind).Where("id = ?", id).Update("locked", locked)
	return res.RowsAffected, res.Error
}
