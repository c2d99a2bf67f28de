package jobs

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ListFilter struct {
	UserID   uint
	Status   *types.JobStatus
	Favorite *bool
}

type JobRepo interface {
	Create(dbc dbctx.Context, job *types.Job) (*types.Job, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.Job, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Job, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Job, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	DeleteCascade(dbc dbctx.Context, id uint) (int64, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{db: db, log: baseLog.With("repo", "JobRepo")}
}

func (r *jobRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *jobRepo) Create(dbc dbctx.Context, job *types.Job) (*types.Job, error) {
	if job == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.Job, error) {
	q := r.tx(dbc).Model(&types.Job{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Favorite != nil {
		q = q.Where("is_favorite = ?", *filter.Favorite)
	}
	var out []*types.Job
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *jobRepo) GetByID(dbc dbctx.Context, id uint) (*types.Job, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Job
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

// LockByID loads the job FOR UPDATE. It serializes writers that maintain
// per-job invariants and must run inside a transaction.
func (r *jobRepo) LockByID(dbc dbctx.Context, id uint) (*types.Job, error) {
	if dbc.Tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	if id == 0 {
		return nil, nil
	}
	var row types.Job
	err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *jobRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Job{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// DeleteCascade removes the job with its document versions, intake sessions,
// their proposals and its response log. Uploads are kept and detached.
func (r *jobRepo) DeleteCascade(dbc dbctx.Context, id uint) (int64, error) {
	if dbc.Tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	t := dbc.Tx.WithContext(dbc.Ctx)
	for _, kind := range documents.Kinds {
		if err := t.Table(kind.Table()).Where("job_id = ?", id).Delete(&documents.Version{}).Error; err != nil {
			return 0, err
		}
	}
	sessions := t.Model(&types.IntakeSession{}).Select("id").Where("job_id = ?", id)
	if err := t.Where("session_id IN (?)", sessions).Delete(&types.Proposal{}).Error; err != nil {
		return 0, err
	}
	if err := t.Where("job_id = ? OR session_id IN (?)", id, sessions).Delete(&types.Response{}).Error; err != nil {
		return 0, err
	}
	if err := t.Where("job_id = ?", id).Delete(&types.IntakeSession{}).Error; err != nil {
		return 0, err
	}
	if err := t.Model(&types.Upload{}).Where("job_id = ?", id).Update("job_id", nil).Error; err != nil {
		return 0, err
	}
	res := t.Where("id = ?", id).Delete(&types.Job{})
	return res.RowsAffected, res.Error
}
