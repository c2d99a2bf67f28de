package responses

import (
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ListFilter struct {
	JobID          *uint
	SessionID      *uint
	Source         *types.ResponseSource
	IncludeIgnored bool
}

type ResponseRepo interface {
	Create(dbc dbctx.Context, row *types.Response) (*types.Response, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.Response, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Response, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: baseLog.With("repo", "ResponseRepo")}
}

func (r *responseRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *responseRepo) Create(dbc dbctx.Context, row *types.Response) (*types.Response, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// List returns entries newest first. Ignored entries are skipped unless asked for.
func (r *responseRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.Response, error) {
	q := r.tx(dbc).Model(&types.Response{})
	if filter.JobID != nil {
		q = q.Where("job_id = ?", *filter.JobID)
	}
	if filter.SessionID != nil {
		q = q.Where("session_id = ?", *filter.SessionID)
	}
	if filter.Source != nil {
		q = q.Where("source = ?", *filter.Source)
	}
	if !filter.IncludeIgnored {
		q = q.Where("ignored = ?", false)
	}
	var out []*types.Response
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *responseRepo) GetByID(dbc dbctx.Context, id uint) (*types.Response, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Response
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *responseRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Response{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *responseRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := r.tx(dbc).Where("id = ?", id).Delete(&types.Response{})
	return res.RowsAffected, res.Error
}
