package intake

import (
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ListFilter struct {
	UserID uint
	JobID  *uint
	Status *string
}

type SessionRepo interface {
	Create(dbc dbctx.Context, row *types.IntakeSession) (*types.IntakeSession, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.IntakeSession, error)
	GetByID(dbc dbctx.Context, id uint) (*types.IntakeSession, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *sessionRepo) Create(dbc dbctx.Context, row *types.IntakeSession) (*types.IntakeSession, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *sessionRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.IntakeSession, error) {
	q := r.tx(dbc).Model(&types.IntakeSession{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.JobID != nil {
		q = q.Where("job_id = ?", *filter.JobID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	var out []*types.IntakeSession
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uint) (*types.IntakeSession, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.IntakeSession
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.IntakeSession{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes the session and the proposals generated in it.
func (r *sessionRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	t := r.tx(dbc)
	if err := t.Where("session_id = ?", id).Delete(&types.Proposal{}).Error; err != nil {
		return 0, err
	}
	res := t.Where("id = ?", id).Delete(&types.IntakeSession{})
	return res.RowsAffected, res.Error
}
