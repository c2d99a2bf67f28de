package profile

import (
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type EducationRepo interface {
	Create(dbc dbctx.Context, row *types.Education) (*types.Education, error)
	ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Education, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Education, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type educationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEducationRepo(db *gorm.DB, baseLog *logger.Logger) EducationRepo {
	return &educationRepo{db: db, log: baseLog.With("repo", "EducationRepo")}
}

func (r *educationRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *educationRepo) Create(dbc dbctx.Context, row *types.Education) (*types.Education, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *educationRepo) ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Education, error) {
	var out []*types.Education
	if err := r.tx(dbc).Where("user_id = ?", userID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *educationRepo) GetByID(dbc dbctx.Context, id uint) (*types.Education, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Education
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *educationRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Education{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *educationRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := r.tx(dbc).Where("id = ?", id).Delete(&types.Education{})
	return res.RowsAffected, res.Error
}
