package profile

import (
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type AchievementRepo interface {
	Create(dbc dbctx.Context, row *types.Achievement) (*types.Achievement, error)
	ListByExperienceID(dbc dbctx.Context, experienceID uint) ([]*types.Achievement, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Achievement, error)
	MaxOrder(dbc dbctx.Context, experienceID uint) (int, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *achievementRepo) Create(dbc dbctx.Context, row *types.Achievement) (*types.Achievement, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *achievementRepo) ListByExperienceID(dbc dbctx.Context, experienceID uint) ([]*types.Achievement, error) {
	var out []*types.Achievement
	if err := r.tx(dbc).
		Where("experience_id = ?", experienceID).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *achievementRepo) GetByID(dbc dbctx.Context, id uint) (*types.Achievement, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Achievement
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

// MaxOrder returns the highest order under the experience, or 0 when it has none.
func (r *achievementRepo) MaxOrder(dbc dbctx.Context, experienceID uint) (int, error) {
	var top int
	err := r.tx(dbc).Model(&types.Achievement{}).
		Where("experience_id = ?", experienceID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&top).Error
	return top, err
}

func (r *achievementRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Achievement{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *achievementRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := r.tx(dbc).Where("id = ?", id).Delete(&types.Achievement{})
	return res.RowsAffected, res.Error
}
