package profile

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ExperienceRepo interface {
	Create(dbc dbctx.Context, row *types.Experience) (*types.Experience, error)
	ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Experience, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Experience, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Experience, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Experience, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	SetSkills(dbc dbctx.Context, id uint, skills []string) error
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type experienceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperienceRepo(db *gorm.DB, baseLog *logger.Logger) ExperienceRepo {
	return &experienceRepo{db: db, log: baseLog.With("repo", "ExperienceRepo")}
}

func (r *experienceRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *experienceRepo) Create(dbc dbctx.Context, row *types.Experience) (*types.Experience, error) {
	if row == nil {
		return nil, nil
	}
	if row.Skills == nil {
		row.Skills = datatypes.JSONSlice[string]{}
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *experienceRepo) ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Experience, error) {
	var out []*types.Experience
	if err := r.tx(dbc).
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *experienceRepo) GetByID(dbc dbctx.Context, id uint) (*types.Experience, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Experience
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *experienceRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Experience, error) {
	var out []*types.Experience
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.tx(dbc).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *experienceRepo) LockByID(dbc dbctx.Context, id uint) (*types.Experience, error) {
	if dbc.Tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var row types.Experience
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *experienceRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Experience{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *experienceRepo) SetSkills(dbc dbctx.Context, id uint, skills []string) error {
	if skills == nil {
		skills = []string{}
	}
	return r.tx(dbc).Model(&types.Experience{}).
		Where("id = ?", id).
		Update("skills", datatypes.JSONSlice[string](skills)).Error
}

// Delete removes the experience together with its achievements.
func (r *experienceRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	t := r.tx(dbc)
	if err := t.Where("experience_id = ?", id).Delete(&types.Achievement{}).Error; err != nil {
		return 0, err
	}
	res := t.Where("id = ?", id).Delete(&types.Experience{})
	return res.RowsAffected, res.Error
}
