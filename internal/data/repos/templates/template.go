package templates

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type TemplateRepo interface {
	Create(dbc dbctx.Context, row *types.Template) (*types.Template, error)
	List(dbc dbctx.Context, templateType *types.TemplateType) ([]*types.Template, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Template, error)
	NameExists(dbc dbctx.Context, name string, excludeID uint) (bool, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
	InsertMissing(dbc dbctx.Context, rows []*types.Template) (int64, error)
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	return &templateRepo{db: db, log: baseLog.With("repo", "TemplateRepo")}
}

func (r *templateRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *templateRepo) Create(dbc dbctx.Context, row *types.Template) (*types.Template, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *templateRepo) List(dbc dbctx.Context, templateType *types.TemplateType) ([]*types.Template, error) {
	q := r.tx(dbc).Model(&types.Template{})
	if templateType != nil {
		q = q.Where("type = ?", *templateType)
	}
	var out []*types.Template
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *templateRepo) GetByID(dbc dbctx.Context, id uint) (*types.Template, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Template
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *templateRepo) NameExists(dbc dbctx.Context, name string, excludeID uint) (bool, error) {
	q := r.tx(dbc).Model(&types.Template{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *templateRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Template{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *templateRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := r.tx(dbc).Where("id = ?", id).Delete(&types.Template{})
	return res.RowsAffected, res.Error
}

// InsertMissing inserts rows whose name is not taken and reports how many were added.
func (r *templateRepo) InsertMissing(dbc dbctx.Context, rows []*types.Template) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows)
	return res.RowsAffected, res.Error
}
