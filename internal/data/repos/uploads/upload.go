package uploads

import (
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type UploadRepo interface {
	Create(dbc dbctx.Context, row *types.Upload) (*types.Upload, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Upload, error)
	ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Upload, error)
}

type uploadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUploadRepo(db *gorm.DB, baseLog *logger.Logger) UploadRepo {
	return &uploadRepo{db: db, log: baseLog.With("repo", "UploadRepo")}
}

func (r *uploadRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *uploadRepo) Create(dbc dbctx.Context, row *types.Upload) (*types.Upload, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *uploadRepo) GetByID(dbc dbctx.Context, id uint) (*types.Upload, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Upload
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *uploadRepo) ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Upload, error) {
	var out []*types.Upload
	if err := r.tx(dbc).Where("user_id = ?", userID).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
