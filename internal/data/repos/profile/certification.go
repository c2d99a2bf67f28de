package profile

import (
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type CertificationRepo interface {
	Create(dbc dbctx.Context, row *types.Certification) (*types.Certification, error)
	ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Certification, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Certification, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type certificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificationRepo(db *gorm.DB, baseLog *logger.Logger) CertificationRepo {
	return &certificationRepo{db: db, log: baseLog.With("repo", "CertificationRepo")}
}

func (r *certificationRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *certificationRepo) Create(dbc dbctx.Context, row *types.Certification) (*types.Certification, error) {
	if row == nil {
		return nil, nil
	}
	if err := r.tx(dbc).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *certificationRepo) ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Certification, error) {
	var out []*types.Certification
	if err := r.tx(dbc).Where("user_id = ?", userID).Order("issued_on DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *certificationRepo) GetByID(dbc dbctx.Context, id uint) (*types.Certification, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Certification
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *certificationRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Certification{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *certificationRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := r.tx(dbc).Where("id = ?", id).Delete(&types.Certification{})
	return res.RowsAffected, res.Error
}
