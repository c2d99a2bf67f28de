package proposals

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type ListFilter struct {
	SessionID    uint
	ExperienceID *uint
	Status       *types.ProposalStatus
}

type ProposalRepo interface {
	Create(dbc dbctx.Context, rows []*types.Proposal) ([]*types.Proposal, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.Proposal, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Proposal, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Proposal, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type proposalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProposalRepo {
	return &proposalRepo{db: db, log: baseLog.With("repo", "ProposalRepo")}
}

func (r *proposalRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *proposalRepo) Create(dbc dbctx.Context, rows []*types.Proposal) ([]*types.Proposal, error) {
	if len(rows) == 0 {
		return []*types.Proposal{}, nil
	}
	if err := r.tx(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *proposalRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.Proposal, error) {
	q := r.tx(dbc).Where("session_id = ?", filter.SessionID)
	if filter.ExperienceID != nil {
		q = q.Where("experience_id = ?", *filter.ExperienceID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	var out []*types.Proposal
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *proposalRepo) GetByID(dbc dbctx.Context, id uint) (*types.Proposal, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Proposal
	if err := r.tx(dbc).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *proposalRepo) LockByID(dbc dbctx.Context, id uint) (*types.Proposal, error) {
	if dbc.Tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var row types.Proposal
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

func (r *proposalRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) (int64, error) {
	if id == 0 || len(updates) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Proposal{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *proposalRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := r.tx(dbc).Where("id = ?", id).Delete(&types.Proposal{})
	return res.RowsAffected, res.Error
}
