package aggregates_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/applytrack-backend/internal/data/aggregates"
	"github.com/yungbote/applytrack-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/applytrack-backend/internal/data/repos"
	repotest "github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
)

type aggregateFixture struct {
	ctx   context.Context
	tx    *gorm.DB
	hooks *testutil.HooksRecorder

	jobs         repos.JobRepo
	versions     repos.VersionRepo
	proposals    repos.ProposalRepo
	experiences  repos.ExperienceRepo
	achievements repos.AchievementRepo
}

func newAggregateFixture(t *testing.T) *aggregateFixture {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)
	return &aggregateFixture{
		ctx:          context.Background(),
		tx:           tx,
		hooks:        &testutil.HooksRecorder{},
		jobs:         repos.NewJobRepo(tx, log),
		versions:     repos.NewVersionRepo(tx, log),
		proposals:    repos.NewProposalRepo(tx, log),
		experiences:  repos.NewExperienceRepo(tx, log),
		achievements: repos.NewAchievementRepo(tx, log),
	}
}

func (f *aggregateFixture) base() aggregates.BaseDeps {
	return aggregates.BaseDeps{
		DB:       f.tx,
		Runner:   aggregates.NewGormTxRunner(f.tx),
		CASGuard: aggregates.NewCASGuard(f.tx),
		Hooks:    f.hooks,
	}
}
