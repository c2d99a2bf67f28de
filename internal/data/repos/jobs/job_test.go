package jobs

import (
	"context"
	"testing"

	"github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/domain/jobs"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
	"github.com/yungbote/applytrack-backend/internal/domain/responses"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

func TestJobRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewJobRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx)

	saved, err := repo.Create(dbc, &types.Job{UserID: u.ID, Title: "SRE", Company: "Globex", Status: jobs.StatusSaved})
	if err != nil || saved.ID == 0 {
		t.Fatalf("Create: err=%v job=%+v", err, saved)
	}
	applied, err := repo.Create(dbc, &types.Job{UserID: u.ID, Title: "SWE", Company: "Hooli", Status: jobs.StatusApplied, IsFavorite: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.List(dbc, ListFilter{UserID: u.ID})
	if err != nil || len(all) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(all))
	}

	st := jobs.StatusApplied
	byStatus, err := repo.List(dbc, ListFilter{UserID: u.ID, Status: &st})
	if err != nil || len(byStatus) != 1 || byStatus[0].ID != applied.ID {
		t.Fatalf("List by status: err=%v rows=%+v", err, byStatus)
	}

	fav := true
	favs, err := repo.List(dbc, ListFilter{UserID: u.ID, Favorite: &fav})
	if err != nil || len(favs) != 1 || favs[0].ID != applied.ID {
		t.Fatalf("List favorites: err=%v rows=%+v", err, favs)
	}

	locked, err := repo.LockByID(dbc, saved.ID)
	if err != nil || locked == nil || locked.ID != saved.ID {
		t.Fatalf("LockByID: err=%v job=%+v", err, locked)
	}
	if _, err := repo.LockByID(dbctx.Context{Ctx: ctx}, saved.ID); err == nil {
		t.Fatalf("LockByID without tx: expected error")
	}

	if n, err := repo.UpdateFields(dbc, saved.ID, map[string]any{"has_resume": true}); err != nil || n != 1 {
		t.Fatalf("UpdateFields: err=%v n=%d", err, n)
	}
	got, err := repo.GetByID(dbc, saved.ID)
	if err != nil || got == nil || !got.HasResume {
		t.Fatalf("GetByID: err=%v job=%+v", err, got)
	}
}

func TestJobRepoDeleteCascade(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewJobRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx)
	job := testutil.SeedJob(t, ctx, tx, u.ID)
	other := testutil.SeedJob(t, ctx, tx, u.ID)
	exp := testutil.SeedExperience(t, ctx, tx, u.ID)
	sess := testutil.SeedSession(t, ctx, tx, job.ID, u.ID)
	testutil.SeedProposal(t, ctx, tx, sess.ID, exp.ID, proposals.TypeSkillAdd, `{"skill":"Go"}`, proposals.StatusPending)
	testutil.SeedVersion(t, ctx, tx, documents.KindResume, job.ID, 1, true)
	testutil.SeedVersion(t, ctx, tx, documents.KindCoverLetter, job.ID, 1, false)
	testutil.SeedVersion(t, ctx, tx, documents.KindResume, other.ID, 1, true)
	if err := tx.Create(&types.Response{JobID: &job.ID, Prompt: "p", Response: "r", Source: responses.SourceManual}).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}

	n, err := repo.DeleteCascade(dbc, job.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteCascade: err=%v n=%d", err, n)
	}

	counts := map[string]int64{}
	for _, table := range []string{"resume_versions", "cover_letter_versions", "intake_sessions", "experience_proposals", "responses", "jobs"} {
		var c int64
		if err := tx.Table(table).Count(&c).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		counts[table] = c
	}
	want := map[string]int64{
		"resume_versions":       1,
		"cover_letter_versions": 0,
		"intake_sessions":       0,
		"experience_proposals":  0,
		"responses":             0,
		"jobs":                  1,
	}
	for table, c := range want {
		if counts[table] != c {
			t.Fatalf("%s: want=%d got=%d", table, c, counts[table])
		}
	}
}
