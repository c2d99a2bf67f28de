package responses

import (
	"context"
	"testing"

	"github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/responses"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

func TestResponseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewResponseRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx)
	job := testutil.SeedJob(t, ctx, tx, u.ID)

	kept, err := repo.Create(dbc, &types.Response{JobID: &job.ID, Prompt: "gaps?", Response: "k8s", Source: responses.SourceGapAnalysis})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, &types.Response{JobID: &job.ID, Prompt: "hi", Response: "hello", Source: responses.SourceChat, Ignore: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	visible, err := repo.List(dbc, ListFilter{JobID: &job.ID})
	if err != nil || len(visible) != 1 || visible[0].ID != kept.ID {
		t.Fatalf("List: err=%v rows=%+v", err, visible)
	}
	all, err := repo.List(dbc, ListFilter{JobID: &job.ID, IncludeIgnored: true})
	if err != nil || len(all) != 2 {
		t.Fatalf("List include ignored: err=%v len=%d", err, len(all))
	}
	src := responses.SourceChat
	chats, err := repo.List(dbc, ListFilter{Source: &src, IncludeIgnored: true})
	if err != nil || len(chats) != 1 {
		t.Fatalf("List by source: err=%v len=%d", err, len(chats))
	}

	if n, err := repo.UpdateFields(dbc, kept.ID, map[string]any{"locked": true}); err != nil || n != 1 {
		t.Fatalf("UpdateFields: err=%v n=%d", err, n)
	}
	got, err := repo.GetByID(dbc, kept.ID)
	if err != nil || got == nil || !got.Locked {
		t.Fatalf("GetByID: err=%v row=%+v", err, got)
	}
	if n, err := repo.Delete(dbc, kept.ID); err != nil || n != 1 {
		t.Fatalf("Delete: err=%v n=%d", err, n)
	}
}
