package user

import (
	"context"
	"testing"

	"github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewUserRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.User{{Name: "Ada", Email: "userrepo@example.com"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || got == nil || got.Email != "userrepo@example.com" {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	if missing, err := repo.GetByID(dbc, created[0].ID+1000); err != nil || missing != nil {
		t.Fatalf("GetByID missing: err=%v got=%+v", err, missing)
	}

	exists, err := repo.EmailExists(dbc, "userrepo@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists: err=%v exists=%v", err, exists)
	}

	if n, err := repo.UpdateFields(dbc, created[0].ID, map[string]any{"name": "Ada L"}); err != nil || n != 1 {
		t.Fatalf("UpdateFields: err=%v n=%d", err, n)
	}
	byEmail, err := repo.GetByEmail(dbc, "userrepo@example.com")
	if err != nil || byEmail == nil || byEmail.Name != "Ada L" {
		t.Fatalf("GetByEmail: err=%v got=%+v", err, byEmail)
	}

	if _, err := repo.Create(dbc, []*types.User{{Name: "Dup", Email: "userrepo@example.com"}}); err == nil {
		t.Fatalf("Create duplicate email: expected error")
	}
}

func TestUserRepoEnsureByID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	first, err := repo.EnsureByID(dbc, &types.User{ID: 4242, Name: "Default", Email: "default-4242@example.com"})
	if err != nil || first == nil {
		t.Fatalf("EnsureByID: err=%v got=%+v", err, first)
	}
	again, err := repo.EnsureByID(dbc, &types.User{ID: 4242, Name: "Other", Email: "other-4242@example.com"})
	if err != nil || again == nil {
		t.Fatalf("EnsureByID again: err=%v got=%+v", err, again)
	}
	if again.Name != "Default" {
		t.Fatalf("EnsureByID overwrote existing row: %+v", again)
	}
}
