package templates

import (
	"context"
	"testing"

	"github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/templates"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

func TestTemplateRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewTemplateRepo(db, testutil.Logger(t))

	classic, err := repo.Create(dbc, &types.Template{Name: "classic", Type: templates.TypeResume, IsDefault: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, &types.Template{Name: "formal", Type: templates.TypeCoverLetter}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.NameExists(dbc, "classic", 0)
	if err != nil || !exists {
		t.Fatalf("NameExists: err=%v exists=%v", err, exists)
	}
	if self, err := repo.NameExists(dbc, "classic", classic.ID); err != nil || self {
		t.Fatalf("NameExists excluding self: err=%v exists=%v", err, self)
	}

	tt := templates.TypeCoverLetter
	letters, err := repo.List(dbc, &tt)
	if err != nil || len(letters) != 1 || letters[0].Name != "formal" {
		t.Fatalf("List by type: err=%v rows=%+v", err, letters)
	}

	added, err := repo.InsertMissing(dbc, []*types.Template{
		{Name: "classic", Type: templates.TypeResume},
		{Name: "modern", Type: templates.TypeResume},
	})
	if err != nil || added != 1 {
		t.Fatalf("InsertMissing: err=%v added=%d", err, added)
	}
	all, err := repo.List(dbc, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("List: err=%v len=%d", err, len(all))
	}
}
