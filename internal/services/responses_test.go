package services

import (
	"testing"

	repotest "github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/responses"
)

func TestResponseService_LockedRowsOnlyUnlock(t *testing.T) {
	f := newFixture(t)
	job := repotest.SeedJob(t, f.ctx, f.db, f.user.ID)

	r, err := f.responses.Create(f.ctx, ResponseInput{JobID: &job.ID, Prompt: "Why us?", Response: "Because", Locked: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Source != responses.SourceManual {
		t.Fatalf("expected manual source, got %s", r.Source)
	}

	text := "Edited"
	_, err = f.responses.Update(f.ctx, r.ID, ResponsePatch{Response: &text})
	requireCode(t, err, domainagg.CodeInvariantViolation)
	requireMessage(t, err, "Response is locked")

	unlock := false
	_, err = f.responses.Update(f.ctx, r.ID, ResponsePatch{Locked: &unlock, Response: &text})
	requireCode(t, err, domainagg.CodeInvariantViolation)

	got, err := f.responses.Update(f.ctx, r.ID, ResponsePatch{Locked: &unlock})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if got.Locked {
		t.Fatalf("still locked")
	}
	got, err = f.responses.Update(f.ctx, r.ID, ResponsePatch{Response: &text})
	if err != nil {
		t.Fatalf("Update after unlock: %v", err)
	}
	if got.Response != text {
		t.Fatalf("response not updated")
	}
}

func TestResponseService_ValidationAndFilters(t *testing.T) {
	f := newFixture(t)
	job := repotest.SeedJob(t, f.ctx, f.db, f.user.ID)

	_, err := f.responses.Create(f.ctx, ResponseInput{Source: "email"})
	requireCode(t, err, domainagg.CodeValidation)

	missing := uint(31337)
	_, err = f.responses.Create(f.ctx, ResponseInput{JobID: &missing})
	requireMessage(t, err, "Job not found")

	if _, err := f.responses.Create(f.ctx, ResponseInput{JobID: &job.ID, Source: "chat"}); err != nil {
		t.Fatalf("Create chat: %v", err)
	}
	if _, err := f.responses.Create(f.ctx, ResponseInput{JobID: &job.ID, Ignore: true}); err != nil {
		t.Fatalf("Create ignored: %v", err)
	}

	rows, err := f.responses.List(f.ctx, ResponseListParams{JobID: &job.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ignored rows should be hidden by default, got %d", len(rows))
	}
	rows, err = f.responses.List(f.ctx, ResponseListParams{JobID: &job.ID, IncludeIgnored: true})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if err := f.responses.Delete(f.ctx, rows[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err = f.responses.Delete(f.ctx, rows[0].ID)
	requireMessage(t, err, "Response not found")
}
