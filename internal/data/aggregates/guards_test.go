package aggregates

import (
	"context"
	"testing"

	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

func TestRequireStatusAllowed(t *testing.T) {
	if err := RequireStatusAllowed("pending", "Proposal is already pending", "pending"); err != nil {
		t.Fatalf("pending should pass: %v", err)
	}
	err := RequireStatusAllowed("accepted", "Proposal is already accepted", "pending")
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("want invariant violation, got %v", err)
	}
	if domainagg.MessageOf(err) != "Proposal is already accepted" {
		t.Fatalf("message: %q", domainagg.MessageOf(err))
	}
	// Statuses are stored lower case; a different case is a different status.
	if err := RequireStatusAllowed("Pending", "x", "pending"); err == nil {
		t.Fatalf("status comparison must be exact")
	}
	if err := RequireStatusAllowed("pending", "x"); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("empty allowed list: got %v", err)
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "Resume version changed while pinning"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := RequireCASSuccess(false, "Resume version changed while pinning")
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateByStatusValidatesArgs(t *testing.T) {
	dbc := dbctx.Context{Ctx: context.Background()}
	if _, err := NewCASGuard(nil).UpdateByStatus(dbc, "experience_proposals", 1, []string{"pending"}, nil); err == nil {
		t.Fatalf("expected error without db")
	}
}
