package aggregates

import (
	"context"

	"github.com/yungbote/applytrack-backend/internal/domain/documents"
)

// DocumentVersionAggregateContract reserves version numbering, pins and
// locks. Version rows are never written outside the aggregate.
var DocumentVersionAggregateContract = Contract{
	Name:   "DocumentVersionAggregate",
	Tables: []string{"resume_versions", "cover_letter_versions"},
	Guards: []RepoGuard{
		{Repo: "VersionRepo", Methods: []string{"Create", "UnpinAll", "SetPinned", "SetLocked"}},
	},
	Writes: []string{"CreateVersion", "Pin", "Unpin", "SetLocked"},
}

// DocumentVersionAggregate owns resume and cover-letter version invariants.
//
// Write method failures return *Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type DocumentVersionAggregate interface {
	Aggregate

	// CreateVersion assigns the next version_index for the job, unpins the
	// current canonical version when the new one is pinned, inserts the row
	// and raises the job flag, all in one transaction.
	CreateVersion(ctx context.Context, in CreateVersionInput) (*documents.Version, error)

	// Pin makes the version canonical for its job.
	Pin(ctx context.Context, kind documents.Kind, versionID uint) (*documents.Version, error)

	// Unpin clears the version's pin. Unpinning an unpinned version is a no-op.
	Unpin(ctx context.Context, kind documents.Kind, versionID uint) (*documents.Version, error)

	// SetLocked toggles the locked flag; it is the only other mutable column.
	SetLocked(ctx context.Context, kind documents.Kind, versionID uint, locked bool) (*documents.Version, error)
}

type CreateVersionInput struct {
	Kind            documents.Kind
	JobID           uint
	Body            string
	TemplateName    string
	EventType       documents.EventType
	ParentVersionID *uint
	CreatedByUserID uint
	IsPinned        bool
}
