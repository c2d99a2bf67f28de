package aggregates_test

import (
	"testing"

	"github.com/yungbote/applytrack-backend/internal/data/aggregates"
	repotest "github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

func newVersionAggregate(f *aggregateFixture) domainagg.DocumentVersionAggregate {
	return aggregates.NewDocumentVersionAggregate(aggregates.DocumentVersionAggregateDeps{
		Base:     f.base(),
		Jobs:     f.jobs,
		Versions: f.versions,
	})
}

func createInput(kind documents.Kind, jobID uint, pinned bool) domainagg.CreateVersionInput {
	return domainagg.CreateVersionInput{
		Kind:            kind,
		JobID:           jobID,
		Body:            `{"summary":"hello"}`,
		TemplateName:    "classic",
		EventType:       documents.EventSave,
		CreatedByUserID: 1,
		IsPinned:        pinned,
	}
}

func TestDocumentVersionAggregatePinnedCreatesKeepSinglePin(t *testing.T) {
	f := newAggregateFixture(t)
	agg := newVersionAggregate(f)
	u := repotest.SeedUser(t, f.ctx, f.tx)
	job := repotest.SeedJob(t, f.ctx, f.tx, u.ID)

	first, err := agg.CreateVersion(f.ctx, createInput(documents.KindResume, job.ID, true))
	if err != nil {
		t.Fatalf("CreateVersion first: %v", err)
	}
	if first.VersionIndex != 1 || !first.IsPinned {
		t.Fatalf("first version: index=%d pinned=%v", first.VersionIndex, first.IsPinned)
	}
	gotJob, err := f.jobs.GetByID(dbctx.Context{Ctx: f.ctx}, job.ID)
	if err != nil || gotJob == nil || !gotJob.HasResume || gotJob.HasCoverLetter {
		t.Fatalf("job flags after first version: err=%v job=%+v", err, gotJob)
	}

	second, err := agg.CreateVersion(f.ctx, createInput(documents.KindResume, job.ID, true))
	if err != nil {
		t.Fatalf("CreateVersion second: %v", err)
	}
	if second.VersionIndex != 2 || !second.IsPinned {
		t.Fatalf("second version: index=%d pinned=%v", second.VersionIndex, second.IsPinned)
	}

	reloaded, err := f.versions.GetByID(dbctx.Context{Ctx: f.ctx}, documents.KindResume, first.ID)
	if err != nil || reloaded == nil || reloaded.IsPinned {
		t.Fatalf("first version should be unpinned: err=%v row=%+v", err, reloaded)
	}
	assertSinglePin(t, f, documents.KindResume, job.ID)

	if len(f.hooks.Operations) != 2 || f.hooks.Operations[1].Status != "success" {
		t.Fatalf("hook operations: %+v", f.hooks.Operations)
	}
}

func TestDocumentVersionAggregateIndexIsMonotonicPerJobAndKind(t *testing.T) {
	f := newAggregateFixture(t)
	agg := newVersionAggregate(f)
	u := repotest.SeedUser(t, f.ctx, f.tx)
	jobA := repotest.SeedJob(t, f.ctx, f.tx, u.ID)
	jobB := repotest.SeedJob(t, f.ctx, f.tx, u.ID)

	for i := 1; i <= 4; i++ {
		v, err := agg.CreateVersion(f.ctx, createInput(documents.KindResume, jobA.ID, i%2 == 0))
		if err != nil {
			t.Fatalf("CreateVersion %d: %v", i, err)
		}
		if v.VersionIndex != i {
			t.Fatalf("version_index: want=%d got=%d", i, v.VersionIndex)
		}
	}
	other, err := agg.CreateVersion(f.ctx, createInput(documents.KindResume, jobB.ID, false))
	if err != nil || other.VersionIndex != 1 {
		t.Fatalf("other job starts at 1: err=%v v=%+v", err, other)
	}
	letter, err := agg.CreateVersion(f.ctx, createInput(documents.KindCoverLetter, jobA.ID, false))
	if err != nil || letter.VersionIndex != 1 {
		t.Fatalf("cover letters number independently: err=%v v=%+v", err, letter)
	}

	gotJob, err := f.jobs.GetByID(dbctx.Context{Ctx: f.ctx}, jobB.ID)
	if err != nil || !gotJob.HasResume {
		t.Fatalf("first unpinned version still raises has_resume: err=%v job=%+v", err, gotJob)
	}
	assertSinglePin(t, f, documents.KindResume, jobA.ID)
}

func TestDocumentVersionAggregatePinAndUnpin(t *testing.T) {
	f := newAggregateFixture(t)
	agg := newVersionAggregate(f)
	u := repotest.SeedUser(t, f.ctx, f.tx)
	job := repotest.SeedJob(t, f.ctx, f.tx, u.ID)

	v1, err := agg.CreateVersion(f.ctx, createInput(documents.KindCoverLetter, job.ID, true))
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	v2, err := agg.CreateVersion(f.ctx, createInput(documents.KindCoverLetter, job.ID, false))
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	pinned, err := agg.Pin(f.ctx, documents.KindCoverLetter, v2.ID)
	if err != nil || !pinned.IsPinned {
		t.Fatalf("Pin: err=%v row=%+v", err, pinned)
	}
	assertSinglePin(t, f, documents.KindCoverLetter, job.ID)
	canon, err := f.versions.GetPinned(dbctx.Context{Ctx: f.ctx}, documents.KindCoverLetter, job.ID)
	if err != nil || canon == nil || canon.ID != v2.ID {
		t.Fatalf("canonical after pin: err=%v row=%+v", err, canon)
	}

	if _, err := agg.Pin(f.ctx, documents.KindCoverLetter, v2.ID); err != nil {
		t.Fatalf("Pin twice should be a no-op: %v", err)
	}

	if _, err := agg.Unpin(f.ctx, documents.KindCoverLetter, v1.ID); err != nil {
		t.Fatalf("Unpin of unpinned version: %v", err)
	}
	unpinned, err := agg.Unpin(f.ctx, documents.KindCoverLetter, v2.ID)
	if err != nil || unpinned.IsPinned {
		t.Fatalf("Unpin: err=%v row=%+v", err, unpinned)
	}
	if canon, err := f.versions.GetPinned(dbctx.Context{Ctx: f.ctx}, documents.KindCoverLetter, job.ID); err != nil || canon != nil {
		t.Fatalf("no canonical expected: err=%v row=%+v", err, canon)
	}
	gotJob, _ := f.jobs.GetByID(dbctx.Context{Ctx: f.ctx}, job.ID)
	if !gotJob.HasCoverLetter {
		t.Fatalf("unpin must not clear has_cover_letter")
	}

	locked, err := agg.SetLocked(f.ctx, documents.KindCoverLetter, v1.ID, true)
	if err != nil || !locked.Locked {
		t.Fatalf("SetLocked: err=%v row=%+v", err, locked)
	}
}

func TestDocumentVersionAggregateErrors(t *testing.T) {
	f := newAggregateFixture(t)
	agg := newVersionAggregate(f)
	u := repotest.SeedUser(t, f.ctx, f.tx)
	job := repotest.SeedJob(t, f.ctx, f.tx, u.ID)
	other := repotest.SeedJob(t, f.ctx, f.tx, u.ID)

	_, err := agg.CreateVersion(f.ctx, createInput(documents.KindResume, job.ID+999, true))
	if !domainagg.IsCode(err, domainagg.CodeNotFound) || domainagg.MessageOf(err) != "Job not found" {
		t.Fatalf("missing job: %v", err)
	}

	foreign := repotest.SeedVersion(t, f.ctx, f.tx, documents.KindResume, other.ID, 1, false)
	in := createInput(documents.KindResume, job.ID, false)
	in.ParentVersionID = &foreign.ID
	if _, err := agg.CreateVersion(f.ctx, in); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("foreign parent: want validation, got %v", err)
	}

	bad := createInput(documents.KindResume, job.ID, false)
	bad.EventType = "publish"
	if _, err := agg.CreateVersion(f.ctx, bad); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad event type: want validation, got %v", err)
	}

	_, err = agg.Pin(f.ctx, documents.KindResume, 999)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) || domainagg.MessageOf(err) != "Resume version not found" {
		t.Fatalf("missing version: %v", err)
	}

	versions, err := f.versions.ListByJobID(dbctx.Context{Ctx: f.ctx}, documents.KindResume, job.ID)
	if err != nil || len(versions) != 0 {
		t.Fatalf("failed creates must not insert rows: err=%v len=%d", err, len(versions))
	}
}

func assertSinglePin(t *testing.T, f *aggregateFixture, kind documents.Kind, jobID uint) {
	t.Helper()
	var pinned int64
	if err := f.tx.Table(kind.Table()).Where("job_id = ? AND is_pinned = ?", jobID, true).Count(&pinned).Error; err != nil {
		t.Fatalf("count pinned: %v", err)
	}
	if pinned > 1 {
		t.Fatalf("%s job %d: %d pinned versions", kind.Table(), jobID, pinned)
	}
}
