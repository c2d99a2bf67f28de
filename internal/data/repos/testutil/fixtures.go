package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
	"github.com/yungbote/applytrack-backend/internal/domain/intake"
	"github.com/yungbote/applytrack-backend/internal/domain/jobs"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.User {
	tb.Helper()
	u := &types.User{
		Name:  "Test User",
		Email: uuid.NewString() + "@example.com",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint) *types.Job {
	tb.Helper()
	j := &types.Job{
		UserID:  userID,
		Title:   "Backend Engineer",
		Company: "Acme",
		Status:  jobs.StatusSaved,
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func SeedExperience(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint, skills ...string) *types.Experience {
	tb.Helper()
	if skills == nil {
		skills = []string{}
	}
	e := &types.Experience{
		UserID:  userID,
		Company: "Initech",
		Title:   "Engineer",
		Skills:  datatypes.JSONSlice[string](skills),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed experience: %v", err)
	}
	return e
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, experienceID uint, order int) *types.Achievement {
	tb.Helper()
	a := &types.Achievement{
		ExperienceID: experienceID,
		Title:        "Shipped",
		Content:      "Shipped the thing",
		Order:        order,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, jobID, userID uint) *types.IntakeSession {
	tb.Helper()
	s := &types.IntakeSession{
		JobID:  jobID,
		UserID: userID,
		Step:   intake.StepDetails,
		Status: intake.StatusActive,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed intake session: %v", err)
	}
	return s
}

func SeedProposal(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID, experienceID uint, t proposals.Type, content string, status proposals.Status) *types.Proposal {
	tb.Helper()
	p := &types.Proposal{
		SessionID:               sessionID,
		ExperienceID:            experienceID,
		ProposalType:            t,
		ProposedContent:         datatypes.JSON([]byte(content)),
		OriginalProposedContent: datatypes.JSON([]byte(content)),
		Status:                  status,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed proposal: %v", err)
	}
	return p
}

func SeedVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, kind documents.Kind, jobID uint, index int, pinned bool) *types.DocumentVersion {
	tb.Helper()
	v := &types.DocumentVersion{
		JobID:        jobID,
		Body:         `{"sections":[]}`,
		TemplateName: "classic",
		VersionIndex: index,
		EventType:    documents.EventSave,
		IsPinned:     pinned,
		CreatedAt:    time.Now().UTC(),
		Kind:         kind,
	}
	if err := tx.WithContext(ctx).Table(kind.Table()).Create(v).Error; err != nil {
		tb.Fatalf("seed %s: %v", kind.Table(), err)
	}
	return v
}

func PtrUint(v uint) *uint { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
