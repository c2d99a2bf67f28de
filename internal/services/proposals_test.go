package services

import (
	"encoding/json"
	"testing"

	repotest "github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/proposals"
)

type proposalFixture struct {
	*fixture
	sessionID    uint
	experienceID uint
}

func newProposalFixture(t *testing.T, skills ...string) *proposalFixture {
	t.Helper()
	f := newFixture(t)
	job := repotest.SeedJob(t, f.ctx, f.db, f.user.ID)
	session := repotest.SeedSession(t, f.ctx, f.db, job.ID, f.user.ID)
	exp := repotest.SeedExperience(t, f.ctx, f.db, f.user.ID, skills...)
	return &proposalFixture{fixture: f, sessionID: session.ID, experienceID: exp.ID}
}

func TestProposalService_AcceptSkillAdd(t *testing.T) {
	f := newProposalFixture(t, "Go")

	p, err := f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		ProposalType:    "skill_add",
		ProposedContent: json.RawMessage(`{"skill":"Rust"}`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != proposals.StatusPending || string(p.OriginalProposedContent) != `{"skill":"Rust"}` {
		t.Fatalf("unexpected proposal: %+v", p)
	}

	res, err := f.proposals.Accept(f.ctx, p.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if res.Proposal.Status != proposals.StatusAccepted {
		t.Fatalf("expected accepted, got %s", res.Proposal.Status)
	}
	exp, err := f.experiences.Get(f.ctx, f.experienceID)
	if err != nil {
		t.Fatalf("Get experience: %v", err)
	}
	if s := []string(exp.Skills); len(s) != 2 || s[0] != "Go" || s[1] != "Rust" {
		t.Fatalf("unexpected skills: %v", s)
	}

	_, err = f.proposals.Reject(f.ctx, p.ID)
	requireCode(t, err, domainagg.CodeInvariantViolation)
	requireMessage(t, err, "Proposal is already accepted")
}

func TestProposalService_RejectedCannotBeAccepted(t *testing.T) {
	f := newProposalFixture(t)
	p := repotest.SeedProposal(t, f.ctx, f.db, f.sessionID, f.experienceID, proposals.TypeSkillAdd, `{"skill":"Rust"}`, proposals.StatusRejected)

	_, err := f.proposals.Accept(f.ctx, p.ID)
	requireCode(t, err, domainagg.CodeInvariantViolation)
	requireMessage(t, err, "Proposal is already rejected")

	exp, err := f.experiences.Get(f.ctx, f.experienceID)
	if err != nil {
		t.Fatalf("Get experience: %v", err)
	}
	if len(exp.Skills) != 0 {
		t.Fatalf("rejected proposal mutated skills: %v", exp.Skills)
	}
}

func TestProposalService_CreateValidation(t *testing.T) {
	f := newProposalFixture(t)

	_, err := f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		ProposalType:    "skill_rename",
		ProposedContent: json.RawMessage(`{"skill":"Rust"}`),
	})
	requireCode(t, err, domainagg.CodeValidation)
	fields, ok := domainagg.DetailsOf(err).([]proposals.FieldError)
	if !ok || len(fields) != 1 || fields[0].Field != "proposal_type" {
		t.Fatalf("unexpected details: %#v", domainagg.DetailsOf(err))
	}

	_, err = f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		ProposalType:    "achievement_add",
		ProposedContent: json.RawMessage(`{"title":"No content"}`),
	})
	requireCode(t, err, domainagg.CodeValidation)

	_, err = f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    98765,
		ProposalType:    "skill_add",
		ProposedContent: json.RawMessage(`{"skill":"Rust"}`),
	})
	requireCode(t, err, domainagg.CodeNotFound)
	requireMessage(t, err, "Experience not found")

	_, err = f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		ProposalType:    "achievement_delete",
		ProposedContent: json.RawMessage(`{"achievement_id":55555}`),
	})
	requireMessage(t, err, "Achievement not found")

	_, err = f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       424242,
		ExperienceID:    f.experienceID,
		ProposalType:    "skill_add",
		ProposedContent: json.RawMessage(`{"skill":"Rust"}`),
	})
	requireMessage(t, err, "Intake session not found")
}

func TestProposalService_CreateChecksAchievementForAnyType(t *testing.T) {
	f := newProposalFixture(t)
	missing := uint(9999)

	_, err := f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		AchievementID:   &missing,
		ProposalType:    "skill_add",
		ProposedContent: json.RawMessage(`{"skill":"Rust"}`),
	})
	requireCode(t, err, domainagg.CodeNotFound)
	requireMessage(t, err, "Achievement not found")

	other := repotest.SeedExperience(t, f.ctx, f.db, f.user.ID)
	foreign := repotest.SeedAchievement(t, f.ctx, f.db, other.ID, 1)
	_, err = f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		AchievementID:   &foreign.ID,
		ProposalType:    "role_overview_update",
		ProposedContent: json.RawMessage(`{"role_overview":"Led the platform team"}`),
	})
	requireCode(t, err, domainagg.CodeValidation)

	rows, err := f.proposals.List(f.ctx, ProposalListParams{SessionID: f.sessionID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rejected creates stored %d proposals", len(rows))
	}

	own := repotest.SeedAchievement(t, f.ctx, f.db, f.experienceID, 1)
	p, err := f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		AchievementID:   &own.ID,
		ProposalType:    "skill_add",
		ProposedContent: json.RawMessage(`{"skill":"Rust"}`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.AchievementID == nil || *p.AchievementID != own.ID {
		t.Fatalf("unexpected achievement_id: %v", p.AchievementID)
	}
}

func TestProposalService_AchievementTargetCopiedToColumn(t *testing.T) {
	f := newProposalFixture(t)
	ach := repotest.SeedAchievement(t, f.ctx, f.db, f.experienceID, 1)

	p, err := f.proposals.Create(f.ctx, ProposalInput{
		SessionID:       f.sessionID,
		ExperienceID:    f.experienceID,
		ProposalType:    "achievement_update",
		ProposedContent: json.RawMessage(`{"achievement_id":"` + itoa(ach.ID) + `","content":"Rewrote it"}`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.AchievementID == nil || *p.AchievementID != ach.ID {
		t.Fatalf("achievement_id not copied: %v", p.AchievementID)
	}
}

func TestProposalService_UpdateContentOnlyWhilePending(t *testing.T) {
	f := newProposalFixture(t)
	p := repotest.SeedProposal(t, f.ctx, f.db, f.sessionID, f.experienceID, proposals.TypeSkillAdd, `{"skill":"Rust"}`, proposals.StatusPending)

	got, err := f.proposals.UpdateContent(f.ctx, p.ID, json.RawMessage(`{"skill":"Zig"}`))
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if !jsonEqual(got.ProposedContent, `{"skill":"Zig"}`) || !jsonEqual(got.OriginalProposedContent, `{"skill":"Rust"}`) {
		t.Fatalf("unexpected content: %s / %s", got.ProposedContent, got.OriginalProposedContent)
	}

	_, err = f.proposals.UpdateContent(f.ctx, p.ID, json.RawMessage(`{"skill":""}`))
	requireCode(t, err, domainagg.CodeValidation)

	if _, err := f.proposals.Reject(f.ctx, p.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	_, err = f.proposals.UpdateContent(f.ctx, p.ID, json.RawMessage(`{"skill":"Go"}`))
	requireCode(t, err, domainagg.CodeInvariantViolation)
}

func TestProposalService_ListRequiresSession(t *testing.T) {
	f := newProposalFixture(t)
	repotest.SeedProposal(t, f.ctx, f.db, f.sessionID, f.experienceID, proposals.TypeSkillAdd, `{"skill":"A"}`, proposals.StatusPending)
	repotest.SeedProposal(t, f.ctx, f.db, f.sessionID, f.experienceID, proposals.TypeSkillAdd, `{"skill":"B"}`, proposals.StatusRejected)

	_, err := f.proposals.List(f.ctx, ProposalListParams{})
	requireCode(t, err, domainagg.CodeValidation)

	pending := "pending"
	rows, err := f.proposals.List(f.ctx, ProposalListParams{SessionID: f.sessionID, Status: &pending})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 pending proposal, got %d", len(rows))
	}
}
