package services

import (
	"testing"

	repotest "github.com/yungbote/applytrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/platform/agent"
)

func TestExperienceService_CreateWithAchievements(t *testing.T) {
	f := newFixture(t)

	exp, err := f.experiences.Create(f.ctx, ExperienceInput{
		Company: "Initech",
		Title:   "Engineer",
		Skills:  []string{"Go", " Go ", "SQL", ""},
		Achievements: []AchievementInput{
			{Title: "Migration", Content: "Moved billing to Postgres"},
			{Content: "Cut p99 latency in half"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := []string(exp.Skills); len(got) != 2 || got[0] != "Go" || got[1] != "SQL" {
		t.Fatalf("skills not normalized: %v", got)
	}
	if len(exp.Achievements) != 2 || exp.Achievements[1].Order != 2 {
		t.Fatalf("unexpected achievements: %+v", exp.Achievements)
	}

	_, err = f.experiences.Create(f.ctx, ExperienceInput{
		Company:      "Initech",
		Title:        "Engineer",
		Achievements: []AchievementInput{{Title: "empty"}},
	})
	requireCode(t, err, domainagg.CodeValidation)
}

func TestExperienceService_ListIncludesAchievements(t *testing.T) {
	f := newFixture(t)
	a := repotest.SeedExperience(t, f.ctx, f.db, f.user.ID)
	b := repotest.SeedExperience(t, f.ctx, f.db, f.user.ID)
	repotest.SeedAchievement(t, f.ctx, f.db, a.ID, 1)
	repotest.SeedAchievement(t, f.ctx, f.db, a.ID, 2)
	repotest.SeedAchievement(t, f.ctx, f.db, b.ID, 1)

	rows, err := f.experiences.List(f.ctx, 0, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	counts := map[uint]int{}
	for _, r := range rows {
		counts[r.ID] = len(r.Achievements)
	}
	if counts[a.ID] != 2 || counts[b.ID] != 1 {
		t.Fatalf("unexpected achievement counts: %v", counts)
	}

	plain, err := f.experiences.List(f.ctx, f.user.ID, false)
	if err != nil {
		t.Fatalf("List plain: %v", err)
	}
	for _, r := range plain {
		if r.Achievements != nil {
			t.Fatalf("achievements loaded without include")
		}
	}
}

func TestExperienceService_AchievementOrderAndDelete(t *testing.T) {
	f := newFixture(t)
	exp := repotest.SeedExperience(t, f.ctx, f.db, f.user.ID)
	repotest.SeedAchievement(t, f.ctx, f.db, exp.ID, 4)

	created, err := f.experiences.CreateAchievement(f.ctx, AchievementInput{ExperienceID: exp.ID, Content: "Led on-call"})
	if err != nil {
		t.Fatalf("CreateAchievement: %v", err)
	}
	if created.Order != 5 {
		t.Fatalf("expected order 5, got %d", created.Order)
	}

	_, err = f.experiences.CreateAchievement(f.ctx, AchievementInput{ExperienceID: 9999, Content: "x"})
	requireCode(t, err, domainagg.CodeNotFound)
	requireMessage(t, err, "Experience not found")

	if err := f.experiences.Delete(f.ctx, exp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = f.experiences.GetAchievement(f.ctx, created.ID)
	requireMessage(t, err, "Achievement not found")
}

func TestExperienceService_UpdateSkills(t *testing.T) {
	f := newFixture(t)
	exp := repotest.SeedExperience(t, f.ctx, f.db, f.user.ID, "Go")

	skills := []string{"Rust", "Rust", "Go"}
	overview := "Owned the payments platform"
	got, err := f.experiences.Update(f.ctx, exp.ID, ExperiencePatch{Skills: &skills, RoleOverview: &overview})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s := []string(got.Skills); len(s) != 2 || s[0] != "Rust" || s[1] != "Go" {
		t.Fatalf("unexpected skills: %v", s)
	}
	if got.RoleOverview != overview {
		t.Fatalf("role overview not updated")
	}
}

func TestExperienceService_ExtractFromUpload(t *testing.T) {
	f := newFixture(t)
	up, err := f.uploadRepo.Create(bg(f.ctx), &types.Upload{
		UserID:        f.user.ID,
		FileName:      "resume.txt",
		MimeType:      "text/plain",
		StorageKey:    "uploads/test/resume.txt",
		ExtractedText: "Engineer at Initech 2019-2023",
	})
	if err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	f.agent.experiences = []agent.ExperienceDraft{{Company: "Initech", Title: "Engineer"}}

	drafts, err := f.experiences.Extract(f.ctx, "", &up.ID)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(drafts) != 1 || f.agent.lastText != up.ExtractedText {
		t.Fatalf("agent saw %q, drafts=%v", f.agent.lastText, drafts)
	}

	missing := uint(424242)
	_, err = f.experiences.Extract(f.ctx, "", &missing)
	requireMessage(t, err, "Upload not found")

	_, err = f.experiences.Extract(f.ctx, "", nil)
	requireCode(t, err, domainagg.CodeValidation)
}

func TestProfileService_Get(t *testing.T) {
	f := newFixture(t)
	exp := repotest.SeedExperience(t, f.ctx, f.db, f.user.ID)
	repotest.SeedAchievement(t, f.ctx, f.db, exp.ID, 1)
	if _, err := f.profile.CreateEducation(f.ctx, EducationInput{School: "State University", Degree: "BSc"}); err != nil {
		t.Fatalf("CreateEducation: %v", err)
	}
	if _, err := f.profile.CreateCertification(f.ctx, CertificationInput{Name: "CKA", Issuer: "CNCF"}); err != nil {
		t.Fatalf("CreateCertification: %v", err)
	}

	p, err := f.profile.Get(f.ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Experiences) != 1 || len(p.Experiences[0].Achievements) != 1 {
		t.Fatalf("unexpected experiences: %+v", p.Experiences)
	}
	if len(p.Education) != 1 || len(p.Certifications) != 1 {
		t.Fatalf("unexpected education/certifications: %d/%d", len(p.Education), len(p.Certifications))
	}
}

func TestProfileService_EducationCRUD(t *testing.T) {
	f := newFixture(t)
	ed, err := f.profile.CreateEducation(f.ctx, EducationInput{School: "Tech"})
	if err != nil {
		t.Fatalf("CreateEducation: %v", err)
	}
	field := "Computer Science"
	got, err := f.profile.UpdateEducation(f.ctx, ed.ID, EducationPatch{Field: &field})
	if err != nil {
		t.Fatalf("UpdateEducation: %v", err)
	}
	if got.Field != field {
		t.Fatalf("field not updated")
	}
	if err := f.profile.DeleteEducation(f.ctx, ed.ID); err != nil {
		t.Fatalf("DeleteEducation: %v", err)
	}
	err = f.profile.DeleteEducation(f.ctx, ed.ID)
	requireMessage(t, err, "Education not found")
	_, err = f.profile.GetCertification(f.ctx, 777)
	requireMessage(t, err, "Certification not found")
}
