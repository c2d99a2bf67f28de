package services

import (
	"os"
	"path/filepath"
	"testing"

	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/domain/templates"
)

const seedYAML = `
templates:
  - name: classic
    type: resume
    description: Single column
    is_default: true
    content: |
      {{.Name}}
  - name: formal-letter
    type: cover_letter
    content: Dear hiring manager
`

func TestTemplateService_DuplicateNameConflicts(t *testing.T) {
	f := newFixture(t)

	if _, err := f.templates.Create(f.ctx, TemplateInput{Name: "modern", Type: "resume"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := f.templates.Create(f.ctx, TemplateInput{Name: " modern ", Type: "cover_letter"})
	requireCode(t, err, domainagg.CodeConflict)
	requireMessage(t, err, "Template name already exists")

	rows, err := f.templates.List(f.ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("duplicate inserted: %d rows", len(rows))
	}

	_, err = f.templates.Create(f.ctx, TemplateInput{Name: "x", Type: "email"})
	requireCode(t, err, domainagg.CodeValidation)
}

func TestTemplateService_UpdateRenameConflict(t *testing.T) {
	f := newFixture(t)
	a, err := f.templates.Create(f.ctx, TemplateInput{Name: "a", Type: "resume"})
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := f.templates.Create(f.ctx, TemplateInput{Name: "b", Type: "resume"}); err != nil {
		t.Fatalf("Create b: %v", err)
	}

	taken := "b"
	_, err = f.templates.Update(f.ctx, a.ID, TemplatePatch{Name: &taken})
	requireCode(t, err, domainagg.CodeConflict)

	same := "a"
	desc := "updated"
	got, err := f.templates.Update(f.ctx, a.ID, TemplatePatch{Name: &same, Description: &desc})
	if err != nil {
		t.Fatalf("Update keeping name: %v", err)
	}
	if got.Description != desc {
		t.Fatalf("description not updated")
	}
}

func TestParseTemplateSeed(t *testing.T) {
	rows, err := ParseTemplateSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("ParseTemplateSeed: %v", err)
	}
	if len(rows) != 2 || rows[0].Type != templates.TypeResume || !rows[0].IsDefault {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	cases := map[string]string{
		"missing name":   "templates:\n  - type: resume\n",
		"bad type":       "templates:\n  - name: x\n    type: email\n",
		"duplicate name": "templates:\n  - name: x\n    type: resume\n  - name: x\n    type: resume\n",
		"not yaml":       "templates: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTemplateSeed([]byte(raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestTemplateService_SeedFromFileIsIdempotent(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	n, err := f.templates.SeedFromFile(f.ctx, path)
	if err != nil {
		t.Fatalf("SeedFromFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}
	n, err = f.templates.SeedFromFile(f.ctx, path)
	if err != nil {
		t.Fatalf("SeedFromFile again: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing inserted on reseed, got %d", n)
	}

	if n, err := f.templates.SeedFromFile(f.ctx, filepath.Join(t.TempDir(), "missing.yaml")); err != nil || n != 0 {
		t.Fatalf("missing file: n=%d err=%v", n, err)
	}
}

func TestTemplateService_FindByName(t *testing.T) {
	f := newFixture(t)
	if _, err := f.templates.Create(f.ctx, TemplateInput{Name: "classic", Type: "resume", IsDefault: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := f.templates.FindByName(f.ctx, templates.TypeResume, "")
	if err != nil || got == nil || got.Name != "classic" {
		t.Fatalf("default lookup: %+v %v", got, err)
	}
	got, err = f.templates.FindByName(f.ctx, templates.TypeCoverLetter, "classic")
	if err != nil || got != nil {
		t.Fatalf("expected no cover letter template, got %+v %v", got, err)
	}
}

func TestParseTemplateSeed_ShippedFile(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "configs", "templates.yaml"))
	if err != nil {
		t.Fatalf("read shipped seed: %v", err)
	}
	rows, err := ParseTemplateSeed(raw)
	if err != nil {
		t.Fatalf("ParseTemplateSeed: %v", err)
	}
	defaults := map[templates.Type]int{}
	for _, r := range rows {
		if r.IsDefault {
			defaults[r.Type]++
		}
	}
	if defaults[templates.TypeResume] != 1 || defaults[templates.TypeCoverLetter] != 1 {
		t.Fatalf("expected one default per type, got %v", defaults)
	}
}
