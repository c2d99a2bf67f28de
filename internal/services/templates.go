package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/applytrack-backend/internal/data/repos"
	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/templates"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

type TemplateInput struct {
	Name        string
	Type        string
	Description string
	Content     string
	IsDefault   bool
}

type TemplatePatch struct {
	Name        *string
	Type        *string
	Description *string
	Content     *string
	IsDefault   *bool
}

type TemplateService interface {
	List(ctx context.Context, templateType *string) ([]*types.Template, error)
	Get(ctx context.Context, id uint) (*types.Template, error)
	// FindByName returns nil when no template of that type carries name.
	FindByName(ctx context.Context, templateType types.TemplateType, name string) (*types.Template, error)
	Create(ctx context.Context, in TemplateInput) (*types.Template, error)
	Update(ctx context.Context, id uint, patch TemplatePatch) (*types.Template, error)
	Delete(ctx context.Context, id uint) error
	// SeedFromFile inserts templates from a YAML file whose names are not
	// yet taken and returns the number inserted.
	SeedFromFile(ctx context.Context, path string) (int64, error)
}

type templateService struct {
	log       *logger.Logger
	templates repos.TemplateRepo
}

func NewTemplateService(log *logger.Logger, templateRepo repos.TemplateRepo) TemplateService {
	return &templateService{log: log.With("service", "TemplateService"), templates: templateRepo}
}

func parseTemplateType(op, raw string) (types.TemplateType, error) {
	t := types.TemplateType(strings.TrimSpace(raw))
	if !t.Valid() {
		return "", invalid(op, "type must be one of resume, cover_letter")
	}
	return t, nil
}

func (s *templateService) List(ctx context.Context, templateType *string) ([]*types.Template, error) {
	const op = "Templates.List"
	var filter *types.TemplateType
	if templateType != nil {
		t, err := parseTemplateType(op, *templateType)
		if err != nil {
			return nil, err
		}
		filter = &t
	}
	rows, err := s.templates.List(bg(ctx), filter)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rows, nil
}

func (s *templateService) Get(ctx context.Context, id uint) (*types.Template, error) {
	row, err := s.templates.GetByID(bg(ctx), id)
	if err != nil {
		return nil, storeErr("Templates.Get", err)
	}
	if row == nil {
		return nil, notFound("Templates.Get", "Template")
	}
	return row, nil
}

func (s *templateService) FindByName(ctx context.Context, templateType types.TemplateType, name string) (*types.Template, error) {
	rows, err := s.templates.List(bg(ctx), &templateType)
	if err != nil {
		return nil, storeErr("Templates.FindByName", err)
	}
	name = strings.TrimSpace(name)
	var fallback *types.Template
	for _, t := range rows {
		if t.Name == name {
			return t, nil
		}
		if name == "" && t.IsDefault && fallback == nil {
			fallback = t
		}
	}
	return fallback, nil
}

func (s *templateService) Create(ctx context.Context, in TemplateInput) (*types.Template, error) {
	const op = "Templates.Create"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid(op, "name is required")
	}
	t, err := parseTemplateType(op, in.Type)
	if err != nil {
		return nil, err
	}
	exists, err := s.templates.NameExists(bg(ctx), name, 0)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if exists {
		return nil, conflict(op, "Template name already exists")
	}
	row, err := s.templates.Create(bg(ctx), &types.Template{
		Name:        name,
		Type:        t,
		Description: in.Description,
		Content:     in.Content,
		IsDefault:   in.IsDefault,
	})
	if err != nil {
		// The unique index catches a concurrent insert of the same name.
		return nil, storeErr(op, err)
	}
	return row, nil
}

func (s *templateService) Update(ctx context.Context, id uint, patch TemplatePatch) (*types.Template, error) {
	const op = "Templates.Update"
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid(op, "name must not be empty")
		}
		exists, err := s.templates.NameExists(bg(ctx), name, id)
		if err != nil {
			return nil, storeErr(op, err)
		}
		if exists {
			return nil, conflict(op, "Template name already exists")
		}
		updates["name"] = name
	}
	if patch.Type != nil {
		t, err := parseTemplateType(op, *patch.Type)
		if err != nil {
			return nil, err
		}
		updates["type"] = t
	}
	setIf(updates, "description", patch.Description)
	setIf(updates, "content", patch.Content)
	setIf(updates, "is_default", patch.IsDefault)
	if _, err := s.templates.UpdateFields(bg(ctx), id, updates); err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

func (s *templateService) Delete(ctx context.Context, id uint) error {
	n, err := s.templates.Delete(bg(ctx), id)
	if err != nil {
		return storeErr("Templates.Delete", err)
	}
	if n == 0 {
		return notFound("Templates.Delete", "Template")
	}
	return nil
}

type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
	IsDefault   bool   `yaml:"is_default"`
}

// ParseTemplateSeed decodes the seed YAML into template rows.
func ParseTemplateSeed(raw []byte) ([]*types.Template, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode template seed: %w", err)
	}
	out := make([]*types.Template, 0, len(f.Templates))
	seen := map[string]bool{}
	for i, t := range f.Templates {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("template seed entry %d: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("template seed entry %d: duplicate name %q", i, name)
		}
		seen[name] = true
		tt := templates.Type(strings.TrimSpace(t.Type))
		if !tt.Valid() {
			return nil, fmt.Errorf("template seed entry %q: unknown type %q", name, t.Type)
		}
		out = append(out, &types.Template{
			Name:        name,
			Type:        tt,
			Description: strings.TrimSpace(t.Description),
			Content:     t.Content,
			IsDefault:   t.IsDefault,
		})
	}
	return out, nil
}

func (s *templateService) SeedFromFile(ctx context.Context, path string) (int64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("template seed file missing", "path", path)
			return 0, nil
		}
		return 0, fmt.Errorf("read template seed: %w", err)
	}
	rows, err := ParseTemplateSeed(raw)
	if err != nil {
		return 0, err
	}
	n, err := s.templates.InsertMissing(bg(ctx), rows)
	if err != nil {
		return 0, storeErr("Templates.Seed", err)
	}
	s.log.Info("templates seeded", "path", path, "inserted", n, "total", len(rows))
	return n, nil
}
