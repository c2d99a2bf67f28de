package proposals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Change is the decoded, validated form of a proposal's content.
// Exactly one concrete type exists per proposal Type.
type Change interface {
	Type() Type
	sealed()
}

type AchievementAdd struct {
	Title   string
	Content string
	// Order is nil when the proposal should append after the last achievement.
	Order *int
}

type AchievementUpdate struct {
	AchievementID uint
	Title         *string
	Content       *string
}

type AchievementDelete struct {
	AchievementID uint
}

type SkillAdd struct{ Skill string }

type SkillDelete struct{ Skill string }

type RoleOverviewUpdate struct{ RoleOverview string }

type CompanyOverviewUpdate struct{ CompanyOverview string }

func (AchievementAdd) Type() Type        { return TypeAchievementAdd }
func (AchievementUpdate) Type() Type     { return TypeAchievementUpdate }
func (AchievementDelete) Type() Type     { return TypeAchievementDelete }
func (SkillAdd) Type() Type              { return TypeSkillAdd }
func (SkillDelete) Type() Type           { return TypeSkillDelete }
func (RoleOverviewUpdate) Type() Type    { return TypeRoleOverviewUpdate }
func (CompanyOverviewUpdate) Type() Type { return TypeCompanyOverviewUpdate }

func (AchievementAdd) sealed()        {}
func (AchievementUpdate) sealed()     {}
func (AchievementDelete) sealed()     {}
func (SkillAdd) sealed()              {}
func (SkillDelete) sealed()           {}
func (RoleOverviewUpdate) sealed()    {}
func (CompanyOverviewUpdate) sealed() {}

// FieldError names one invalid content field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DecodeError lists every problem found while decoding content.
type DecodeError struct {
	Type   Type
	Fields []FieldError
}

func (e *DecodeError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid %s content: %s", e.Type, strings.Join(parts, "; "))
}

type rawContent struct {
	Title           *string         `json:"title"`
	Content         *string         `json:"content"`
	Order           json.RawMessage `json:"order"`
	AchievementID   json.RawMessage `json:"achievement_id"`
	Skill           *string         `json:"skill"`
	RoleOverview    *string         `json:"role_overview"`
	CompanyOverview *string         `json:"company_overview"`
}

// Decode validates raw content for t. achievementID is the proposal's
// achievement_id column; when nil, achievement_id inside content is used.
func Decode(t Type, raw []byte, achievementID *uint) (Change, error) {
	if !t.Valid() {
		return nil, &DecodeError{Type: t, Fields: []FieldError{{Field: "proposal_type", Message: "unknown proposal type"}}}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &DecodeError{Type: t, Fields: []FieldError{{Field: "proposed_content", Message: "is required"}}}
	}
	var rc rawContent
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, &DecodeError{Type: t, Fields: []FieldError{{Field: "proposed_content", Message: "must be a JSON object"}}}
	}

	d := decoder{t: t}
	var out Change
	switch t {
	case TypeAchievementAdd:
		c := AchievementAdd{Title: trimPtr(rc.Title)}
		c.Content = d.requireString("content", rc.Content)
		c.Order = d.optionalInt("order", rc.Order)
		out = c
	case TypeAchievementUpdate:
		c := AchievementUpdate{AchievementID: d.achievementID(rc.AchievementID, achievementID)}
		if rc.Title != nil {
			v := strings.TrimSpace(*rc.Title)
			c.Title = &v
		}
		if rc.Content != nil {
			v := strings.TrimSpace(*rc.Content)
			if v == "" {
				d.add("content", "must not be empty")
			}
			c.Content = &v
		}
		if c.Title == nil && c.Content == nil {
			d.add("content", "title or content is required")
		}
		out = c
	case TypeAchievementDelete:
		out = AchievementDelete{AchievementID: d.achievementID(rc.AchievementID, achievementID)}
	case TypeSkillAdd:
		out = SkillAdd{Skill: d.requireString("skill", rc.Skill)}
	case TypeSkillDelete:
		out = SkillDelete{Skill: d.requireString("skill", rc.Skill)}
	case TypeRoleOverviewUpdate:
		out = RoleOverviewUpdate{RoleOverview: d.requireString("role_overview", rc.RoleOverview)}
	case TypeCompanyOverviewUpdate:
		out = CompanyOverviewUpdate{CompanyOverview: d.requireString("company_overview", rc.CompanyOverview)}
	}
	if len(d.fields) > 0 {
		return nil, &DecodeError{Type: t, Fields: d.fields}
	}
	return out, nil
}

// TargetAchievementID reports the achievement a change touches, if any.
func TargetAchievementID(c Change) (uint, bool) {
	switch v := c.(type) {
	case AchievementUpdate:
		return v.AchievementID, true
	case AchievementDelete:
		return v.AchievementID, true
	}
	return 0, false
}

type decoder struct {
	t      Type
	fields []FieldError
}

func (d *decoder) add(field, msg string) {
	d.fields = append(d.fields, FieldError{Field: field, Message: msg})
}

func (d *decoder) requireString(field string, v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		d.add(field, "is required")
		return ""
	}
	return strings.TrimSpace(*v)
}

func (d *decoder) optionalInt(field string, raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	n, ok := parseInt(raw)
	if !ok || n < 0 {
		d.add(field, "must be a non-negative integer")
		return nil
	}
	return &n
}

func (d *decoder) achievementID(raw json.RawMessage, column *uint) uint {
	if column != nil && *column > 0 {
		return *column
	}
	if len(raw) > 0 && string(raw) != "null" {
		if n, ok := parseInt(raw); ok && n > 0 {
			return uint(n)
		}
		d.add("achievement_id", "must be a positive integer")
		return 0
	}
	d.add("achievement_id", "is required for "+string(d.t))
	return 0
}

// parseInt accepts 3 and "3"; agents are not consistent about either.
func parseInt(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v, true
		}
	}
	return 0, false
}

func trimPtr(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
