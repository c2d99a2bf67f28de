package documents

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventGenerate EventType = "generate"
	EventSave     EventType = "save"
	EventReset    EventType = "reset"
)

func (e EventType) Valid() bool {
	switch e {
	case EventGenerate, EventSave, EventReset:
		return true
	}
	return false
}

// Version is an immutable snapshot of a resume or cover letter for a job.
// The same row shape backs both resume_versions and cover_letter_versions;
// Kind is not stored and must be set by whoever loads the row.
type Version struct {
	ID              uint      `gorm:"primaryKey"`
	JobID           uint      `gorm:"not null;column:job_id"`
	Body            string    `gorm:"type:text;not null;column:document_json"`
	TemplateName    string    `gorm:"column:template_name"`
	VersionIndex    int       `gorm:"not null;column:version_index"`
	ParentVersionID *uint     `gorm:"column:parent_version_id"`
	EventType       EventType `gorm:"not null;column:event_type;check:event_type IN ('generate','save','reset')"`
	IsPinned        bool      `gorm:"not null;default:false;column:is_pinned"`
	Locked          bool      `gorm:"not null;default:false;column:locked"`
	CreatedByUserID uint      `gorm:"not null;column:created_by_user_id"`
	CreatedAt       time.Time `gorm:"not null"`

	Kind Kind `gorm:"-"`
}

// MarshalJSON writes the body under the kind's field name so resume and
// cover-letter payloads keep their own shape on the wire.
func (v Version) MarshalJSON() ([]byte, error) {
	kind := v.Kind
	if kind == "" {
		kind = KindResume
	}
	out := map[string]any{
		"id":                 v.ID,
		"job_id":             v.JobID,
		kind.BodyField():     v.Body,
		"template_name":      v.TemplateName,
		"version_index":      v.VersionIndex,
		"parent_version_id":  v.ParentVersionID,
		"event_type":         v.EventType,
		"is_pinned":          v.IsPinned,
		"locked":             v.Locked,
		"created_by_user_id": v.CreatedByUserID,
		"created_at":         v.CreatedAt,
	}
	return json.Marshal(out)
}

// WithKind stamps kind onto each loaded row.
func WithKind(rows []*Version, kind Kind) []*Version {
	for _, r := range rows {
		if r != nil {
			r.Kind = kind
		}
	}
	return rows
}
