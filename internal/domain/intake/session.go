package intake

import (
	"time"

	"gorm.io/datatypes"
)

type Step string

const (
	StepDetails    Step = "details"
	StepExperience Step = "experience"
	StepProposals  Step = "proposals"
	StepDocuments  Step = "documents"
	StepComplete   Step = "complete"
)

func (s Step) Valid() bool {
	switch s {
	case StepDetails, StepExperience, StepProposals, StepDocuments, StepComplete:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted || s == StatusAbandoned
}

// Session tracks one run of the intake workflow for a job.
type Session struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	JobID               uint           `gorm:"not null;index;column:job_id" json:"job_id"`
	UserID              uint           `gorm:"not null;index;column:user_id" json:"user_id"`
	Step                Step           `gorm:"not null;default:'details';column:step" json:"step"`
	Status              Status         `gorm:"not null;default:'active';column:status" json:"status"`
	GapAnalysis         datatypes.JSON `gorm:"column:gap_analysis" json:"gap_analysis,omitempty"`
	StakeholderAnalysis datatypes.JSON `gorm:"column:stakeholder_analysis" json:"stakeholder_analysis,omitempty"`
	CompletedAt         *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "intake_sessions" }
