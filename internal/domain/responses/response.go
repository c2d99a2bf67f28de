package responses

import "time"

type Source string

const (
	SourceManual              Source = "manual"
	SourceGapAnalysis         Source = "gap_analysis"
	SourceStakeholderAnalysis Source = "stakeholder_analysis"
	SourceChat                Source = "chat"
	SourceExtraction          Source = "extraction"
	SourceProposalGeneration  Source = "proposal_generation"
)

func (s Source) Valid() bool {
	switch s {
	case SourceManual, SourceGapAnalysis, SourceStakeholderAnalysis, SourceChat, SourceExtraction, SourceProposalGeneration:
		return true
	}
	return false
}

// Response is a free-form prompt/response log entry.
type Response struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JobID     *uint     `gorm:"index;column:job_id" json:"job_id"`
	SessionID *uint     `gorm:"index;column:session_id" json:"session_id"`
	Prompt    string    `gorm:"type:text;column:prompt" json:"prompt"`
	Response  string    `gorm:"type:text;column:response" json:"response"`
	Source    Source    `gorm:"not null;default:'manual';column:source" json:"source"`
	Ignore    bool      `gorm:"not null;default:false;column:ignored" json:"ignore"`
	Locked    bool      `gorm:"not null;default:false;column:locked" json:"locked"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Response) TableName() string { return "responses" }
