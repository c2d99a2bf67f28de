package jobs

import "time"

type Status string

const (
	StatusSaved        Status = "Saved"
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusNotSelected  Status = "Not Selected"
	StatusNoOffer      Status = "No Offer"
	StatusHired        Status = "Hired"
)

var Statuses = []Status{
	StatusSaved,
	StatusApplied,
	StatusInterviewing,
	StatusNotSelected,
	StatusNoOffer,
	StatusHired,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Job is one tracked application.
type Job struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index;column:user_id" json:"user_id"`
	Title          string     `gorm:"not null;column:title" json:"title"`
	Company        string     `gorm:"not null;column:company" json:"company"`
	Description    string     `gorm:"type:text;column:description" json:"description"`
	Location       string     `gorm:"column:location" json:"location"`
	URL            string     `gorm:"column:url" json:"url"`
	SalaryRange    string     `gorm:"column:salary_range" json:"salary_range"`
	Notes          string     `gorm:"type:text;column:notes" json:"notes"`
	Status         Status     `gorm:"not null;default:'Saved';column:status;check:chk_jobs_status,status IN ('Saved','Applied','Interviewing','Not Selected','No Offer','Hired')" json:"status"`
	IsFavorite     bool       `gorm:"not null;default:false;column:is_favorite" json:"is_favorite"`
	HasResume      bool       `gorm:"not null;default:false;column:has_resume" json:"has_resume"`
	HasCoverLetter bool       `gorm:"not null;default:false;column:has_cover_letter" json:"has_cover_letter"`
	AppliedAt      *time.Time `gorm:"column:applied_at" json:"applied_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }
