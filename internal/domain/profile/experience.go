package profile

import (
	"time"

	"gorm.io/datatypes"
)

// Experience is one entry of the user's work history.
// Achievements are loaded separately and only populated on request.
type Experience struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	UserID          uint                        `gorm:"not null;index;column:user_id" json:"user_id"`
	Company         string                      `gorm:"not null;column:company" json:"company"`
	Title           string                      `gorm:"not null;column:title" json:"title"`
	Location        string                      `gorm:"column:location" json:"location"`
	StartDate       string                      `gorm:"column:start_date" json:"start_date"`
	EndDate         string                      `gorm:"column:end_date" json:"end_date"`
	IsCurrent       bool                        `gorm:"not null;default:false;column:is_current" json:"is_current"`
	RoleOverview    string                      `gorm:"type:text;column:role_overview" json:"role_overview"`
	CompanyOverview string                      `gorm:"type:text;column:company_overview" json:"company_overview"`
	Skills          datatypes.JSONSlice[string] `gorm:"column:skills" json:"skills"`
	SortOrder       int                         `gorm:"not null;default:0;column:sort_order" json:"sort_order"`
	CreatedAt       time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"not null" json:"updated_at"`

	Achievements []*Achievement `gorm:"-" json:"achievements,omitempty"`
}

func (Experience) TableName() string { return "experiences" }

type Achievement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExperienceID uint      `gorm:"not null;index;column:experience_id" json:"experience_id"`
	Title        string    `gorm:"column:title" json:"title"`
	Content      string    `gorm:"type:text;not null;column:content" json:"content"`
	Order        int       `gorm:"not null;default:0;column:sort_order" json:"order"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Achievement) TableName() string { return "achievements" }
