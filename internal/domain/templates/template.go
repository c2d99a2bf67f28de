package templates

import "time"

type Type string

const (
	TypeResume      Type = "resume"
	TypeCoverLetter Type = "cover_letter"
)

func (t Type) Valid() bool { return t == TypeResume || t == TypeCoverLetter }

type Template struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex;column:name" json:"name"`
	Type        Type      `gorm:"not null;column:type;check:type IN ('resume','cover_letter')" json:"type"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	Content     string    `gorm:"type:text;column:content" json:"content"`
	IsDefault   bool      `gorm:"not null;default:false;column:is_default" json:"is_default"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Template) TableName() string { return "templates" }
