package profile

import "time"

type Education struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	School      string    `gorm:"not null;column:school" json:"school"`
	Degree      string    `gorm:"column:degree" json:"degree"`
	Field       string    `gorm:"column:field" json:"field"`
	StartDate   string    `gorm:"column:start_date" json:"start_date"`
	EndDate     string    `gorm:"column:end_date" json:"end_date"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Education) TableName() string { return "education" }

type Certification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	Name          string    `gorm:"not null;column:name" json:"name"`
	Issuer        string    `gorm:"column:issuer" json:"issuer"`
	IssuedOn      string    `gorm:"column:issued_on" json:"issued_on"`
	ExpiresOn     string    `gorm:"column:expires_on" json:"expires_on"`
	CredentialURL string    `gorm:"column:credential_url" json:"credential_url"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Certification) TableName() string { return "certifications" }

// Profile is the read model of everything the agent needs about the user.
type Profile struct {
	Experiences    []*Experience    `json:"experiences"`
	Education      []*Education     `json:"education"`
	Certifications []*Certification `json:"certifications"`
}
