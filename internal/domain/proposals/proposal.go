package proposals

import (
	"time"

	"gorm.io/datatypes"
)

type Type string

const (
	TypeAchievementAdd        Type = "achievement_add"
	TypeAchievementUpdate     Type = "achievement_update"
	TypeAchievementDelete     Type = "achievement_delete"
	TypeSkillAdd              Type = "skill_add"
	TypeSkillDelete           Type = "skill_delete"
	TypeRoleOverviewUpdate    Type = "role_overview_update"
	TypeCompanyOverviewUpdate Type = "company_overview_update"
)

var Types = []Type{
	TypeAchievementAdd,
	TypeAchievementUpdate,
	TypeAchievementDelete,
	TypeSkillAdd,
	TypeSkillDelete,
	TypeRoleOverviewUpdate,
	TypeCompanyOverviewUpdate,
}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Proposal is a reviewable edit to an experience or one of its achievements.
type Proposal struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	SessionID               uint           `gorm:"not null;index;column:session_id" json:"session_id"`
	ExperienceID            uint           `gorm:"not null;index;column:experience_id" json:"experience_id"`
	AchievementID           *uint          `gorm:"column:achievement_id" json:"achievement_id"`
	ProposalType            Type           `gorm:"not null;column:proposal_type;check:proposal_type IN ('achievement_add','achievement_update','achievement_delete','skill_add','skill_delete','role_overview_update','company_overview_update')" json:"proposal_type"`
	ProposedContent         datatypes.JSON `gorm:"not null;column:proposed_content" json:"proposed_content"`
	OriginalProposedContent datatypes.JSON `gorm:"column:original_proposed_content" json:"original_proposed_content"`
	Status                  Status         `gorm:"not null;default:'pending';column:status;check:status IN ('pending','accepted','rejected')" json:"status"`
	CreatedAt               time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"not null" json:"updated_at"`
}

func (Proposal) TableName() string { return "experience_proposals" }
