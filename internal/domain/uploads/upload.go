package uploads

import "time"

type Upload struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	JobID         *uint     `gorm:"index;column:job_id" json:"job_id"`
	FileName      string    `gorm:"not null;column:file_name" json:"file_name"`
	MimeType      string    `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes     int64     `gorm:"not null;default:0;column:size_bytes" json:"size_bytes"`
	StorageKey    string    `gorm:"not null;uniqueIndex;column:storage_key" json:"storage_key"`
	ExtractedText string    `gorm:"type:text;column:extracted_text" json:"extracted_text"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }
