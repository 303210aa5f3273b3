// models/student_mirror.go
package models

import "time"

// StudentMirror mirrors roster data from the school platform sync service.
// Table name: student_mirror
type StudentMirror struct {
	ID           string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	StudentID    string    `gorm:"not null;uniqueIndex" json:"student_id"` // External student ID
	DisplayName  string    `gorm:"type:varchar(128);not null" json:"display_name"`
	ClassID      string    `gorm:"type:varchar(64);not null;index" json:"class_id"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	LastSyncedAt time.Time `gorm:"not null" json:"last_synced_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (StudentMirror) TableName() string {
	return "student_mirror"
}
