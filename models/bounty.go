package models

import "time"

// Difficulty is the closed set of bounty difficulty labels
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyHard      Difficulty = "hard"
	DifficultyLegendary Difficulty = "legendary"
)

// ValidDifficulty reports whether d is one of the known difficulty labels.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyLegendary:
		return true
	}
	return false
}

// Bounty is a one-time task with a fixed coin reward, completable by
// multiple students independently. active ⇄ archived is a reversible toggle.
type Bounty struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Reward      int64      `gorm:"not null" json:"reward"`
	Difficulty  Difficulty `gorm:"type:varchar(16);default:'easy'" json:"difficulty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClassIDs    []string   `gorm:"serializer:json" json:"class_ids"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedBy   string     `gorm:"index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// BountyCompletion = student was paid out for a bounty. The unique
// (bounty_id, student_id) pair is what makes a retried completion batch safe:
// a second run finds the row and skips the payout.
//
// BountyTitle is snapshotted so the row stays meaningful (and auditable)
// after the parent bounty is hard-deleted — completions are never cascaded.
type BountyCompletion struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	BountyID    string    `gorm:"not null;uniqueIndex:idx_bounty_student" json:"bounty_id"`
	StudentID   string    `gorm:"not null;uniqueIndex:idx_bounty_student;index" json:"student_id"`
	BountyTitle string    `json:"bounty_title"`
	Reward      int64     `json:"reward"`
	CompletedBy string    `json:"completed_by"` // teacher who ran the batch
	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime"`
}
