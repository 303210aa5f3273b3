package models

import "time"

// CreatorRole records who created a goal
type CreatorRole string

const (
	CreatorTeacher CreatorRole = "teacher"
	CreatorStudent CreatorRole = "student"
)

// MaxGoalTextLen caps goal_text length
const MaxGoalTextLen = 500

// Goal is a per-student goal with an optional coin reward on completion.
// IsCompleted and IsRejected are mutually exclusive one-way terminal flags;
// once either is set the goal leaves the active set permanently.
type Goal struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	StudentID   string      `gorm:"index;not null" json:"student_id"`
	GoalText    string      `gorm:"type:varchar(500);not null" json:"goal_text"`
	CoinReward  int64       `gorm:"default:0" json:"coin_reward"`
	CreatorRole CreatorRole `gorm:"type:varchar(16);not null" json:"creator_role"`
	CreatedBy   string      `json:"created_by"`
	IsCompleted bool        `gorm:"default:false;index" json:"is_completed"`
	CompletedAt *time.Time  `json:"completed_date,omitempty"`
	CompletedBy string      `json:"completed_by,omitempty"`
	IsRejected  bool        `gorm:"default:false;index" json:"is_rejected"`
	RejectedAt  *time.Time  `json:"rejected_date,omitempty"`
	RejectedBy  string      `json:"rejected_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// Terminal reports whether the goal has left the active set.
func (g *Goal) Terminal() bool {
	return g.IsCompleted || g.IsRejected
}
