package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is the per-student balance projection (denormalized for performance).
// The transaction log is the source of truth; this row is updated in the same
// DB transaction as each ledger append and is always recomputable from it.
// Invariant: Balance == LifetimeEarned - LifetimeSpent.
type Wallet struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	StudentID      string `gorm:"uniqueIndex;not null" json:"student_id"`
	Balance        int64  `json:"balance" gorm:"default:0"`
	LifetimeEarned int64  `json:"lifetime_earned" gorm:"default:0"`
	LifetimeSpent  int64  `json:"lifetime_spent" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
