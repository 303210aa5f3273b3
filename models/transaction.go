package models

import "time"

// TransactionSource indicates what caused a ledger entry
type TransactionSource string

const (
	SourceBounty           TransactionSource = "bounty"
	SourceGoal             TransactionSource = "goal"
	SourcePurchase         TransactionSource = "purchase"
	SourceManualAdjustment TransactionSource = "manual_adjustment"
)

// Transaction = one immutable ledger entry. Positive amount = earn,
// negative = spend. Rows are only ever appended, never updated or deleted.
type Transaction struct {
	ID         string            `gorm:"primaryKey;type:uuid" json:"id"`
	StudentID  string            `gorm:"index;not null" json:"student_id"`
	Amount     int64             `gorm:"not null" json:"amount"`
	SourceType TransactionSource `gorm:"type:varchar(32);not null" json:"source_type"`
	SourceID   *string           `json:"source_id,omitempty"` // bounty/goal/purchase id, nil for manual
	Reason     string            `json:"reason"`
	ActorID    string            `gorm:"not null" json:"actor_id"` // who triggered it (teacher or student)
	CreatedAt  time.Time         `json:"created_at" gorm:"autoCreateTime"`
}
