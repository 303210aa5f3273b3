package models

import "time"

// StoreItem is a purchasable reward in the class store. Cost is live and
// editable; purchases snapshot it at request time (see Purchase).
type StoreItem struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Cost        int64     `gorm:"not null" json:"cost"`
	IconURL     string    `gorm:"type:text" json:"icon_url"`
	Category    string    `gorm:"type:varchar(64)" json:"category"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedBy   string    `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PurchaseStatus is the purchase approval state. pending is initial;
// approved and rejected are terminal — there is no way back.
type PurchaseStatus string

const (
	PurchasePending  PurchaseStatus = "pending"
	PurchaseApproved PurchaseStatus = "approved"
	PurchaseRejected PurchaseStatus = "rejected"
)

// Purchase is a student's request to buy a store item, gated on teacher
// approval. Name/icon/cost are snapshotted at request time so later edits or
// deletion of the StoreItem never rewrite a historical purchase.
type Purchase struct {
	ID               string         `gorm:"primaryKey;type:uuid" json:"id"`
	StudentID        string         `gorm:"index;not null" json:"student_id"`
	ItemID           string         `gorm:"index;not null" json:"item_id"`
	ItemNameSnapshot string         `json:"item_name_snapshot"`
	ItemIconSnapshot string         `json:"item_icon_snapshot"`
	CostSnapshot     int64          `gorm:"not null" json:"cost_snapshot"`
	Status           PurchaseStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	RequestedAt      time.Time      `json:"requested_at" gorm:"autoCreateTime"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	ReviewedBy       string         `json:"reviewed_by,omitempty"`
	ReviewReason     string         `json:"review_reason,omitempty"`
}
