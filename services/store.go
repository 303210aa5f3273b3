package services

import (
	"errors"
	"strings"
	"time"

	"classroom-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreService manages purchasable items and the purchase approval workflow.
// Approving a purchase is the only path that spends coins, and it debits the
// cost snapshotted at request time — never the item's current cost.
type StoreService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewStoreService(db *gorm.DB, ledger *LedgerService) *StoreService {
	return &StoreService{DB: db, Ledger: ledger}
}

// StoreItemInput carries the fields a teacher sets on an item.
type StoreItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	IconURL     string `json:"icon_url"`
	Category    string `json:"category"`
}

// StoreItemUpdate applies only the fields that are present.
type StoreItemUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cost        *int64  `json:"cost"`
	IconURL     *string `json:"icon_url"`
	Category    *string `json:"category"`
}

func (s *StoreService) CreateItem(in StoreItemInput, actorID string) (*models.StoreItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Msg: "required"}
	}
	if in.Cost <= 0 {
		return nil, &ValidationError{Field: "cost", Msg: "must be positive"}
	}

	item := &models.StoreItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Cost:        in.Cost,
		IconURL:     in.IconURL,
		Category:    in.Category,
		IsActive:    true,
		CreatedBy:   actorID,
	}
	if err := s.DB.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *StoreService) GetItem(id string) (*models.StoreItem, error) {
	var item models.StoreItem
	if err := s.DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *StoreService) UpdateItem(id string, upd StoreItemUpdate) (*models.StoreItem, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, &ValidationError{Field: "name", Msg: "required"}
		}
		item.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Cost != nil {
		if *upd.Cost <= 0 {
			return nil, &ValidationError{Field: "cost", Msg: "must be positive"}
		}
		item.Cost = *upd.Cost
	}
	if upd.IconURL != nil {
		item.IconURL = *upd.IconURL
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}

	if err := s.DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *StoreService) ToggleItemActive(id string) (*models.StoreItem, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	item.IsActive = !item.IsActive
	if err := s.DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the item. Existing purchases carry their own snapshots
// and are untouched.
func (s *StoreService) DeleteItem(id string) error {
	res := s.DB.Delete(&models.StoreItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListItems returns items, newest first.
func (s *StoreService) ListItems(activeOnly bool) ([]models.StoreItem, error) {
	query := s.DB.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var items []models.StoreItem
	err := query.Find(&items).Error
	return items, err
}

// RequestPurchase opens a pending purchase, snapshotting the item's current
// cost, name and icon. No coins move until a teacher approves.
func (s *StoreService) RequestPurchase(studentID, itemID string) (*models.Purchase, error) {
	if studentID == "" {
		return nil, &ValidationError{Field: "student_id", Msg: "required"}
	}

	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, ErrInvalidState
	}

	purchase := &models.Purchase{
		ID:               uuid.NewString(),
		StudentID:        studentID,
		ItemID:           item.ID,
		ItemNameSnapshot: item.Name,
		ItemIconSnapshot: item.IconURL,
		CostSnapshot:     item.Cost,
		Status:           models.PurchasePending,
	}
	if err := s.DB.Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

// Approve debits the snapshotted cost and marks the purchase approved, both
// in one transaction. Balance is re-checked here, at review time — two
// pending purchases can both look affordable at request time and only one
// survive approval. On insufficient funds the purchase stays pending.
func (s *StoreService) Approve(purchaseID, actorID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&purchase, "id = ?", purchaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if purchase.Status != models.PurchasePending {
			return ErrInvalidState
		}

		if _, err := s.Ledger.DebitTx(tx, purchase.StudentID, purchase.CostSnapshot,
			models.SourcePurchase, &purchase.ID, purchase.ItemNameSnapshot, actorID); err != nil {
			return err
		}

		now := time.Now()
		purchase.Status = models.PurchaseApproved
		purchase.ReviewedAt = &now
		purchase.ReviewedBy = actorID
		return tx.Save(&purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Reject closes a pending purchase without touching the wallet.
func (s *StoreService) Reject(purchaseID, actorID, reason string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&purchase, "id = ?", purchaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if purchase.Status != models.PurchasePending {
			return ErrInvalidState
		}

		now := time.Now()
		purchase.Status = models.PurchaseRejected
		purchase.ReviewedAt = &now
		purchase.ReviewedBy = actorID
		purchase.ReviewReason = reason
		return tx.Save(&purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// PendingPurchases lists purchases awaiting review, oldest first.
func (s *StoreService) PendingPurchases() ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.DB.Where("status = ?", models.PurchasePending).
		Order("requested_at ASC").
		Find(&purchases).Error
	return purchases, err
}

// PurchaseHistory lists reviewed purchases, newest review first.
func (s *StoreService) PurchaseHistory(limit int) ([]models.Purchase, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var purchases []models.Purchase
	err := s.DB.Where("status <> ?", models.PurchasePending).
		Order("reviewed_at DESC").
		Limit(limit).
		Find(&purchases).Error
	return purchases, err
}

// StudentPurchases lists one student's purchases, newest first.
func (s *StoreService) StudentPurchases(studentID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.DB.Where("student_id = ?", studentID).
		Order("requested_at DESC").
		Find(&purchases).Error
	return purchases, err
}
