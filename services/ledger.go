package services

import (
	"errors"
	"log"

	"classroom-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns all wallet-derived state. Every other service mutates
// balances exclusively through Credit/Debit here; the wallet row is locked
// FOR UPDATE for the duration of each mutation so concurrent operations on
// the same student serialize instead of losing updates.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// ensureWalletTx loads the student's wallet row under a row lock, creating it
// at zero if missing. Must be called inside a transaction.
func (s *LedgerService) ensureWalletTx(tx *gorm.DB, studentID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ?", studentID).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{
			ID:        uuid.NewString(),
			StudentID: studentID,
		}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, err
		}
		// Re-read under the lock so a racing create resolves to one row.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).
			First(&wallet).Error; err != nil {
			return nil, err
		}
		return &wallet, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CreditTx appends an earn transaction and bumps balance/lifetime_earned in
// the caller's transaction. Earning is unconstrained — this always succeeds
// for a positive amount.
func (s *LedgerService) CreditTx(tx *gorm.DB, studentID string, amount int64, source models.TransactionSource, sourceID *string, reason, actorID string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Msg: "must be positive"}
	}

	wallet, err := s.ensureWalletTx(tx, studentID)
	if err != nil {
		return nil, err
	}

	entry := &models.Transaction{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		Amount:     amount,
		SourceType: source,
		SourceID:   sourceID,
		Reason:     reason,
		ActorID:    actorID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}

	wallet.Balance += amount
	wallet.LifetimeEarned += amount
	if err := tx.Save(wallet).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// DebitTx appends a spend transaction after verifying sufficient balance.
// On insufficient funds it fails with no side effects — the balance check and
// the mutation happen under the same row lock.
func (s *LedgerService) DebitTx(tx *gorm.DB, studentID string, amount int64, source models.TransactionSource, sourceID *string, reason, actorID string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Msg: "must be positive"}
	}

	wallet, err := s.ensureWalletTx(tx, studentID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	entry := &models.Transaction{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		Amount:     -amount,
		SourceType: source,
		SourceID:   sourceID,
		Reason:     reason,
		ActorID:    actorID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}

	wallet.Balance -= amount
	wallet.LifetimeSpent += amount
	if err := tx.Save(wallet).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Credit runs CreditTx in its own transaction.
func (s *LedgerService) Credit(studentID string, amount int64, source models.TransactionSource, sourceID *string, reason, actorID string) (*models.Transaction, error) {
	var entry *models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.CreditTx(tx, studentID, amount, source, sourceID, reason, actorID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit runs DebitTx in its own transaction.
func (s *LedgerService) Debit(studentID string, amount int64, source models.TransactionSource, sourceID *string, reason, actorID string) (*models.Transaction, error) {
	var entry *models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.DebitTx(tx, studentID, amount, source, sourceID, reason, actorID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Adjust applies a manual teacher adjustment. Positive delta credits,
// negative delta debits with the same balance guard as any other spend.
func (s *LedgerService) Adjust(studentID string, delta int64, reason, actorID string) (*models.Transaction, error) {
	if delta == 0 {
		return nil, &ValidationError{Field: "delta", Msg: "must be non-zero"}
	}
	if delta > 0 {
		return s.Credit(studentID, delta, models.SourceManualAdjustment, nil, reason, actorID)
	}
	entry, err := s.Debit(studentID, -delta, models.SourceManualAdjustment, nil, reason, actorID)
	if err != nil {
		log.Printf("[Ledger] manual debit of %d for %s refused: %v", -delta, studentID, err)
		return nil, err
	}
	return entry, nil
}

// GetWallet returns the student's wallet, zero-valued if they have never
// earned or spent.
func (s *LedgerService) GetWallet(studentID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.Where("student_id = ?", studentID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Wallet{StudentID: studentID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetWallets returns wallets for a set of students; students without a
// wallet row are filled in at zero so rosters render completely.
func (s *LedgerService) GetWallets(studentIDs []string) ([]models.Wallet, error) {
	var existing []models.Wallet
	if err := s.DB.Where("student_id IN ?", studentIDs).Find(&existing).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[string]models.Wallet, len(existing))
	for _, w := range existing {
		byStudent[w.StudentID] = w
	}
	wallets := make([]models.Wallet, 0, len(studentIDs))
	for _, id := range studentIDs {
		if w, ok := byStudent[id]; ok {
			wallets = append(wallets, w)
		} else {
			wallets = append(wallets, models.Wallet{StudentID: id})
		}
	}
	return wallets, nil
}

// GetTransactions returns the student's ledger entries, newest first.
func (s *LedgerService) GetTransactions(studentID string, limit int) ([]models.Transaction, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var entries []models.Transaction
	err := s.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
