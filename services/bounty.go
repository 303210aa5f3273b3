package services

import (
	"errors"
	"strings"
	"time"

	"classroom-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BountyService manages bounty definitions and pays students out through the
// ledger when a completion batch runs.
type BountyService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewBountyService(db *gorm.DB, ledger *LedgerService) *BountyService {
	return &BountyService{DB: db, Ledger: ledger}
}

// BountyInput carries the fields a teacher sets when creating a bounty.
type BountyInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Reward      int64             `json:"reward"`
	Difficulty  models.Difficulty `json:"difficulty"`
	DueDate     *time.Time        `json:"due_date"`
	ClassIDs    []string          `json:"class_ids"`
}

// BountyUpdate applies only the fields that are present.
type BountyUpdate struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Reward      *int64             `json:"reward"`
	Difficulty  *models.Difficulty `json:"difficulty"`
	DueDate     *time.Time         `json:"due_date"`
	ClassIDs    *[]string          `json:"class_ids"`
}

// CompletionResult is the per-student outcome of a completion batch.
type CompletionResult struct {
	StudentID string `json:"student_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

func (s *BountyService) Create(in BountyInput, actorID string) (*models.Bounty, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Msg: "required"}
	}
	if in.Reward <= 0 {
		return nil, &ValidationError{Field: "reward", Msg: "must be positive"}
	}
	if in.Difficulty == "" {
		in.Difficulty = models.DifficultyEasy
	}
	if !models.ValidDifficulty(in.Difficulty) {
		return nil, &ValidationError{Field: "difficulty", Msg: "unknown difficulty"}
	}

	bounty := &models.Bounty{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Reward:      in.Reward,
		Difficulty:  in.Difficulty,
		DueDate:     in.DueDate,
		ClassIDs:    in.ClassIDs,
		IsActive:    true,
		CreatedBy:   actorID,
	}
	if err := s.DB.Create(bounty).Error; err != nil {
		return nil, err
	}
	return bounty, nil
}

func (s *BountyService) Get(id string) (*models.Bounty, error) {
	var bounty models.Bounty
	if err := s.DB.First(&bounty, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bounty, nil
}

func (s *BountyService) Update(id string, upd BountyUpdate) (*models.Bounty, error) {
	bounty, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, &ValidationError{Field: "title", Msg: "required"}
		}
		bounty.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		bounty.Description = *upd.Description
	}
	if upd.Reward != nil {
		if *upd.Reward <= 0 {
			return nil, &ValidationError{Field: "reward", Msg: "must be positive"}
		}
		bounty.Reward = *upd.Reward
	}
	if upd.Difficulty != nil {
		if !models.ValidDifficulty(*upd.Difficulty) {
			return nil, &ValidationError{Field: "difficulty", Msg: "unknown difficulty"}
		}
		bounty.Difficulty = *upd.Difficulty
	}
	if upd.DueDate != nil {
		bounty.DueDate = upd.DueDate
	}
	if upd.ClassIDs != nil {
		bounty.ClassIDs = *upd.ClassIDs
	}

	if err := s.DB.Save(bounty).Error; err != nil {
		return nil, err
	}
	return bounty, nil
}

// ToggleActive flips a bounty between active and archived.
func (s *BountyService) ToggleActive(id string) (*models.Bounty, error) {
	bounty, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	bounty.IsActive = !bounty.IsActive
	if err := s.DB.Save(bounty).Error; err != nil {
		return nil, err
	}
	return bounty, nil
}

// Delete hard-deletes the bounty definition. Completion rows are kept — they
// carry their own title/reward snapshot and remain the audit trail of past
// payouts.
func (s *BountyService) Delete(id string) error {
	res := s.DB.Delete(&models.Bounty{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all bounties, newest first, optionally filtered to one class.
func (s *BountyService) List(classID string, activeOnly bool) ([]models.Bounty, error) {
	query := s.DB.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var bounties []models.Bounty
	if err := query.Find(&bounties).Error; err != nil {
		return nil, err
	}
	if classID == "" {
		return bounties, nil
	}
	// class_ids is a JSON array column; filter in memory. An empty set means
	// the bounty applies to every class.
	filtered := bounties[:0]
	for _, b := range bounties {
		if len(b.ClassIDs) == 0 {
			filtered = append(filtered, b)
			continue
		}
		for _, cid := range b.ClassIDs {
			if cid == classID {
				filtered = append(filtered, b)
				break
			}
		}
	}
	return filtered, nil
}

// CompleteForStudents pays each student in the batch once. A student already
// holding a completion for this bounty is skipped; one student's failure
// never blocks the rest. The completion row and the credit commit together
// or not at all.
func (s *BountyService) CompleteForStudents(bountyID string, studentIDs []string, actorID string) ([]CompletionResult, error) {
	bounty, err := s.Get(bountyID)
	if err != nil {
		return nil, err
	}

	results := make([]CompletionResult, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		if studentID == "" {
			results = append(results, CompletionResult{StudentID: studentID, Success: false, Error: "empty student id"})
			continue
		}

		err := s.DB.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.BountyCompletion{}).
				Where("bounty_id = ? AND student_id = ?", bountyID, studentID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrAlreadyCompleted
			}

			completion := models.BountyCompletion{
				ID:          uuid.NewString(),
				BountyID:    bountyID,
				StudentID:   studentID,
				BountyTitle: bounty.Title,
				Reward:      bounty.Reward,
				CompletedBy: actorID,
			}
			if err := tx.Create(&completion).Error; err != nil {
				return err
			}

			_, err := s.Ledger.CreditTx(tx, studentID, bounty.Reward, models.SourceBounty, &bounty.ID, bounty.Title, actorID)
			return err
		})

		if err != nil {
			results = append(results, CompletionResult{StudentID: studentID, Success: false, Error: err.Error()})
		} else {
			results = append(results, CompletionResult{StudentID: studentID, Success: true})
		}
	}
	return results, nil
}

// GetCompletionCount returns how many students have been paid for a bounty.
func (s *BountyService) GetCompletionCount(bountyID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.BountyCompletion{}).
		Where("bounty_id = ?", bountyID).
		Count(&count).Error
	return count, err
}

// GetCompletions lists who completed a bounty, newest first.
func (s *BountyService) GetCompletions(bountyID string) ([]models.BountyCompletion, error) {
	var completions []models.BountyCompletion
	err := s.DB.Where("bounty_id = ?", bountyID).
		Order("completed_at DESC").
		Find(&completions).Error
	return completions, err
}

// ArchivePastDue archives active bounties whose due date has passed.
// Called by the scheduler; returns how many were archived.
func (s *BountyService) ArchivePastDue(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Bounty{}).
		Where("is_active = ? AND due_date IS NOT NULL AND due_date < ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
