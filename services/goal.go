package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"classroom-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultGoalReward is the coin reward applied when none is given.
const DefaultGoalReward = 2

// GoalService manages per-student goals. Completion and rejection are
// one-way; completing a goal with a coin reward credits the ledger.
type GoalService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewGoalService(db *gorm.DB, ledger *LedgerService) *GoalService {
	return &GoalService{DB: db, Ledger: ledger}
}

// GoalInput carries the fields set at goal creation.
type GoalInput struct {
	StudentID  string `json:"student_id"`
	GoalText   string `json:"goal_text"`
	CoinReward *int64 `json:"coin_reward"`
}

// CreateForStudent records a new active goal. creatorRole distinguishes
// teacher-assigned goals from ones students set for themselves.
func (s *GoalService) CreateForStudent(in GoalInput, creatorRole models.CreatorRole, actorID string) (*models.Goal, error) {
	text := strings.TrimSpace(in.GoalText)
	if text == "" {
		return nil, &ValidationError{Field: "goal_text", Msg: "required"}
	}
	if len(text) > models.MaxGoalTextLen {
		return nil, &ValidationError{Field: "goal_text", Msg: "exceeds 500 characters"}
	}
	if in.StudentID == "" {
		return nil, &ValidationError{Field: "student_id", Msg: "required"}
	}

	reward := int64(DefaultGoalReward)
	if in.CoinReward != nil {
		if *in.CoinReward < 0 {
			return nil, &ValidationError{Field: "coin_reward", Msg: "must not be negative"}
		}
		reward = *in.CoinReward
	}

	goal := &models.Goal{
		ID:          uuid.NewString(),
		StudentID:   in.StudentID,
		GoalText:    text,
		CoinReward:  reward,
		CreatorRole: creatorRole,
		CreatedBy:   actorID,
	}
	if err := s.DB.Create(goal).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Get(id string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.DB.First(&goal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// Complete marks the goal completed, then delivers the coin reward. The
// completion record commits first: a failed credit leaves the goal completed
// and surfaces ErrRewardDeliveryFailed so the teacher can re-credit by hand.
func (s *GoalService) Complete(goalID, actorID string) (*models.Goal, error) {
	var goal models.Goal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&goal, "id = ?", goalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if goal.Terminal() {
			return ErrInvalidState
		}

		now := time.Now()
		goal.IsCompleted = true
		goal.CompletedAt = &now
		goal.CompletedBy = actorID
		return tx.Save(&goal).Error
	})
	if err != nil {
		return nil, err
	}

	if goal.CoinReward > 0 {
		if _, err := s.Ledger.Credit(goal.StudentID, goal.CoinReward,
			models.SourceGoal, &goal.ID, goal.GoalText, actorID); err != nil {
			log.Printf("[Goal] reward credit failed for goal %s (student %s): %v", goal.ID, goal.StudentID, err)
			return &goal, ErrRewardDeliveryFailed
		}
	}
	return &goal, nil
}

// Reject closes the goal with no ledger effect.
func (s *GoalService) Reject(goalID, actorID string) (*models.Goal, error) {
	var goal models.Goal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&goal, "id = ?", goalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if goal.Terminal() {
			return ErrInvalidState
		}

		now := time.Now()
		goal.IsRejected = true
		goal.RejectedAt = &now
		goal.RejectedBy = actorID
		return tx.Save(&goal).Error
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ActiveGoals returns goals with neither terminal flag set, optionally for
// one student, newest first.
func (s *GoalService) ActiveGoals(studentID string) ([]models.Goal, error) {
	query := s.DB.Where("is_completed = ? AND is_rejected = ?", false, false).
		Order("created_at DESC")
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	var goals []models.Goal
	err := query.Find(&goals).Error
	return goals, err
}

// HistoryGoals returns closed goals sorted by when they were decided,
// newest first.
func (s *GoalService) HistoryGoals(limit int) ([]models.Goal, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var goals []models.Goal
	err := s.DB.Where("is_completed = ? OR is_rejected = ?", true, true).
		Order("COALESCE(completed_at, rejected_at, created_at) DESC").
		Limit(limit).
		Find(&goals).Error
	return goals, err
}
