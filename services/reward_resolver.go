package services

import (
	"errors"

	"classroom-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardResolverService answers "how many coins is this achievement worth for
// this teacher": the teacher's override if one exists, else the tier default.
// It never touches the ledger — awarding is the caller's Credit call.
type RewardResolverService struct {
	DB *gorm.DB
}

func NewRewardResolverService(db *gorm.DB) *RewardResolverService {
	return &RewardResolverService{DB: db}
}

// Resolve returns the coin value of an achievement for the given teacher.
// A tier outside the known set is an error, not a silent fallback.
func (s *RewardResolverService) Resolve(teacherID, achievementID string, tier models.Tier) (int64, error) {
	var override models.AchievementRewardOverride
	err := s.DB.Where("user_id = ? AND achievement_id = ?", teacherID, achievementID).
		First(&override).Error
	if err == nil {
		return override.Coins, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	coins, ok := models.TierDefaults[tier]
	if !ok {
		return 0, ErrUnknownTier
	}
	return coins, nil
}

// SetOverride upserts the teacher's coin value for one achievement.
// Values are floored at 1 coin.
func (s *RewardResolverService) SetOverride(teacherID, achievementID string, coins int64) (*models.AchievementRewardOverride, error) {
	if achievementID == "" {
		return nil, &ValidationError{Field: "achievement_id", Msg: "required"}
	}
	if coins < 1 {
		coins = 1
	}
	override := models.AchievementRewardOverride{
		ID:            uuid.NewString(),
		UserID:        teacherID,
		AchievementID: achievementID,
		Coins:         coins,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"coins", "updated_at"}),
	}).Create(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// ClearOverride resets an achievement to its tier default. Clearing an
// override that does not exist is a no-op.
func (s *RewardResolverService) ClearOverride(teacherID, achievementID string) error {
	return s.DB.Where("user_id = ? AND achievement_id = ?", teacherID, achievementID).
		Delete(&models.AchievementRewardOverride{}).Error
}

// ListOverrides returns all of the teacher's overrides for the settings view.
func (s *RewardResolverService) ListOverrides(teacherID string) ([]models.AchievementRewardOverride, error) {
	var overrides []models.AchievementRewardOverride
	err := s.DB.Where("user_id = ?", teacherID).
		Order("achievement_id ASC").
		Find(&overrides).Error
	return overrides, err
}
