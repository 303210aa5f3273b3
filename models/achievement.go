package models

import "time"

// Tier is the closed set of achievement rarities
type Tier string

const (
	TierCommon    Tier = "common"
	TierRare      Tier = "rare"
	TierEpic      Tier = "epic"
	TierLegendary Tier = "legendary"
)

// TierDefaults: system-wide coin value per rarity (static config, not persisted)
var TierDefaults = map[Tier]int64{
	TierCommon:    10,
	TierRare:      20,
	TierEpic:      30,
	TierLegendary: 45,
}

// ValidTier reports whether t is one of the known rarities.
func ValidTier(t Tier) bool {
	_, ok := TierDefaults[t]
	return ok
}

// AchievementRewardOverride replaces the tier default for one achievement,
// per teacher. Absence of a row means the tier default applies; deleting a
// row means "reset to default".
type AchievementRewardOverride struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:idx_teacher_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_teacher_achievement" json:"achievement_id"`
	Coins         int64     `gorm:"not null" json:"coins"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
