package services

import (
	"testing"

	"classroom-economy-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTierDefaults(t *testing.T) {
	resolver := NewRewardResolverService(newTestDB(t))

	cases := map[models.Tier]int64{
		models.TierCommon:    10,
		models.TierRare:      20,
		models.TierEpic:      30,
		models.TierLegendary: 45,
	}
	for tier, want := range cases {
		coins, err := resolver.Resolve("t1", "ach-1", tier)
		require.NoError(t, err)
		assert.Equal(t, want, coins, "tier %s", tier)
	}
}

func TestResolveUnknownTier(t *testing.T) {
	resolver := NewRewardResolverService(newTestDB(t))

	_, err := resolver.Resolve("t1", "ach-1", "mythic")
	assert.ErrorIs(t, err, ErrUnknownTier, "misconfigured tiers must be loud, not a silent fallback")
}

func TestOverrideRoundTrip(t *testing.T) {
	resolver := NewRewardResolverService(newTestDB(t))

	coins, err := resolver.Resolve("t1", "ach-1", models.TierEpic)
	require.NoError(t, err)
	require.Equal(t, int64(30), coins)

	_, err = resolver.SetOverride("t1", "ach-1", 5)
	require.NoError(t, err)

	coins, err = resolver.Resolve("t1", "ach-1", models.TierEpic)
	require.NoError(t, err)
	assert.Equal(t, int64(5), coins)

	require.NoError(t, resolver.ClearOverride("t1", "ach-1"))

	coins, err = resolver.Resolve("t1", "ach-1", models.TierEpic)
	require.NoError(t, err)
	assert.Equal(t, int64(30), coins, "clearing reverts to the tier default")
}

func TestOverrideUpsertAndFloor(t *testing.T) {
	resolver := NewRewardResolverService(newTestDB(t))

	_, err := resolver.SetOverride("t1", "ach-1", 8)
	require.NoError(t, err)
	_, err = resolver.SetOverride("t1", "ach-1", 12)
	require.NoError(t, err)

	coins, err := resolver.Resolve("t1", "ach-1", models.TierCommon)
	require.NoError(t, err)
	assert.Equal(t, int64(12), coins)

	overrides, err := resolver.ListOverrides("t1")
	require.NoError(t, err)
	assert.Len(t, overrides, 1, "second set must upsert, not duplicate")

	// Values below 1 are floored
	override, err := resolver.SetOverride("t1", "ach-2", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), override.Coins)
}

func TestOverridesArePerTeacher(t *testing.T) {
	resolver := NewRewardResolverService(newTestDB(t))

	_, err := resolver.SetOverride("t1", "ach-1", 5)
	require.NoError(t, err)

	coins, err := resolver.Resolve("t2", "ach-1", models.TierEpic)
	require.NoError(t, err)
	assert.Equal(t, int64(30), coins, "another teacher still sees the default")
}

func TestClearMissingOverrideIsNoOp(t *testing.T) {
	resolver := NewRewardResolverService(newTestDB(t))

	require.NoError(t, resolver.ClearOverride("t1", "never-set"))
}

func TestOverrideRequiresAchievementID(t *testing.T) {
	resolver := NewRewardResolverService(newTestDB(t))

	_, err := resolver.SetOverride("t1", "", 5)
	assert.True(t, IsValidation(err))
}
