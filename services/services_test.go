package services

import (
	"testing"

	"classroom-economy-system/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory database with the full schema. The pool is
// capped at one connection so concurrent transactions serialize the same way
// the Postgres row lock serializes them in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Wallet{},
		&models.Transaction{},
		&models.Bounty{},
		&models.BountyCompletion{},
		&models.StoreItem{},
		&models.Purchase{},
		&models.Goal{},
		&models.AchievementRewardOverride{},
		&models.StudentMirror{},
	))
	return db
}

func newTestEconomy(t *testing.T) *EconomyService {
	t.Helper()
	return NewEconomyService(newTestDB(t))
}

// requireInvariant checks balance == lifetime_earned - lifetime_spent.
func requireInvariant(t *testing.T, ledger *LedgerService, studentID string) {
	t.Helper()
	wallet, err := ledger.GetWallet(studentID)
	require.NoError(t, err)
	require.Equal(t, wallet.Balance, wallet.LifetimeEarned-wallet.LifetimeSpent,
		"wallet invariant broken for %s", studentID)
}
