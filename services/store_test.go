package services

import (
	"testing"

	"classroom-economy-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBalance(t *testing.T, eco *EconomyService, studentID string, amount int64) {
	t.Helper()
	_, err := eco.Ledger.Credit(studentID, amount, models.SourceManualAdjustment, nil, "seed", "t1")
	require.NoError(t, err)
}

func TestStoreItemValidation(t *testing.T) {
	eco := newTestEconomy(t)

	_, err := eco.Store.CreateItem(StoreItemInput{Name: " ", Cost: 5}, "t1")
	assert.True(t, IsValidation(err))

	_, err = eco.Store.CreateItem(StoreItemInput{Name: "Pencil", Cost: 0}, "t1")
	assert.True(t, IsValidation(err))

	item, err := eco.Store.CreateItem(StoreItemInput{Name: "Pencil", Cost: 5, Category: "supplies"}, "t1")
	require.NoError(t, err)
	assert.True(t, item.IsActive)
}

func TestPurchaseSnapshotSurvivesItemEdits(t *testing.T) {
	eco := newTestEconomy(t)
	seedBalance(t, eco, "s1", 100)

	item, err := eco.Store.CreateItem(StoreItemInput{Name: "Sticker pack", Cost: 15, IconURL: "icons/old.png"}, "t1")
	require.NoError(t, err)

	purchase, err := eco.Store.RequestPurchase("s1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchasePending, purchase.Status)
	assert.Equal(t, int64(15), purchase.CostSnapshot)
	assert.Equal(t, "Sticker pack", purchase.ItemNameSnapshot)

	// Edit the item after the request — the snapshot must win.
	newCost := int64(99)
	newName := "Deluxe sticker pack"
	_, err = eco.Store.UpdateItem(item.ID, StoreItemUpdate{Cost: &newCost, Name: &newName})
	require.NoError(t, err)

	approved, err := eco.Store.Approve(purchase.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseApproved, approved.Status)
	assert.Equal(t, "t1", approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	wallet, err := eco.Ledger.GetWallet("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(85), wallet.Balance, "debit uses the snapshot, not the edited cost")
	requireInvariant(t, eco.Ledger, "s1")
}

func TestPurchaseSnapshotSurvivesItemDeletion(t *testing.T) {
	eco := newTestEconomy(t)
	seedBalance(t, eco, "s1", 20)

	item, err := eco.Store.CreateItem(StoreItemInput{Name: "Eraser", Cost: 3}, "t1")
	require.NoError(t, err)

	purchase, err := eco.Store.RequestPurchase("s1", item.ID)
	require.NoError(t, err)

	require.NoError(t, eco.Store.DeleteItem(item.ID))

	approved, err := eco.Store.Approve(purchase.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), approved.CostSnapshot)
}

func TestApproveInsufficientFundsStaysPending(t *testing.T) {
	eco := newTestEconomy(t)
	seedBalance(t, eco, "s1", 10)

	item, err := eco.Store.CreateItem(StoreItemInput{Name: "Game pass", Cost: 15}, "t1")
	require.NoError(t, err)

	purchase, err := eco.Store.RequestPurchase("s1", item.ID)
	require.NoError(t, err)

	_, err = eco.Store.Approve(purchase.ID, "t1")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// Purchase is still pending and the wallet untouched.
	pending, err := eco.Store.PendingPurchases()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.PurchasePending, pending[0].Status)

	wallet, err := eco.Ledger.GetWallet("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), wallet.Balance)
	assert.Equal(t, int64(0), wallet.LifetimeSpent)

	// Once the student earns enough, the same purchase can be approved.
	seedBalance(t, eco, "s1", 10)
	approved, err := eco.Store.Approve(purchase.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseApproved, approved.Status)
}

func TestRejectNeverTouchesWallet(t *testing.T) {
	eco := newTestEconomy(t)
	seedBalance(t, eco, "s1", 50)

	item, err := eco.Store.CreateItem(StoreItemInput{Name: "Candy", Cost: 5}, "t1")
	require.NoError(t, err)

	purchase, err := eco.Store.RequestPurchase("s1", item.ID)
	require.NoError(t, err)

	rejected, err := eco.Store.Reject(purchase.ID, "t1", "not during exam week")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseRejected, rejected.Status)
	assert.Equal(t, "not during exam week", rejected.ReviewReason)

	wallet, err := eco.Ledger.GetWallet("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), wallet.Balance)
}

func TestPurchaseTerminalStatesAreFinal(t *testing.T) {
	eco := newTestEconomy(t)
	seedBalance(t, eco, "s1", 50)

	item, err := eco.Store.CreateItem(StoreItemInput{Name: "Badge", Cost: 5}, "t1")
	require.NoError(t, err)

	purchase, err := eco.Store.RequestPurchase("s1", item.ID)
	require.NoError(t, err)

	_, err = eco.Store.Approve(purchase.ID, "t1")
	require.NoError(t, err)

	_, err = eco.Store.Approve(purchase.ID, "t1")
	assert.ErrorIs(t, err, ErrInvalidState, "double approval must fail")

	_, err = eco.Store.Reject(purchase.ID, "t1", "")
	assert.ErrorIs(t, err, ErrInvalidState, "rejecting an approved purchase must fail")

	// Double approval must not debit twice.
	wallet, err := eco.Ledger.GetWallet("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(45), wallet.Balance)
}

func TestRequestPurchaseInactiveItem(t *testing.T) {
	eco := newTestEconomy(t)

	item, err := eco.Store.CreateItem(StoreItemInput{Name: "Retired", Cost: 5}, "t1")
	require.NoError(t, err)
	_, err = eco.Store.ToggleItemActive(item.ID)
	require.NoError(t, err)

	_, err = eco.Store.RequestPurchase("s1", item.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = eco.Store.RequestPurchase("s1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
