package services

import (
	"strings"
	"testing"

	"classroom-economy-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalCreateDefaultsAndValidation(t *testing.T) {
	eco := newTestEconomy(t)

	_, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "  "}, models.CreatorTeacher, "t1")
	assert.True(t, IsValidation(err))

	long := strings.Repeat("x", models.MaxGoalTextLen+1)
	_, err = eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: long}, models.CreatorTeacher, "t1")
	assert.True(t, IsValidation(err))

	negative := int64(-1)
	_, err = eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Read daily", CoinReward: &negative}, models.CreatorTeacher, "t1")
	assert.True(t, IsValidation(err))

	goal, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Read daily"}, models.CreatorTeacher, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultGoalReward), goal.CoinReward)
	assert.Equal(t, models.CreatorTeacher, goal.CreatorRole)
	assert.False(t, goal.Terminal())
}

func TestGoalCompleteDeliversReward(t *testing.T) {
	eco := newTestEconomy(t)

	reward := int64(7)
	goal, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Finish project", CoinReward: &reward}, models.CreatorTeacher, "t1")
	require.NoError(t, err)

	completed, err := eco.Goals.Complete(goal.ID, "t1")
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	assert.False(t, completed.IsRejected)
	assert.Equal(t, "t1", completed.CompletedBy)
	require.NotNil(t, completed.CompletedAt)

	wallet, err := eco.Ledger.GetWallet("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), wallet.Balance)

	entries, err := eco.Ledger.GetTransactions("s1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SourceGoal, entries[0].SourceType)
	require.NotNil(t, entries[0].SourceID)
	assert.Equal(t, goal.ID, *entries[0].SourceID)
}

func TestGoalCompleteZeroRewardSkipsLedger(t *testing.T) {
	eco := newTestEconomy(t)

	zero := int64(0)
	goal, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Just tracking", CoinReward: &zero}, models.CreatorStudent, "s1")
	require.NoError(t, err)

	_, err = eco.Goals.Complete(goal.ID, "t1")
	require.NoError(t, err)

	entries, err := eco.Ledger.GetTransactions("s1", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGoalTerminalFlagsExclusiveAndFinal(t *testing.T) {
	eco := newTestEconomy(t)

	goal, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Practice piano"}, models.CreatorTeacher, "t1")
	require.NoError(t, err)

	rejected, err := eco.Goals.Reject(goal.ID, "t1")
	require.NoError(t, err)
	assert.True(t, rejected.IsRejected)
	assert.False(t, rejected.IsCompleted)
	assert.Equal(t, "t1", rejected.RejectedBy)

	// No way back to active, and no crossing into completed.
	_, err = eco.Goals.Complete(goal.ID, "t1")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = eco.Goals.Reject(goal.ID, "t1")
	assert.ErrorIs(t, err, ErrInvalidState)

	// Rejection never pays out.
	wallet, err := eco.Ledger.GetWallet("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestGoalCompletedIsFinal(t *testing.T) {
	eco := newTestEconomy(t)

	goal, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Hand in homework"}, models.CreatorTeacher, "t1")
	require.NoError(t, err)

	_, err = eco.Goals.Complete(goal.ID, "t1")
	require.NoError(t, err)

	_, err = eco.Goals.Complete(goal.ID, "t1")
	assert.ErrorIs(t, err, ErrInvalidState, "completing twice must fail")
	_, err = eco.Goals.Reject(goal.ID, "t1")
	assert.ErrorIs(t, err, ErrInvalidState)

	// The reward was delivered exactly once.
	wallet, err := eco.Ledger.GetWallet("s1")
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultGoalReward), wallet.Balance)
}

func TestGoalReadModels(t *testing.T) {
	eco := newTestEconomy(t)

	g1, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "One"}, models.CreatorTeacher, "t1")
	require.NoError(t, err)
	g2, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Two"}, models.CreatorTeacher, "t1")
	require.NoError(t, err)
	_, err = eco.Goals.CreateForStudent(GoalInput{StudentID: "s2", GoalText: "Other student"}, models.CreatorTeacher, "t1")
	require.NoError(t, err)

	active, err := eco.Goals.ActiveGoals("s1")
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, err = eco.Goals.Complete(g1.ID, "t1")
	require.NoError(t, err)
	_, err = eco.Goals.Reject(g2.ID, "t1")
	require.NoError(t, err)

	active, err = eco.Goals.ActiveGoals("s1")
	require.NoError(t, err)
	assert.Empty(t, active, "terminal goals leave the active set")

	history, err := eco.Goals.HistoryGoals(10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, g := range history {
		assert.True(t, g.Terminal())
		assert.False(t, g.IsCompleted && g.IsRejected, "flags are mutually exclusive")
	}
}

func TestGoalRewardDeliveryFailureKeepsCompletion(t *testing.T) {
	eco := newTestEconomy(t)

	goal, err := eco.Goals.CreateForStudent(GoalInput{StudentID: "s1", GoalText: "Doomed reward"}, models.CreatorTeacher, "t1")
	require.NoError(t, err)

	// Break the ledger after the goal exists so the credit cannot land.
	require.NoError(t, eco.DB.Migrator().DropTable(&models.Transaction{}))

	completed, err := eco.Goals.Complete(goal.ID, "t1")
	require.ErrorIs(t, err, ErrRewardDeliveryFailed)
	require.NotNil(t, completed)
	assert.True(t, completed.IsCompleted, "completion must stick even when the credit fails")

	stored, err := eco.Goals.Get(goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
}

func TestGoalNotFound(t *testing.T) {
	eco := newTestEconomy(t)

	_, err := eco.Goals.Complete("missing", "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = eco.Goals.Reject("missing", "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}
