package testcase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsp-platform/casegen/stepeditor"
)

func TestMySQLStore_CreateAndGet(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	tc := validTestCase(uuid.New(), uuid.New())
	require.NoError(t, store.Create(ctx, tc))
	require.NotEqual(t, uuid.Nil, tc.ID)
	assert.Equal(t, uint(1), tc.Version)
	assert.True(t, tc.IsLatest)

	got, err := store.GetByID(ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, tc.Name, got.Name)
	assert.Equal(t, tc.BusinessType, got.BusinessType)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, "send the unlock command from the app", got.Steps[0].Action)
	assert.Equal(t, StringList{"vehicle unlocks within 5 seconds"}, got.ExpectedResults)
}

func TestMySQLStore_CreateRejectsInvalid(t *testing.T) {
	_, store := setupTestStore(t)

	err := store.Create(context.Background(), &TestCase{ProjectID: uuid.New(), CreatedBy: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidTestCaseName)
}

func TestMySQLStore_GetByIDNotFound(t *testing.T) {
	_, store := setupTestStore(t)

	_, err := store.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTestCaseNotFound)
}

func TestMySQLStore_UpdateWithSetters(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	tc := validTestCase(uuid.New(), uuid.New())
	require.NoError(t, store.Create(ctx, tc))

	newSteps := stepeditor.StepList{
		{ID: "n1", StepNumber: 1, Action: "lock the vehicle remotely", Expected: "doors report locked"},
	}
	err := store.Update(ctx, tc.ID,
		SetName("Remote lock happy path"),
		SetBusinessType("remote lock"),
		SetSteps(newSteps),
		SetExpectedResults(StringList{"vehicle locks"}),
	)
	require.NoError(t, err)

	got, err := store.GetByID(ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Remote lock happy path", got.Name)
	assert.Equal(t, "remote lock", got.BusinessType)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "lock the vehicle remotely", got.Steps[0].Action)
}

func TestMySQLStore_UpdateRejectsEmptyName(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	tc := validTestCase(uuid.New(), uuid.New())
	require.NoError(t, store.Create(ctx, tc))

	err := store.Update(ctx, tc.ID, SetName(""))
	assert.ErrorIs(t, err, ErrInvalidTestCaseName)
}

func TestMySQLStore_ListAndCountByProject(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	projectID := uuid.New()
	createdBy := uuid.New()

	for i := 0; i < 3; i++ {
		tc := validTestCase(projectID, createdBy)
		require.NoError(t, store.Create(ctx, tc))
	}
	other := validTestCase(uuid.New(), createdBy)
	require.NoError(t, store.Create(ctx, other))

	cases, err := store.ListByProject(ctx, projectID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, cases, 3)

	count, err := store.CountByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMySQLStore_ListByBusinessType(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	projectID := uuid.New()
	createdBy := uuid.New()

	unlock := validTestCase(projectID, createdBy)
	require.NoError(t, store.Create(ctx, unlock))

	climate := validTestCase(projectID, createdBy)
	climate.Name = "Climate precondition check"
	climate.BusinessType = "climate"
	require.NoError(t, store.Create(ctx, climate))

	cases, err := store.ListByBusinessType(ctx, projectID, "climate", 10, 0)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "Climate precondition check", cases[0].Name)
}

func TestMySQLStore_CreateVersion(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	tc := validTestCase(uuid.New(), uuid.New())
	require.NoError(t, store.Create(ctx, tc))

	v2, err := store.CreateVersion(ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), v2.Version)
	assert.True(t, v2.IsLatest)
	require.NotNil(t, v2.ParentID)
	assert.Equal(t, tc.ID, *v2.ParentID)

	original, err := store.GetByID(ctx, tc.ID)
	require.NoError(t, err)
	assert.False(t, original.IsLatest, "the old version loses the latest flag")

	history, err := store.GetVersionHistory(ctx, tc.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint(2), history[0].Version)
	assert.Equal(t, uint(1), history[1].Version)
}

func TestMySQLStore_DeleteRemovesChain(t *testing.T) {
	_, store := setupTestStore(t)
	ctx := context.Background()

	tc := validTestCase(uuid.New(), uuid.New())
	require.NoError(t, store.Create(ctx, tc))

	v2, err := store.CreateVersion(ctx, tc.ID)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, v2.ID))

	_, err = store.GetByID(ctx, tc.ID)
	assert.ErrorIs(t, err, ErrTestCaseNotFound)
	_, err = store.GetByID(ctx, v2.ID)
	assert.ErrorIs(t, err, ErrTestCaseNotFound)
}
