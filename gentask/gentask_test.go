package gentask

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{
			name: "valid task",
			task: Task{
				Type:      TaskTypeCaseGeneration,
				CreatedBy: uuid.New(),
			},
			wantErr: nil,
		},
		{
			name: "invalid type",
			task: Task{
				Type:      TaskType("invalid"),
				CreatedBy: uuid.New(),
			},
			wantErr: ErrInvalidTaskType,
		},
		{
			name: "missing created_by",
			task: Task{
				Type: TaskTypeCaseGeneration,
			},
			wantErr: ErrInvalidCreatedBy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTask_Start(t *testing.T) {
	task := createTestTask(uuid.New())
	task.Status = StatusCreated

	require.NoError(t, task.Start())
	assert.Equal(t, StatusRunning, task.Status)
	assert.NotNil(t, task.StartTime)

	err := task.Start()
	assert.ErrorIs(t, err, ErrTaskAlreadyStarted)
}

func TestTask_Complete(t *testing.T) {
	t.Run("complete running task", func(t *testing.T) {
		task := createTestTask(uuid.New())
		task.Status = StatusCreated
		require.NoError(t, task.Start())

		result := JSONMap{"steps_generated": float64(8)}
		require.NoError(t, task.Complete(StatusSuccess, result))
		assert.Equal(t, StatusSuccess, task.Status)
		assert.Equal(t, 100, task.Progress)
		assert.NotNil(t, task.EndTime)
		assert.NotNil(t, task.Duration)
		assert.Equal(t, result, task.Result)
	})

	t.Run("complete not running returns error", func(t *testing.T) {
		task := createTestTask(uuid.New())
		task.Status = StatusCreated

		err := task.Complete(StatusSuccess, nil)
		assert.ErrorIs(t, err, ErrTaskNotRunning)
	})

	t.Run("complete with non-terminal status returns error", func(t *testing.T) {
		task := createTestTask(uuid.New())
		task.Status = StatusCreated
		require.NoError(t, task.Start())

		err := task.Complete(StatusRunning, nil)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusCreated.IsTerminal())
	assert.False(t, StatusRunning.IsTerminal())
	assert.True(t, StatusStopped.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusSuccess.IsTerminal())
}

func TestSetProgress(t *testing.T) {
	task := createTestTask(uuid.New())

	require.NoError(t, SetProgress(40, "building prompt")(task))
	assert.Equal(t, 40, task.Progress)
	assert.Equal(t, "building prompt", task.Stage)

	assert.ErrorIs(t, SetProgress(-1, "")(task), ErrInvalidProgress)
	assert.ErrorIs(t, SetProgress(101, "")(task), ErrInvalidProgress)
}
