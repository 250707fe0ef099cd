package stepeditor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dragStore(t *testing.T) *ListStore {
	t.Helper()
	store := NewListStore(StoreOptions{})
	store.Initialize(StepList{
		{ID: "a", StepNumber: 1, Action: "a", Expected: "a"},
		{ID: "b", StepNumber: 2, Action: "b", Expected: "b"},
		{ID: "c", StepNumber: 3, Action: "c", Expected: "c"},
	})
	return store
}

func TestDragReorderAdapter_MovesDraggedOntoTarget(t *testing.T) {
	store := dragStore(t)
	adapter := NewDragReorderAdapter(store, 0)

	changed := adapter.HandleDragEnd(DragEvent{DraggedID: "c", OverID: "a", Distance: 40})

	require.True(t, changed)
	assert.Equal(t, []string{"c", "a", "b"}, idsOf(store.Snapshot()))
	assert.Equal(t, []int{1, 2, 3}, numbersOf(store.Snapshot()))
}

func TestDragReorderAdapter_NoOps(t *testing.T) {
	tests := []struct {
		name string
		evt  DragEvent
	}{
		{name: "dropped on itself", evt: DragEvent{DraggedID: "b", OverID: "b", Distance: 30}},
		{name: "unknown dragged id", evt: DragEvent{DraggedID: "zz", OverID: "a", Distance: 30}},
		{name: "unknown target id", evt: DragEvent{DraggedID: "a", OverID: "zz", Distance: 30}},
		{name: "missing dragged id", evt: DragEvent{OverID: "a", Distance: 30}},
		{name: "below activation distance", evt: DragEvent{DraggedID: "c", OverID: "a", Distance: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := dragStore(t)
			adapter := NewDragReorderAdapter(store, DefaultActivationDistance)

			var changes int
			store.SetOnChange(func(StepList) { changes++ })

			assert.False(t, adapter.HandleDragEnd(tt.evt))
			assert.Equal(t, []string{"a", "b", "c"}, idsOf(store.Snapshot()))
			assert.Equal(t, 0, changes, "a rejected drag fires no onChange")
		})
	}
}

func TestDragReorderAdapter_ZeroDistanceEventsPassThreshold(t *testing.T) {
	// Keyboard-driven reorders report no pointer distance at all; they must
	// not be filtered by the activation threshold.
	store := dragStore(t)
	adapter := NewDragReorderAdapter(store, DefaultActivationDistance)

	assert.True(t, adapter.HandleDragEnd(DragEvent{DraggedID: "a", OverID: "c"}))
	assert.Equal(t, []string{"b", "c", "a"}, idsOf(store.Snapshot()))
}
