package stepeditor

// DefaultActivationDistance is the minimum pointer travel, in pixels, before
// a drag gesture counts as a reorder. Shorter movements are clicks inside the
// action/expected text fields, not drags.
const DefaultActivationDistance = 8.0

// DragEvent is the normalized end-of-gesture event delivered by the host's
// gesture recognizer: the dragged step, the step it was dropped on, and how
// far the pointer travelled.
type DragEvent struct {
	DraggedID string  `json:"dragged_id"`
	OverID    string  `json:"over_id"`
	Distance  float64 `json:"distance"`
}

// DragReorderAdapter translates drag gestures into ListStore.Reorder calls.
// Gesture recognition itself (pointer tracking, keyboard reordering) is the
// host's concern; the adapter only maps identifier pairs to index pairs.
type DragReorderAdapter struct {
	store              *ListStore
	activationDistance float64
}

// NewDragReorderAdapter creates an adapter over the given store. A zero or
// negative activation distance selects the default.
func NewDragReorderAdapter(store *ListStore, activationDistance float64) *DragReorderAdapter {
	if activationDistance <= 0 {
		activationDistance = DefaultActivationDistance
	}
	return &DragReorderAdapter{store: store, activationDistance: activationDistance}
}

// HandleDragEnd resolves the event's identifiers against the current list
// order and performs the reorder. Dropped-on-self, unknown identifiers, and
// gestures below the activation distance are all no-ops: no reorder, no
// change emission. Returns whether the list changed.
func (a *DragReorderAdapter) HandleDragEnd(evt DragEvent) bool {
	if evt.Distance > 0 && evt.Distance < a.activationDistance {
		return false
	}
	if evt.DraggedID == "" || evt.DraggedID == evt.OverID {
		return false
	}

	snapshot := a.store.Snapshot()
	from := snapshot.IndexOf(evt.DraggedID)
	to := snapshot.IndexOf(evt.OverID)
	if from < 0 || to < 0 {
		return false
	}

	return a.store.Reorder(from, to)
}
