package stepeditor

// ControlledSync reconciles an externally supplied value (the host form's
// belief about the step array) with the internally owned ListStore, in both
// directions, without feedback loops.
//
// The store never mutates the external value; the only outward channel is the
// OnChange callback, fired exactly once per internal mutation with the fully
// renumbered snapshot. Inbound, a new value is applied only when it
// demonstrably diverges from internal state: the deep-equality check is what
// prevents the initialize/onChange oscillation a naive implementation runs
// into.
type ControlledSync struct {
	store *ListStore

	// lastApplied is the last external value accepted via Reconcile, kept
	// verbatim (pre-normalization). Normalization assigns fresh IDs to
	// partial records, so a re-delivery of the same raw value would never
	// compare equal to the snapshot; remembering the raw form keeps
	// reconciliation idempotent anyway.
	lastApplied StepList

	onChange func(StepList)
}

// NewControlledSync wires a sync onto the given store. The store's change
// callback is taken over; register outward propagation through SetOnChange
// on the sync, not on the store.
func NewControlledSync(store *ListStore) *ControlledSync {
	c := &ControlledSync{store: store}
	store.SetOnChange(c.handleStoreChange)
	return c
}

// SetOnChange registers the host callback invoked after every internal
// mutation. No call is made on mount-seeding or on a resync: those reflect
// external truth, not user edits.
func (c *ControlledSync) SetOnChange(fn func(StepList)) {
	c.onChange = fn
}

// Reconcile applies a newly observed external value. When the value matches
// either the current snapshot or the last value already applied, nothing
// happens and no OnChange fires. Otherwise the store is re-initialized from
// the value (empty input falls back to the seeded single blank step).
// Returns whether a resync occurred.
func (c *ControlledSync) Reconcile(value StepList) bool {
	if len(value) == 0 {
		// An absent or empty external value means the seeded default. When
		// the store already holds the single blank seed, re-initializing
		// would only regenerate its ID.
		snap := c.store.Snapshot()
		if len(snap) == 1 && snap[0].Action == "" && snap[0].Expected == "" {
			return false
		}
		c.store.Initialize(nil)
		c.lastApplied = nil
		return true
	}

	if value.Equal(c.store.Snapshot()) {
		return false
	}
	if c.lastApplied != nil && value.Equal(c.lastApplied) {
		return false
	}

	c.store.Initialize(value)
	c.lastApplied = value.Clone()
	return true
}

func (c *ControlledSync) handleStoreChange(snapshot StepList) {
	// The snapshot becomes the expected round-trip value: when the host
	// feeds it straight back as the next value, Reconcile must recognize it
	// as already applied.
	c.lastApplied = snapshot
	if c.onChange != nil {
		c.onChange(snapshot)
	}
}
