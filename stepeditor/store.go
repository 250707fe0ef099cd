package stepeditor

// Default step ceilings for the known editor variants. Hosts pick one through
// StoreOptions.MaxSteps; these are defaults, not hard law.
const (
	DefaultMaxSteps   = 20
	UnifiedMaxSteps   = 50
	ValidatedMaxSteps = 100
)

// Field identifies an editable free-text field on a step.
type Field string

const (
	FieldAction   Field = "action"
	FieldExpected Field = "expected"
)

// Notifier receives transient, user-visible advisory notices for operations
// that are rejected at the boundary (remove last step, exceed the ceiling).
// These are expected, frequent user actions, so they are surfaced as notices
// rather than errors.
type Notifier interface {
	Warn(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Warn(string)  {}
func (nopNotifier) Error(string) {}

// StoreOptions configures a ListStore.
type StoreOptions struct {
	// MaxSteps is the list size ceiling. Zero means DefaultMaxSteps.
	MaxSteps int

	// AllowManualNumbering enables UpdateStepNumber, the one operation that
	// may violate the contiguous-numbering invariant. Validation flags the
	// resulting gaps and duplicates instead of the store preventing them.
	AllowManualNumbering bool

	// Disabled suppresses every mutation, rendering the list read-only.
	Disabled bool

	// Notifier receives rejection notices. Nil means discard.
	Notifier Notifier
}

// ListStore is the sole owner of the authoritative, mutable step array for
// one editor instance. Every structural change (insert, remove, reorder) is
// followed by a renumbering pass that reassigns step numbers 1..N in final
// array order, so the contiguous-numbering invariant holds at every stable
// point except under the manual-override escape hatch.
//
// A ListStore must never be shared between two editor instances.
type ListStore struct {
	steps    StepList
	opts     StoreOptions
	onChange func(StepList)
}

// NewListStore creates a store seeded with a single blank step.
func NewListStore(opts StoreOptions) *ListStore {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	s := &ListStore{opts: opts}
	s.Initialize(nil)
	return s
}

// SetOnChange registers the callback invoked with a full snapshot after every
// successful mutation. Initialize never fires it: a resync reflects external
// truth, not a user edit.
func (s *ListStore) SetOnChange(fn func(StepList)) {
	s.onChange = fn
}

// Initialize replaces the entire internal list. Partial records are
// normalized, and an empty input seeds exactly one blank step so the list
// never drops below one item, even on a freshly mounted editor.
func (s *ListStore) Initialize(steps StepList) {
	if len(steps) == 0 {
		s.steps = StepList{newStep(1)}
		return
	}
	s.steps = normalize(steps)
}

// Len returns the current number of steps.
func (s *ListStore) Len() int {
	return len(s.steps)
}

// Snapshot returns a deep copy of the current list.
func (s *ListStore) Snapshot() StepList {
	return s.steps.Clone()
}

// InsertAt inserts a new blank step at index (append when index == Len).
// The insert is rejected as a no-op when the list is at its ceiling. Returns
// whether the list changed.
func (s *ListStore) InsertAt(index int) bool {
	if s.opts.Disabled {
		return false
	}
	if len(s.steps) >= s.opts.MaxSteps {
		s.opts.Notifier.Warn("step limit reached, cannot add another step")
		return false
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.steps) {
		index = len(s.steps)
	}

	step := newStep(index + 1)
	s.steps = append(s.steps, Step{})
	copy(s.steps[index+1:], s.steps[index:])
	s.steps[index] = step

	s.renumber()
	s.emitChange()
	return true
}

// RemoveAt removes the step at index. Removing the last remaining step is
// rejected as a no-op. Returns whether the list changed.
func (s *ListStore) RemoveAt(index int) bool {
	if s.opts.Disabled {
		return false
	}
	if index < 0 || index >= len(s.steps) {
		return false
	}
	if len(s.steps) == 1 {
		s.opts.Notifier.Warn("a test procedure needs at least one step")
		return false
	}

	s.steps = append(s.steps[:index], s.steps[index+1:]...)

	s.renumber()
	s.emitChange()
	return true
}

// UpdateField replaces the action or expected text on the step at index.
// Field edits do not affect order, so no renumbering happens.
func (s *ListStore) UpdateField(index int, field Field, value string) bool {
	if s.opts.Disabled {
		return false
	}
	if index < 0 || index >= len(s.steps) {
		return false
	}

	switch field {
	case FieldAction:
		s.steps[index].Action = value
	case FieldExpected:
		s.steps[index].Expected = value
	default:
		return false
	}

	s.emitChange()
	return true
}

// UpdateStepNumber overrides the displayed number of the step at index
// without renumbering its siblings. Only permitted when the store allows
// manual numbering; duplicates and gaps created here are caught by the
// validation engine, not prevented.
func (s *ListStore) UpdateStepNumber(index, number int) bool {
	if s.opts.Disabled || !s.opts.AllowManualNumbering {
		return false
	}
	if index < 0 || index >= len(s.steps) {
		return false
	}

	s.steps[index].StepNumber = number
	s.emitChange()
	return true
}

// Reorder moves the step at fromIndex to toIndex, preserving the relative
// order of every other step. Step numbers are fully recomputed afterwards,
// overwriting any manual overrides. Returns whether the list changed.
func (s *ListStore) Reorder(fromIndex, toIndex int) bool {
	if s.opts.Disabled {
		return false
	}
	if fromIndex < 0 || fromIndex >= len(s.steps) {
		return false
	}
	if toIndex < 0 || toIndex >= len(s.steps) {
		return false
	}
	if fromIndex == toIndex {
		return false
	}

	moved := s.steps[fromIndex]
	s.steps = append(s.steps[:fromIndex], s.steps[fromIndex+1:]...)
	s.steps = append(s.steps, Step{})
	copy(s.steps[toIndex+1:], s.steps[toIndex:])
	s.steps[toIndex] = moved

	s.renumber()
	s.emitChange()
	return true
}

// renumber reassigns step numbers 1..N in final array order.
func (s *ListStore) renumber() {
	for i := range s.steps {
		s.steps[i].StepNumber = i + 1
	}
}

func (s *ListStore) emitChange() {
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}
