package stepeditor

import (
	"sync"
	"time"
)

// Placeholders are display hints for empty fields. They have no semantic
// effect on validation or storage.
type Placeholders struct {
	Action   string `json:"action"`
	Expected string `json:"expected"`
}

// Config is the full configuration surface of one editor instance.
type Config struct {
	// MaxSteps is the list ceiling. Zero means DefaultMaxSteps.
	MaxSteps int

	// Limits overrides the validation thresholds. Nil picks the variant
	// limits matching MaxSteps.
	Limits *Limits

	// RequireExpectedPerStep makes empty per-step expected results an error.
	// True for test cases, false for test points.
	RequireExpectedPerStep bool

	// AllowManualNumbering exposes the free-form step number override.
	AllowManualNumbering bool

	// AutoValidate recomputes validation (debounced) after every mutation.
	// When false the engine is never invoked and the result stays valid.
	AutoValidate bool

	// ShowValidation controls whether State carries validation decorations.
	ShowValidation bool

	// Disabled renders the editor read-only.
	Disabled bool

	// DebounceWindow is the edit-to-validation delay. Zero means the
	// default window.
	DebounceWindow time.Duration

	// ActivationDistance is the drag gesture threshold in pixels.
	ActivationDistance float64

	Placeholders Placeholders

	// Notifier receives rejection notices. Nil means discard.
	Notifier Notifier
}

// DefaultConfig returns the configuration of a plain step editor with
// validation enabled.
func DefaultConfig() Config {
	return Config{
		MaxSteps:               DefaultMaxSteps,
		RequireExpectedPerStep: true,
		AutoValidate:           true,
		ShowValidation:         true,
	}
}

// limits resolves the effective validation thresholds for the config.
func (c Config) limits() Limits {
	if c.Limits != nil {
		return *c.Limits
	}
	switch c.MaxSteps {
	case ValidatedMaxSteps:
		return ValidatedLimits()
	case UnifiedMaxSteps:
		return UnifiedLimits()
	default:
		l := DefaultLimits()
		if c.MaxSteps > 0 {
			l.MaxSteps = c.MaxSteps
			l.RecommendedSteps = c.MaxSteps
		}
		return l
	}
}

// Row is one display-ready list entry: the step, the issues scoped to it,
// and whether the remove affordance is enabled.
type Row struct {
	Step      Step    `json:"step"`
	Issues    []Issue `json:"issues,omitempty"`
	CanRemove bool    `json:"can_remove"`
}

// State is the render contract consumed by any capable view layer.
type State struct {
	Rows         []Row        `json:"rows"`
	Validation   Result       `json:"validation"`
	CanAdd       bool         `json:"can_add"`
	Disabled     bool         `json:"disabled"`
	Placeholders Placeholders `json:"placeholders"`
}

// Editor composes the list store, controlled-value reconciliation, drag
// adapter and debounced validation into one instance. All methods are safe
// for concurrent use, though a single instance is expected to serve a single
// logical form.
type Editor struct {
	mu sync.Mutex

	cfg        Config
	store      *ListStore
	sync       *ControlledSync
	drag       *DragReorderAdapter
	debounce   *Debouncer
	validation Result
}

// New creates an editor and seeds it with one blank step.
func New(cfg Config) *Editor {
	store := NewListStore(StoreOptions{
		MaxSteps:             cfg.MaxSteps,
		AllowManualNumbering: cfg.AllowManualNumbering,
		Disabled:             cfg.Disabled,
		Notifier:             cfg.Notifier,
	})

	e := &Editor{
		cfg:        cfg,
		store:      store,
		sync:       NewControlledSync(store),
		drag:       NewDragReorderAdapter(store, cfg.ActivationDistance),
		debounce:   NewDebouncer(cfg.DebounceWindow),
		validation: Result{IsValid: true},
	}
	return e
}

// SetOnChange registers the host callback for outward propagation of every
// internal mutation.
func (e *Editor) SetOnChange(fn func(StepList)) {
	e.sync.SetOnChange(fn)
}

// Reconcile applies a newly observed external value. Returns whether a
// resync occurred.
func (e *Editor) Reconcile(value StepList) bool {
	e.mu.Lock()
	resynced := e.sync.Reconcile(value)
	e.mu.Unlock()

	if resynced {
		e.scheduleValidation()
	}
	return resynced
}

// Snapshot returns a deep copy of the current step list.
func (e *Editor) Snapshot() StepList {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// InsertAt inserts a blank step at index. Append with index == Len.
func (e *Editor) InsertAt(index int) bool {
	return e.mutate(func() bool { return e.store.InsertAt(index) })
}

// Append adds a blank step at the end of the list.
func (e *Editor) Append() bool {
	return e.mutate(func() bool { return e.store.InsertAt(e.store.Len()) })
}

// RemoveAt removes the step at index, unless it is the last one.
func (e *Editor) RemoveAt(index int) bool {
	return e.mutate(func() bool { return e.store.RemoveAt(index) })
}

// UpdateField replaces the action or expected text of the step at index.
func (e *Editor) UpdateField(index int, field Field, value string) bool {
	return e.mutate(func() bool { return e.store.UpdateField(index, field, value) })
}

// UpdateStepNumber overrides the displayed step number. Requires the
// manual-numbering mode.
func (e *Editor) UpdateStepNumber(index, number int) bool {
	return e.mutate(func() bool { return e.store.UpdateStepNumber(index, number) })
}

// Reorder moves the step at fromIndex to toIndex.
func (e *Editor) Reorder(fromIndex, toIndex int) bool {
	return e.mutate(func() bool { return e.store.Reorder(fromIndex, toIndex) })
}

// HandleDragEnd applies a finished drag gesture.
func (e *Editor) HandleDragEnd(evt DragEvent) bool {
	return e.mutate(func() bool { return e.drag.HandleDragEnd(evt) })
}

func (e *Editor) mutate(op func() bool) bool {
	e.mu.Lock()
	changed := op()
	e.mu.Unlock()

	if changed {
		e.scheduleValidation()
	}
	return changed
}

func (e *Editor) scheduleValidation() {
	if !e.cfg.AutoValidate {
		return
	}
	e.debounce.Schedule(e.revalidate)
}

func (e *Editor) revalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.validation = ValidateSteps(e.store.Snapshot(), ValidateOptions{
		Limits:                 e.cfg.limits(),
		RequireExpectedPerStep: e.cfg.RequireExpectedPerStep,
	})
}

// Validate recomputes validation immediately, superseding any pending
// debounced pass, and returns the result. With AutoValidate off it returns
// the permanently valid result; the submission gate elsewhere treats that as
// an implicit pass.
func (e *Editor) Validate() Result {
	if !e.cfg.AutoValidate {
		return Result{IsValid: true}
	}
	e.debounce.Stop()
	e.revalidate()
	return e.Validation()
}

// Validation returns the most recently computed result.
func (e *Editor) Validation() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validation
}

// State returns the full render contract. Any pending debounced validation
// is flushed first so the decorations reflect the current list.
func (e *Editor) State() State {
	e.debounce.Flush()

	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.store.Snapshot()
	validation := e.validation
	if !e.cfg.ShowValidation {
		validation = Result{IsValid: e.validation.IsValid}
	}

	rows := make([]Row, len(snapshot))
	for i, step := range snapshot {
		rows[i] = Row{
			Step:      step,
			Issues:    issuesForIndex(validation, i),
			CanRemove: len(snapshot) > 1 && !e.cfg.Disabled,
		}
	}

	return State{
		Rows:         rows,
		Validation:   validation,
		CanAdd:       len(snapshot) < e.store.opts.MaxSteps && !e.cfg.Disabled,
		Disabled:     e.cfg.Disabled,
		Placeholders: e.cfg.Placeholders,
	}
}

// Close releases the editor's timer resources.
func (e *Editor) Close() {
	e.debounce.Stop()
}

func issuesForIndex(r Result, index int) []Issue {
	var issues []Issue
	for _, iss := range r.Errors {
		if iss.Index != nil && *iss.Index == index {
			issues = append(issues, iss)
		}
	}
	for _, iss := range r.Warnings {
		if iss.Index != nil && *iss.Index == index {
			issues = append(issues, iss)
		}
	}
	return issues
}
