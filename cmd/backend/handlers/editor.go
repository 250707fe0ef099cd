package handlers

import (
	"errors"
	"net/http"

	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testcase"
	"github.com/tsp-platform/casegen/testpoint"
)

// Record types an editor session can be opened against.
const (
	RecordTypeTestCase  = "test_case"
	RecordTypeTestPoint = "test_point"
)

// EditorHandler exposes live step editor sessions over HTTP. A session wraps
// one record's step list; every mutation is applied server-side and the
// resulting render state is returned so the client stays a thin view.
type EditorHandler struct {
	manager        *stepeditor.Manager
	testCaseStore  testcase.Store
	testPointStore testpoint.Store
	logger         logger.Logger
}

// NewEditorHandler creates a new editor handler.
func NewEditorHandler(
	manager *stepeditor.Manager,
	testCaseStore testcase.Store,
	testPointStore testpoint.Store,
	log logger.Logger,
) *EditorHandler {
	return &EditorHandler{
		manager:        manager,
		testCaseStore:  testCaseStore,
		testPointStore: testPointStore,
		logger:         log,
	}
}

// OpenEditorRequest represents a request to open an editor session.
type OpenEditorRequest struct {
	RecordType string `json:"record_type"`
	RecordID   string `json:"record_id"`

	// MaxSteps optionally selects a larger list ceiling. Zero keeps the
	// default for the record type.
	MaxSteps int `json:"max_steps,omitempty"`

	// AllowManualNumbering exposes the free-form step number override.
	AllowManualNumbering bool `json:"allow_manual_numbering,omitempty"`
}

// EditorStateResponse is the render contract plus the session envelope.
type EditorStateResponse struct {
	SessionID  string              `json:"session_id"`
	RecordType string              `json:"record_type"`
	RecordID   string              `json:"record_id"`
	Applied    bool                `json:"applied"`
	State      stepeditor.State    `json:"state"`
	Notices    []stepeditor.Notice `json:"notices,omitempty"`
}

// EditorOpRequest is one editor mutation. Op selects which fields matter.
type EditorOpRequest struct {
	Op        string                `json:"op"`
	Index     int                   `json:"index"`
	ToIndex   int                   `json:"to_index"`
	Field     string                `json:"field"`
	Value     string                `json:"value"`
	Number    int                   `json:"number"`
	DragEvent *stepeditor.DragEvent `json:"drag_event,omitempty"`
}

// ReconcileRequest carries an externally observed step list.
type ReconcileRequest struct {
	Steps stepeditor.StepList `json:"steps"`
}

// Open creates an editor session seeded from the record's current steps.
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req OpenEditorRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recordID, ok := parseUUIDString(w, req.RecordID, "record")
	if !ok {
		return
	}

	var seed stepeditor.StepList
	switch req.RecordType {
	case RecordTypeTestCase:
		tc, err := h.testCaseStore.GetByID(r.Context(), recordID)
		if err != nil {
			if errors.Is(err, testcase.ErrTestCaseNotFound) {
				respondError(w, http.StatusNotFound, "test case not found")
				return
			}
			h.logger.Error(r.Context(), "failed to load test case for editing", map[string]interface{}{
				"error":        err.Error(),
				"test_case_id": recordID.String(),
			})
			respondError(w, http.StatusInternalServerError, "failed to open editor session")
			return
		}
		seed = tc.Steps
	case RecordTypeTestPoint:
		tp, err := h.testPointStore.GetByID(r.Context(), recordID)
		if err != nil {
			if errors.Is(err, testpoint.ErrTestPointNotFound) {
				respondError(w, http.StatusNotFound, "test point not found")
				return
			}
			h.logger.Error(r.Context(), "failed to load test point for editing", map[string]interface{}{
				"error":         err.Error(),
				"test_point_id": recordID.String(),
			})
			respondError(w, http.StatusInternalServerError, "failed to open editor session")
			return
		}
		seed = tp.Steps
	default:
		respondError(w, http.StatusBadRequest, "record_type must be test_case or test_point")
		return
	}

	cfg := stepeditor.DefaultConfig()
	cfg.RequireExpectedPerStep = req.RecordType == RecordTypeTestCase
	cfg.AllowManualNumbering = req.AllowManualNumbering
	if req.MaxSteps > 0 {
		if req.MaxSteps > stepeditor.ValidatedMaxSteps {
			respondError(w, http.StatusBadRequest, "max_steps exceeds the supported ceiling")
			return
		}
		cfg.MaxSteps = req.MaxSteps
	}
	cfg.Placeholders = stepeditor.Placeholders{
		Action:   "Describe the action to perform",
		Expected: "Describe the expected result",
	}

	sess := h.manager.Open(userID, recordID, cfg, seed)

	respondJSON(w, http.StatusCreated, EditorStateResponse{
		SessionID:  sess.ID.String(),
		RecordType: req.RecordType,
		RecordID:   recordID.String(),
		Applied:    true,
		State:      sess.Editor.State(),
		Notices:    sess.Notices.Drain(),
	})
}

// GetState returns the current render state and drains buffered notices.
func (h *EditorHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, EditorStateResponse{
		SessionID: sess.ID.String(),
		RecordID:  sess.RecordID.String(),
		Applied:   true,
		State:     sess.Editor.State(),
		Notices:   sess.Notices.Drain(),
	})
}

// ApplyOp applies one mutation to the session's editor. Rejected mutations
// are not errors: the response carries applied=false plus any notices.
func (h *EditorHandler) ApplyOp(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}

	var req EditorOpRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var applied bool
	switch req.Op {
	case "append":
		applied = sess.Editor.Append()
	case "insert":
		applied = sess.Editor.InsertAt(req.Index)
	case "remove":
		applied = sess.Editor.RemoveAt(req.Index)
	case "update_field":
		applied = sess.Editor.UpdateField(req.Index, stepeditor.Field(req.Field), req.Value)
	case "update_number":
		applied = sess.Editor.UpdateStepNumber(req.Index, req.Number)
	case "reorder":
		applied = sess.Editor.Reorder(req.Index, req.ToIndex)
	case "drag_end":
		if req.DragEvent == nil {
			respondError(w, http.StatusBadRequest, "drag_end requires a drag_event")
			return
		}
		applied = sess.Editor.HandleDragEnd(*req.DragEvent)
	default:
		respondError(w, http.StatusBadRequest, "unknown editor operation")
		return
	}

	respondJSON(w, http.StatusOK, EditorStateResponse{
		SessionID: sess.ID.String(),
		RecordID:  sess.RecordID.String(),
		Applied:   applied,
		State:     sess.Editor.State(),
		Notices:   sess.Notices.Drain(),
	})
}

// Reconcile feeds an externally observed step list into the session, the
// controlled-value path. Lists structurally equal to the editor's current
// value are ignored.
func (h *EditorHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}

	var req ReconcileRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resynced := sess.Editor.Reconcile(req.Steps)

	respondJSON(w, http.StatusOK, EditorStateResponse{
		SessionID: sess.ID.String(),
		RecordID:  sess.RecordID.String(),
		Applied:   resynced,
		State:     sess.Editor.State(),
		Notices:   sess.Notices.Drain(),
	})
}

// Save validates the session's current list and persists it to the backing
// record. Error-severity issues block the save.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}

	result := sess.Editor.Validate()
	if !result.IsValid {
		respondJSON(w, http.StatusBadRequest, ValidationFailedResponse{
			Error:      "steps failed validation",
			Validation: result,
		})
		return
	}

	snapshot := sess.Editor.Snapshot()

	// The record type is recovered from whichever store knows the ID. A
	// test case is tried first since case editing is the common path.
	err := h.testCaseStore.Update(r.Context(), sess.RecordID, testcase.SetSteps(snapshot))
	if errors.Is(err, testcase.ErrTestCaseNotFound) {
		err = h.testPointStore.Update(r.Context(), sess.RecordID, testpoint.SetSteps(snapshot))
		if errors.Is(err, testpoint.ErrTestPointNotFound) {
			respondError(w, http.StatusNotFound, "record not found")
			return
		}
	}
	if err != nil {
		h.logger.Error(r.Context(), "failed to save editor steps", map[string]interface{}{
			"error":     err.Error(),
			"record_id": sess.RecordID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to save steps")
		return
	}

	h.logger.Info(r.Context(), "editor steps saved", map[string]interface{}{
		"session_id": sess.ID.String(),
		"record_id":  sess.RecordID.String(),
		"steps":      len(snapshot),
	})

	respondJSON(w, http.StatusOK, EditorStateResponse{
		SessionID: sess.ID.String(),
		RecordID:  sess.RecordID.String(),
		Applied:   true,
		State:     sess.Editor.State(),
		Notices:   sess.Notices.Drain(),
	})
}

// Close tears the session down.
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSession(w, r)
	if !ok {
		return
	}

	h.manager.Close(sess.ID)
	respondSuccess(w, "editor session closed")
}

func (h *EditorHandler) getSession(w http.ResponseWriter, r *http.Request) (*stepeditor.Session, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return nil, false
	}

	id, ok := parseUUIDOrRespond(w, r, "id", "editor session")
	if !ok {
		return nil, false
	}

	sess, err := h.manager.Get(id)
	if err != nil {
		if errors.Is(err, stepeditor.ErrSessionNotFound) || errors.Is(err, stepeditor.ErrSessionExpired) {
			respondError(w, http.StatusNotFound, "editor session not found")
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, "failed to load editor session")
		return nil, false
	}

	if sess.UserID != userID {
		respondError(w, http.StatusForbidden, "editor session belongs to another user")
		return nil, false
	}

	return sess, true
}
