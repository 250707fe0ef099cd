package handlers

import (
	"errors"
	"net/http"

	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testcase"
)

// TestCaseHandler handles test case requests.
type TestCaseHandler struct {
	testCaseStore testcase.Store
	logger        logger.Logger
}

// NewTestCaseHandler creates a new test case handler.
func NewTestCaseHandler(testCaseStore testcase.Store, log logger.Logger) *TestCaseHandler {
	return &TestCaseHandler{
		testCaseStore: testCaseStore,
		logger:        log,
	}
}

// CreateTestCaseRequest represents a test case creation request.
type CreateTestCaseRequest struct {
	ProjectID       string              `json:"project_id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	BusinessType    string              `json:"business_type"`
	Preconditions   testcase.StringList `json:"preconditions"`
	Steps           stepeditor.StepList `json:"steps"`
	ExpectedResults testcase.StringList `json:"expected_results"`
}

// UpdateTestCaseRequest represents a test case update request.
type UpdateTestCaseRequest struct {
	Name            *string              `json:"name,omitempty"`
	Description     *string              `json:"description,omitempty"`
	BusinessType    *string              `json:"business_type,omitempty"`
	Preconditions   *testcase.StringList `json:"preconditions,omitempty"`
	Steps           *stepeditor.StepList `json:"steps,omitempty"`
	ExpectedResults *testcase.StringList `json:"expected_results,omitempty"`
}

// Create handles creating a new test case. The full-form validation runs as a
// submission gate: error-severity issues reject the write with the complete
// result attached, warnings pass through.
func (h *TestCaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateTestCaseRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projectID, ok := parseUUIDString(w, req.ProjectID, "project")
	if !ok {
		return
	}

	tc := &testcase.TestCase{
		ProjectID:       projectID,
		Name:            req.Name,
		Description:     req.Description,
		BusinessType:    req.BusinessType,
		Preconditions:   req.Preconditions,
		Steps:           req.Steps,
		ExpectedResults: req.ExpectedResults,
		CreatedBy:       userID,
		Version:         1,
		IsLatest:        true,
	}

	result := tc.ValidateContent(stepeditor.UnifiedLimits())
	if !result.IsValid {
		respondJSON(w, http.StatusBadRequest, ValidationFailedResponse{
			Error:      "test case failed validation",
			Validation: result,
		})
		return
	}

	if err := h.testCaseStore.Create(r.Context(), tc); err != nil {
		if errors.Is(err, testcase.ErrInvalidTestCaseName) || errors.Is(err, testcase.ErrInvalidProjectID) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to create test case", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create test case")
		return
	}

	respondJSON(w, http.StatusCreated, tc)
}

// List handles listing latest test cases of a project, optionally filtered by
// business type.
func (h *TestCaseHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDOrRespond(w, r, "project_id", "project")
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	businessType := r.URL.Query().Get("business_type")

	var (
		cases []*testcase.TestCase
		err   error
	)
	if businessType != "" {
		cases, err = h.testCaseStore.ListByBusinessType(r.Context(), projectID, businessType, limit, offset)
	} else {
		cases, err = h.testCaseStore.ListByProject(r.Context(), projectID, limit, offset)
	}
	if err != nil {
		h.logger.Error(r.Context(), "failed to list test cases", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list test cases")
		return
	}

	total, err := h.testCaseStore.CountByProject(r.Context(), projectID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to count test cases", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list test cases")
		return
	}

	respondJSON(w, http.StatusOK, NewPaginatedResponse(cases, total, limit, offset))
}

// GetByID handles getting a single test case by ID.
func (h *TestCaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	tc, err := h.testCaseStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test case", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get test case")
		return
	}

	respondJSON(w, http.StatusOK, tc)
}

// Update handles updating a test case. The submission gate re-runs against
// the record as it would look after the update.
func (h *TestCaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	var req UpdateTestCaseRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var setters []testcase.UpdateSetter
	if req.Name != nil {
		setters = append(setters, testcase.SetName(*req.Name))
	}
	if req.Description != nil {
		setters = append(setters, testcase.SetDescription(*req.Description))
	}
	if req.BusinessType != nil {
		setters = append(setters, testcase.SetBusinessType(*req.BusinessType))
	}
	if req.Preconditions != nil {
		setters = append(setters, testcase.SetPreconditions(*req.Preconditions))
	}
	if req.Steps != nil {
		setters = append(setters, testcase.SetSteps(*req.Steps))
	}
	if req.ExpectedResults != nil {
		setters = append(setters, testcase.SetExpectedResults(*req.ExpectedResults))
	}

	if len(setters) == 0 {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	current, err := h.testCaseStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test case", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to update test case")
		return
	}

	// Gate against the post-update shape before touching the store.
	preview := *current
	for _, setter := range setters {
		if err := setter(&preview); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	result := preview.ValidateContent(stepeditor.UnifiedLimits())
	if !result.IsValid {
		respondJSON(w, http.StatusBadRequest, ValidationFailedResponse{
			Error:      "test case failed validation",
			Validation: result,
		})
		return
	}

	if err := h.testCaseStore.Update(r.Context(), id, setters...); err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to update test case", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to update test case")
		return
	}

	updated, err := h.testCaseStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error(r.Context(), "failed to get updated test case", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get updated test case")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles deleting a test case and its whole version chain.
func (h *TestCaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	if err := h.testCaseStore.Delete(r.Context(), id); err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to delete test case", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to delete test case")
		return
	}

	respondSuccess(w, "test case deleted successfully")
}

// CreateVersion snapshots the test case as an immutable new version.
func (h *TestCaseHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	version, err := h.testCaseStore.CreateVersion(r.Context(), id)
	if err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to create test case version", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create test case version")
		return
	}

	h.logger.Info(r.Context(), "test case version created", map[string]interface{}{
		"test_case_id": id.String(),
		"version":      version.Version,
	})

	respondJSON(w, http.StatusCreated, version)
}

// GetVersionHistory lists every version in the test case's chain.
func (h *TestCaseHandler) GetVersionHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test case")
	if !ok {
		return
	}

	versions, err := h.testCaseStore.GetVersionHistory(r.Context(), id)
	if err != nil {
		if errors.Is(err, testcase.ErrTestCaseNotFound) {
			respondError(w, http.StatusNotFound, "test case not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test case history", map[string]interface{}{
			"error":        err.Error(),
			"test_case_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get test case history")
		return
	}

	respondJSON(w, http.StatusOK, versions)
}
