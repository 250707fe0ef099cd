package handlers

import (
	"errors"
	"net/http"

	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testcase"
	"github.com/tsp-platform/casegen/testpoint"
)

// TestPointHandler handles test point requests.
type TestPointHandler struct {
	testPointStore testpoint.Store
	testCaseStore  testcase.Store
	logger         logger.Logger
}

// NewTestPointHandler creates a new test point handler.
func NewTestPointHandler(testPointStore testpoint.Store, testCaseStore testcase.Store, log logger.Logger) *TestPointHandler {
	return &TestPointHandler{
		testPointStore: testPointStore,
		testCaseStore:  testCaseStore,
		logger:         log,
	}
}

// CreateTestPointRequest represents a test point creation request.
type CreateTestPointRequest struct {
	ProjectID    string              `json:"project_id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	BusinessType string              `json:"business_type"`
	Steps        stepeditor.StepList `json:"steps"`
}

// UpdateTestPointRequest represents a test point update request.
type UpdateTestPointRequest struct {
	Name         *string              `json:"name,omitempty"`
	Description  *string              `json:"description,omitempty"`
	BusinessType *string              `json:"business_type,omitempty"`
	Steps        *stepeditor.StepList `json:"steps,omitempty"`
}

// ValidationFailedResponse carries the full validation result back to the
// caller when error-severity issues block a write.
type ValidationFailedResponse struct {
	Error      string            `json:"error"`
	Validation stepeditor.Result `json:"validation"`
}

// ConvertTestPointResponse is returned after promoting a test point.
type ConvertTestPointResponse struct {
	TestPoint *testpoint.TestPoint `json:"test_point"`
	TestCase  *testcase.TestCase   `json:"test_case"`
}

// Create handles creating a new test point.
func (h *TestPointHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateTestPointRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	projectID, ok := parseUUIDString(w, req.ProjectID, "project")
	if !ok {
		return
	}

	point := &testpoint.TestPoint{
		ProjectID:    projectID,
		Name:         req.Name,
		Description:  req.Description,
		BusinessType: req.BusinessType,
		Steps:        req.Steps,
		CreatedBy:    userID,
	}

	// Error-severity issues block the write; warnings pass through.
	result := point.ValidateContent(stepeditor.UnifiedLimits())
	if !result.IsValid {
		respondJSON(w, http.StatusBadRequest, ValidationFailedResponse{
			Error:      "test point failed validation",
			Validation: result,
		})
		return
	}

	if err := h.testPointStore.Create(r.Context(), point); err != nil {
		if errors.Is(err, testpoint.ErrInvalidTestPointName) || errors.Is(err, testpoint.ErrInvalidProjectID) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to create test point", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create test point")
		return
	}

	respondJSON(w, http.StatusCreated, point)
}

// List handles listing test points of a project with pagination.
func (h *TestPointHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDOrRespond(w, r, "project_id", "project")
	if !ok {
		return
	}

	limit, offset := parsePagination(r)

	points, err := h.testPointStore.ListByProject(r.Context(), projectID, limit, offset)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list test points", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list test points")
		return
	}

	total, err := h.testPointStore.CountByProject(r.Context(), projectID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to count test points", map[string]interface{}{
			"error":      err.Error(),
			"project_id": projectID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list test points")
		return
	}

	respondJSON(w, http.StatusOK, NewPaginatedResponse(points, total, limit, offset))
}

// GetByID handles getting a single test point by ID.
func (h *TestPointHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test point")
	if !ok {
		return
	}

	point, err := h.testPointStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, testpoint.ErrTestPointNotFound) {
			respondError(w, http.StatusNotFound, "test point not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get test point")
		return
	}

	respondJSON(w, http.StatusOK, point)
}

// Update handles updating a test point.
func (h *TestPointHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test point")
	if !ok {
		return
	}

	var req UpdateTestPointRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var setters []testpoint.UpdateSetter
	if req.Name != nil {
		setters = append(setters, testpoint.SetName(*req.Name))
	}
	if req.Description != nil {
		setters = append(setters, testpoint.SetDescription(*req.Description))
	}
	if req.BusinessType != nil {
		setters = append(setters, testpoint.SetBusinessType(*req.BusinessType))
	}
	if req.Steps != nil {
		setters = append(setters, testpoint.SetSteps(*req.Steps))
	}

	if len(setters) == 0 {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := h.testPointStore.Update(r.Context(), id, setters...); err != nil {
		if errors.Is(err, testpoint.ErrTestPointNotFound) {
			respondError(w, http.StatusNotFound, "test point not found")
			return
		}
		if errors.Is(err, testpoint.ErrInvalidTestPointName) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to update test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to update test point")
		return
	}

	updated, err := h.testPointStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error(r.Context(), "failed to get updated test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get updated test point")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles deleting a test point.
func (h *TestPointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test point")
	if !ok {
		return
	}

	if err := h.testPointStore.Delete(r.Context(), id); err != nil {
		if errors.Is(err, testpoint.ErrTestPointNotFound) {
			respondError(w, http.StatusNotFound, "test point not found")
			return
		}
		h.logger.Error(r.Context(), "failed to delete test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to delete test point")
		return
	}

	respondSuccess(w, "test point deleted successfully")
}

// Convert promotes a test point into a test case draft. The draft carries the
// point's steps as-is; missing per-step expected results surface as validation
// errors when the case is later submitted. A point converts at most once.
func (h *TestPointHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "test point")
	if !ok {
		return
	}

	point, err := h.testPointStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, testpoint.ErrTestPointNotFound) {
			respondError(w, http.StatusNotFound, "test point not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to convert test point")
		return
	}

	if point.ConvertedCaseID != nil {
		respondError(w, http.StatusConflict, testpoint.ErrAlreadyConverted.Error())
		return
	}

	draft := point.ToTestCase()
	if err := h.testCaseStore.Create(r.Context(), draft); err != nil {
		h.logger.Error(r.Context(), "failed to create test case from test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to convert test point")
		return
	}

	if err := h.testPointStore.MarkConverted(r.Context(), id, draft.ID); err != nil {
		if errors.Is(err, testpoint.ErrAlreadyConverted) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error(r.Context(), "failed to mark test point converted", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
			"test_case_id":  draft.ID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to convert test point")
		return
	}

	converted, err := h.testPointStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error(r.Context(), "failed to get converted test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to convert test point")
		return
	}

	h.logger.Info(r.Context(), "test point converted", map[string]interface{}{
		"test_point_id": id.String(),
		"test_case_id":  draft.ID.String(),
	})

	respondJSON(w, http.StatusCreated, ConvertTestPointResponse{
		TestPoint: converted,
		TestCase:  draft,
	})
}
