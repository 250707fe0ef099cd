package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tsp-platform/casegen/generator"
	"github.com/tsp-platform/casegen/gentask"
	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/storage"
	"github.com/tsp-platform/casegen/testcase"
	"github.com/tsp-platform/casegen/testpoint"
)

// generationTimeout bounds one background generation run.
const generationTimeout = 5 * time.Minute

// GenTaskHandler handles asynchronous case generation tasks. A task is
// created against a test point, runs in the background, and is polled by the
// client for status, progress percent and the current stage.
type GenTaskHandler struct {
	taskStore      gentask.Store
	testPointStore testpoint.Store
	testCaseStore  testcase.Store
	caseGenerator  generator.CaseGenerator
	artifacts      *storage.ArtifactStore
	logger         logger.Logger
}

// NewGenTaskHandler creates a new generation task handler.
func NewGenTaskHandler(
	taskStore gentask.Store,
	testPointStore testpoint.Store,
	testCaseStore testcase.Store,
	caseGenerator generator.CaseGenerator,
	artifacts *storage.ArtifactStore,
	log logger.Logger,
) *GenTaskHandler {
	return &GenTaskHandler{
		taskStore:      taskStore,
		testPointStore: testPointStore,
		testCaseStore:  testCaseStore,
		caseGenerator:  caseGenerator,
		artifacts:      artifacts,
		logger:         log,
	}
}

// CreateGenTaskRequest represents a generation task creation request.
type CreateGenTaskRequest struct {
	TestPointID string `json:"test_point_id"`
}

// Create registers a generation task for a test point and starts it in the
// background. The response carries the created task; the client polls
// GetByID for progress.
func (h *GenTaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateGenTaskRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	testPointID, ok := parseUUIDString(w, req.TestPointID, "test point")
	if !ok {
		return
	}

	point, err := h.testPointStore.GetByID(r.Context(), testPointID)
	if err != nil {
		if errors.Is(err, testpoint.ErrTestPointNotFound) {
			respondError(w, http.StatusNotFound, "test point not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": testPointID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create generation task")
		return
	}

	task := &gentask.Task{
		Type:        gentask.TaskTypeCaseGeneration,
		Status:      gentask.StatusCreated,
		TestPointID: &point.ID,
		Config: gentask.JSONMap{
			"test_point_id": point.ID.String(),
			"business_type": point.BusinessType,
		},
		CreatedBy: userID,
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		h.logger.Error(r.Context(), "failed to create generation task", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": testPointID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create generation task")
		return
	}

	go h.runGeneration(task.ID, point)

	respondJSON(w, http.StatusCreated, task)
}

// GetByID returns the task for polling: status, progress and stage.
func (h *GenTaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "generation task")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gentask.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "generation task not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get generation task", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get generation task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// List handles listing the caller's generation tasks with pagination.
func (h *GenTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	limit, offset := parsePagination(r)

	tasks, err := h.taskStore.ListByCreator(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error(r.Context(), "failed to list generation tasks", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list generation tasks")
		return
	}

	total, err := h.taskStore.CountByCreator(r.Context(), userID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to count generation tasks", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to list generation tasks")
		return
	}

	respondJSON(w, http.StatusOK, NewPaginatedResponse(tasks, total, limit, offset))
}

// GetArtifact returns a URL for the stored generation output.
func (h *GenTaskHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "generation task")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gentask.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "generation task not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get generation task", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get generation artifact")
		return
	}

	if task.Status != gentask.StatusSuccess {
		respondError(w, http.StatusConflict, "generation task has no artifact")
		return
	}

	url, err := h.artifacts.ExportURL(r.Context(), task.ID)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "generation artifact not found")
			return
		}
		h.logger.Error(r.Context(), "failed to resolve artifact URL", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to get generation artifact")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Apply materializes a successful generation into a test case draft for the
// task's test point.
func (h *GenTaskHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, ok := parseUUIDOrRespond(w, r, "id", "generation task")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gentask.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "generation task not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get generation task", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to apply generation task")
		return
	}

	if task.Status != gentask.StatusSuccess || task.TestPointID == nil {
		respondError(w, http.StatusConflict, "generation task has no applicable result")
		return
	}

	point, err := h.testPointStore.GetByID(r.Context(), *task.TestPointID)
	if err != nil {
		if errors.Is(err, testpoint.ErrTestPointNotFound) {
			respondError(w, http.StatusNotFound, "test point not found")
			return
		}
		h.logger.Error(r.Context(), "failed to get test point", map[string]interface{}{
			"error":         err.Error(),
			"test_point_id": task.TestPointID.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to apply generation task")
		return
	}

	var generated generator.GeneratedCase
	if err := h.artifacts.ReadExport(r.Context(), task.ID, &generated); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "generation artifact not found")
			return
		}
		h.logger.Error(r.Context(), "failed to read generation artifact", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to apply generation task")
		return
	}

	draft := &testcase.TestCase{
		ProjectID:       point.ProjectID,
		Name:            point.Name,
		Description:     point.Description,
		BusinessType:    point.BusinessType,
		Preconditions:   testcase.StringList(generated.Preconditions),
		Steps:           generated.Steps,
		ExpectedResults: testcase.StringList(generated.ExpectedResults),
		CreatedBy:       userID,
		Version:         1,
		IsLatest:        true,
	}

	if err := h.testCaseStore.Create(r.Context(), draft); err != nil {
		h.logger.Error(r.Context(), "failed to create generated test case", map[string]interface{}{
			"error":   err.Error(),
			"task_id": id.String(),
		})
		respondError(w, http.StatusInternalServerError, "failed to apply generation task")
		return
	}

	h.logger.Info(r.Context(), "generation task applied", map[string]interface{}{
		"task_id":      id.String(),
		"test_case_id": draft.ID.String(),
	})

	respondJSON(w, http.StatusCreated, draft)
}

// runGeneration drives one generation task to completion. It runs on its own
// goroutine with a detached context so an abandoned poll does not abort the
// model call.
func (h *GenTaskHandler) runGeneration(taskID uuid.UUID, point *testpoint.TestPoint) {
	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	if err := h.taskStore.Start(ctx, taskID); err != nil {
		h.logger.Error(ctx, "failed to start generation task", map[string]interface{}{
			"error":   err.Error(),
			"task_id": taskID.String(),
		})
		return
	}

	h.updateProgress(ctx, taskID, 10, "building prompt")

	h.updateProgress(ctx, taskID, 30, "invoking model")
	generated, err := h.caseGenerator.Generate(ctx, point)
	if err != nil {
		h.failTask(ctx, taskID, err)
		return
	}

	h.updateProgress(ctx, taskID, 80, "storing artifact")
	key, err := h.artifacts.WriteExport(ctx, taskID, generated)
	if err != nil {
		h.failTask(ctx, taskID, err)
		return
	}

	result := gentask.JSONMap{
		"artifact_key":     key,
		"steps":            len(generated.Steps),
		"preconditions":    len(generated.Preconditions),
		"expected_results": len(generated.ExpectedResults),
	}
	if err := h.taskStore.Complete(ctx, taskID, gentask.StatusSuccess, result); err != nil {
		h.logger.Error(ctx, "failed to complete generation task", map[string]interface{}{
			"error":   err.Error(),
			"task_id": taskID.String(),
		})
		return
	}

	h.logger.Info(ctx, "generation task completed", map[string]interface{}{
		"task_id": taskID.String(),
		"steps":   len(generated.Steps),
	})
}

func (h *GenTaskHandler) updateProgress(ctx context.Context, taskID uuid.UUID, progress int, stage string) {
	if err := h.taskStore.UpdateProgress(ctx, taskID, progress, stage); err != nil {
		h.logger.Warn(ctx, "failed to update generation progress", map[string]interface{}{
			"error":   err.Error(),
			"task_id": taskID.String(),
			"stage":   stage,
		})
	}
}

func (h *GenTaskHandler) failTask(ctx context.Context, taskID uuid.UUID, cause error) {
	h.logger.Error(ctx, "generation task failed", map[string]interface{}{
		"error":   cause.Error(),
		"task_id": taskID.String(),
	})

	result := gentask.JSONMap{"error": cause.Error()}
	if err := h.taskStore.Complete(ctx, taskID, gentask.StatusFailed, result); err != nil {
		h.logger.Error(ctx, "failed to record generation failure", map[string]interface{}{
			"error":   err.Error(),
			"task_id": taskID.String(),
		})
	}
}
