package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"courseboard/internal/api/middleware"
	"courseboard/internal/app/service"
	"courseboard/internal/app/validate"
	"courseboard/internal/common"
	"courseboard/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

func NewAssignmentHandler(as *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: as}
}

func (h *AssignmentHandler) RegisterRoutes(r chi.Router) {
	// Every route here requires an authenticated principal; the router
	// wraps the group with the Authenticator middleware.
	r.Get("/", h.listAssignments)  // GET /api/v1/assignments
	r.Get("/mine", h.listOwned)    // GET /api/v1/assignments/mine
	r.Get("/{assignmentID}", h.getAssignment)

	r.Post("/", h.createAssignment) // POST /api/v1/assignments
	r.Post("/bulk", h.bulkImport)   // POST /api/v1/assignments/bulk
	r.Put("/{assignmentID}", h.updateAssignment)
	r.Delete("/{assignmentID}", h.deleteAssignment)
}

func (h *AssignmentHandler) createAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	assignment, err := h.assignmentService.Create(r.Context(), actor, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, assignment)
}

// bulkImport accepts a multipart CSV upload and returns the full
// report: creations, idempotent skips, and per-row failures.
func (h *AssignmentHandler) bulkImport(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Missing file field: "+err.Error())
		return
	}
	defer file.Close()

	fileRef := validate.FileRef{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	report, err := h.assignmentService.BulkImport(r.Context(), actor, fileRef, file)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, report)
}

func (h *AssignmentHandler) listAssignments(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	assignments, total, err := h.assignmentService.List(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	type PaginatedAssignmentsResponse struct {
		Assignments []model.Assignment `json:"assignments"`
		Total       int                `json:"total"`
		Page        int                `json:"page"`
		PageSize    int                `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedAssignmentsResponse{
		Assignments: assignments,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (h *AssignmentHandler) listOwned(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	assignments, err := h.assignmentService.ListOwned(r.Context(), actor)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, assignments)
}

func (h *AssignmentHandler) getAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.assignmentService.Get(r.Context(), chi.URLParam(r, "assignmentID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) updateAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	assignment, err := h.assignmentService.Update(r.Context(), actor, chi.URLParam(r, "assignmentID"), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	if err := h.assignmentService.Delete(r.Context(), actor, chi.URLParam(r, "assignmentID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
