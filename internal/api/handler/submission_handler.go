package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"courseboard/internal/api/middleware"
	"courseboard/internal/app/service"
	"courseboard/internal/app/validate"
	"courseboard/internal/common"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	uploadDir         string
}

func NewSubmissionHandler(ss *service.SubmissionService, uploadDir string) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, uploadDir: uploadDir}
}

// RegisterAssignmentRoutes mounts the nested submission collection on
// the assignments subrouter.
func (h *SubmissionHandler) RegisterAssignmentRoutes(r chi.Router) {
	r.Post("/{assignmentID}/submissions", h.createSubmission)
	r.Get("/{assignmentID}/submissions", h.listSubmissions)
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{submissionID}", h.getSubmission)
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	req := service.CreateSubmissionRequest{
		StudentName: r.FormValue("student_name"),
	}

	// The file is optional at this layer; its absence is reported by the
	// pipeline as a field error rather than a transport failure.
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		path, saveErr := h.saveUpload(file, header.Filename)
		if saveErr != nil {
			common.RespondWithError(w, http.StatusInternalServerError, "Failed to store upload: "+saveErr.Error())
			return
		}
		req.File = validate.FileRef{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Path:        path,
		}
	}

	submission, err := h.submissionService.Create(r.Context(), actor, chi.URLParam(r, "assignmentID"), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	// Uploads are stored under a fresh name; the original filename only
	// survives as a suffix for operators reading the directory.
	path := filepath.Join(h.uploadDir, fmt.Sprintf("%s-%s", uuid.NewString(), filepath.Base(filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	submissions, err := h.submissionService.ListForAssignment(r.Context(), actor, chi.URLParam(r, "assignmentID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	submission, err := h.submissionService.Get(r.Context(), actor, chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}
