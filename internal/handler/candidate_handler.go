package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"candidate-registry/internal/model"
	"candidate-registry/internal/service"
)

const candidateDeletedMessage = "Candidate deleted successfully"

type CandidateHandler struct {
	service *service.CandidateService
}

func NewCandidateHandler(service *service.CandidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, candidates)
}

func (h *CandidateHandler) Search(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, candidates)
}

func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(r)
	if !ok {
		writeError(w, r, model.ErrCandidateNotFound)
		return
	}

	candidate, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}

func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CandidateInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	candidate, err := h.service.Create(r.Context(), actorFromRequest(r), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, candidate)
}

func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(r)
	if !ok {
		writeError(w, r, model.ErrCandidateNotFound)
		return
	}

	var payload model.CandidateInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	candidate, err := h.service.Update(r.Context(), actorFromRequest(r), id, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}

func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(r)
	if !ok {
		writeError(w, r, model.ErrCandidateNotFound)
		return
	}

	if err := h.service.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: candidateDeletedMessage})
}

// candidateID parses the {id} path segment. Anything but a positive integer names no candidate.
func candidateID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
