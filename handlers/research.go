package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"mediascout/models"
)

// researchService is the engine surface the HTTP layer depends on.
type researchService interface {
	Research(context.Context, models.ResearchRequest) (any, error)
}

// ResearchHandler owns the research endpoints. Request validation happens
// here; the engine below assumes required fields are present.
type ResearchHandler struct {
	svc researchService
}

func NewResearchHandler(svc researchService) *ResearchHandler {
	return &ResearchHandler{svc: svc}
}

// Register mounts the research routes on the router.
func (h *ResearchHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/research/{kind}", h.Research).Methods(http.MethodPost)
}

// Research handles POST /api/research/{kind} with the request body carrying
// the entity's identifying fields.
func (h *ResearchHandler) Research(w http.ResponseWriter, r *http.Request) {
	kind := models.NormalizeKind(mux.Vars(r)["kind"])
	if kind == "" {
		writeError(w, http.StatusNotFound, "unknown research kind")
		return
	}

	var req models.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Kind = kind

	if !req.Validate() {
		writeError(w, http.StatusBadRequest, "missing required fields for "+string(kind))
		return
	}

	record, err := h.svc.Research(r.Context(), req)
	if err != nil {
		// Only a contract violation reaches here; provider failures never do.
		log.Printf("[handlers] research %s %q failed: %v", req.Kind, req.Title, err)
		writeError(w, http.StatusInternalServerError, "research failed")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[handlers] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
