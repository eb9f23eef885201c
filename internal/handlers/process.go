package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/construbase/invoicepipe/internal/pipeline"
)

// processDriveFile runs the full ingestion pipeline for one stored file:
// duplicate check, fetch, AI extraction, reconciliation, persistence.
func (r *Router) processDriveFile(w http.ResponseWriter, req *http.Request) {
	var body pipeline.Request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.FileID == "" {
		respondError(w, http.StatusBadRequest, "file_id is required")
		return
	}

	outcome, err := r.orchestrator.Process(req.Context(), body)
	if err != nil {
		log.Printf("🛑 Processing failed for file %s: %v", body.FileID, err)
		switch {
		case errors.Is(err, pipeline.ErrFileNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, pipeline.ErrExtraction):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Internal processing error")
		}
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}
