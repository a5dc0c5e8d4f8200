package handlers

import (
	"log"
	"net/http"

	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/services"
)

// ReconcileHandler triggers an immediate reconciliation run, the
// "run now" counterpart of the nightly schedule.
type ReconcileHandler struct {
	Job *services.Reconciler
}

// Run answers POST /reconcile. The run executes synchronously; the
// route space is small enough that a bounded request is preferable to
// a fire-and-forget job without a result.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := h.Job.Run(r.Context())
	if err != nil {
		log.Printf("reconcile run failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReconcileResponse{
		Total:      summary.Total,
		Updated:    summary.Updated,
		Failed:     summary.Failed,
		Skipped:    summary.Skipped,
		DurationMs: summary.Duration.Milliseconds(),
		Summary:    summary.String(),
	})
}
