package handlers

import (
	"log"
	"net/http"

	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/services"
)

// CacheHandler exposes cache observability and maintenance endpoints.
type CacheHandler struct {
	Service *services.EstimateCache
}

// Stats answers GET /cache/stats with the aggregate cache health view.
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		log.Printf("cache stats failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CacheStatsResponse{
		Total:         stats.Total,
		Valid:         stats.Valid,
		Expired:       stats.Expired,
		HitRate:       stats.HitRate,
		AvgConfidence: stats.AvgConfidence,
		AvgDays:       stats.AvgDays,
	})
}

// Evict answers POST /cache/evict, sweeping expired records.
func (h *CacheHandler) Evict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	removed, err := h.Service.EvictExpired(r.Context())
	if err != nil {
		log.Printf("cache eviction failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EvictResponse{Removed: removed})
}
