package api

import (
	"net/http"

	"delivery-estimate-service/internal/api/handlers"
	"delivery-estimate-service/internal/ports"
	"delivery-estimate-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc *services.EstimateCache, job *services.Reconciler, carrier ports.CarrierClient) http.Handler {
	mux := http.NewServeMux()

	estimateHandler := &handlers.EstimateHandler{Service: svc, Carrier: carrier}
	cacheHandler := &handlers.CacheHandler{Service: svc}
	reconcileHandler := &handlers.ReconcileHandler{Job: job}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/estimates", estimateHandler.Estimate)
	mux.HandleFunc("/cache/stats", cacheHandler.Stats)
	mux.HandleFunc("/cache/evict", cacheHandler.Evict)
	mux.HandleFunc("/reconcile", reconcileHandler.Run)

	return loggingMiddleware(mux)
}
