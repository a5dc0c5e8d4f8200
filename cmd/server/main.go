package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"delivery-estimate-service/internal/adapters/carrier"
	"delivery-estimate-service/internal/adapters/repositories"
	"delivery-estimate-service/internal/api"
	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/geo"
	"delivery-estimate-service/internal/services"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (Mongo/Postgres, carrier API) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	repo, err := repositories.OpenRepository(ctx, repositories.StoreConfig{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DB"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	})
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	carrierCfg := config.CarrierFromEnv()
	if !carrierCfg.Configured() {
		// Not fatal: the client degrades to zone heuristics, so the
		// service still answers with lower-confidence estimates.
		log.Println("carrier API credentials missing; serving zone-heuristic estimates only")
	}
	client := carrier.NewClient(carrierCfg)

	index := geo.NewIndex()
	svc := services.NewEstimateCache(index, repo, client)
	job := services.NewReconciler(index, repo, client)

	router := api.NewRouter(svc, job, client)

	// Timeouts are tuned for cold-cache estimate requests (carrier API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
