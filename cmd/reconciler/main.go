package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"delivery-estimate-service/internal/adapters/carrier"
	"delivery-estimate-service/internal/adapters/repositories"
	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/geo"
	"delivery-estimate-service/internal/services"

	"github.com/joho/godotenv"
)

// The reconciler keeps the estimate cache warm: it walks every
// hub-to-district lane, refreshes the expired and low-confidence ones
// against the carrier API, and leaves healthy records alone.
//
// With -now it performs a single run and exits; otherwise it schedules
// a nightly run at RECONCILE_HOUR in RECONCILE_TZ.
func main() {
	runNow := flag.Bool("now", false, "run one reconciliation pass and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

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
		log.Println("carrier API credentials missing; refreshing with zone-heuristic estimates")
	}

	job := services.NewReconciler(geo.NewIndex(), repo, carrier.NewClient(carrierCfg))

	if *runNow {
		summary, err := job.Run(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("reconciliation %s", summary)
		return
	}

	hour := scheduleHour()
	loc := scheduleLocation()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services.NewDailyScheduler(hour, loc).Run(ctx, func(ctx context.Context) error {
		summary, err := job.Run(ctx)
		if err != nil {
			return err
		}
		log.Printf("reconciliation %s", summary)
		return nil
	})
}

func scheduleHour() int {
	raw := config.Get("RECONCILE_HOUR", "3")
	hour, err := strconv.Atoi(raw)
	if err != nil || hour < 0 || hour > 23 {
		log.Fatalf("invalid RECONCILE_HOUR %q: want 0-23", raw)
	}
	return hour
}

func scheduleLocation() *time.Location {
	name := config.Get("RECONCILE_TZ", "Asia/Kolkata")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatalf("invalid RECONCILE_TZ %q: %v", name, err)
	}
	return loc
}
