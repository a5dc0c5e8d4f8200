package repositories

import (
	"context"
	"database/sql"
	"errors"

	platformdb "delivery-estimate-service/internal/platform/db"
	"delivery-estimate-service/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var errStoreUnavailable = errors.New("estimate store unavailable")

// StoreConfig selects the estimate cache backend. MongoURI takes
// precedence when both backends are configured; the document store is
// the primary deployment shape and Postgres the fallback.
type StoreConfig struct {
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
}

// OpenRepository connects the configured backend and returns the
// estimate repository bound to it.
func OpenRepository(ctx context.Context, cfg StoreConfig) (ports.EstimateRepository, error) {
	if cfg.MongoURI != "" {
		client, err := platformdb.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}

		dbName := cfg.MongoDatabase
		if dbName == "" {
			dbName = "delivery_estimates"
		}
		return NewMongoEstimateRepository(client, dbName, "delivery_estimates"), nil
	}

	if cfg.DatabaseURL != "" {
		db, err := platformdb.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := InitSchema(db); err != nil {
			closeDB(db)
			return nil, err
		}
		return NewPostgresEstimateRepository(db), nil
	}

	return nil, errors.New("open repository: neither MONGO_URI nor DATABASE_URL configured")
}

func closeDB(db *sql.DB) { _ = db.Close() }
