package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"delivery-estimate-service/internal/ports"
)

// PostgresEstimateRepository implements the EstimateRepository port on
// Postgres. Covered pincodes are stored as a JSONB array so membership
// checks stay in SQL.
type PostgresEstimateRepository struct {
	DB *sql.DB
}

func NewPostgresEstimateRepository(db *sql.DB) *PostgresEstimateRepository {
	return &PostgresEstimateRepository{DB: db}
}

func (r *PostgresEstimateRepository) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

const estimateColumns = `
	origin_hub, destination_district, covered_postal_codes,
	min_days, max_days, average_days, provider,
	distance_km, zone, service_tier, cod_available, weight_range,
	last_updated_at, expires_at, refresh_frequency_hint,
	api_call_count, confidence_score,
	delivery_count, average_delay_days, on_time_percent`

func scanEstimate(row interface{ Scan(...any) error }) (*domain.DeliveryEstimate, error) {
	var (
		rec         domain.DeliveryEstimate
		coveredJSON []byte
		distanceKm  sql.NullFloat64
		deliveries  sql.NullInt64
		avgDelay    sql.NullFloat64
		onTimePct   sql.NullFloat64
		zone, tier  string
	)

	err := row.Scan(
		&rec.OriginHub, &rec.DestinationDistrict, &coveredJSON,
		&rec.Estimate.MinDays, &rec.Estimate.MaxDays, &rec.Estimate.AverageDays, &rec.Estimate.Provider,
		&distanceKm, &zone, &tier, &rec.Logistics.CODAvailable, &rec.Logistics.WeightRange,
		&rec.Metadata.LastUpdatedAt, &rec.Metadata.ExpiresAt, &rec.Metadata.RefreshFrequencyHint,
		&rec.Metadata.APICallCount, &rec.Metadata.ConfidenceScore,
		&deliveries, &avgDelay, &onTimePct,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(coveredJSON, &rec.CoveredPostalCodes); err != nil {
		return nil, fmt.Errorf("decode covered_postal_codes: %w", err)
	}

	rec.Logistics.Zone = domain.Zone(zone)
	rec.Logistics.ServiceTier = domain.ServiceTier(tier)
	if distanceKm.Valid {
		rec.Logistics.DistanceKm = &distanceKm.Float64
	}
	if deliveries.Valid {
		rec.Performance = &domain.Performance{
			DeliveryCount:    deliveries.Int64,
			AverageDelayDays: avgDelay.Float64,
			OnTimePercent:    onTimePct.Float64,
		}
	}

	return &rec, nil
}

func (r *PostgresEstimateRepository) Find(ctx context.Context, originHub, destDistrict string) (_ *domain.DeliveryEstimate, err error) {
	defer obs.Time(ctx, "estimates.repo.Find")(&err)

	if r.DB == nil {
		return nil, errors.New("estimate repository: db is nil")
	}

	q := `SELECT ` + estimateColumns + `
	FROM delivery_estimates
	WHERE origin_hub = $1 AND destination_district = $2;`

	rec, err := scanEstimate(r.DB.QueryRowContext(ctx, q, originHub, destDistrict))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("find estimate: %w", err)
	}
	return rec, nil
}

func (r *PostgresEstimateRepository) FindByPostalCode(ctx context.Context, originHub, destPostalCode string) (_ *domain.DeliveryEstimate, err error) {
	defer obs.Time(ctx, "estimates.repo.FindByPostalCode")(&err)

	if r.DB == nil {
		return nil, errors.New("estimate repository: db is nil")
	}

	q := `SELECT ` + estimateColumns + `
	FROM delivery_estimates
	WHERE origin_hub = $1
		AND covered_postal_codes ? $2
		AND expires_at > NOW()
	LIMIT 1;`

	rec, err := scanEstimate(r.DB.QueryRowContext(ctx, q, originHub, destPostalCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("find estimate by pincode: %w", err)
	}
	return rec, nil
}

func (r *PostgresEstimateRepository) FindExpired(ctx context.Context) (_ []*domain.DeliveryEstimate, err error) {
	defer obs.Time(ctx, "estimates.repo.FindExpired")(&err)

	if r.DB == nil {
		return nil, errors.New("estimate repository: db is nil")
	}

	q := `SELECT ` + estimateColumns + `
	FROM delivery_estimates
	WHERE expires_at <= NOW()
	ORDER BY origin_hub, destination_district;`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find expired estimates: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.DeliveryEstimate, 0, 16)
	for rows.Next() {
		rec, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("find expired estimates: scan row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find expired estimates: row iteration: %w", err)
	}

	return out, nil
}

// Upsert creates or merges the record for rec's composite key.
// The conflict branch adds 1 to the stored api_call_count rather than
// writing the incoming value, so the counter stays monotonic under
// merges.
func (r *PostgresEstimateRepository) Upsert(ctx context.Context, rec *domain.DeliveryEstimate) (err error) {
	defer obs.Time(ctx, "estimates.repo.Upsert")(&err)

	if r.DB == nil {
		return errors.New("estimate repository: db is nil")
	}

	coveredJSON, err := json.Marshal(rec.CoveredPostalCodes)
	if err != nil {
		return fmt.Errorf("upsert estimate: encode covered_postal_codes: %w", err)
	}

	var deliveries sql.NullInt64
	var avgDelay, onTimePct sql.NullFloat64
	if rec.Performance != nil {
		deliveries = sql.NullInt64{Int64: rec.Performance.DeliveryCount, Valid: true}
		avgDelay = sql.NullFloat64{Float64: rec.Performance.AverageDelayDays, Valid: true}
		onTimePct = sql.NullFloat64{Float64: rec.Performance.OnTimePercent, Valid: true}
	}

	var distanceKm sql.NullFloat64
	if rec.Logistics.DistanceKm != nil {
		distanceKm = sql.NullFloat64{Float64: *rec.Logistics.DistanceKm, Valid: true}
	}

	q := `
	INSERT INTO delivery_estimates (
		origin_hub, destination_district, covered_postal_codes,
		min_days, max_days, average_days, provider,
		distance_km, zone, service_tier, cod_available, weight_range,
		last_updated_at, expires_at, refresh_frequency_hint,
		api_call_count, confidence_score,
		delivery_count, average_delay_days, on_time_percent
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17, $18, $19)
	ON CONFLICT (origin_hub, destination_district) DO UPDATE
	SET covered_postal_codes = EXCLUDED.covered_postal_codes,
		min_days = EXCLUDED.min_days,
		max_days = EXCLUDED.max_days,
		average_days = EXCLUDED.average_days,
		provider = EXCLUDED.provider,
		distance_km = EXCLUDED.distance_km,
		zone = EXCLUDED.zone,
		service_tier = EXCLUDED.service_tier,
		cod_available = EXCLUDED.cod_available,
		weight_range = EXCLUDED.weight_range,
		last_updated_at = EXCLUDED.last_updated_at,
		expires_at = EXCLUDED.expires_at,
		refresh_frequency_hint = EXCLUDED.refresh_frequency_hint,
		api_call_count = delivery_estimates.api_call_count + 1,
		confidence_score = EXCLUDED.confidence_score,
		delivery_count = COALESCE(EXCLUDED.delivery_count, delivery_estimates.delivery_count),
		average_delay_days = COALESCE(EXCLUDED.average_delay_days, delivery_estimates.average_delay_days),
		on_time_percent = COALESCE(EXCLUDED.on_time_percent, delivery_estimates.on_time_percent);
	`

	_, err = r.DB.ExecContext(ctx, q,
		rec.OriginHub, rec.DestinationDistrict, coveredJSON,
		rec.Estimate.MinDays, rec.Estimate.MaxDays, rec.Estimate.AverageDays, rec.Estimate.Provider,
		distanceKm, string(rec.Logistics.Zone), string(rec.Logistics.ServiceTier),
		rec.Logistics.CODAvailable, rec.Logistics.WeightRange,
		rec.Metadata.LastUpdatedAt, rec.Metadata.ExpiresAt, rec.Metadata.RefreshFrequencyHint,
		rec.Metadata.ConfidenceScore,
		deliveries, avgDelay, onTimePct,
	)
	if err != nil {
		return fmt.Errorf("upsert estimate %s|%s: %w", rec.OriginHub, rec.DestinationDistrict, err)
	}

	return nil
}

func (r *PostgresEstimateRepository) Refresh(ctx context.Context, originHub, destDistrict string, validDays int) (err error) {
	defer obs.Time(ctx, "estimates.repo.Refresh")(&err)

	if r.DB == nil {
		return errors.New("estimate repository: db is nil")
	}

	q := `
	UPDATE delivery_estimates
	SET last_updated_at = NOW(),
		expires_at = NOW() + make_interval(days => $3),
		api_call_count = api_call_count + 1
	WHERE origin_hub = $1 AND destination_district = $2;
	`

	res, err := r.DB.ExecContext(ctx, q, originHub, destDistrict, validDays)
	if err != nil {
		return fmt.Errorf("refresh estimate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("refresh estimate: rows affected: %w", err)
	}
	if affected == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (r *PostgresEstimateRepository) DeleteExpired(ctx context.Context) (_ int64, err error) {
	defer obs.Time(ctx, "estimates.repo.DeleteExpired")(&err)

	if r.DB == nil {
		return 0, errors.New("estimate repository: db is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM delivery_estimates WHERE expires_at <= NOW();`)
	if err != nil {
		return 0, fmt.Errorf("delete expired estimates: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired estimates: rows affected: %w", err)
	}

	return deleted, nil
}

func (r *PostgresEstimateRepository) Stats(ctx context.Context, now time.Time) (_ domain.CacheStats, err error) {
	defer obs.Time(ctx, "estimates.repo.Stats")(&err)

	if r.DB == nil {
		return domain.CacheStats{}, errors.New("estimate repository: db is nil")
	}

	q := `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE expires_at > $1),
		COALESCE(AVG(confidence_score), 0),
		COALESCE(AVG(average_days), 0)
	FROM delivery_estimates;
	`

	var stats domain.CacheStats
	err = r.DB.QueryRowContext(ctx, q, now).Scan(
		&stats.Total, &stats.Valid, &stats.AvgConfidence, &stats.AvgDays,
	)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("estimate stats: %w", err)
	}

	stats.Expired = stats.Total - stats.Valid
	if stats.Total > 0 {
		stats.HitRate = float64(stats.Valid) / float64(stats.Total)
	}

	return stats, nil
}
