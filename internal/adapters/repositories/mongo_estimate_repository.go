package repositories

import (
	"context"
	"fmt"
	"time"

	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEstimateRepository implements the EstimateRepository port on a
// MongoDB collection. Records are identified by the compound
// (origin_hub, destination_district) filter; all writes are upserts
// against that filter.
type MongoEstimateRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewMongoEstimateRepository(client *mongo.Client, database, collection string) *MongoEstimateRepository {
	return &MongoEstimateRepository{
		client:     client,
		database:   database,
		collection: collection,
	}
}

func (r *MongoEstimateRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Close disconnects the underlying MongoDB client.
func (r *MongoEstimateRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

type estimateDoc struct {
	OriginHub           string          `bson:"origin_hub"`
	DestinationDistrict string          `bson:"destination_district"`
	CoveredPostalCodes  []string        `bson:"covered_postal_codes"`
	Estimate            dayRangeDoc     `bson:"estimate"`
	Logistics           logisticsDoc    `bson:"logistics"`
	Metadata            metadataDoc     `bson:"metadata"`
	Performance         *performanceDoc `bson:"performance,omitempty"`
}

type dayRangeDoc struct {
	MinDays     int    `bson:"min_days"`
	MaxDays     int    `bson:"max_days"`
	AverageDays int    `bson:"average_days"`
	Provider    string `bson:"provider"`
}

type logisticsDoc struct {
	DistanceKm   *float64 `bson:"distance_km,omitempty"`
	Zone         string   `bson:"zone,omitempty"`
	ServiceTier  string   `bson:"service_tier"`
	CODAvailable bool     `bson:"cod_available"`
	WeightRange  string   `bson:"weight_range,omitempty"`
}

type metadataDoc struct {
	LastUpdatedAt        time.Time `bson:"last_updated_at"`
	ExpiresAt            time.Time `bson:"expires_at"`
	RefreshFrequencyHint string    `bson:"refresh_frequency_hint,omitempty"`
	APICallCount         int64     `bson:"api_call_count"`
	ConfidenceScore      float64   `bson:"confidence_score"`
}

type performanceDoc struct {
	DeliveryCount    int64   `bson:"delivery_count"`
	AverageDelayDays float64 `bson:"average_delay_days"`
	OnTimePercent    float64 `bson:"on_time_percent"`
}

func toDoc(rec *domain.DeliveryEstimate) estimateDoc {
	doc := estimateDoc{
		OriginHub:           rec.OriginHub,
		DestinationDistrict: rec.DestinationDistrict,
		CoveredPostalCodes:  rec.CoveredPostalCodes,
		Estimate: dayRangeDoc{
			MinDays:     rec.Estimate.MinDays,
			MaxDays:     rec.Estimate.MaxDays,
			AverageDays: rec.Estimate.AverageDays,
			Provider:    rec.Estimate.Provider,
		},
		Logistics: logisticsDoc{
			DistanceKm:   rec.Logistics.DistanceKm,
			Zone:         string(rec.Logistics.Zone),
			ServiceTier:  string(rec.Logistics.ServiceTier),
			CODAvailable: rec.Logistics.CODAvailable,
			WeightRange:  rec.Logistics.WeightRange,
		},
		Metadata: metadataDoc{
			LastUpdatedAt:        rec.Metadata.LastUpdatedAt,
			ExpiresAt:            rec.Metadata.ExpiresAt,
			RefreshFrequencyHint: rec.Metadata.RefreshFrequencyHint,
			APICallCount:         rec.Metadata.APICallCount,
			ConfidenceScore:      rec.Metadata.ConfidenceScore,
		},
	}
	if rec.Performance != nil {
		doc.Performance = &performanceDoc{
			DeliveryCount:    rec.Performance.DeliveryCount,
			AverageDelayDays: rec.Performance.AverageDelayDays,
			OnTimePercent:    rec.Performance.OnTimePercent,
		}
	}
	return doc
}

func fromDoc(doc *estimateDoc) *domain.DeliveryEstimate {
	rec := &domain.DeliveryEstimate{
		OriginHub:           doc.OriginHub,
		DestinationDistrict: doc.DestinationDistrict,
		CoveredPostalCodes:  doc.CoveredPostalCodes,
		Estimate: domain.DayRange{
			MinDays:     doc.Estimate.MinDays,
			MaxDays:     doc.Estimate.MaxDays,
			AverageDays: doc.Estimate.AverageDays,
			Provider:    doc.Estimate.Provider,
		},
		Logistics: domain.Logistics{
			DistanceKm:   doc.Logistics.DistanceKm,
			Zone:         domain.Zone(doc.Logistics.Zone),
			ServiceTier:  domain.ServiceTier(doc.Logistics.ServiceTier),
			CODAvailable: doc.Logistics.CODAvailable,
			WeightRange:  doc.Logistics.WeightRange,
		},
		Metadata: domain.Metadata{
			LastUpdatedAt:        doc.Metadata.LastUpdatedAt,
			ExpiresAt:            doc.Metadata.ExpiresAt,
			RefreshFrequencyHint: doc.Metadata.RefreshFrequencyHint,
			APICallCount:         doc.Metadata.APICallCount,
			ConfidenceScore:      doc.Metadata.ConfidenceScore,
		},
	}
	if doc.Performance != nil {
		rec.Performance = &domain.Performance{
			DeliveryCount:    doc.Performance.DeliveryCount,
			AverageDelayDays: doc.Performance.AverageDelayDays,
			OnTimePercent:    doc.Performance.OnTimePercent,
		}
	}
	return rec
}

func routeFilter(originHub, destDistrict string) bson.M {
	return bson.M{"origin_hub": originHub, "destination_district": destDistrict}
}

// Find returns the record for a route key, or ports.ErrNotFound.
func (r *MongoEstimateRepository) Find(ctx context.Context, originHub, destDistrict string) (*domain.DeliveryEstimate, error) {
	var doc estimateDoc
	err := r.coll().FindOne(ctx, routeFilter(originHub, destDistrict)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("find estimate: %w", err)
	}
	return fromDoc(&doc), nil
}

// FindByPostalCode matches an unexpired record covering the pincode.
func (r *MongoEstimateRepository) FindByPostalCode(ctx context.Context, originHub, destPostalCode string) (*domain.DeliveryEstimate, error) {
	filter := bson.M{
		"origin_hub":           originHub,
		"covered_postal_codes": destPostalCode,
		"metadata.expires_at":  bson.M{"$gt": time.Now()},
	}

	var doc estimateDoc
	err := r.coll().FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("find estimate by pincode: %w", err)
	}
	return fromDoc(&doc), nil
}

// FindExpired returns every record whose expiry has passed.
func (r *MongoEstimateRepository) FindExpired(ctx context.Context) ([]*domain.DeliveryEstimate, error) {
	filter := bson.M{"metadata.expires_at": bson.M{"$lte": time.Now()}}

	cursor, err := r.coll().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find expired estimates: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []estimateDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expired estimates: %w", err)
	}

	out := make([]*domain.DeliveryEstimate, 0, len(docs))
	for i := range docs {
		out = append(out, fromDoc(&docs[i]))
	}
	return out, nil
}

// Upsert creates or merges the record for rec's composite key.
//
// Merged fields use dotted $set paths so the stored api_call_count is
// only ever touched by the additive $inc; a merge must never reset
// the counter.
func (r *MongoEstimateRepository) Upsert(ctx context.Context, rec *domain.DeliveryEstimate) error {
	doc := toDoc(rec)

	update := bson.M{
		"$set": bson.M{
			"covered_postal_codes":            doc.CoveredPostalCodes,
			"estimate":                        doc.Estimate,
			"logistics":                       doc.Logistics,
			"metadata.last_updated_at":        doc.Metadata.LastUpdatedAt,
			"metadata.expires_at":             doc.Metadata.ExpiresAt,
			"metadata.refresh_frequency_hint": doc.Metadata.RefreshFrequencyHint,
			"metadata.confidence_score":       doc.Metadata.ConfidenceScore,
		},
		"$inc": bson.M{"metadata.api_call_count": 1},
		"$setOnInsert": bson.M{
			"origin_hub":           doc.OriginHub,
			"destination_district": doc.DestinationDistrict,
		},
	}
	if doc.Performance != nil {
		update["$set"].(bson.M)["performance"] = doc.Performance
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.coll().UpdateOne(ctx, routeFilter(rec.OriginHub, rec.DestinationDistrict), update, opts)
	if err != nil {
		return fmt.Errorf("upsert estimate %s: %w", rec.OriginHub+"|"+rec.DestinationDistrict, err)
	}
	return nil
}

// Refresh extends a record's validity window without touching the
// estimate payload.
func (r *MongoEstimateRepository) Refresh(ctx context.Context, originHub, destDistrict string, validDays int) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"metadata.last_updated_at": now,
			"metadata.expires_at":      now.AddDate(0, 0, validDays),
		},
		"$inc": bson.M{"metadata.api_call_count": 1},
	}

	res, err := r.coll().UpdateOne(ctx, routeFilter(originHub, destDistrict), update)
	if err != nil {
		return fmt.Errorf("refresh estimate: %w", err)
	}
	if res.MatchedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// DeleteExpired removes all expired records.
func (r *MongoEstimateRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.coll().DeleteMany(ctx, bson.M{"metadata.expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("delete expired estimates: %w", err)
	}
	return res.DeletedCount, nil
}

// Stats aggregates cache-wide counters in a single pipeline pass.
func (r *MongoEstimateRepository) Stats(ctx context.Context, now time.Time) (domain.CacheStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"valid": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$gt": bson.A{"$metadata.expires_at", now}}, 1, 0},
			}},
			"avg_confidence": bson.M{"$avg": "$metadata.confidence_score"},
			"avg_days":       bson.M{"$avg": "$estimate.average_days"},
		}}},
	}

	cursor, err := r.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("aggregate estimate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total         int64   `bson:"total"`
		Valid         int64   `bson:"valid"`
		AvgConfidence float64 `bson:"avg_confidence"`
		AvgDays       float64 `bson:"avg_days"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return domain.CacheStats{}, fmt.Errorf("decode estimate stats: %w", err)
	}

	if len(rows) == 0 {
		return domain.CacheStats{}, nil
	}

	row := rows[0]
	stats := domain.CacheStats{
		Total:         row.Total,
		Valid:         row.Valid,
		Expired:       row.Total - row.Valid,
		AvgConfidence: row.AvgConfidence,
		AvgDays:       row.AvgDays,
	}
	if stats.Total > 0 {
		stats.HitRate = float64(stats.Valid) / float64(stats.Total)
	}
	return stats, nil
}
