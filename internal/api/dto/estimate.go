package dto

import "time"

type EstimateRequest struct {
	SellerPostalCode      string `json:"seller_postal_code"`
	SellerRegion          string `json:"seller_region"`
	DestinationPostalCode string `json:"destination_postal_code"`
}

type EstimateResponse struct {
	MinDays     int        `json:"min_days"`
	MaxDays     int        `json:"max_days"`
	AverageDays int        `json:"average_days"`
	Provider    string     `json:"provider"`
	Source      string     `json:"source"`
	Confidence  float64    `json:"confidence"`
	CachedAt    *time.Time `json:"cached_at,omitempty"`
	Fresh       bool       `json:"fresh,omitempty"`
	Serviceable bool       `json:"serviceable"`
}

type CacheStatsResponse struct {
	Total         int64   `json:"total"`
	Valid         int64   `json:"valid"`
	Expired       int64   `json:"expired"`
	HitRate       float64 `json:"hit_rate"`
	AvgConfidence float64 `json:"avg_confidence"`
	AvgDays       float64 `json:"avg_days"`
}

type EvictResponse struct {
	Removed int64 `json:"removed"`
}

type ReconcileResponse struct {
	Total      int    `json:"total"`
	Updated    int    `json:"updated"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	DurationMs int64  `json:"duration_ms"`
	Summary    string `json:"summary"`
}
