package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"

	"github.com/zoobzio/clockz"
)

const (
	estimateTimeout = 10 * time.Second
	probeTimeout    = 5 * time.Second
)

// Client implements the CarrierClient port against the carrier
// serviceability HTTP API.
//
// It coordinates:
//   - Request normalization (default weight/shipment type)
//   - Credential handling via static headers
//   - Zone-prefix fallback estimates on any carrier failure
//   - Chunked batch resolution with inter-chunk pacing
//
// The client is safe for concurrent use.
type Client struct {
	cfg          config.CarrierConfig
	estimateHTTP *http.Client
	probeHTTP    *http.Client
	clock        clockz.Clock
	provider     string
}

func NewClient(cfg config.CarrierConfig) *Client {
	return &Client{
		cfg:          cfg,
		estimateHTTP: &http.Client{Timeout: estimateTimeout},
		probeHTTP:    &http.Client{Timeout: probeTimeout},
		clock:        clockz.RealClock,
		provider:     "carrier-api",
	}
}

// WithClock sets a custom clock for testing batch pacing.
func (c *Client) WithClock(clock clockz.Clock) *Client {
	c.clock = clock
	return c
}

type estimateRequestBody struct {
	OriginPincode      string  `json:"origin_pincode"`
	DestinationPincode string  `json:"destination_pincode"`
	Weight             float64 `json:"weight"`
	CODAmount          float64 `json:"cod_amount"`
	ShipmentType       string  `json:"shipment_type"`
}

type estimateResponseBody struct {
	Success         bool     `json:"success"`
	MinDays         int      `json:"min_days"`
	ExpectedDays    int      `json:"expected_days"`
	MaxDays         int      `json:"max_days"`
	DistanceKm      *float64 `json:"distance_km"`
	ZoneType        string   `json:"zone_type"`
	ServiceType     string   `json:"service_type"`
	CODAvailable    bool     `json:"cod_available"`
	ConfidenceScore float64  `json:"confidence_score"`
}

type serviceabilityResponseBody struct {
	Serviceable bool `json:"serviceable"`
}

// Estimate returns a delivery-day outcome for one lane.
//
// Ordinary carrier failures (timeout, non-2xx, malformed body) never
// surface as errors: the zone-prefix fallback answers instead, tagged
// Source=fallback with confidence 0.6. Only unanswerable input (a
// pincode the fallback cannot bucket) produces OK=false.
func (c *Client) Estimate(ctx context.Context, req domain.EstimateRequest) domain.EstimateOutcome {
	route := domain.Route{
		OriginPostalCode:      req.OriginPostalCode,
		DestinationPostalCode: req.DestinationPostalCode,
	}

	origin, err := parsePincode(req.OriginPostalCode)
	if err != nil {
		return failedOutcome(route, fmt.Sprintf("origin pincode: %v", err))
	}
	dest, err := parsePincode(req.DestinationPostalCode)
	if err != nil {
		return failedOutcome(route, fmt.Sprintf("destination pincode: %v", err))
	}

	if req.WeightKg <= 0 {
		req.WeightKg = 1
	}
	if req.ShipmentType == "" {
		req.ShipmentType = domain.ShipmentForward
	}

	// Without credentials every call would fail anyway; skip the
	// network round trip and answer from the fallback directly.
	if !c.cfg.Configured() {
		return fallbackOutcome(route, origin, dest)
	}

	body, err := c.fetchEstimate(ctx, req)
	if err != nil {
		log.Printf("carrier estimate failed origin=%s dest=%s err=%v",
			req.OriginPostalCode, req.DestinationPostalCode, err)
		return fallbackOutcome(route, origin, dest)
	}

	return c.normalize(route, body)
}

func (c *Client) fetchEstimate(ctx context.Context, req domain.EstimateRequest) (_ *estimateResponseBody, err error) {
	defer obs.Time(ctx, "carrier.estimate")(&err)

	payload := estimateRequestBody{
		OriginPincode:      req.OriginPostalCode,
		DestinationPincode: req.DestinationPostalCode,
		Weight:             req.WeightKg,
		CODAmount:          req.CODAmount,
		ShipmentType:       string(req.ShipmentType),
	}

	endpoint := c.cfg.BaseURL + "/v1/serviceability/estimate"
	resp, err := c.post(ctx, c.estimateHTTP, endpoint, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded estimateResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode estimate response: %w", err)
	}

	if !decoded.Success {
		return nil, fmt.Errorf("carrier reported failure for %s -> %s",
			req.OriginPostalCode, req.DestinationPostalCode)
	}

	return &decoded, nil
}

// normalize converts a raw carrier payload into a well-formed outcome:
// MinDays >= 1 and AverageDays clamped into [MinDays, MaxDays].
func (c *Client) normalize(route domain.Route, body *estimateResponseBody) domain.EstimateOutcome {
	minDays := body.MinDays
	if minDays < 1 {
		minDays = body.ExpectedDays
	}
	if minDays < 1 {
		minDays = 1
	}

	maxDays := body.MaxDays
	if maxDays < minDays {
		maxDays = minDays
	}

	avgDays := body.ExpectedDays
	if avgDays < minDays {
		avgDays = (minDays + maxDays) / 2
	}
	if avgDays > maxDays {
		avgDays = maxDays
	}

	confidence := body.ConfidenceScore
	if confidence <= 0 || confidence > 1 {
		confidence = 0.9
	}

	return domain.EstimateOutcome{
		Route: route,
		OK:    true,
		Days: domain.DayRange{
			MinDays:     minDays,
			MaxDays:     maxDays,
			AverageDays: avgDays,
			Provider:    c.provider,
		},
		DistanceKm:   body.DistanceKm,
		Zone:         domain.Zone(strings.ToUpper(body.ZoneType)),
		ServiceTier:  serviceTier(body.ServiceType),
		CODAvailable: body.CODAvailable,
		Confidence:   confidence,
		Source:       domain.SourceAPI,
	}
}

// CheckServiceability probes one pincode. It fails open: any remote
// failure reports the pincode as serviceable so a flaky carrier never
// blocks order placement.
func (c *Client) CheckServiceability(ctx context.Context, postalCode string) bool {
	if !c.cfg.Configured() {
		return true
	}

	endpoint := c.cfg.BaseURL + "/v1/serviceability/check/" + postalCode
	resp, err := c.get(ctx, c.probeHTTP, endpoint)
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	var decoded serviceabilityResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return true
	}

	return decoded.Serviceable
}

func serviceTier(serviceType string) domain.ServiceTier {
	switch strings.ToLower(serviceType) {
	case "express":
		return domain.TierExpress
	case "economy":
		return domain.TierEconomy
	default:
		return domain.TierStandard
	}
}
