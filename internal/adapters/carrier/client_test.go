package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/domain"
)

func testConfig(baseURL string) config.CarrierConfig {
	return config.CarrierConfig{
		BaseURL:  baseURL,
		APIKey:   "test-key",
		ClientID: "test-client",
	}
}

func TestEstimateSuccess(t *testing.T) {
	var gotKey, gotClient string
	var gotBody estimateRequestBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotClient = r.Header.Get("X-Client-Id")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}

		km := 980.0
		_ = json.NewEncoder(w).Encode(estimateResponseBody{
			Success:         true,
			MinDays:         2,
			ExpectedDays:    3,
			MaxDays:         5,
			DistanceKm:      &km,
			ZoneType:        "metro",
			ServiceType:     "express",
			CODAvailable:    true,
			ConfidenceScore: 0.95,
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	out := client.Estimate(context.Background(), domain.EstimateRequest{
		OriginPostalCode:      "400001",
		DestinationPostalCode: "560001",
	})

	if !out.OK {
		t.Fatalf("outcome not OK: %s", out.Err)
	}
	if out.Source != domain.SourceAPI {
		t.Errorf("source = %q, want api", out.Source)
	}
	if out.Days.MinDays != 2 || out.Days.MaxDays != 5 || out.Days.AverageDays != 3 {
		t.Errorf("days = %+v, want {2 5 3}", out.Days)
	}
	if out.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", out.Confidence)
	}
	if out.ServiceTier != domain.TierExpress {
		t.Errorf("service tier = %q, want Express", out.ServiceTier)
	}
	if !out.CODAvailable {
		t.Error("cod_available not carried over")
	}

	if gotKey != "test-key" || gotClient != "test-client" {
		t.Errorf("credential headers = %q/%q", gotKey, gotClient)
	}
	if gotBody.Weight != 1 {
		t.Errorf("default weight = %v, want 1", gotBody.Weight)
	}
	if gotBody.ShipmentType != string(domain.ShipmentForward) {
		t.Errorf("default shipment type = %q, want FORWARD", gotBody.ShipmentType)
	}
}

func TestEstimateNormalizesDegenerateDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// min_days absent, expected above max: all must be repaired.
		_ = json.NewEncoder(w).Encode(estimateResponseBody{
			Success:      true,
			ExpectedDays: 9,
			MaxDays:      4,
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	out := client.Estimate(context.Background(), domain.EstimateRequest{
		OriginPostalCode:      "400001",
		DestinationPostalCode: "560001",
	})

	if !out.OK {
		t.Fatalf("outcome not OK: %s", out.Err)
	}
	if out.Days.MinDays < 1 {
		t.Errorf("min days = %d, want >= 1", out.Days.MinDays)
	}
	if out.Days.AverageDays < out.Days.MinDays || out.Days.AverageDays > out.Days.MaxDays {
		t.Errorf("average %d outside [%d,%d]", out.Days.AverageDays, out.Days.MinDays, out.Days.MaxDays)
	}
	if out.Confidence != 0.9 {
		t.Errorf("default confidence = %v, want 0.9", out.Confidence)
	}
}

func TestEstimateFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	out := client.Estimate(context.Background(), domain.EstimateRequest{
		OriginPostalCode:      "400001",
		DestinationPostalCode: "560001",
	})

	if !out.OK {
		t.Fatalf("carrier failure must not surface as a failed outcome: %s", out.Err)
	}
	if out.Source != domain.SourceFallback {
		t.Errorf("source = %q, want fallback", out.Source)
	}
	if out.Confidence != 0.6 {
		t.Errorf("fallback confidence = %v, want 0.6", out.Confidence)
	}
}

func TestEstimateFallbackBucketing(t *testing.T) {
	// Unconfigured client always answers from the zone-prefix
	// heuristic, which makes the bucketing directly observable.
	client := NewClient(config.CarrierConfig{BaseURL: "http://unused"})

	tests := []struct {
		origin, dest  string
		min, max, avg int
	}{
		{"400001", "411038", 2, 4, 3},  // same prefix (4 vs 4)
		{"400001", "560001", 3, 6, 4},  // prefix distance 1
		{"400001", "600001", 3, 6, 4},  // prefix distance 2
		{"110001", "682001", 5, 10, 7}, // prefix distance 5
	}

	for _, tc := range tests {
		for run := 0; run < 2; run++ {
			out := client.Estimate(context.Background(), domain.EstimateRequest{
				OriginPostalCode:      tc.origin,
				DestinationPostalCode: tc.dest,
			})
			if !out.OK || out.Source != domain.SourceFallback {
				t.Fatalf("%s->%s: outcome = %+v, want OK fallback", tc.origin, tc.dest, out)
			}
			if out.Days.MinDays != tc.min || out.Days.MaxDays != tc.max || out.Days.AverageDays != tc.avg {
				t.Errorf("%s->%s days = %+v, want {%d %d %d}",
					tc.origin, tc.dest, out.Days, tc.min, tc.max, tc.avg)
			}
		}
	}
}

func TestEstimateRejectsUnparseablePincode(t *testing.T) {
	client := NewClient(config.CarrierConfig{})

	out := client.Estimate(context.Background(), domain.EstimateRequest{
		OriginPostalCode:      "not-a-pincode",
		DestinationPostalCode: "560001",
	})

	if out.OK {
		t.Fatal("expected failed outcome for non-numeric pincode")
	}
	if out.Err == "" {
		t.Error("failed outcome must carry a reason")
	}
}

func TestCheckServiceabilityFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if !client.CheckServiceability(context.Background(), "560001") {
		t.Error("serviceability probe must fail open on remote failure")
	}
}

func TestCheckServiceabilityHonorsRemoteAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(serviceabilityResponseBody{Serviceable: false})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if client.CheckServiceability(context.Background(), "194101") {
		t.Error("expected unserviceable when the carrier says so")
	}
}
