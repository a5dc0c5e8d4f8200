package geo

import "testing"

func TestDistrictForPostalCode(t *testing.T) {
	idx := NewIndex()

	tests := []struct {
		postalCode string
		wantCode   string
	}{
		{"560001", "BANGALORE_URBAN"},
		{"400001", "MUMBAI_CITY"},
		{"400051", "MUMBAI_SUBURBAN"},
		{"194101", "LEH_DISTRICT"},
	}

	for _, tc := range tests {
		d := idx.DistrictForPostalCode(tc.postalCode)
		if d == nil {
			t.Fatalf("DistrictForPostalCode(%q) = nil, want %q", tc.postalCode, tc.wantCode)
		}
		if d.Code != tc.wantCode {
			t.Errorf("DistrictForPostalCode(%q) = %q, want %q", tc.postalCode, d.Code, tc.wantCode)
		}
	}
}

func TestDistrictForPostalCodeCoversEveryListedCode(t *testing.T) {
	idx := NewIndex()

	for _, d := range idx.AllDistricts() {
		for _, pc := range d.PostalCodes {
			got := idx.DistrictForPostalCode(pc)
			if got == nil {
				t.Fatalf("pincode %q listed by %q resolves to nil", pc, d.Code)
			}
			// Districts never share pincodes in the tables, so the
			// owner must round-trip exactly.
			if got.Code != d.Code {
				t.Errorf("pincode %q resolves to %q, want %q", pc, got.Code, d.Code)
			}
		}
	}
}

func TestDistrictForPostalCodeUnknown(t *testing.T) {
	idx := NewIndex()

	if d := idx.DistrictForPostalCode("999999"); d != nil {
		t.Errorf("unknown pincode resolved to %q, want nil", d.Code)
	}
}

func TestNearestHub(t *testing.T) {
	idx := NewIndex()

	// Exact hub pincode match wins over region ordering.
	h := idx.NearestHub("411001", "Maharashtra")
	if h == nil || h.Code != "PUNE_411001" {
		t.Fatalf("NearestHub exact match = %+v, want PUNE_411001", h)
	}

	// No exact match: first configured hub for the region.
	h = idx.NearestHub("400099", "Maharashtra")
	if h == nil || h.Code != "MUMBAI_400001" {
		t.Fatalf("NearestHub region match = %+v, want MUMBAI_400001", h)
	}

	// Unconfigured region returns nil, not an error.
	if h := idx.NearestHub("737101", "Sikkim"); h != nil {
		t.Errorf("NearestHub for unconfigured region = %q, want nil", h.Code)
	}
}

func TestDistrictsForRegion(t *testing.T) {
	idx := NewIndex()

	got := idx.DistrictsForRegion("Maharashtra")
	want := []string{"MUMBAI_CITY", "MUMBAI_SUBURBAN", "PUNE_DISTRICT", "NAGPUR_DISTRICT"}
	if len(got) != len(want) {
		t.Fatalf("DistrictsForRegion returned %d districts, want %d", len(got), len(want))
	}
	for i, d := range got {
		if d.Code != want[i] {
			t.Errorf("district[%d] = %q, want %q", i, d.Code, want[i])
		}
	}
}
