package domain

import (
	"errors"
	"testing"
)

func TestParseLocationAddress(t *testing.T) {
	loc, err := ParseLocation(0, "  Rotterdam, Netherlands ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc.Kind != KindAddress {
		t.Fatalf("kind = %v, want KindAddress", loc.Kind)
	}
	if loc.CanonicalForm() != "Rotterdam, Netherlands" {
		t.Fatalf("canonical form = %q", loc.CanonicalForm())
	}
	if loc.Label != "Rotterdam, Netherlands" {
		t.Fatalf("label = %q", loc.Label)
	}
}

func TestParseLocationPlaceID(t *testing.T) {
	loc, err := ParseLocation(0, "place_id:ChIJd7zN_thz54kRnr-lPAaywwo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc.Kind != KindPlaceID {
		t.Fatalf("kind = %v, want KindPlaceID", loc.Kind)
	}
	if loc.CanonicalForm() != "place_id:ChIJd7zN_thz54kRnr-lPAaywwo" {
		t.Fatalf("canonical form = %q", loc.CanonicalForm())
	}
}

func TestParseLocationBarePlaceIDRejected(t *testing.T) {
	_, err := ParseLocation(2, "ChIJd7zN_thz54kRnr-lPAaywwo")

	var ferr *InvalidLocationFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected InvalidLocationFormatError, got %v", err)
	}
	if ferr.Index != 2 {
		t.Fatalf("index = %d, want 2", ferr.Index)
	}
}

func TestParseLocationCoordinatePair(t *testing.T) {
	loc, err := ParseLocation(0, []any{51.9225, 4.47917})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc.Kind != KindCoordinates {
		t.Fatalf("kind = %v, want KindCoordinates", loc.Kind)
	}
	if loc.CanonicalForm() != "51.9225,4.47917" {
		t.Fatalf("canonical form = %q", loc.CanonicalForm())
	}
}

func TestParseLocationCoordinateMapping(t *testing.T) {
	loc, err := ParseLocation(0, map[string]any{"lat": 53.5511, "lng": "9.9937"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc.Kind != KindCoordinates {
		t.Fatalf("kind = %v, want KindCoordinates", loc.Kind)
	}
	if loc.Coords.Lat != 53.5511 || loc.Coords.Lng != 9.9937 {
		t.Fatalf("coords = %v", loc.Coords)
	}
}

func TestParseLocationLabeledMapping(t *testing.T) {
	loc, err := ParseLocation(0, map[string]any{"Port of Rotterdam": []any{51.9225, 4.47917}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Explicit labels keep the caller's casing.
	if loc.Label != "Port of Rotterdam" {
		t.Fatalf("label = %q", loc.Label)
	}
	if loc.Kind != KindCoordinates {
		t.Fatalf("kind = %v, want KindCoordinates", loc.Kind)
	}
}

func TestParseLocationLabeledMappingCollapsesWhitespace(t *testing.T) {
	loc, err := ParseLocation(0, map[string]any{"  Port   of\tAntwerp ": "Antwerp, Belgium"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Label != "Port of Antwerp" {
		t.Fatalf("label = %q", loc.Label)
	}

	blank, err := ParseLocation(0, map[string]any{"   ": "Antwerp, Belgium"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blank.Label != "Unknown" {
		t.Fatalf("blank label = %q, want Unknown", blank.Label)
	}
}

func TestParseLocationRejections(t *testing.T) {
	cases := []struct {
		name  string
		input any
	}{
		{"empty string", "   "},
		{"empty place id", "place_id:  "},
		{"wrong pair length", []any{51.9225}},
		{"non numeric pair", []any{"north", "east"}},
		{"lat out of range", []any{91.0, 0.0}},
		{"lng out of range", []any{0.0, 181.0}},
		{"partial coordinate mapping", map[string]any{"lat": 51.9}},
		{"multi entry labeled mapping", map[string]any{"a": "x", "b": "y"}},
		{"unsupported type", 42},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseLocation(0, tc.input)

			var ferr *InvalidLocationFormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected InvalidLocationFormatError, got %v", err)
			}
		})
	}
}

func TestSanitizeLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  port   of rotterdam ", "Port Of Rotterdam"},
		{"HAMBURG", "Hamburg"},
		{"", "Unknown"},
		{"   ", "Unknown"},
	}

	for _, tc := range cases {
		if got := SanitizeLabel(tc.in); got != tc.want {
			t.Fatalf("SanitizeLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
