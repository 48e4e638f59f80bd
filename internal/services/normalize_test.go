package services

import (
	"errors"
	"testing"

	"distance-matrix-service/internal/domain"
)

func TestNormalizeLocationsPreservesOrder(t *testing.T) {
	inputs := []any{
		"Rotterdam, Netherlands",
		"place_id:ChIJd7zN_thz54kRnr-lPAaywwo",
		[]any{53.5511, 9.9937},
		map[string]any{"Bremerhaven": "Bremerhaven, Germany"},
	}

	locs, err := NormalizeLocations("origins", inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(locs) != len(inputs) {
		t.Fatalf("got %d locations, want %d", len(locs), len(inputs))
	}
	if locs[0].Kind != domain.KindAddress {
		t.Fatalf("index 0 kind = %v", locs[0].Kind)
	}
	if locs[1].Kind != domain.KindPlaceID {
		t.Fatalf("index 1 kind = %v", locs[1].Kind)
	}
	if locs[2].Kind != domain.KindCoordinates {
		t.Fatalf("index 2 kind = %v", locs[2].Kind)
	}
	if locs[3].Label != "Bremerhaven" {
		t.Fatalf("index 3 label = %q", locs[3].Label)
	}
}

func TestNormalizeLocationsEmptyInput(t *testing.T) {
	if _, err := NormalizeLocations("origins", nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestNormalizeLocationsReportsOffendingIndex(t *testing.T) {
	_, err := NormalizeLocations("destinations", []any{"Hamburg, Germany", "", "Bremerhaven, Germany"})

	var ferr *domain.InvalidLocationFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected InvalidLocationFormatError, got %v", err)
	}
	if ferr.Index != 1 {
		t.Fatalf("index = %d, want 1", ferr.Index)
	}
}

func TestNormalizeLocationsRejectsDuplicateLabels(t *testing.T) {
	// Same sanitized label from two different spellings.
	_, err := NormalizeLocations("origins", []any{"hamburg", "HAMBURG"})

	var ferr *domain.InvalidLocationFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected InvalidLocationFormatError, got %v", err)
	}
	if ferr.Index != 1 {
		t.Fatalf("index = %d, want 1", ferr.Index)
	}
}

func TestLabels(t *testing.T) {
	locs, err := NormalizeLocations("origins", []any{"Rotterdam", "Antwerp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	labels := Labels(locs)
	if len(labels) != 2 || labels[0] != "Rotterdam" || labels[1] != "Antwerp" {
		t.Fatalf("labels = %v", labels)
	}
}
