package dto

import (
	"encoding/json"
	"testing"
)

func TestDecodeFormsList(t *testing.T) {
	forms, err := DecodeForms("origins", json.RawMessage(`["Rotterdam", "Antwerp"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 2 || forms[0] != "Rotterdam" {
		t.Fatalf("forms = %v", forms)
	}
}

func TestDecodeFormsSingleString(t *testing.T) {
	forms, err := DecodeForms("origins", json.RawMessage(`"Rotterdam"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 1 || forms[0] != "Rotterdam" {
		t.Fatalf("forms = %v", forms)
	}
}

// A two-element numeric array reads as one coordinate pair, not a
// two-location list.
func TestDecodeFormsCoordinatePair(t *testing.T) {
	forms, err := DecodeForms("origins", json.RawMessage(`[51.9225, 4.47917]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 1 {
		t.Fatalf("forms = %v, want single coordinate pair", forms)
	}
	pair, ok := forms[0].([]any)
	if !ok || len(pair) != 2 {
		t.Fatalf("forms[0] = %v", forms[0])
	}
}

func TestDecodeFormsMixedArrayIsList(t *testing.T) {
	forms, err := DecodeForms("origins", json.RawMessage(`["Rotterdam", [51.9225, 4.47917]]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("forms = %v, want 2 entries", forms)
	}
}

func TestDecodeFormsRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing", ""},
		{"number", "42"},
		{"bool", "true"},
		{"bad json", "{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeForms("origins", json.RawMessage(tc.raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOptionsToDomain(t *testing.T) {
	var nilOpts *OptionsRequest
	opts, err := nilOpts.ToDomain()
	if err != nil {
		t.Fatalf("nil options: %v", err)
	}
	if opts.Mode != "" {
		t.Fatalf("nil options produced mode %q", opts.Mode)
	}

	req := &OptionsRequest{
		Mode:          "transit",
		ArrivalTime:   json.RawMessage(`1767225600`),
		DepartureTime: json.RawMessage(`null`),
	}
	opts, err = req.ToDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.ArrivalTime != "1767225600" {
		t.Fatalf("arrival_time = %q", opts.ArrivalTime)
	}
	if opts.DepartureTime != "" {
		t.Fatalf("departure_time = %q", opts.DepartureTime)
	}

	bad := &OptionsRequest{DepartureTime: json.RawMessage(`{"at": 1}`)}
	if _, err := bad.ToDomain(); err == nil {
		t.Fatal("expected error for object travel time")
	}
}

func TestOptionsToDomainRejectsFractionalTimestamp(t *testing.T) {
	req := &OptionsRequest{DepartureTime: json.RawMessage(`1767225600.9`)}
	if _, err := req.ToDomain(); err == nil {
		t.Fatal("expected error for fractional unix seconds")
	}

	whole := &OptionsRequest{DepartureTime: json.RawMessage(`1767225600`)}
	opts, err := whole.ToDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DepartureTime != "1767225600" {
		t.Fatalf("departure_time = %q", opts.DepartureTime)
	}
}
