package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"distance-matrix-service/internal/domain"
)

type BuildMatrixRequest struct {
	Origins      json.RawMessage `json:"origins"`
	Destinations json.RawMessage `json:"destinations"`
	Options      *OptionsRequest `json:"options"`
	WriteToDB    bool            `json:"write_to_db"`
	ExportCSV    bool            `json:"export_csv"`
	ExportPDF    bool            `json:"export_pdf"`
}

type OptionsRequest struct {
	Mode                     string          `json:"mode"`
	Language                 string          `json:"language"`
	Avoid                    string          `json:"avoid"`
	Units                    string          `json:"units"`
	DepartureTime            json.RawMessage `json:"departure_time"`
	ArrivalTime              json.RawMessage `json:"arrival_time"`
	TransitMode              string          `json:"transit_mode"`
	TransitRoutingPreference string          `json:"transit_routing_preference"`
	TrafficModel             string          `json:"traffic_model"`
	Region                   string          `json:"region"`
}

// DecodeForms turns a raw origins/destinations value into the ordered list
// of location forms the normalizer accepts. A single form (string, mapping,
// or a two-element numeric array read as one coordinate pair) is wrapped
// into a one-element list; any other array is treated as a list of forms.
func DecodeForms(field string, raw json.RawMessage) ([]any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s is required", field)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%s: invalid json: %w", field, err)
	}

	switch val := v.(type) {
	case []any:
		if isNumericPair(val) {
			return []any{val}, nil
		}
		return val, nil
	case string, map[string]any:
		return []any{val}, nil
	default:
		return nil, fmt.Errorf("%s: unsupported value %v", field, val)
	}
}

func isNumericPair(arr []any) bool {
	if len(arr) != 2 {
		return false
	}
	for _, e := range arr {
		if _, ok := e.(float64); !ok {
			return false
		}
	}
	return true
}

// ToDomain converts the request options into the immutable option value
// object. Travel times accept either the string "now" or unix seconds.
func (o *OptionsRequest) ToDomain() (domain.TravelOptions, error) {
	if o == nil {
		return domain.TravelOptions{}, nil
	}

	departure, err := decodeTravelTime("departure_time", o.DepartureTime)
	if err != nil {
		return domain.TravelOptions{}, err
	}
	arrival, err := decodeTravelTime("arrival_time", o.ArrivalTime)
	if err != nil {
		return domain.TravelOptions{}, err
	}

	return domain.TravelOptions{
		Mode:                     o.Mode,
		Language:                 o.Language,
		Avoid:                    o.Avoid,
		Units:                    o.Units,
		DepartureTime:            departure,
		ArrivalTime:              arrival,
		TransitMode:              o.TransitMode,
		TransitRoutingPreference: o.TransitRoutingPreference,
		TrafficModel:             o.TrafficModel,
		Region:                   o.Region,
	}, nil
}

func decodeTravelTime(field string, raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%s: invalid json: %w", field, err)
	}

	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		// Fractional timestamps would silently change the fingerprinted
		// option value, so they are rejected rather than truncated.
		if val != math.Trunc(val) {
			return "", fmt.Errorf("%s: unix seconds must be an integer", field)
		}
		return strconv.FormatInt(int64(val), 10), nil
	default:
		return "", fmt.Errorf("%s: must be a string or unix seconds", field)
	}
}

type CellResponse struct {
	Status      string   `json:"status"`
	DistanceKm  *float64 `json:"distance_km"`
	DurationMin *float64 `json:"duration_min"`
}

type MatrixResponse struct {
	Fingerprint       string           `json:"fingerprint"`
	Cached            bool             `json:"cached"`
	FetchedAt         time.Time        `json:"fetched_at"`
	OriginLabels      []string         `json:"origin_labels"`
	DestinationLabels []string         `json:"destination_labels"`
	Cells             [][]CellResponse `json:"cells"`
	CSVPath           string           `json:"csv_path,omitempty"`
	PDFPath           string           `json:"pdf_path,omitempty"`
}
