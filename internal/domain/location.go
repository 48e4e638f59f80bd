package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// LocationKind enumerates the closed set of accepted location forms.
type LocationKind int

const (
	KindAddress LocationKind = iota
	KindPlaceID
	KindCoordinates
)

const placeIDPrefix = "place_id:"

// Location is a single canonicalized point-of-interest reference.
// Exactly one of Address, PlaceID, or Coords is meaningful, selected by Kind.
type Location struct {
	Kind    LocationKind
	Label   string
	Address string
	PlaceID string
	Coords  Coordinates
}

// CanonicalForm returns the normalized representation sent to the routing
// service and used for fingerprinting.
func (l Location) CanonicalForm() string {
	switch l.Kind {
	case KindPlaceID:
		return placeIDPrefix + l.PlaceID
	case KindCoordinates:
		return l.Coords.String()
	default:
		return l.Address
	}
}

// InvalidLocationFormatError identifies the offending element and its
// position when a location input cannot be canonicalized.
type InvalidLocationFormatError struct {
	Index  int
	Value  string
	Reason string
}

func (e *InvalidLocationFormatError) Error() string {
	return fmt.Sprintf("invalid location format at index %d (%q): %s", e.Index, e.Value, e.Reason)
}

// ParseLocation canonicalizes one decoded JSON value into a Location.
//
// Accepted forms:
//   - string: address, or "place_id:<id>" place identifier
//   - [lat, lng]: two-element numeric array
//   - {"lat": .., "lng": ..}: coordinate mapping (values numeric or numeric strings)
//   - {label: form}: single-entry mapping wrapping any of the above
//
// Anything outside this closed set is rejected.
func ParseLocation(index int, v any) (Location, error) {
	switch val := v.(type) {
	case string:
		return parseStringLocation(index, val)
	case []any:
		return parseCoordinatePair(index, val)
	case map[string]any:
		if isCoordinateMapping(val) {
			return parseCoordinateMapping(index, val)
		}
		return parseLabeledLocation(index, val)
	default:
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  fmt.Sprintf("%v", v),
			Reason: fmt.Sprintf("unsupported type %T", v),
		}
	}
}

func parseStringLocation(index int, s string) (Location, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Location{}, &InvalidLocationFormatError{Index: index, Value: s, Reason: "empty location string"}
	}

	if id, ok := strings.CutPrefix(trimmed, placeIDPrefix); ok {
		if strings.TrimSpace(id) == "" {
			return Location{}, &InvalidLocationFormatError{Index: index, Value: s, Reason: "empty place identifier"}
		}
		return Location{Kind: KindPlaceID, PlaceID: id, Label: SanitizeLabel(id)}, nil
	}

	// Bare Google place identifiers must carry the place_id: prefix or the
	// routing service treats them as street addresses.
	if strings.HasPrefix(trimmed, "ChI") {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  s,
			Reason: "place identifier must be prefixed with " + placeIDPrefix,
		}
	}

	return Location{Kind: KindAddress, Address: trimmed, Label: SanitizeLabel(trimmed)}, nil
}

func parseCoordinatePair(index int, arr []any) (Location, error) {
	if len(arr) != 2 {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  fmt.Sprintf("%v", arr),
			Reason: fmt.Sprintf("coordinate pair must have exactly 2 elements, got %d", len(arr)),
		}
	}

	lat, ok1 := toFloat(arr[0])
	lng, ok2 := toFloat(arr[1])
	if !ok1 || !ok2 {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  fmt.Sprintf("%v", arr),
			Reason: "coordinate pair values must be numeric",
		}
	}

	coords := Coordinates{Lat: lat, Lng: lng}
	if !coords.Valid() {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  coords.String(),
			Reason: "latitude or longitude out of range",
		}
	}

	return Location{Kind: KindCoordinates, Coords: coords, Label: SanitizeLabel(coords.String())}, nil
}

func parseCoordinateMapping(index int, m map[string]any) (Location, error) {
	latRaw, hasLat := m["lat"]
	lngRaw, hasLng := m["lng"]
	if !hasLat || !hasLng {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  fmt.Sprintf("%v", m),
			Reason: `coordinate mapping requires both "lat" and "lng"`,
		}
	}

	lat, ok1 := toFloat(latRaw)
	lng, ok2 := toFloat(lngRaw)
	if !ok1 || !ok2 {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  fmt.Sprintf("%v", m),
			Reason: "coordinate mapping values must be numeric",
		}
	}

	coords := Coordinates{Lat: lat, Lng: lng}
	if !coords.Valid() {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  coords.String(),
			Reason: "latitude or longitude out of range",
		}
	}

	return Location{Kind: KindCoordinates, Coords: coords, Label: SanitizeLabel(coords.String())}, nil
}

// parseLabeledLocation handles the {label: form} wrapper. The mapping must
// contain exactly one entry; multi-entry mappings are ambiguous. The caller
// chose the label, so its casing is kept as-is; only whitespace is collapsed.
func parseLabeledLocation(index int, m map[string]any) (Location, error) {
	if len(m) != 1 {
		return Location{}, &InvalidLocationFormatError{
			Index:  index,
			Value:  fmt.Sprintf("%v", m),
			Reason: fmt.Sprintf("labeled mapping must have exactly 1 entry, got %d", len(m)),
		}
	}

	for label, form := range m {
		loc, err := ParseLocation(index, form)
		if err != nil {
			return Location{}, err
		}
		loc.Label = CollapseLabel(label)
		return loc, nil
	}

	return Location{}, &InvalidLocationFormatError{Index: index, Value: fmt.Sprintf("%v", m), Reason: "empty mapping"}
}

// isCoordinateMapping distinguishes {"lat":..,"lng":..} from {label: form}.
// Presence of either coordinate key claims the mapping for the coordinate
// form so partial mappings fail validation instead of becoming labels.
func isCoordinateMapping(m map[string]any) bool {
	_, hasLat := m["lat"]
	_, hasLng := m["lng"]
	return hasLat || hasLng
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// SanitizeLabel standardizes a label auto-derived from a canonical form:
// title case, collapsed whitespace, "Unknown" when nothing usable remains.
// Explicit {label: form} labels go through CollapseLabel instead.
func SanitizeLabel(label string) string {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) == 0 {
		return "Unknown"
	}

	for i, f := range fields {
		r := []rune(f)
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}

// CollapseLabel normalizes a caller-supplied label without touching its
// casing: whitespace is collapsed, a blank label becomes "Unknown".
func CollapseLabel(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return "Unknown"
	}
	return strings.Join(fields, " ")
}
