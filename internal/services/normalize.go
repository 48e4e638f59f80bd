package services

import (
	"fmt"

	"distance-matrix-service/internal/domain"
)

// NormalizeLocations validates and canonicalizes one ordered location list
// (origins or destinations; role is only used in error messages). Length and
// order of the input are preserved exactly. Labels must be unique within the
// list; origin and destination label spaces are independent, so each role is
// normalized separately.
//
// Pure transformation: no I/O, no mutation of the input.
func NormalizeLocations(role string, inputs []any) ([]domain.Location, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("normalize %s: input must be non-empty", role)
	}

	locs := make([]domain.Location, 0, len(inputs))
	seen := make(map[string]int, len(inputs))

	for i, in := range inputs {
		loc, err := domain.ParseLocation(i, in)
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", role, err)
		}

		if prev, ok := seen[loc.Label]; ok {
			return nil, fmt.Errorf("normalize %s: %w", role, &domain.InvalidLocationFormatError{
				Index:  i,
				Value:  loc.Label,
				Reason: fmt.Sprintf("duplicate label (first used at index %d)", prev),
			})
		}
		seen[loc.Label] = i

		locs = append(locs, loc)
	}

	return locs, nil
}

// Labels projects the ordered label sequence of a normalized location list.
func Labels(locs []domain.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.Label
	}
	return out
}
