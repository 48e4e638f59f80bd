package domain

import "time"

// Element status values returned by the routing service.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
	StatusNotFound    = "NOT_FOUND"
)

// TravelValue is a single metric as returned by the routing service:
// meters for distances, seconds for durations.
type TravelValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text,omitempty"`
}

// Element is one origin->destination cell of the raw response. Distance and
// Duration are nil unless Status is OK.
type Element struct {
	Status   string       `json:"status"`
	Distance *TravelValue `json:"distance,omitempty"`
	Duration *TravelValue `json:"duration,omitempty"`
}

type Row struct {
	Elements []Element `json:"elements"`
}

// RawResponse is the unmodified all-pairs result for one fingerprint, plus
// the UTC fetch timestamp appended before archiving. Immutable once stored.
type RawResponse struct {
	Status               string    `json:"status"`
	OriginAddresses      []string  `json:"origin_addresses"`
	DestinationAddresses []string  `json:"destination_addresses"`
	Rows                 []Row     `json:"rows"`
	FetchedAt            time.Time `json:"request_time_iso"`
}

// Dimensions returns (rows, columns) of the response grid. Columns are taken
// from the destination address list; rows from the row list.
func (r *RawResponse) Dimensions() (int, int) {
	return len(r.Rows), len(r.DestinationAddresses)
}
