package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"distance-matrix-service/internal/domain"
	"distance-matrix-service/internal/platform/obs"
)

// Per-call limits imposed by the Distance Matrix API.
const (
	defaultMaxOrigins      = 25
	defaultMaxDestinations = 25
	defaultMaxElements     = 100
)

// ServiceError is any transport, auth, or quota failure from the routing
// service. It is surfaced to the caller unmodified; the core never retries.
type ServiceError struct {
	Status string // service-level status ("REQUEST_DENIED", ...), if any
	Err    error  // underlying transport error, if any
}

func (e *ServiceError) Error() string {
	if e.Status != "" {
		return "routing service: " + e.Status
	}
	return "routing service: " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client fetches all-pairs travel matrices from the Google Distance Matrix
// API. Grids larger than the per-call limits are split into sub-rectangles,
// fetched sequentially, and merged in row/column order. A single failed
// sub-call aborts the whole fetch; partial grids are never returned.
type Client struct {
	session *http.Client
	apiKey  string
	baseURL string

	maxOrigins      int
	maxDestinations int
	maxElements     int
}

func NewClient(apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("routing api key is empty")
	}

	return &Client{
		session:         &http.Client{Timeout: 15 * time.Second},
		apiKey:          apiKey,
		baseURL:         "https://maps.googleapis.com/maps/api/distancematrix/json",
		maxOrigins:      defaultMaxOrigins,
		maxDestinations: defaultMaxDestinations,
		maxElements:     defaultMaxElements,
	}, nil
}

// FetchMatrix retrieves the full origins x destinations grid as one logical
// response. Unresolved pairs remain as per-element statuses in the result;
// only transport-level failures abort the fetch.
func (c *Client) FetchMatrix(
	ctx context.Context,
	origins, destinations []domain.Location,
	opts domain.TravelOptions,
) (_ *domain.RawResponse, err error) {
	defer obs.Time(ctx, "routing.FetchMatrix")(&err)

	if len(origins) == 0 || len(destinations) == 0 {
		return nil, errors.New("fetch matrix: origins and destinations must be non-empty")
	}

	rows, cols := len(origins), len(destinations)

	merged := &domain.RawResponse{
		Status:               domain.StatusOK,
		OriginAddresses:      make([]string, rows),
		DestinationAddresses: make([]string, cols),
		Rows:                 make([]domain.Row, rows),
	}
	for i := range merged.Rows {
		merged.Rows[i].Elements = make([]domain.Element, cols)
	}

	oSize, dSize := c.chunkSizes(rows, cols)

	for oStart := 0; oStart < rows; oStart += oSize {
		oEnd := min(oStart+oSize, rows)
		for dStart := 0; dStart < cols; dStart += dSize {
			dEnd := min(dStart+dSize, cols)

			part, err := c.fetchChunk(ctx, origins[oStart:oEnd], destinations[dStart:dEnd], opts)
			if err != nil {
				return nil, err
			}

			copy(merged.OriginAddresses[oStart:oEnd], part.OriginAddresses)
			copy(merged.DestinationAddresses[dStart:dEnd], part.DestinationAddresses)
			for i, row := range part.Rows {
				copy(merged.Rows[oStart+i].Elements[dStart:dEnd], row.Elements)
			}
		}
	}

	merged.FetchedAt = time.Now().UTC()
	return merged, nil
}

// chunkSizes picks sub-rectangle dimensions that respect all three per-call
// limits. Both sizes are always at least 1.
func (c *Client) chunkSizes(rows, cols int) (int, int) {
	oSize := min(c.maxOrigins, rows)
	dSize := min(c.maxDestinations, cols)
	if oSize*dSize > c.maxElements {
		dSize = max(1, c.maxElements/oSize)
	}
	return oSize, dSize
}

// fetchChunk issues one API call for a sub-rectangle of the grid and
// validates the returned dimensions.
func (c *Client) fetchChunk(
	ctx context.Context,
	origins, destinations []domain.Location,
	opts domain.TravelOptions,
) (*domain.RawResponse, error) {
	req, err := c.newRequest(ctx, c.buildURL(origins, destinations, opts))
	if err != nil {
		return nil, fmt.Errorf("fetch chunk: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	var decoded domain.RawResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if decoded.Status != domain.StatusOK {
		return nil, &ServiceError{Status: decoded.Status}
	}

	if len(decoded.Rows) != len(origins) {
		return nil, fmt.Errorf(
			"matrix response has %d rows, expected %d",
			len(decoded.Rows), len(origins),
		)
	}
	for i, row := range decoded.Rows {
		if len(row.Elements) != len(destinations) {
			return nil, fmt.Errorf(
				"matrix response row %d has %d elements, expected %d",
				i, len(row.Elements), len(destinations),
			)
		}
	}

	return &decoded, nil
}

func (c *Client) buildURL(origins, destinations []domain.Location, opts domain.TravelOptions) string {
	q := url.Values{}
	q.Set("origins", joinForms(origins))
	q.Set("destinations", joinForms(destinations))
	q.Set("key", c.apiKey)

	setIfPresent(q, "mode", opts.Mode)
	setIfPresent(q, "language", opts.Language)
	setIfPresent(q, "avoid", opts.Avoid)
	setIfPresent(q, "units", opts.Units)
	setIfPresent(q, "departure_time", opts.DepartureTime)
	setIfPresent(q, "arrival_time", opts.ArrivalTime)
	setIfPresent(q, "transit_mode", opts.TransitMode)
	setIfPresent(q, "transit_routing_preference", opts.TransitRoutingPreference)
	setIfPresent(q, "traffic_model", opts.TrafficModel)
	setIfPresent(q, "region", opts.Region)

	return c.baseURL + "?" + q.Encode()
}

func setIfPresent(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func joinForms(locs []domain.Location) string {
	forms := make([]string, len(locs))
	for i, l := range locs {
		forms[i] = l.CanonicalForm()
	}
	return strings.Join(forms, "|")
}
