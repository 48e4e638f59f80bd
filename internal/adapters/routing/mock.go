package routing

import (
	"context"

	"distance-matrix-service/internal/domain"
)

// MockMatrixProvider returns a fixed response for pipeline and service tests.
type MockMatrixProvider struct {
	Response *domain.RawResponse
	Err      error
	Calls    int
}

func (m *MockMatrixProvider) FetchMatrix(
	ctx context.Context,
	origins, destinations []domain.Location,
	opts domain.TravelOptions,
) (*domain.RawResponse, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}
