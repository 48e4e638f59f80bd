package services

import (
	"errors"
	"fmt"

	"distance-matrix-service/internal/domain"
)

const (
	metersPerKm      = 1000.0
	secondsPerMinute = 60.0
)

// BuildMatrix transforms a raw all-pairs response into a labeled
// DistanceMatrix. Labels are applied positionally: originLabels[i] names row
// i, destinationLabels[j] names column j, so label counts must equal the
// response grid dimensions. Elements the service could not resolve become
// sentinel cells carrying the service status and no numbers.
//
// This function never calls the routing service and is independently
// testable against a fixed RawResponse fixture.
func BuildMatrix(resp *domain.RawResponse, originLabels, destinationLabels []string) (*domain.DistanceMatrix, error) {
	if resp == nil {
		return nil, errors.New("build matrix: response is nil")
	}

	rows, cols := resp.Dimensions()
	if len(originLabels) != rows {
		return nil, &domain.LabelCountMismatchError{Axis: "origin", Labels: len(originLabels), Grid: rows}
	}
	if len(destinationLabels) != cols {
		return nil, &domain.LabelCountMismatchError{Axis: "destination", Labels: len(destinationLabels), Grid: cols}
	}

	m := &domain.DistanceMatrix{
		OriginLabels:      originLabels,
		DestinationLabels: destinationLabels,
		Cells:             make([][]domain.Cell, rows),
	}

	for r, row := range resp.Rows {
		if len(row.Elements) != cols {
			return nil, fmt.Errorf("build matrix: row %d has %d elements, expected %d", r, len(row.Elements), cols)
		}

		cells := make([]domain.Cell, cols)
		for c, el := range row.Elements {
			cell, err := buildCell(el)
			if err != nil {
				return nil, fmt.Errorf("build matrix: element [%d][%d]: %w", r, c, err)
			}
			cells[c] = cell
		}
		m.Cells[r] = cells
	}

	return m, nil
}

// buildCell normalizes one response element: meters to kilometers, seconds
// to minutes. A non-OK status yields the missing-value sentinel, never a
// fabricated number.
func buildCell(el domain.Element) (domain.Cell, error) {
	if el.Status != domain.StatusOK {
		return domain.Cell{OK: false, Status: el.Status}, nil
	}

	if el.Distance == nil || el.Duration == nil {
		return domain.Cell{}, errors.New("status OK but distance or duration missing")
	}

	return domain.Cell{
		OK:          true,
		Status:      el.Status,
		DistanceKm:  el.Distance.Value / metersPerKm,
		DurationMin: el.Duration.Value / secondsPerMinute,
	}, nil
}
