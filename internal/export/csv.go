package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"distance-matrix-service/internal/domain"
)

// HeaderCell is the fixed name of the origin-label column.
const HeaderCell = "Matrix"

// WriteCSV serializes a matrix to path: header row [Matrix, dest labels...],
// one row per origin with distances in kilometers (one decimal). Sentinel
// cells are rendered empty, never as zero. The file is written to a temp
// name and renamed into place so a failed write leaves no partial file;
// re-exporting the same fingerprint overwrites rather than duplicates.
func WriteCSV(m *domain.DistanceMatrix, path string) error {
	if m == nil {
		return errors.New("export csv: matrix is nil")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export csv: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("export csv: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)

	header := make([]string, 0, 1+len(m.DestinationLabels))
	header = append(header, HeaderCell)
	header = append(header, m.DestinationLabels...)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("export csv: write header: %w", err)
	}

	for r, label := range m.OriginLabels {
		record := make([]string, 0, 1+len(m.DestinationLabels))
		record = append(record, label)
		for _, cell := range m.Cells[r] {
			record = append(record, formatCell(cell))
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("export csv: write row %d: %w", r, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("export csv: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export csv: close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export csv: rename into place: %w", err)
	}

	return nil
}

func formatCell(c domain.Cell) string {
	if !c.OK {
		return ""
	}
	return FormatDistance(c.DistanceKm)
}

// FormatDistance renders a kilometer value with one decimal ("491.0").
func FormatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64)
}

// ReadCSV parses a previously exported matrix file back into labels and
// cells. Durations are not round-trippable (the CSV carries distances only);
// read cells hold the distance and, for empty values, the sentinel.
func ReadCSV(path string) (*domain.DistanceMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: open %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: %q is empty", path)
	}

	header := records[0]
	if len(header) == 0 || header[0] != HeaderCell {
		return nil, fmt.Errorf("read csv: %q is not a matrix export", path)
	}

	m := &domain.DistanceMatrix{
		DestinationLabels: header[1:],
		OriginLabels:      make([]string, 0, len(records)-1),
		Cells:             make([][]domain.Cell, 0, len(records)-1),
	}

	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("read csv: row %d has %d fields, expected %d", i+1, len(record), len(header))
		}

		m.OriginLabels = append(m.OriginLabels, record[0])
		cells := make([]domain.Cell, 0, len(record)-1)
		for _, field := range record[1:] {
			if field == "" {
				cells = append(cells, domain.Cell{OK: false})
				continue
			}
			km, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("read csv: row %d: parse %q: %w", i+1, field, err)
			}
			cells = append(cells, domain.Cell{OK: true, Status: domain.StatusOK, DistanceKm: km})
		}
		m.Cells = append(m.Cells, cells)
	}

	return m, nil
}
