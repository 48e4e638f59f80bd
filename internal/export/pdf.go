package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"distance-matrix-service/internal/domain"

	"github.com/phpdave11/gofpdf"
)

// WritePDF renders a matrix as a printable report: one table of distances
// in kilometers, sentinel cells shown as "-". Same naming and overwrite
// semantics as the CSV export.
func WritePDF(m *domain.DistanceMatrix, fp string, path string) error {
	if m == nil {
		return errors.New("export pdf: matrix is nil")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Distance Matrix", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Distance Matrix")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Fingerprint: %s", fp))
	pdf.Ln(10)

	colWidth := 250.0 / float64(1+len(m.DestinationLabels))
	rowHeight := 7.0

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colWidth, rowHeight, HeaderCell, "1", 0, "L", false, 0, "")
	for _, label := range m.DestinationLabels {
		pdf.CellFormat(colWidth, rowHeight, label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(rowHeight)

	pdf.SetFont("Helvetica", "", 9)
	for r, label := range m.OriginLabels {
		pdf.CellFormat(colWidth, rowHeight, label, "1", 0, "L", false, 0, "")
		for _, cell := range m.Cells[r] {
			value := "-"
			if cell.OK {
				value = FormatDistance(cell.DistanceKm)
			}
			pdf.CellFormat(colWidth, rowHeight, value, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("export pdf: render: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export pdf: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("export pdf: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("export pdf: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export pdf: close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export pdf: rename into place: %w", err)
	}

	return nil
}
