package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/cognicore/wals/pkg/wals/internalerr"
)

// row wraps one CSV record and collects coercion problems as it is read.
type row struct {
	cells []string
	warns []error
}

func newRow(cells []string, width int) *row {
	r := &row{cells: cells}
	if len(cells) < width {
		r.warns = append(r.warns, fmt.Errorf("%d of %d columns, padding: %w", len(cells), width, internalerr.ErrInvalidInput))
		padded := make([]string, width)
		copy(padded, cells)
		r.cells = padded
	}
	return r
}

func (r *row) str(i int) string {
	return r.cells[i]
}

func (r *row) int(i int, col string) int {
	s := strings.TrimSpace(r.cells[i])
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.warns = append(r.warns, fmt.Errorf("%s %q: %w", col, s, internalerr.ErrInvalidInput))
		return 0
	}
	return n
}

func (r *row) float(i int, col string) float64 {
	s := strings.TrimSpace(r.cells[i])
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.warns = append(r.warns, fmt.Errorf("%s %q: %w", col, s, internalerr.ErrInvalidInput))
		return 0
	}
	return f
}

// degrees reads a coordinate. Non-finite values and values beyond ±limit
// read as 0.
func (r *row) degrees(i int, col string, limit float64) float64 {
	f := r.float(i, col)
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > limit {
		r.warns = append(r.warns, fmt.Errorf("%s %v out of range: %w", col, f, internalerr.ErrInvalidInput))
		return 0
	}
	return f
}

// version reads the schema version column, which must fit in a byte.
func (r *row) version(i int) uint8 {
	n := r.int(i, "version")
	v, err := safecast.Conv[uint8](n)
	if err != nil {
		r.warns = append(r.warns, fmt.Errorf("version %d: %w", n, internalerr.ErrInvalidInput))
		return 0
	}
	return v
}
