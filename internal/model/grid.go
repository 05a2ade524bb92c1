package model

import (
	"fmt"
	"strconv"
	"strings"
)

// LinesPerRow is the number of source lines folded into one grid row.
//
// The "1-inch grid" is synthetic: a cell is a deterministic function of the
// line index only. No layout, raster or colour analysis is involved.
const LinesPerRow = 10

// DefaultDPI is the nominal resolution used for display-only pixel offsets
const DefaultDPI = 96

// GridPosition is a synthetic cell coordinate derived from a line index
type GridPosition struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GridFromLine maps a zero-based line index onto its grid cell
func GridFromLine(line int) GridPosition {
	return GridPosition{Row: line / LinesPerRow, Col: line % LinesPerRow}
}

// String renders the position as "(<col>in, <row>in)"
func (g GridPosition) String() string {
	return fmt.Sprintf("(%din, %din)", g.Col, g.Row)
}

// CellID returns a stable identifier such as "box_3_7"
func (g GridPosition) CellID() string {
	return fmt.Sprintf("box_%d_%d", g.Row, g.Col)
}

// PixelOffset returns the top-left corner of the cell at the given DPI.
// Display only; nothing is ever rasterised.
func (g GridPosition) PixelOffset(dpi int) (x, y int) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return g.Col * dpi, g.Row * dpi
}

// Adjacent reports whether two cells are equal or touch, diagonals included
func (g GridPosition) Adjacent(other GridPosition) bool {
	return abs(g.Row-other.Row) <= 1 && abs(g.Col-other.Col) <= 1
}

// ParseGridPosition parses the "(<col>in, <row>in)" label produced by String
func ParseGridPosition(label string) (GridPosition, error) {
	trimmed := strings.TrimSpace(label)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")

	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return GridPosition{}, fmt.Errorf("grid label %q: expected two components", label)
	}

	col, err := parseInches(parts[0])
	if err != nil {
		return GridPosition{}, fmt.Errorf("grid label %q: column: %w", label, err)
	}
	row, err := parseInches(parts[1])
	if err != nil {
		return GridPosition{}, fmt.Errorf("grid label %q: row: %w", label, err)
	}

	return GridPosition{Row: row, Col: col}, nil
}

// AdjacentLabels compares two serialized grid labels.
// Any label that fails to parse is treated as not adjacent.
func AdjacentLabels(a, b string) bool {
	pa, err := ParseGridPosition(a)
	if err != nil {
		return false
	}
	pb, err := ParseGridPosition(b)
	if err != nil {
		return false
	}
	return pa.Adjacent(pb)
}

func parseInches(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "in")
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative coordinate %d", v)
	}
	return v, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
