package model

// ScanResult aggregates every event classified in one document
type ScanResult struct {
	Issues         []Issue      `json:"issues"`
	Resolutions    []Resolution `json:"resolutions"`
	Dimensions     []Dimension  `json:"dimensions"`
	Annotations    []Annotation `json:"annotations"`
	LineCount      int          `json:"line_count"`
	TotalGridCells int          `json:"total_grid_cells"` // max(lines/10, 1) * 10, not an area
}

// EventCounts summarises a ScanResult per category
type EventCounts struct {
	Issues      int `json:"issues"`
	Resolutions int `json:"resolutions"`
	Dimensions  int `json:"dimensions"`
	Annotations int `json:"annotations"`
}

// Counts returns the number of events per category
func (s ScanResult) Counts() EventCounts {
	return EventCounts{
		Issues:      len(s.Issues),
		Resolutions: len(s.Resolutions),
		Dimensions:  len(s.Dimensions),
		Annotations: len(s.Annotations),
	}
}

// ByCategory returns the counts keyed by category, for metrics
func (c EventCounts) ByCategory() map[Category]int {
	return map[Category]int{
		CategoryIssue:      c.Issues,
		CategoryResolution: c.Resolutions,
		CategoryDimension:  c.Dimensions,
		CategoryAnnotation: c.Annotations,
	}
}

// GridCellsFor returns the rounded cell count for a document of n lines
func GridCellsFor(lineCount int) int {
	rows := lineCount / LinesPerRow
	if rows < 1 {
		rows = 1
	}
	return rows * LinesPerRow
}
