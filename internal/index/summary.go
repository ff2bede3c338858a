package index

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Summary aggregates a result set for the pre-browser report.
type Summary struct {
	Count     int
	TotalRows int64
	TotalCols int64
	MeanRows  float64
	MeanCols  float64
}

// Summarize computes totals and means over idx.
func Summarize(idx *Index) Summary {
	s := Summary{Count: idx.Len()}
	for i := 0; i < s.Count; i++ {
		r := idx.Row(i)
		s.TotalRows += r.Rows
		s.TotalCols += r.Cols
	}
	if s.Count > 0 {
		s.MeanRows = float64(s.TotalRows) / float64(s.Count)
		s.MeanCols = float64(s.TotalCols) / float64(s.Count)
	}
	return s
}

// Write prints the summary block.
func (s Summary) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Found %d datasets matching the criteria:\n"+
			"Total datasets: %d\n"+
			"Total rows across all datasets: %s\n"+
			"Average rows per dataset: %.1f\n"+
			"Total columns across all datasets: %s\n"+
			"Average columns per dataset: %.1f\n",
		s.Count, s.Count,
		humanize.Comma(s.TotalRows), s.MeanRows,
		humanize.Comma(s.TotalCols), s.MeanCols,
	)
	return err
}
