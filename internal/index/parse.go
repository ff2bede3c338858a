package index

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header names of the published index.
const (
	ColPackage    = "Package"
	ColItem       = "Item"
	ColTitle      = "Title"
	ColRows       = "Rows"
	ColCols       = "Cols"
	ColNBinary    = "n_binary"
	ColNCharacter = "n_character"
	ColNFactor    = "n_factor"
	ColNLogical   = "n_logical"
	ColNNumeric   = "n_numeric"
	ColCSV        = "CSV"
	ColDoc        = "Doc"
)

// Columns lists every column the parser requires, in published order.
var Columns = []string{
	ColPackage, ColItem, ColTitle, ColRows, ColCols,
	ColNBinary, ColNCharacter, ColNFactor, ColNLogical, ColNNumeric,
	ColCSV, ColDoc,
}

// ErrMissingColumn is wrapped when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Parse reads a header-plus-rows CSV index. Columns are located by header
// name; extra columns are ignored. Empty and NA integer cells read as 0.
func Parse(r io.Reader) (*Index, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty index: no header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	for _, c := range Columns {
		if _, ok := pos[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := cr.FieldPos(0)
		p := rowParser{rec: rec, pos: pos, line: line}
		row := Row{
			Package:    p.str(ColPackage),
			Item:       p.str(ColItem),
			Title:      p.str(ColTitle),
			Rows:       p.integer(ColRows),
			Cols:       p.integer(ColCols),
			NBinary:    p.integer(ColNBinary),
			NCharacter: p.integer(ColNCharacter),
			NFactor:    p.integer(ColNFactor),
			NLogical:   p.integer(ColNLogical),
			NNumeric:   p.integer(ColNNumeric),
			CSV:        p.str(ColCSV),
			Doc:        p.str(ColDoc),
		}
		if p.err != nil {
			return nil, p.err
		}
		rows = append(rows, row)
	}

	return &Index{rows: rows}, nil
}

// rowParser extracts typed cells from one record and keeps the first error.
type rowParser struct {
	rec  []string
	pos  map[string]int
	line int
	err  error
}

func (p *rowParser) str(col string) string {
	return p.rec[p.pos[col]]
}

func (p *rowParser) integer(col string) int64 {
	s := strings.TrimSpace(p.str(col))
	if s == "" || s == "NA" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some exports write counts as 12.0
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == float64(int64(f)) {
			return int64(f)
		}
		if p.err == nil {
			p.err = fmt.Errorf("line %d: column %s: invalid integer %q", p.line, col, s)
		}
		return 0
	}
	return v
}
