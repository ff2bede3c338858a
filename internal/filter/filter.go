// Package filter evaluates the free-text filter tokens of `rdata having`
// against a dataset index.
//
// A token is either a data-type keyword (binary, character, factor, logical,
// numeric) that keeps rows with at least one column of that type, or a
// comparison `column op value` over the rows or cols count. Tokens combine
// with logical AND, so their order never changes the result.
package filter

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"rdatasets/internal/index"
	"rdatasets/internal/logging"
)

// DataTypes lists the data-type keywords in display order.
var DataTypes = []string{"binary", "character", "factor", "logical", "numeric"}

// ComparisonColumns lists the columns a comparison may name.
var ComparisonColumns = []string{"rows", "cols"}

var dataTypeFields = map[string]func(index.Row) int64{
	"binary":    func(r index.Row) int64 { return r.NBinary },
	"character": func(r index.Row) int64 { return r.NCharacter },
	"factor":    func(r index.Row) int64 { return r.NFactor },
	"logical":   func(r index.Row) int64 { return r.NLogical },
	"numeric":   func(r index.Row) int64 { return r.NNumeric },
}

var comparisonFields = map[string]func(index.Row) int64{
	"rows": func(r index.Row) int64 { return r.Rows },
	"cols": func(r index.Row) int64 { return r.Cols },
}

// Two-character operators come first so ">=" never parses as ">".
// The whole trimmed token must match. Column names may use any letters or
// digits so non-ASCII names report an unknown column.
var comparisonPattern = regexp.MustCompile(`^([\p{L}\p{N}_]+)\s*(>=|<=|==|!=|>|<)\s*(-?\d+)$`)

// Op is a comparison operator.
type Op string

const (
	OpGt Op = ">"
	OpLt Op = "<"
	OpGe Op = ">="
	OpLe Op = "<="
	OpEq Op = "=="
	OpNe Op = "!="
)

// Ops lists every operator in display order.
var Ops = []Op{OpGt, OpLt, OpGe, OpLe, OpEq, OpNe}

func (o Op) apply(a, b int64) bool {
	switch o {
	case OpGt:
		return a > b
	case OpLt:
		return a < b
	case OpGe:
		return a >= b
	case OpLe:
		return a <= b
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	}
	return false
}

// Predicate is one parsed filter token.
type Predicate interface {
	Match(index.Row) bool
	String() string
}

// DataType keeps rows with at least one column of the named type.
type DataType struct {
	Name  string
	field func(index.Row) int64
}

func (d DataType) Match(r index.Row) bool { return d.field(r) > 0 }
func (d DataType) String() string         { return d.Name }

// Comparison compares the rows or cols count with a constant.
type Comparison struct {
	Column string
	Op     Op
	Value  int64
	field  func(index.Row) int64
}

func (c Comparison) Match(r index.Row) bool { return c.Op.apply(c.field(r), c.Value) }
func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %d", c.Column, c.Op, c.Value)
}

// Kind classifies a TokenError.
type Kind int

const (
	KindInvalidFormat Kind = iota
	KindUnknownColumn
)

var (
	ErrInvalidFormat = errors.New("invalid argument format")
	ErrUnknownColumn = errors.New("unknown column name")
)

// TokenError reports the first token that failed to parse.
type TokenError struct {
	Kind   Kind
	Token  string
	Column string // set for KindUnknownColumn
}

func (e *TokenError) Error() string {
	if e.Kind == KindUnknownColumn {
		return fmt.Sprintf("unknown column name: %s in %q. Supported: %s",
			e.Column, e.Token, strings.Join(ComparisonColumns, ", "))
	}
	return fmt.Sprintf("invalid argument format: %q. Expected format: 'column operator value' (e.g., 'rows > 100') or data type name (e.g., 'binary')", e.Token)
}

func (e *TokenError) Unwrap() error {
	if e.Kind == KindUnknownColumn {
		return ErrUnknownColumn
	}
	return ErrInvalidFormat
}

// ParseToken classifies a single token.
func ParseToken(token string) (Predicate, error) {
	tok := strings.TrimSpace(token)

	if field, ok := dataTypeFields[strings.ToLower(tok)]; ok {
		return DataType{Name: strings.ToLower(tok), field: field}, nil
	}

	m := comparisonPattern.FindStringSubmatch(tok)
	if m == nil {
		return nil, &TokenError{Kind: KindInvalidFormat, Token: tok}
	}

	col := strings.ToLower(m[1])
	field, ok := comparisonFields[col]
	if !ok {
		return nil, &TokenError{Kind: KindUnknownColumn, Token: tok, Column: m[1]}
	}

	return Comparison{Column: col, Op: Op(m[2]), Value: parseValue(m[3]), field: field}, nil
}

// parseValue reads a matched integer literal. The pattern guarantees digits,
// so the only failure is overflow, which saturates.
func parseValue(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return v
	}
	if strings.HasPrefix(s, "-") {
		return math.MinInt64
	}
	return math.MaxInt64
}

// Parse classifies tokens left to right and stops at the first invalid one.
func Parse(tokens ...string) ([]Predicate, error) {
	preds := make([]Predicate, 0, len(tokens))
	for _, tok := range tokens {
		p, err := ParseToken(tok)
		if err != nil {
			logging.Get(logging.CategoryFilter).Warn("rejected token %q: %v", tok, err)
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// Select keeps the rows matching every predicate. No predicates returns idx.
func Select(idx *index.Index, preds []Predicate) *index.Index {
	if len(preds) == 0 {
		return idx
	}
	out := idx.Filter(func(r index.Row) bool {
		for _, p := range preds {
			if !p.Match(r) {
				return false
			}
		}
		return true
	})
	logging.FilterDebug("%v kept %d of %d rows", preds, out.Len(), idx.Len())
	return out
}

// Apply parses tokens and selects the matching rows. Any invalid token
// aborts with no result.
func Apply(idx *index.Index, tokens ...string) (*index.Index, error) {
	preds, err := Parse(tokens...)
	if err != nil {
		return nil, err
	}
	return Select(idx, preds), nil
}
