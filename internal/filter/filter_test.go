package filter

import (
	"errors"
	"math"
	"testing"

	"rdatasets/internal/index"
	"rdatasets/internal/index/indextest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, tokens ...string) *index.Index {
	t.Helper()
	out, err := Apply(indextest.Fixture(), tokens...)
	require.NoError(t, err, "tokens %q", tokens)
	return out
}

func TestApply_NoTokensIsIdentity(t *testing.T) {
	idx := indextest.Fixture()
	out, err := Apply(idx)
	require.NoError(t, err)
	if diff := cmp.Diff(idx.Rows(), out.Rows()); diff != "" {
		t.Errorf("unfiltered result differs (-want +got):\n%s", diff)
	}
}

func TestApply_DataTypes(t *testing.T) {
	fields := map[string]func(index.Row) int64{
		"binary":    func(r index.Row) int64 { return r.NBinary },
		"character": func(r index.Row) int64 { return r.NCharacter },
		"factor":    func(r index.Row) int64 { return r.NFactor },
		"logical":   func(r index.Row) int64 { return r.NLogical },
		"numeric":   func(r index.Row) int64 { return r.NNumeric },
	}
	wantLen := map[string]int{"binary": 4, "character": 3, "factor": 9, "logical": 1, "numeric": 13}

	for _, dt := range DataTypes {
		t.Run(dt, func(t *testing.T) {
			out := apply(t, dt)
			assert.Equal(t, wantLen[dt], out.Len())
			for _, r := range out.Rows() {
				assert.Greater(t, fields[dt](r), int64(0), "%s in %s result", r.Name(), dt)
			}
		})
	}
}

func TestApply_Comparisons(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"rows > 100", 10},
		{"rows >= 144", 10},
		{"rows > 144", 9},
		{"rows < 100", 4},
		{"rows <= 15", 2},
		{"rows == 150", 1},
		{"rows != 150", indextest.Len - 1},
		{"cols == 5", 2},
		{"cols != 5", indextest.Len - 2},
		{"cols <= 10", 11},
		{"cols > -1", indextest.Len},
		{"rows > 10000000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, apply(t, tt.token).Len())
		})
	}
}

func TestApply_RowsGreaterThanHoldsForEveryRow(t *testing.T) {
	for _, r := range apply(t, "rows > 100").Rows() {
		assert.Greater(t, r.Rows, int64(100))
	}
	for _, r := range apply(t, "cols == 5").Rows() {
		assert.Equal(t, int64(5), r.Cols)
	}
}

func TestApply_BinaryAndRows(t *testing.T) {
	out := apply(t, "binary", "rows > 50")
	assert.Equal(t, []string{"MASS_Aids2", "boot_channing", "Stat2Data_Titanic"}, indextest.Names(out))

	for _, r := range out.Rows() {
		assert.Greater(t, r.NBinary, int64(0))
		assert.Greater(t, r.Rows, int64(50))
	}
}

func TestApply_ComplementaryComparisons(t *testing.T) {
	for _, k := range []string{"-3", "0", "2", "5", "11", "9999"} {
		eq := apply(t, "cols == "+k)
		ne := apply(t, "cols != "+k)
		assert.Equal(t, indextest.Len, eq.Len()+ne.Len(), "K=%s", k)

		seen := map[string]bool{}
		for _, n := range indextest.Names(eq) {
			seen[n] = true
		}
		for _, n := range indextest.Names(ne) {
			assert.False(t, seen[n], "%s in both partitions for K=%s", n, k)
		}
	}
}

func TestApply_CaseInsensitive(t *testing.T) {
	groups := [][][]string{
		{{"rows > 100"}, {"ROWS > 100"}, {"Rows > 100"}, {"rOwS > 100"}},
		{{"cols == 5"}, {"COLS == 5"}, {"Cols == 5"}, {"cOlS == 5"}},
		{{"binary"}, {"BINARY"}, {"Binary"}},
		{{"character"}, {"CHARACTER"}, {"Character"}},
		{{"numeric"}, {"NUMERIC"}, {"Numeric"}},
		{{"BINARY", "ROWS > 50"}, {"binary", "rows > 50"}, {"Binary", "Rows > 50"}, {"BINARY", "rows > 50"}, {"binary", "ROWS > 50"}},
		{{"BINARY", "CHARACTER", "rows > 100", "cols <= 10"}, {"binary", "character", "ROWS > 100", "COLS <= 10"}, {"Binary", "Character", "Rows > 100", "Cols <= 10"}},
	}

	for _, g := range groups {
		want := indextest.Names(apply(t, g[0]...))
		for _, variant := range g[1:] {
			assert.Equal(t, want, indextest.Names(apply(t, variant...)), "%q vs %q", g[0], variant)
		}
	}
}

func TestApply_WhitespaceTolerance(t *testing.T) {
	want := indextest.Names(apply(t, "rows > 100"))
	for _, tok := range []string{"rows>100", "ROWS>100", "  rows   >   100  ", "\trows >100\n", "rows>  100"} {
		assert.Equal(t, want, indextest.Names(apply(t, tok)), "token %q", tok)
	}

	assert.GreaterOrEqual(t, apply(t, "  ROWS  >=  100  ").Len(), apply(t, "ROWS>100").Len())
	assert.Equal(t, apply(t, "binary").Len(), apply(t, "  binary  ").Len())
}

func TestApply_MoreTokensNeverGrowResult(t *testing.T) {
	tokens := []string{"numeric", "factor", "rows > 100", "cols <= 10", "binary"}
	prev := indextest.Len
	for i := range tokens {
		n := apply(t, tokens[:i+1]...).Len()
		assert.LessOrEqual(t, n, prev, "after %q", tokens[:i+1])
		prev = n
	}
}

func TestApply_OrderIndependent(t *testing.T) {
	a := indextest.Names(apply(t, "factor", "rows > 100", "cols != 5"))
	b := indextest.Names(apply(t, "cols != 5", "factor", "rows > 100"))
	assert.Equal(t, a, b)
}

func TestApply_UnknownColumn(t *testing.T) {
	_, err := Apply(indextest.Fixture(), "binary", "width > 3")
	require.Error(t, err)

	var te *TokenError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, KindUnknownColumn, te.Kind)
	assert.Equal(t, "width", te.Column)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
	assert.Contains(t, err.Error(), "width > 3")
	assert.Contains(t, err.Error(), "rows")
	assert.Contains(t, err.Error(), "cols")
}

func TestApply_UnicodeColumnIsUnknown(t *testing.T) {
	for _, tok := range []string{"größe > 3", "Zeilen_ä <= 10", "列 == 1"} {
		_, err := Apply(indextest.Fixture(), tok)
		require.Error(t, err, "token %q", tok)

		var te *TokenError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, KindUnknownColumn, te.Kind, "token %q", tok)
		assert.True(t, errors.Is(err, ErrUnknownColumn))
	}
}

func TestApply_InvalidFormat(t *testing.T) {
	for _, tok := range []string{"bogus", "rows", "rows >", "> 5", "rows => 5", "rows = 5", "rows > five", "rows > 1.5", ""} {
		t.Run(tok, func(t *testing.T) {
			_, err := Apply(indextest.Fixture(), tok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFormat), "got %v", err)
			assert.Contains(t, err.Error(), "column operator value")
			assert.Contains(t, err.Error(), "binary")
		})
	}
}

func TestApply_FirstInvalidTokenWins(t *testing.T) {
	_, err := Apply(indextest.Fixture(), "numeric", "nope", "size > 3")
	require.Error(t, err)

	var te *TokenError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "nope", te.Token)
	assert.Equal(t, KindInvalidFormat, te.Kind)
}

func TestApply_TrailingGarbageRejected(t *testing.T) {
	for _, tok := range []string{"rows > 100abc", "rows > 100 and more", "cols == 5;"} {
		_, err := Apply(indextest.Fixture(), tok)
		require.Error(t, err, "token %q", tok)
		assert.True(t, errors.Is(err, ErrInvalidFormat))
	}
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"binary", "binary"},
		{"  LOGICAL ", "logical"},
		{"rows>=10", "rows >= 10"},
		{"Cols != -2", "cols != -2"},
		{"ROWS<3", "rows < 3"},
		{"rows<=3", "rows <= 3"},
		{"rows == 0", "rows == 0"},
	}
	for _, tt := range tests {
		p, err := ParseToken(tt.token)
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, p.String())
	}
}

func TestParseToken_TwoCharOperatorsWin(t *testing.T) {
	p, err := ParseToken("rows >= 5")
	require.NoError(t, err)
	c, ok := p.(Comparison)
	require.True(t, ok)
	assert.Equal(t, OpGe, c.Op)
	assert.Equal(t, int64(5), c.Value)

	p, err = ParseToken("rows<=5")
	require.NoError(t, err)
	assert.Equal(t, OpLe, p.(Comparison).Op)
}

func TestParseToken_OverflowSaturates(t *testing.T) {
	p, err := ParseToken("rows > 99999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), p.(Comparison).Value)
	assert.Zero(t, apply(t, "rows > 99999999999999999999").Len())

	p, err = ParseToken("rows > -99999999999999999999")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), p.(Comparison).Value)
	assert.Equal(t, indextest.Len, apply(t, "rows > -99999999999999999999").Len())
}

func TestOp_Apply(t *testing.T) {
	tests := []struct {
		op   Op
		a, b int64
		want bool
	}{
		{OpGt, 2, 1, true}, {OpGt, 1, 1, false},
		{OpLt, 1, 2, true}, {OpLt, 2, 2, false},
		{OpGe, 2, 2, true}, {OpGe, 1, 2, false},
		{OpLe, 2, 2, true}, {OpLe, 3, 2, false},
		{OpEq, -4, -4, true}, {OpEq, 4, -4, false},
		{OpNe, 1, 2, true}, {OpNe, 2, 2, false},
		{Op("~"), 1, 1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.apply(tt.a, tt.b), "%d %s %d", tt.a, tt.op, tt.b)
	}
}

func TestSelect_EmptyPredicatesReturnsSource(t *testing.T) {
	idx := indextest.Fixture()
	assert.Same(t, idx, Select(idx, nil))
}
