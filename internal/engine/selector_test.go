package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(col3, col4 float64) Record {
	return Record{"column0": 0, "column1": 0, "column2": 0, "column3": col3, "column4": col4}
}

func TestSelectScenario(t *testing.T) {
	// Row 0: (3,7)  -> 3%3=0, 7%7=0   keep
	// Row 1: (6,7)  -> keep
	// Row 2: (3,8)  -> 8%7!=0         drop
	// Row 3: (9,14) -> keep
	ds := &Dataset{Records: []Record{rec(3, 7), rec(6, 7), rec(3, 8), rec(9, 14)}}

	got, err := Select(ds, DefaultRules)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ds.Records[0], got[0])
	assert.Equal(t, ds.Records[1], got[1])
	assert.Equal(t, ds.Records[3], got[2])
}

func TestSelectMatchesPredicate(t *testing.T) {
	var records []Record
	for a := -9.0; a <= 21; a += 1 {
		for b := 0.0; b <= 9; b += 1 {
			records = append(records, rec(b, a))
		}
	}
	ds := &Dataset{Records: records}

	got, err := Select(ds, DefaultRules)
	require.NoError(t, err)

	// every kept row satisfies both rules, in dataset order
	next := 0
	for _, r := range ds.Records {
		want := int64(r["column4"])%7 == 0 && int64(r["column3"])%3 == 0
		if !want {
			continue
		}
		require.Less(t, next, len(got))
		assert.Equal(t, r, got[next])
		next++
	}
	assert.Equal(t, len(got), next)
}

func TestSelectEmpty(t *testing.T) {
	got, err := Select(&Dataset{}, DefaultRules)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = Select(&Dataset{Records: []Record{rec(1, 1)}}, DefaultRules)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectMissingColumn(t *testing.T) {
	ds := &Dataset{Records: []Record{
		rec(3, 7),
		{"column3": 3}, // no column4
	}}

	_, err := Select(ds, DefaultRules)
	require.Error(t, err)

	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, "column4", mce.Column)
	assert.Equal(t, 1, mce.Row)
}

func TestSelectZeroModulus(t *testing.T) {
	rules := RuleSet{{Column: "column4", Modulus: 0}, {Column: "column3", Modulus: 3}}
	_, err := Select(&Dataset{Records: []Record{rec(3, 7)}}, rules)
	assert.ErrorIs(t, err, ErrInvalidModulus)
}

func TestDivisible(t *testing.T) {
	tests := []struct {
		v    float64
		m    int64
		want bool
	}{
		{14, 7, true},
		{15, 7, false},
		{0, 3, true},
		{-21, 7, true},
		{10.5, 3, false},
		{3.5, 7, false},
		{0.3, 3, false},
		{7 * (1 << 62), 7, true},
		{1 << 63, 7, false},
		{-7 * (1 << 62), 7, true},
		{1 << 64, 2, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, divisible(tt.v, tt.m), "%v mod %d", tt.v, tt.m)
	}
}

func TestRuleSetStrings(t *testing.T) {
	assert.Equal(t, []string{"column4 % 7 == 0", "column3 % 3 == 0"}, DefaultRules.Strings())
}
