package engine

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// FilterRule keeps a record when the value at Column is evenly divisible by Modulus.
type FilterRule struct {
	Column  string
	Modulus int64
}

func (r FilterRule) String() string {
	return fmt.Sprintf("%s %% %d == 0", r.Column, r.Modulus)
}

// Match applies the rule to one record.
func (r FilterRule) Match(rec Record) (bool, error) {
	if r.Modulus == 0 {
		return false, ErrInvalidModulus
	}
	v, err := rec.Num(r.Column)
	if err != nil {
		return false, err
	}
	return divisible(v, r.Modulus), nil
}

// RuleSet is the active pair of rules, combined with AND.
type RuleSet [2]FilterRule

// DefaultRules: column4 multiple of 7 AND column3 multiple of 3.
var DefaultRules = RuleSet{
	{Column: "column4", Modulus: 7},
	{Column: "column3", Modulus: 3},
}

// Strings renders the rules for display.
func (rs RuleSet) Strings() []string {
	return []string{rs[0].String(), rs[1].String()}
}

// Select returns the records of ds that satisfy both rules, in dataset order.
// A record missing a rule column aborts the selection.
func Select(ds *Dataset, rules RuleSet) (FilteredSet, error) {
	for _, r := range rules {
		if r.Modulus == 0 {
			return nil, fmt.Errorf("rule on %q: %w", r.Column, ErrInvalidModulus)
		}
	}

	out := make(FilteredSet, 0)
	if ds == nil {
		return out, nil
	}

	for i, rec := range ds.Records {
		keep := true
		// Evaluate both rules so a missing column is always reported.
		for _, r := range rules {
			ok, err := r.Match(rec)
			if err != nil {
				return nil, withRow(err, i)
			}
			keep = keep && ok
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out, nil
}

// divisible reports v mod m == 0. Values that are not whole numbers are never
// multiples of an integer modulus. Whole values beyond the int64 fast path are
// reduced from their exact binary value.
func divisible(v float64, m int64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return false
	}
	if math.Abs(v) < 1<<62 {
		return int64(v)%m == 0
	}
	exact, _ := new(big.Float).SetFloat64(v).Int(nil)
	return decimal.NewFromBigInt(exact, 0).Mod(decimal.NewFromInt(m)).IsZero()
}
