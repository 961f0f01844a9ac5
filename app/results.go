package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

// ResultSet holds 0 to N values of a query, all keys or all values.
// Key and Value of a query response are always encoded ResultSets.
type ResultSet struct {
	Results [][]byte
}

// Marshal writes every result as a repeated bytes field.
func (r *ResultSet) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	for _, res := range r.Results {
		enc.Element(1, res)
	}
	return enc.Result(), nil
}

// Unmarshal reads a ResultSet.
func (r *ResultSet) Unmarshal(raw []byte) error {
	r.Results = nil
	return codec.Walk(raw, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		b, err := f.Bytes()
		if err != nil {
			return err
		}
		r.Results = append(r.Results, b)
		return nil
	})
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]ledger.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]ledger.Model, len(kref))
	for i := range mods {
		mods[i] = ledger.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o ledger.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}
