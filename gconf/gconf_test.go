package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type limits struct {
	Max uint64 `json:"max"`
}

func (l *limits) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint64(1, l.Max).Result(), nil
}

func (l *limits) Unmarshal(raw []byte) error {
	*l = limits{}
	return codec.Walk(raw, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		v, err := f.Uint64()
		l.Max = v
		return err
	})
}

func (l *limits) Validate() error {
	if l.Max == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "max")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var got limits
	err := Load(db, "lim", &got)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = Save(db, "lim", &limits{})
	assert.True(t, errors.ErrInvalidModel.Is(err))

	require.NoError(t, Save(db, "lim", &limits{Max: 7}))
	require.NoError(t, Load(db, "lim", &got))
	assert.Equal(t, uint64(7), got.Max)
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		wantMax uint64
	}{
		"configured": {
			genesis: `{"conf": {"lim": {"max": 3}}}`,
			wantMax: 3,
		},
		"missing package": {
			genesis: `{"conf": {"other": {"max": 3}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid value": {
			genesis: `{"conf": {"lim": {"max": 0}}}`,
			wantErr: errors.ErrInvalidModel,
		},
		"malformed": {
			genesis: `{"conf": {"lim": {"max": "many"}}}`,
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts ledger.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))
			db := store.MemStore()
			err := InitConfig(db, opts, "lim", &limits{})
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			var got limits
			require.NoError(t, Load(db, "lim", &got))
			assert.Equal(t, tc.wantMax, got.Max)
		})
	}
}
