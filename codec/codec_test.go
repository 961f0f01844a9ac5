package codec

import (
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	x, y uint64
	tag  string
}

func (p point) Marshal() ([]byte, error) {
	return NewEncoder().Uint64(1, p.x).Uint64(2, p.y).String(3, p.tag).Result(), nil
}

func TestEncoderKnownBytes(t *testing.T) {
	// field 1 varint 150 is the canonical protobuf example
	got := NewEncoder().Uint64(1, 150).Result()
	assert.Equal(t, []byte{0x08, 0x96, 0x01}, got)

	got = NewEncoder().String(2, "testing").Result()
	assert.Equal(t, append([]byte{0x12, 0x07}, []byte("testing")...), got)

	// zero values are omitted
	assert.Empty(t, NewEncoder().Uint64(1, 0).Bytes(2, nil).Bool(3, false).Result())
}

func TestWalkNested(t *testing.T) {
	enc := NewEncoder().Uint64(1, 7)
	require.NoError(t, enc.Message(2, point{x: 3, y: 4, tag: "p"}))
	enc.Bool(3, true)

	var (
		num   uint64
		inner []byte
		flag  bool
	)
	err := Walk(enc.Result(), func(f Field) error {
		var err error
		switch f.Num {
		case 1:
			num, err = f.Uint64()
		case 2:
			inner, err = f.Bytes()
		case 3:
			flag, err = f.Bool()
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), num)
	assert.True(t, flag)

	want, _ := point{x: 3, y: 4, tag: "p"}.Marshal()
	assert.Equal(t, want, inner)
}

func TestWalkErrors(t *testing.T) {
	cases := map[string]struct {
		data []byte
	}{
		"truncated bytes":  {data: []byte{0x12, 0x05, 'a'}},
		"truncated varint": {data: []byte{0x08, 0x96}},
		"field zero":       {data: []byte{0x00, 0x01}},
		"group wire type":  {data: []byte{0x0b}},
		"padded varint":    {data: []byte{0x08, 0x81, 0x00}},
		"padded length":    {data: []byte{0x0a, 0x80, 0x00}},
		"padded tag":       {data: []byte{0x88, 0x00, 0x01}},
		"truncated fixed":  {data: []byte{0x09, 1, 2, 3}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Walk(tc.data, func(Field) error { return nil })
			assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)
		})
	}
}

func TestWalkSkipsFixedFields(t *testing.T) {
	data := []byte{0x09, 1, 2, 3, 4, 5, 6, 7, 8, 0x15, 1, 2, 3, 4}
	data = append(data, NewEncoder().Uint64(3, 300).Result()...)

	var nums []int
	var last uint64
	err := Walk(data, func(f Field) error {
		nums = append(nums, f.Num)
		if f.Num == 3 {
			v, err := f.Uint64()
			last = v
			return err
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, nums)
	assert.Equal(t, uint64(300), last)
}

func TestFieldTypeMismatch(t *testing.T) {
	err := Walk(NewEncoder().Uint64(1, 1).Result(), func(f Field) error {
		_, err := f.Bytes()
		return err
	})
	assert.True(t, errors.ErrInvalidInput.Is(err))

	err = Walk(NewEncoder().Uint64(1, 1<<40).Result(), func(f Field) error {
		_, err := f.Uint32()
		return err
	})
	assert.True(t, errors.ErrOverflow.Is(err))
}
