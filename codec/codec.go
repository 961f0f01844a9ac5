/*
Package codec encodes models and messages in the protobuf wire format.

Only the two wire types the ledger needs are produced: varint for
integers and length delimited for bytes, strings and nested messages.
Fields holding the zero value are omitted, and fields are always written
in ascending order, so equal values always produce equal bytes. That
property is what makes sign bytes stable.
*/
package codec

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/errors"
)

// Marshaller is anything that can produce its own wire form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Encoder accumulates fields of a single message.
type Encoder struct {
	buf *proto.Buffer
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

// Writing into a proto.Buffer never fails, so the errors of its Encode
// methods are not checked.

func (e *Encoder) tag(field int, wire int) {
	_ = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

func (e *Encoder) raw(field int, v []byte) {
	e.tag(field, proto.WireBytes)
	_ = e.buf.EncodeRawBytes(v)
}

// Uint64 writes a varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.tag(field, proto.WireVarint)
	_ = e.buf.EncodeVarint(v)
	return e
}

// Uint32 writes a varint field. Zero is omitted.
func (e *Encoder) Uint32(field int, v uint32) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Int64 writes a varint field using two's complement, as protobuf int64.
func (e *Encoder) Int64(field int, v int64) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Bool writes a varint field holding 1. False is omitted.
func (e *Encoder) Bool(field int, v bool) *Encoder {
	if !v {
		return e
	}
	return e.Uint64(field, 1)
}

// Bytes writes a length delimited field. Empty values are omitted.
func (e *Encoder) Bytes(field int, v []byte) *Encoder {
	if len(v) == 0 {
		return e
	}
	e.raw(field, v)
	return e
}

// Element writes one entry of a repeated bytes field. Unlike Bytes an
// empty value is written, so the number of entries is preserved.
func (e *Encoder) Element(field int, v []byte) *Encoder {
	e.raw(field, v)
	return e
}

// String writes a length delimited field. Empty values are omitted.
func (e *Encoder) String(field int, v string) *Encoder {
	return e.Bytes(field, []byte(v))
}

// Message writes a nested message as a length delimited field. A nil
// message is omitted.
func (e *Encoder) Message(field int, m Marshaller) error {
	if m == nil {
		return nil
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "field %d", field)
	}
	e.raw(field, raw)
	return nil
}

// Result returns the encoded message.
func (e *Encoder) Result() []byte {
	return e.buf.Bytes()
}

// Field is a single decoded field. Depending on the wire type either the
// varint or the raw bytes are set.
type Field struct {
	Num  int
	Wire int

	varint uint64
	raw    []byte
}

// Uint64 returns the varint value of the field.
func (f Field) Uint64() (uint64, error) {
	if f.Wire != proto.WireVarint {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "field %d: wire type %d is not varint", f.Num, f.Wire)
	}
	return f.varint, nil
}

// Uint32 returns the varint value of the field, failing if it does not fit.
func (f Field) Uint32() (uint32, error) {
	v, err := f.Uint64()
	if err != nil {
		return 0, err
	}
	if v > 1<<32-1 {
		return 0, errors.Wrapf(errors.ErrOverflow, "field %d", f.Num)
	}
	return uint32(v), nil
}

// Int64 returns the varint value as protobuf int64.
func (f Field) Int64() (int64, error) {
	v, err := f.Uint64()
	return int64(v), err
}

// Bool returns the varint value as a boolean.
func (f Field) Bool() (bool, error) {
	v, err := f.Uint64()
	return v != 0, err
}

// Bytes returns a copy of the length delimited content.
func (f Field) Bytes() ([]byte, error) {
	if f.Wire != proto.WireBytes {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "field %d: wire type %d is not bytes", f.Num, f.Wire)
	}
	cpy := make([]byte, len(f.raw))
	copy(cpy, f.raw)
	return cpy, nil
}

// String returns the length delimited content as a string.
func (f Field) String() (string, error) {
	b, err := f.Bytes()
	return string(b), err
}

// decoder reads fields through a proto.Buffer and keeps its own position
// so the end of data is known. Only the canonical, shortest varint form is
// accepted, which keeps decoding the exact inverse of Encoder.
type decoder struct {
	buf  *proto.Buffer
	data []byte
	pos  int
}

func (d *decoder) varint() (uint64, error) {
	x, err := d.buf.DecodeVarint()
	if err != nil {
		return 0, err
	}
	if err := d.advance(proto.EncodeVarint(x)); err != nil {
		return 0, err
	}
	return x, nil
}

func (d *decoder) rawBytes() ([]byte, error) {
	b, err := d.buf.DecodeRawBytes(false)
	if err != nil {
		return nil, err
	}
	if err := d.advance(proto.EncodeVarint(uint64(len(b)))); err != nil {
		return nil, err
	}
	d.pos += len(b)
	return b, nil
}

func (d *decoder) fixed(size int) ([]byte, error) {
	var err error
	if size == 8 {
		_, err = d.buf.DecodeFixed64()
	} else {
		_, err = d.buf.DecodeFixed32()
	}
	if err != nil {
		return nil, err
	}
	raw := d.data[d.pos : d.pos+size]
	d.pos += size
	return raw, nil
}

// advance moves past the varint just decoded, failing unless the input
// holds exactly its canonical encoding.
func (d *decoder) advance(canonical []byte) error {
	end := d.pos + len(canonical)
	if end > len(d.data) || !bytes.Equal(d.data[d.pos:end], canonical) {
		return errNonCanonical
	}
	d.pos = end
	return nil
}

var errNonCanonical = errors.Wrap(errors.ErrInvalidInput, "non canonical varint")

// Walk decodes data field by field and calls fn for each of them. Unknown
// fields may simply be ignored by fn.
func Walk(data []byte, fn func(Field) error) error {
	d := &decoder{buf: proto.NewBuffer(data), data: data}
	for d.pos < len(data) {
		key, err := d.varint()
		if err != nil {
			return errors.Wrap(errors.ErrInvalidInput, "malformed tag")
		}
		f := Field{Num: int(key >> 3), Wire: int(key & 7)}
		if f.Num <= 0 {
			return errors.Wrapf(errors.ErrInvalidInput, "invalid field number %d", f.Num)
		}

		switch f.Wire {
		case proto.WireVarint:
			f.varint, err = d.varint()
		case proto.WireBytes:
			f.raw, err = d.rawBytes()
		case proto.WireFixed64:
			f.raw, err = d.fixed(8)
		case proto.WireFixed32:
			f.raw, err = d.fixed(4)
		default:
			return errors.Wrapf(errors.ErrInvalidInput, "field %d: unsupported wire type %d", f.Num, f.Wire)
		}
		if err != nil {
			if errors.ErrInvalidInput.Is(err) {
				return errors.Wrapf(err, "field %d", f.Num)
			}
			return errors.Wrapf(errors.ErrInvalidInput, "field %d: %s", f.Num, err)
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
