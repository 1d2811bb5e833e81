package proto

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// TupleType is the value type tag of a dictionary tuple.
type TupleType uint8

const (
	TupleBytes TupleType = iota
	TupleCString
	TupleUint
	TupleInt
)

func (t TupleType) String() string {
	switch t {
	case TupleBytes:
		return "bytes"
	case TupleCString:
		return "cstring"
	case TupleUint:
		return "uint"
	case TupleInt:
		return "int"
	default:
		return "unknown"
	}
}

const (
	dictHeaderBytes  = 1
	tupleHeaderBytes = 7
	maxTuples        = 255
)

var (
	ErrDictTruncated = errors.New("dict: truncated")
	ErrDictTrailing  = errors.New("dict: trailing bytes")
	ErrDictTooMany   = errors.New("dict: too many tuples")
	ErrDictValue     = errors.New("dict: bad value")
)

// Tuple is one key/value pair of a link dictionary.
type Tuple struct {
	Key   uint32
	Type  TupleType
	Value []byte
}

// BytesTuple returns a byte blob tuple. The value is not copied.
func BytesTuple(key uint32, b []byte) Tuple {
	return Tuple{Key: key, Type: TupleBytes, Value: b}
}

// IntTuple returns a 4-byte signed integer tuple.
func IntTuple(key uint32, v int32) Tuple {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return Tuple{Key: key, Type: TupleInt, Value: b}
}

// Uint8Tuple returns a 1-byte unsigned integer tuple.
func Uint8Tuple(key uint32, v uint8) Tuple {
	return Tuple{Key: key, Type: TupleUint, Value: []byte{v}}
}

// Int returns the integer value of t. Integer tuples of width 1, 2 and 4 are
// accepted; any other type or width is reported as !ok.
func (t Tuple) Int() (int64, bool) {
	switch t.Type {
	case TupleInt:
		switch len(t.Value) {
		case 1:
			return int64(int8(t.Value[0])), true
		case 2:
			return int64(int16(binary.LittleEndian.Uint16(t.Value))), true
		case 4:
			return int64(int32(binary.LittleEndian.Uint32(t.Value))), true
		}
	case TupleUint:
		switch len(t.Value) {
		case 1:
			return int64(t.Value[0]), true
		case 2:
			return int64(binary.LittleEndian.Uint16(t.Value)), true
		case 4:
			return int64(binary.LittleEndian.Uint32(t.Value)), true
		}
	}
	return 0, false
}

// Data returns the raw value of a bytes or cstring tuple.
func (t Tuple) Data() ([]byte, bool) {
	if t.Type != TupleBytes && t.Type != TupleCString {
		return nil, false
	}
	return t.Value, true
}

// Dict is an ordered list of tuples. Lookups return the first match.
type Dict []Tuple

// Find returns the first tuple with key.
func (d Dict) Find(key uint32) (Tuple, bool) {
	for _, t := range d {
		if t.Key == key {
			return t, true
		}
	}
	return Tuple{}, false
}

// Size returns the encoded length of d.
func (d Dict) Size() int {
	n := dictHeaderBytes
	for _, t := range d {
		n += tupleHeaderBytes + len(t.Value)
	}
	return n
}

// EncodeDict encodes tuples in link dictionary layout.
//
// Layout (little-endian):
//   - u8: tuple count
//   - per tuple: u32 key, u8 type, u16 length, value bytes
func EncodeDict(d Dict) ([]byte, error) {
	if len(d) > maxTuples {
		return nil, ErrDictTooMany
	}
	buf := make([]byte, 0, d.Size())
	buf = append(buf, byte(len(d)))
	for _, t := range d {
		if len(t.Value) > 0xFFFF {
			return nil, fmt.Errorf("tuple %d: %w", t.Key, ErrDictValue)
		}
		buf = binary.LittleEndian.AppendUint32(buf, t.Key)
		buf = append(buf, byte(t.Type))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(t.Value)))
		buf = append(buf, t.Value...)
	}
	return buf, nil
}

// DecodeDict decodes a link dictionary. Tuple values alias b.
func DecodeDict(b []byte) (Dict, error) {
	if len(b) < dictHeaderBytes {
		return nil, ErrDictTruncated
	}
	count := int(b[0])
	off := dictHeaderBytes
	d := make(Dict, 0, count)
	for i := 0; i < count; i++ {
		if len(b)-off < tupleHeaderBytes {
			return nil, fmt.Errorf("tuple %d header: %w", i, ErrDictTruncated)
		}
		key := binary.LittleEndian.Uint32(b[off : off+4])
		typ := TupleType(b[off+4])
		n := int(binary.LittleEndian.Uint16(b[off+5 : off+7]))
		off += tupleHeaderBytes
		if len(b)-off < n {
			return nil, fmt.Errorf("tuple %d value: %w", i, ErrDictTruncated)
		}
		if typ > TupleInt {
			return nil, fmt.Errorf("tuple %d type %d: %w", i, typ, ErrDictValue)
		}
		d = append(d, Tuple{Key: key, Type: typ, Value: b[off : off+n : off+n]})
		off += n
	}
	if off != len(b) {
		return nil, ErrDictTrailing
	}
	return d, nil
}
