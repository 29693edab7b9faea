package exif

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Type is a TIFF field type code.
type Type uint16

const (
	TypeByte           Type = 1
	TypeASCII          Type = 2
	TypeShort          Type = 3
	TypeLong           Type = 4
	TypeRational       Type = 5
	TypeUndefined      Type = 7
	TypeSignedLong     Type = 9
	TypeSignedRational Type = 10
)

// Size returns the width in bytes of one element of t, or 0 for type
// codes this package does not decode.
func (t Type) Size() int {
	switch t {
	case TypeByte, TypeASCII, TypeUndefined:
		return 1
	case TypeShort:
		return 2
	case TypeLong, TypeSignedLong:
		return 4
	case TypeRational, TypeSignedRational:
		return 8
	}
	return 0
}

// Known reports whether t is one of the decoded type codes.
func (t Type) Known() bool { return t.Size() != 0 }

func (t Type) String() string {
	switch t {
	case TypeByte:
		return "BYTE"
	case TypeASCII:
		return "ASCII"
	case TypeShort:
		return "SHORT"
	case TypeLong:
		return "LONG"
	case TypeRational:
		return "RATIONAL"
	case TypeUndefined:
		return "UNDEFINED"
	case TypeSignedLong:
		return "SLONG"
	case TypeSignedRational:
		return "SRATIONAL"
	}
	return fmt.Sprintf("type(%d)", uint16(t))
}

type Rational struct {
	Num, Den uint32
}

func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }

type SignedRational struct {
	Num, Den int32
}

func (r SignedRational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r SignedRational) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }

// Value is one decoded field value. Exactly one payload field is
// populated, selected by Type; values with an unrecognised type code
// keep the raw 4-byte slot in Raw.
type Value struct {
	Type   Type
	Count  uint32 // declared element count
	Offset uint32 // storage location, relative to the TIFF header
	Inline bool   // payload sits in the entry's own 4-byte slot

	Raw       []byte // BYTE, UNDEFINED, unknown types
	Str       string // ASCII
	Shorts    []uint16
	Longs     []uint32
	Rationals []Rational
	SLongs    []int32
	SRats     []SignedRational
}

// Len returns the number of decoded elements.
func (v *Value) Len() int {
	switch v.Type {
	case TypeASCII:
		return 1
	case TypeShort:
		return len(v.Shorts)
	case TypeLong:
		return len(v.Longs)
	case TypeRational:
		return len(v.Rationals)
	case TypeSignedLong:
		return len(v.SLongs)
	case TypeSignedRational:
		return len(v.SRats)
	}
	return len(v.Raw)
}

// Int returns element i of an integer-typed value.
func (v *Value) Int(i int) (int64, error) {
	if i < 0 || i >= v.Len() {
		return 0, errors.Errorf("exif: index %d out of range for %s value of %d elements", i, v.Type, v.Len())
	}
	switch v.Type {
	case TypeByte:
		return int64(v.Raw[i]), nil
	case TypeShort:
		return int64(v.Shorts[i]), nil
	case TypeLong:
		return int64(v.Longs[i]), nil
	case TypeSignedLong:
		return int64(v.SLongs[i]), nil
	}
	return 0, errors.Errorf("exif: %s value is not an integer", v.Type)
}

// Float returns element i of a numeric value as a float64.
func (v *Value) Float(i int) (float64, error) {
	switch v.Type {
	case TypeRational:
		if i >= 0 && i < len(v.Rationals) {
			return v.Rationals[i].Float(), nil
		}
	case TypeSignedRational:
		if i >= 0 && i < len(v.SRats) {
			return v.SRats[i].Float(), nil
		}
	default:
		n, err := v.Int(i)
		return float64(n), err
	}
	return 0, errors.Errorf("exif: index %d out of range for %s value of %d elements", i, v.Type, v.Len())
}

// String renders the value without any tag-specific formatting.
func (v *Value) String() string {
	switch v.Type {
	case TypeASCII:
		return escape(v.Str)
	case TypeUndefined:
		return "..."
	case TypeByte:
		return joinInts(len(v.Raw), func(i int) string { return strconv.Itoa(int(v.Raw[i])) })
	case TypeShort:
		return joinInts(len(v.Shorts), func(i int) string { return strconv.Itoa(int(v.Shorts[i])) })
	case TypeLong:
		return joinInts(len(v.Longs), func(i int) string { return strconv.FormatUint(uint64(v.Longs[i]), 10) })
	case TypeSignedLong:
		return joinInts(len(v.SLongs), func(i int) string { return strconv.Itoa(int(v.SLongs[i])) })
	case TypeRational:
		return joinInts(len(v.Rationals), func(i int) string { return v.Rationals[i].String() })
	case TypeSignedRational:
		return joinInts(len(v.SRats), func(i int) string { return v.SRats[i].String() })
	}
	return fmt.Sprintf("%s x%d [% X]", v.Type, v.Count, v.Raw)
}

func joinInts(n int, f func(int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = f(i)
	}
	return strings.Join(parts, " ")
}

// escape replaces non-printable characters with \xNN.
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "\\x%02X", c)
	}
	return b.String()
}
