package exif

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

/*
    TIFF payload layout (offsets relative to its first byte):

      "II" | "MM"       2-byte byte order marker
      42                2-byte magic number, in that byte order
      <IFD0 offset>     4-byte offset

    IFD:
      <n>               2-byte entry count
      { entry } * n     12 bytes each: tag u16, type u16, count u32,
                        value-or-offset u32

    The value sits in the entry's last 4 bytes when size(type)*count <= 4,
    otherwise those bytes hold the offset of the value.
*/

const (
	headerSize = 8
	entrySize  = 12
	slotSize   = 4
)

// Payload is a decoded TIFF/Exif payload.
type Payload struct {
	Root     *Directory
	Order    ByteOrder
	warnings []error
}

// Warnings returns the non-fatal problems met while decoding.
func (p *Payload) Warnings() []error { return p.warnings }

// Decode reads the TIFF header at the start of payload, then IFD0 and
// every nested directory known to the schema.
func Decode(payload []byte) (*Payload, error) {
	order, err := ByteOrderFromMarker(payload)
	if err != nil {
		return nil, err
	}
	if len(payload) < headerSize {
		return nil, errors.Wrapf(ErrTruncated, "TIFF header is %d bytes at offset 0x0", len(payload))
	}
	if magic := order.Uint16(payload, 2); magic != 42 {
		return nil, errors.Wrapf(ErrMagic, "got %d at offset 0x2", magic)
	}

	d := NewDecoder(payload, order)
	root, err := d.DecodeIFD(order.Uint32(payload, 4), RootSchema)
	if err != nil {
		return nil, err
	}
	return &Payload{Root: root, Order: order, warnings: d.Warnings()}, nil
}

// Decoder decodes IFDs from one buffer under one byte order.
type Decoder struct {
	buf      []byte
	order    ByteOrder
	warnings *multierror.Error
}

func NewDecoder(buf []byte, order ByteOrder) *Decoder {
	return &Decoder{buf: buf, order: order}
}

// Warnings returns the non-fatal problems recorded so far.
func (d *Decoder) Warnings() []error {
	if d.warnings == nil {
		return nil
	}
	return d.warnings.Errors
}

func (d *Decoder) warn(err error) {
	d.warnings = multierror.Append(d.warnings, err)
}

func (d *Decoder) has(off uint32, n uint64) bool {
	return uint64(off)+n <= uint64(len(d.buf))
}

// DecodeIFD decodes the directory at off using schema s.
func (d *Decoder) DecodeIFD(off uint32, s *Schema) (*Directory, error) {
	if !d.has(off, 2) {
		return nil, errors.Wrapf(ErrTruncated, "%s IFD entry count at offset %#x", s.Name, off)
	}
	n := int(d.order.Uint16(d.buf, int(off)))
	dir := newDirectory(s, off, n)

	pos := off + 2
	for i := 0; i < n; i++ {
		if !d.has(pos, entrySize) {
			return nil, errors.Wrapf(ErrTruncated, "%s IFD entry %d of %d at offset %#x", s.Name, i, n, pos)
		}
		id := d.order.Uint16(d.buf, int(pos))
		typ := Type(d.order.Uint16(d.buf, int(pos)+2))
		count := d.order.Uint32(d.buf, int(pos)+4)
		slot := pos + 8
		tag := s.Lookup(id)

		if tag.Sub == nil {
			v, err := d.readValue(s, tag, typ, count, slot)
			if err != nil {
				return nil, err
			}
			dir.entries[id] = &Leaf{Desc: tag, Value: v}
		} else {
			if typ != TypeLong || count != 1 {
				return nil, errors.Wrapf(ErrSubIFD, "%s tag %s at offset %#x has type %s count %d",
					s.Name, tag.Name, pos, typ, count)
			}
			sub := d.order.Uint32(d.buf, int(slot))
			if fixed, ok := correctSubIFDOffset(dir.String(TagDateTime), sub); ok {
				log.Debug().Str("tag", tag.Name).Uint32("offset", sub).Uint32("corrected", fixed).
					Msg("exif: applying firmware offset correction")
				d.warn(errors.Errorf("%s tag %s at offset %#x: pointer %#x corrected to %#x",
					s.Name, tag.Name, pos, sub, fixed))
				sub = fixed
			}
			child, err := d.DecodeIFD(sub, tag.Sub)
			if err != nil {
				return nil, err
			}
			dir.entries[id] = &Node{Desc: tag, Dir: child}
		}
		pos += entrySize
	}
	return dir, nil
}

func (d *Decoder) readValue(s *Schema, tag *Tag, typ Type, count, slot uint32) (*Value, error) {
	size := typ.Size()
	if size == 0 {
		err := errors.Errorf("%s tag %s at offset %#x: unknown type code %d", s.Name, tag.Name, slot-8, uint16(typ))
		log.Warn().Err(err).Msg("exif: keeping raw value")
		d.warn(err)
		return &Value{Type: typ, Count: count, Offset: slot, Inline: true,
			Raw: append([]byte(nil), d.buf[slot:slot+slotSize]...)}, nil
	}

	total := uint64(size) * uint64(count)
	v := &Value{Type: typ, Count: count, Offset: slot, Inline: total <= slotSize}
	if !v.Inline {
		v.Offset = d.order.Uint32(d.buf, int(slot))
	}
	if !d.has(v.Offset, total) {
		return nil, errors.Wrapf(ErrTruncated, "%s tag %s value of %d bytes at offset %#x",
			s.Name, tag.Name, total, v.Offset)
	}

	p, n := int(v.Offset), int(count)
	switch typ {
	case TypeByte, TypeUndefined:
		v.Raw = append([]byte(nil), d.buf[p:p+n]...)
	case TypeASCII:
		raw := d.buf[p : p+n]
		if n == 0 || raw[n-1] != 0 {
			err := errors.Errorf("%s tag %s at offset %#x: ASCII value not NUL-terminated", s.Name, tag.Name, p)
			log.Warn().Err(err).Msg("exif: keeping trimmed value")
			d.warn(err)
		}
		v.Str = strings.TrimRight(string(raw), "\x00\t\n\r ")
	case TypeShort:
		v.Shorts = make([]uint16, n)
		for i := range v.Shorts {
			v.Shorts[i] = d.order.Uint16(d.buf, p+2*i)
		}
	case TypeLong:
		v.Longs = make([]uint32, n)
		for i := range v.Longs {
			v.Longs[i] = d.order.Uint32(d.buf, p+4*i)
		}
	case TypeSignedLong:
		v.SLongs = make([]int32, n)
		for i := range v.SLongs {
			v.SLongs[i] = int32(d.order.Uint32(d.buf, p+4*i))
		}
	case TypeRational:
		v.Rationals = make([]Rational, n)
		for i := range v.Rationals {
			v.Rationals[i] = Rational{d.order.Uint32(d.buf, p+8*i), d.order.Uint32(d.buf, p+8*i+4)}
		}
	case TypeSignedRational:
		v.SRats = make([]SignedRational, n)
		for i := range v.SRats {
			v.SRats[i] = SignedRational{int32(d.order.Uint32(d.buf, p+8*i)), int32(d.order.Uint32(d.buf, p+8*i+4))}
		}
	}
	return v, nil
}
