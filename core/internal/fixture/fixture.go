// Package fixture synthesizes TIFF payloads and JPEG/PNG files carrying
// them, for tests.
package fixture

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// Entry is one IFD entry. Exactly one of encode or Sub is set.
type Entry struct {
	Tag    uint16
	Type   uint16
	Count  uint32
	Sub    *IFD
	encode func(o binary.ByteOrder) []byte
}

type IFD struct {
	Entries []Entry
}

func Dir(entries ...Entry) *IFD { return &IFD{Entries: entries} }

// Pointer is a LONG entry holding the offset of sub.
func Pointer(tag uint16, sub *IFD) Entry {
	return Entry{Tag: tag, Type: 4, Count: 1, Sub: sub}
}

func ASCII(tag uint16, s string) Entry {
	return RawASCII(tag, s+"\x00")
}

// RawASCII stores s as is, without adding a NUL terminator.
func RawASCII(tag uint16, s string) Entry {
	return Entry{Tag: tag, Type: 2, Count: uint32(len(s)),
		encode: func(binary.ByteOrder) []byte { return []byte(s) }}
}

func Bytes(tag uint16, b ...byte) Entry {
	return Entry{Tag: tag, Type: 1, Count: uint32(len(b)),
		encode: func(binary.ByteOrder) []byte { return b }}
}

func Undefined(tag uint16, b []byte) Entry {
	return Entry{Tag: tag, Type: 7, Count: uint32(len(b)),
		encode: func(binary.ByteOrder) []byte { return b }}
}

func Short(tag uint16, v ...uint16) Entry {
	return Entry{Tag: tag, Type: 3, Count: uint32(len(v)),
		encode: func(o binary.ByteOrder) []byte {
			b := make([]byte, 2*len(v))
			for i, x := range v {
				o.PutUint16(b[2*i:], x)
			}
			return b
		}}
}

func Long(tag uint16, v ...uint32) Entry {
	return Entry{Tag: tag, Type: 4, Count: uint32(len(v)), encode: longs(v)}
}

func SLong(tag uint16, v ...int32) Entry {
	u := make([]uint32, len(v))
	for i, x := range v {
		u[i] = uint32(x)
	}
	return Entry{Tag: tag, Type: 9, Count: uint32(len(v)), encode: longs(u)}
}

// Rational takes numerator/denominator pairs.
func Rational(tag uint16, nd ...uint32) Entry {
	return Entry{Tag: tag, Type: 5, Count: uint32(len(nd) / 2), encode: longs(nd)}
}

// SRational takes numerator/denominator pairs.
func SRational(tag uint16, nd ...int32) Entry {
	e := SLong(tag, nd...)
	e.Type, e.Count = 10, uint32(len(nd)/2)
	return e
}

// Raw is an entry with an arbitrary type code and 4-byte slot.
func Raw(tag, typ uint16, count uint32, slot [4]byte) Entry {
	return Entry{Tag: tag, Type: typ, Count: count,
		encode: func(binary.ByteOrder) []byte { return slot[:] }}
}

func longs(v []uint32) func(binary.ByteOrder) []byte {
	return func(o binary.ByteOrder) []byte {
		b := make([]byte, 4*len(v))
		for i, x := range v {
			o.PutUint32(b[4*i:], x)
		}
		return b
	}
}

// TIFF lays out root at offset 8, followed by each IFD's out-of-line
// values and nested IFDs in entry order. The value slot of entry i of
// IFD0 is therefore at 8+2+12*i+8.
func TIFF(o binary.ByteOrder, root *IFD) []byte {
	b := &builder{o: o}
	if o == binary.LittleEndian {
		b.buf = append(b.buf, 'I', 'I', 0, 0, 0, 0, 0, 0)
	} else {
		b.buf = append(b.buf, 'M', 'M', 0, 0, 0, 0, 0, 0)
	}
	o.PutUint16(b.buf[2:], 42)
	o.PutUint32(b.buf[4:], 8)
	b.ifd(root)
	return b.buf
}

// Append lays out d at the end of buf and returns the extended buffer.
func Append(o binary.ByteOrder, buf []byte, d *IFD) []byte {
	b := &builder{o: o, buf: buf}
	b.ifd(d)
	return b.buf
}

type builder struct {
	o   binary.ByteOrder
	buf []byte
}

func (b *builder) ifd(d *IFD) uint32 {
	start := len(b.buf)
	b.buf = append(b.buf, make([]byte, 2+12*len(d.Entries)+4)...)
	b.o.PutUint16(b.buf[start:], uint16(len(d.Entries)))
	for i, e := range d.Entries {
		p := start + 2 + 12*i
		b.o.PutUint16(b.buf[p:], e.Tag)
		b.o.PutUint16(b.buf[p+2:], e.Type)
		b.o.PutUint32(b.buf[p+4:], e.Count)
		if e.Sub != nil {
			off := b.ifd(e.Sub)
			b.o.PutUint32(b.buf[p+8:], off)
			continue
		}
		data := e.encode(b.o)
		if len(data) <= 4 && e.Type != 5 && e.Type != 10 {
			copy(b.buf[p+8:p+12], data)
			continue
		}
		off := len(b.buf)
		b.buf = append(b.buf, data...)
		if len(b.buf)%2 != 0 {
			b.buf = append(b.buf, 0)
		}
		b.o.PutUint32(b.buf[p+8:], uint32(off))
	}
	return uint32(start)
}

// Segment returns a JPEG marker segment with its length field.
func Segment(marker byte, payload []byte) []byte {
	n := len(payload) + 2
	return append([]byte{0xFF, marker, byte(n >> 8), byte(n)}, payload...)
}

// ExifSegment wraps a TIFF payload into an APP1 Exif segment. The TIFF
// payload starts 10 bytes into the returned slice.
func ExifSegment(tiff []byte) []byte {
	return Segment(0xE1, append([]byte("Exif\x00\x00"), tiff...))
}

func XMPSegment(xmp string) []byte {
	return Segment(0xE1, append([]byte("http://ns.adobe.com/xap/1.0/\x00"), xmp...))
}

// JFIFSegment is a minimal APP0 JFIF 1.01 segment.
func JFIFSegment() []byte {
	return Segment(0xE0, []byte{'J', 'F', 'I', 'F', 0, 1, 1, 0, 0, 1, 0, 1, 0, 0})
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

// JPEG encodes a w×h image and inserts segs right after SOI.
func JPEG(w, h int, segs ...[]byte) []byte {
	var enc bytes.Buffer
	if err := jpeg.Encode(&enc, testImage(w, h), &jpeg.Options{Quality: 75}); err != nil {
		panic(err)
	}
	raw := enc.Bytes()
	out := append([]byte{}, raw[:2]...)
	for _, s := range segs {
		out = append(out, s...)
	}
	return append(out, raw[2:]...)
}

// ExifJPEG is a JPEG whose first segment is the Exif APP1 built from
// tiff; the TIFF payload starts at file offset 12.
func ExifJPEG(w, h int, tiff []byte, segs ...[]byte) []byte {
	return JPEG(w, h, append([][]byte{ExifSegment(tiff)}, segs...)...)
}

// ExifOffset is the file offset of the TIFF payload in ExifJPEG output.
const ExifOffset = 12

// Chunk returns a PNG chunk with a valid CRC.
func Chunk(typ string, data []byte) []byte {
	out := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], typ)
	out = append(out, data...)
	crc := crc32.NewIEEE()
	crc.Write(out[4:])
	return binary.BigEndian.AppendUint32(out, crc.Sum32())
}

// XMPChunk is an uncompressed iTXt chunk with the Adobe XMP keyword.
func XMPChunk(xmp string) []byte {
	return Chunk("iTXt", append([]byte("XML:com.adobe.xmp\x00\x00\x00\x00\x00"), xmp...))
}

// PNG encodes a w×h image and inserts chunks right after IHDR.
func PNG(w, h int, chunks ...[]byte) []byte {
	var enc bytes.Buffer
	if err := png.Encode(&enc, testImage(w, h)); err != nil {
		panic(err)
	}
	raw := enc.Bytes()
	const ihdrEnd = 8 + 8 + 13 + 4
	out := append([]byte{}, raw[:ihdrEnd]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return append(out, raw[ihdrEnd:]...)
}

// XMPDateCreated is an XMP packet carrying photoshop:DateCreated.
func XMPDateCreated(date string) string {
	return `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="" xmlns:photoshop="http://ns.adobe.com/photoshop/1.0/">` +
		`<photoshop:DateCreated>` + date + `</photoshop:DateCreated>` +
		`</rdf:Description></rdf:RDF></x:xmpmeta>`
}
