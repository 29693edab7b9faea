package exif

import (
	"github.com/pkg/errors"
)

// ByteOrder selects how multi-byte integers in a TIFF payload are read.
// It is chosen once per payload from the "II"/"MM" marker and passed
// explicitly to every read.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little-endian (II)"
	}
	return "big-endian (MM)"
}

// Uint16 reads 2 bytes at off. The caller guarantees off+2 <= len(b).
func (o ByteOrder) Uint16(b []byte, off int) uint16 {
	if o == LittleEndian {
		return uint16(b[off]) | uint16(b[off+1])<<8
	}
	return uint16(b[off])<<8 | uint16(b[off+1])
}

// Uint32 reads 4 bytes at off. The caller guarantees off+4 <= len(b).
func (o ByteOrder) Uint32(b []byte, off int) uint32 {
	if o == LittleEndian {
		return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	}
	return uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3])
}

// PutUint16 returns v encoded as 2 raw bytes.
func (o ByteOrder) PutUint16(v uint16) []byte {
	if o == LittleEndian {
		return []byte{byte(v), byte(v >> 8)}
	}
	return []byte{byte(v >> 8), byte(v)}
}

// ByteOrderFromMarker interprets the first two bytes of a TIFF header.
func ByteOrderFromMarker(b []byte) (ByteOrder, error) {
	if len(b) < 2 {
		return BigEndian, errors.Wrap(ErrTruncated, "byte order marker at offset 0x0")
	}
	switch string(b[:2]) {
	case "II":
		return LittleEndian, nil
	case "MM":
		return BigEndian, nil
	}
	return BigEndian, errors.Wrapf(ErrByteOrder, "marker %q at offset 0x0", b[:2])
}
