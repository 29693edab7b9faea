// Package jpg walks JPEG marker segments to find the frame size and the
// Exif and XMP APP1 payloads.
package jpg

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotJPEG   = errors.New("jpg: missing SOI marker")
	ErrMarker    = errors.New("jpg: marker not preceded by 0xFF")
	ErrTruncated = errors.New("jpg: segment truncated")
	ErrNoFrame   = errors.New("jpg: no start-of-frame marker")
)

var (
	exifPrefix = []byte("Exif\x00\x00")
	xmpPrefix  = []byte("http://ns.adobe.com/xap/1.0/\x00")
)

const (
	markerAPP1 = 0xE1
	markerTEM  = 0x01
)

// Segments is what Scan collects before the start-of-frame marker.
type Segments struct {
	Width, Height int

	// Exif is the TIFF payload of the first Exif APP1 segment and
	// ExifOffset its absolute position in the stream.
	Exif       []byte
	ExifOffset int64

	XMP []byte
}

// HasExif reports whether an Exif APP1 segment was found.
func (s *Segments) HasExif() bool { return s.Exif != nil }

func isStartOfFrame(m byte) bool {
	switch m {
	case 0xC0, 0xC1, 0xC2, 0xC3,
		0xC5, 0xC6, 0xC7,
		0xC9, 0xCA, 0xCB,
		0xCD, 0xCE, 0xCF:
		return true
	}
	return false
}

// Scan reads r from its start, marker by marker, until the first
// start-of-frame header. Reaching the end of data first is an error.
func Scan(r io.ReadSeeker) (*Segments, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "jpg: seek error")
	}
	var buf [6]byte
	if _, err := io.ReadFull(r, buf[:2]); err != nil || buf[0] != 0xFF || buf[1] != 0xD8 {
		return nil, ErrNotJPEG
	}

	s := &Segments{}
	pos := int64(2)
	for {
		_, err := io.ReadFull(r, buf[:2])
		if err == io.EOF {
			return nil, errors.Wrapf(ErrNoFrame, "end of data at offset %#x", pos)
		}
		if err != nil {
			return nil, errors.Wrapf(ErrTruncated, "marker at offset %#x", pos)
		}
		if buf[0] != 0xFF {
			return nil, errors.Wrapf(ErrMarker, "byte %#02x at offset %#x", buf[0], pos)
		}
		marker := buf[1]
		pos += 2
		for marker == 0xFF { // fill bytes
			if _, err := io.ReadFull(r, buf[:1]); err != nil {
				return nil, errors.Wrapf(ErrTruncated, "fill byte at offset %#x", pos)
			}
			marker = buf[0]
			pos++
		}

		switch {
		case marker == markerTEM || (marker >= 0xD0 && marker <= 0xD9):
			continue
		case isStartOfFrame(marker):
			if _, err := io.ReadFull(r, buf[:6]); err != nil {
				return nil, errors.Wrapf(ErrTruncated, "frame header at offset %#x", pos)
			}
			s.Height = int(binary.BigEndian.Uint16(buf[1:3]))
			s.Width = int(binary.BigEndian.Uint16(buf[3:5]))
			log.Debug().Int("width", s.Width).Int("height", s.Height).Int64("offset", pos).
				Msgf("jpg: frame marker %#02x", marker)
			return s, nil
		}

		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return nil, errors.Wrapf(ErrTruncated, "segment length at offset %#x", pos)
		}
		length := int64(binary.BigEndian.Uint16(buf[:2]))
		if length < 2 {
			return nil, errors.Wrapf(ErrTruncated, "segment length %d at offset %#x", length, pos)
		}
		pos += 2
		length -= 2

		if marker == markerAPP1 {
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, errors.Wrapf(ErrTruncated, "APP1 segment of %d bytes at offset %#x", length, pos)
			}
			switch {
			case s.Exif == nil && bytes.HasPrefix(data, exifPrefix):
				s.Exif = data[len(exifPrefix):]
				s.ExifOffset = pos + int64(len(exifPrefix))
				log.Debug().Int64("offset", s.ExifOffset).Int("size", len(s.Exif)).Msg("jpg: Exif payload")
			case s.XMP == nil && bytes.HasPrefix(data, xmpPrefix):
				s.XMP = data[len(xmpPrefix):]
			}
			pos += length
			continue
		}

		if _, err := r.Seek(length, io.SeekCurrent); err != nil {
			return nil, errors.Wrap(err, "jpg: seek error")
		}
		pos += length
	}
}
