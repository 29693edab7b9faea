package image

import (
	"io"
	"os"
	"regexp"
	"time"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/jpg"
	"github.com/ankit-chaubey/exif-surgery/core/png"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Metadata is the result of one decode pass over an image file. It is
// not modified after Decode returns.
type Metadata struct {
	Path   string
	Format core.FormatID

	// Width and Height are 0 when the format is not supported.
	Width, Height int

	// Exif is the decoded IFD0, nil when the file carries no Exif payload.
	Exif *exif.Directory
	// ExifOffset is the absolute file offset of the TIFF header the
	// offsets inside Exif are relative to.
	ExifOffset int64
	ByteOrder  exif.ByteOrder

	XMP string

	warnings []error
}

// Supported reports whether the file was recognised as JPEG or PNG.
func (m *Metadata) Supported() bool { return m.Format != core.FmtUnknown }

// Warnings returns non-fatal problems met while decoding the Exif payload.
func (m *Metadata) Warnings() []error { return m.warnings }

// Open decodes the file at path.
func Open(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	m.Path = path
	return m, nil
}

// Decode dispatches on the first bytes of r. Unrecognised data yields a
// Metadata with Format core.FmtUnknown and no error.
func Decode(r io.ReadSeeker) (*Metadata, error) {
	magic := make([]byte, core.MagicSize)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Wrap(err, "image: read error")
	}

	m := &Metadata{Format: core.DetectMagic(magic[:n])}
	var payload []byte
	switch m.Format {
	case core.FmtJPEG:
		segs, err := jpg.Scan(r)
		if err != nil {
			return nil, err
		}
		m.Width, m.Height = segs.Width, segs.Height
		m.XMP = string(segs.XMP)
		if segs.HasExif() {
			payload, m.ExifOffset = segs.Exif, segs.ExifOffset
		}

	case core.FmtPNG:
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, errors.Wrap(err, "image: seek error")
		}
		chunks, err := png.Read(r)
		if err != nil {
			return nil, err
		}
		m.Width, m.Height = chunks.Width, chunks.Height
		m.XMP = string(chunks.XMP)
		payload, m.ExifOffset = chunks.Exif, chunks.ExifOffset

	default:
		log.Debug().Hex("magic", magic[:n]).Msg("image: unsupported format")
		return m, nil
	}

	if payload != nil {
		p, err := exif.Decode(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "Exif payload at file offset %#x", m.ExifOffset)
		}
		m.Exif, m.ByteOrder, m.warnings = p.Root, p.Order, p.Warnings()
	}
	return m, nil
}

var xmpDateCreated = regexp.MustCompile(
	`photoshop:DateCreated(?:>|=["'])(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})`)

const (
	xmpTimeLayout  = "2006-01-02T15:04:05"
	exifTimeLayout = "2006:01:02 15:04:05"
)

// TimeCreated returns the creation time in Unix seconds, read from the
// XMP photoshop:DateCreated element or else the Exif DateTimeOriginal.
// Both are interpreted in the local time zone. ok is false when neither
// is present and parseable.
func (m *Metadata) TimeCreated() (sec int64, ok bool) {
	if m.XMP != "" {
		if match := xmpDateCreated.FindStringSubmatch(m.XMP); match != nil {
			if t, err := time.ParseInLocation(xmpTimeLayout, match[1], time.Local); err == nil {
				return t.Unix(), true
			}
		}
	}
	if m.Exif == nil {
		return 0, false
	}
	sub, found := m.Exif.Sub(exif.TagExifIFD)
	if !found {
		return 0, false
	}
	s := sub.String(exif.TagDateTimeOriginal)
	if s == "" {
		return 0, false
	}
	t, err := time.ParseInLocation(exifTimeLayout, s, time.Local)
	if err != nil {
		log.Debug().Str("path", m.Path).Str("value", s).Msg("image: unparseable DateTimeOriginal")
		return 0, false
	}
	return t.Unix(), true
}

// Orientation returns the IFD0 Orientation value when it is a single SHORT.
func (m *Metadata) Orientation() (*exif.Value, bool) {
	if m.Exif == nil {
		return nil, false
	}
	v, ok := m.Exif.Value(exif.TagOrientation)
	if !ok || v.Type != exif.TypeShort || v.Count != 1 {
		return nil, false
	}
	return v, true
}
