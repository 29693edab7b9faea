// Package png reads the PNG chunks that carry image size and metadata.
package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotPNG    = errors.New("png: invalid signature")
	ErrNotIHDR   = errors.New("png: first chunk is not IHDR")
	ErrTruncated = errors.New("png: chunk truncated")
)

// Signature is the fixed 8-byte PNG file signature.
var Signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

const xmpKeyword = "XML:com.adobe.xmp"

// maxChunkLength is the largest chunk length the PNG format allows.
const maxChunkLength = 1<<31 - 1

// Chunks holds what Read found in a PNG stream.
type Chunks struct {
	Width, Height int

	XMP []byte

	// Exif is the payload of an eXIf chunk and ExifOffset its absolute
	// position in the stream.
	Exif       []byte
	ExifOffset int64
}

// Read parses the signature and IHDR chunk, then scans the remaining
// chunks for metadata until IEND. CRCs are not verified.
func Read(r io.Reader) (*Chunks, error) {
	sig := make([]byte, len(Signature))
	if _, err := io.ReadFull(r, sig); err != nil || !bytes.Equal(sig, Signature) {
		return nil, ErrNotPNG
	}
	pos := int64(len(Signature))

	c := &Chunks{}
	first := true
	var hdr [8]byte
	for {
		_, err := io.ReadFull(r, hdr[:])
		if err == io.EOF && !first {
			log.Debug().Int64("offset", pos).Msg("png: end of data without IEND")
			return c, nil
		}
		if err != nil {
			return nil, errors.Wrapf(ErrTruncated, "chunk header at offset %#x", pos)
		}
		length := int64(binary.BigEndian.Uint32(hdr[:4]))
		typ := string(hdr[4:8])
		if length > maxChunkLength {
			return nil, errors.Wrapf(ErrTruncated, "%s length %#x at offset %#x exceeds the format limit", typ, length, pos)
		}
		pos += 8

		if first {
			if typ != "IHDR" || length < 8 {
				return nil, errors.Wrapf(ErrNotIHDR, "found %q at offset %#x", typ, pos-8)
			}
			first = false
		}

		switch typ {
		case "IHDR", "iTXt", "eXIf":
			data, err := readData(r, length)
			if err != nil {
				return nil, errors.Wrapf(ErrTruncated, "%s data of %d bytes at offset %#x", typ, length, pos)
			}
			switch typ {
			case "IHDR":
				c.Width = int(binary.BigEndian.Uint32(data[0:4]))
				c.Height = int(binary.BigEndian.Uint32(data[4:8]))
			case "iTXt":
				if c.XMP == nil {
					c.XMP = readXMP(data)
				}
			case "eXIf":
				if c.Exif == nil {
					c.Exif, c.ExifOffset = data, pos
				}
			}
			if _, err := io.ReadFull(r, hdr[:4]); err != nil {
				return nil, errors.Wrapf(ErrTruncated, "%s CRC at offset %#x", typ, pos+length)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, length+4); err != nil {
				return nil, errors.Wrapf(ErrTruncated, "%s data of %d bytes at offset %#x", typ, length, pos)
			}
		}
		pos += length + 4

		if typ == "IEND" {
			return c, nil
		}
	}
}

// readData reads exactly n bytes. The buffer grows with the data actually
// read, so a length field larger than the stream costs no more memory
// than the stream itself.
func readData(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readXMP returns the text of an iTXt chunk whose keyword is the Adobe
// XMP key, or nil.
//
//	keyword \0 compression-flag compression-method language \0 translated-keyword \0 text
func readXMP(data []byte) []byte {
	key := []byte(xmpKeyword + "\x00")
	if !bytes.HasPrefix(data, key) || len(data) < len(key)+2 {
		return nil
	}
	compressed := data[len(key)] != 0
	rest := data[len(key)+2:]
	for i := 0; i < 2; i++ {
		n := bytes.IndexByte(rest, 0)
		if n < 0 {
			return nil
		}
		rest = rest[n+1:]
	}
	if !compressed {
		return rest
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		log.Warn().Err(err).Msg("png: skipping compressed XMP")
		return nil
	}
	defer zr.Close()
	text, err := io.ReadAll(zr)
	if err != nil {
		log.Warn().Err(err).Msg("png: skipping compressed XMP")
		return nil
	}
	return text
}
