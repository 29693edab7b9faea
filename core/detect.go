package core

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FormatID enumerates every recognised format.
type FormatID string

const (
	FmtJPEG FormatID = "jpeg"
	FmtPNG  FormatID = "png"

	FmtUnknown FormatID = "unknown"
)

// MagicSize is the number of leading bytes DetectMagic looks at.
const MagicSize = 16

// extMap maps lowercase extensions to format IDs.
var extMap = map[string]FormatID{
	".jpg":  FmtJPEG,
	".jpeg": FmtJPEG,
	".png":  FmtPNG,
}

var (
	magicExif = []byte{0xFF, 0xD8, 0xFF, 0xE1}
	magicJFIF = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// DetectFormat returns the FormatID for the given file by its magic bytes.
// Files that match no signature are FmtUnknown without error.
func DetectFormat(path string) (FormatID, error) {
	f, err := os.Open(path)
	if err != nil {
		return FmtUnknown, err
	}
	defer f.Close()

	buf := make([]byte, MagicSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		if err == io.EOF {
			return FmtUnknown, nil
		}
		return FmtUnknown, err
	}
	return DetectMagic(buf[:n]), nil
}

// DetectMagic classifies the leading bytes of a file:
//
//	FF D8 FF E1 ?? ?? "Exif\0"  JPEG with Exif
//	FF D8 FF E0 ?? ?? "JFIF\0"  JPEG, Exif optional
//	89 "PNG" 0D 0A 1A 0A        PNG
func DetectMagic(b []byte) FormatID {
	switch {
	case len(b) >= 11 && bytes.HasPrefix(b, magicExif) && string(b[6:11]) == "Exif\x00":
		return FmtJPEG
	case len(b) >= 11 && bytes.HasPrefix(b, magicJFIF) && string(b[6:11]) == "JFIF\x00":
		return FmtJPEG
	case bytes.HasPrefix(b, magicPNG):
		return FmtPNG
	}
	return FmtUnknown
}

// FormatForExt returns the format a file name's extension stands for.
func FormatForExt(path string) FormatID {
	if id, ok := extMap[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	return FmtUnknown
}
