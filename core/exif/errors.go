package exif

import "github.com/pkg/errors"

// Decode failures. They are returned wrapped with the offending offset;
// test for them with errors.Is.
var (
	ErrTruncated = errors.New("exif: data truncated")
	ErrByteOrder = errors.New("exif: invalid byte order marker")
	ErrMagic     = errors.New("exif: invalid TIFF magic number")
	ErrSubIFD    = errors.New("exif: sub-IFD pointer is not a single LONG")
)
