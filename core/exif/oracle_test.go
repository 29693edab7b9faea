package exif

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/ankit-chaubey/exif-surgery/core/internal/fixture"
	"github.com/rwcarlsen/goexif/tiff"
)

// TestAgreesWithGoexifTIFF decodes the same IFD0 with goexif's TIFF
// reader and compares types, counts, storage offsets and values.
func TestAgreesWithGoexifTIFF(t *testing.T) {
	for _, o := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		buf := fixture.TIFF(o, fixture.Dir(
			fixture.ASCII(271, "FUJIFILM"),
			fixture.ASCII(272, "X"),
			fixture.Short(274, 8),
			fixture.Rational(282, 300, 1),
			fixture.Short(296, 2),
			fixture.Long(273, 100, 200, 300),
			fixture.SLong(50003, -7),
		))

		p, err := Decode(buf)
		if err != nil {
			t.Fatalf("%v: Decode failed: %v", o, err)
		}
		ref, err := tiff.Decode(bytes.NewReader(buf))
		if err != nil {
			t.Fatalf("%v: tiff.Decode failed: %v", o, err)
		}
		if len(ref.Dirs) == 0 || len(ref.Dirs[0].Tags) != p.Root.Len() {
			t.Fatalf("%v: goexif sees a different IFD0", o)
		}

		for _, tag := range ref.Dirs[0].Tags {
			v, ok := p.Root.Value(tag.Id)
			if !ok {
				t.Fatalf("%v: tag %d missing", o, tag.Id)
			}
			if uint16(v.Type) != uint16(tag.Type) || v.Count != tag.Count {
				t.Fatalf("%v: tag %d is %s x%d, goexif says type %d x%d", o, tag.Id, v.Type, v.Count, tag.Type, tag.Count)
			}
			if !v.Inline && v.Offset != tag.ValOffset {
				t.Fatalf("%v: tag %d stored at %#x, goexif says %#x", o, tag.Id, v.Offset, tag.ValOffset)
			}

			switch v.Type {
			case TypeASCII:
				s, err := tag.StringVal()
				if err != nil || strings.TrimRight(s, "\x00") != v.Str {
					t.Fatalf("%v: tag %d = %q, goexif says %q", o, tag.Id, v.Str, s)
				}
			case TypeRational:
				num, den, err := tag.Rat2(0)
				if err != nil || uint32(num) != v.Rationals[0].Num || uint32(den) != v.Rationals[0].Den {
					t.Fatalf("%v: tag %d = %v, goexif says %d/%d", o, tag.Id, v.Rationals, num, den)
				}
			default:
				for i := 0; i < v.Len(); i++ {
					want, err := tag.Int(i)
					got, _ := v.Int(i)
					if err != nil || got != int64(want) {
						t.Fatalf("%v: tag %d[%d] = %d, goexif says %d", o, tag.Id, i, got, want)
					}
				}
			}
		}
	}
}
