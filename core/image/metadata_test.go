package image

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/internal/fixture"
	"github.com/pkg/errors"
	goexif "github.com/rwcarlsen/goexif/exif"
)

func cameraTIFF(o binary.ByteOrder, orientation uint16, dateTimeOriginal string) []byte {
	return fixture.TIFF(o, fixture.Dir(
		fixture.Short(exif.TagOrientation, orientation),
		fixture.ASCII(271, "Canon"),
		fixture.ASCII(272, "Canon EOS 5D"),
		fixture.Pointer(exif.TagExifIFD, fixture.Dir(
			fixture.Rational(33434, 1, 125),
			fixture.ASCII(exif.TagDateTimeOriginal, dateTimeOriginal),
		)),
	))
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestOpenJPEG(t *testing.T) {
	for _, o := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		path := writeFile(t, "photo.jpg", fixture.ExifJPEG(64, 48, cameraTIFF(o, 6, "2008:06:27 08:36:55")))
		m, err := Open(path)
		if err != nil {
			t.Fatalf("%v: Open failed: %v", o, err)
		}
		if m.Format != core.FmtJPEG || !m.Supported() {
			t.Fatalf("%v: format = %v", o, m.Format)
		}
		if m.Width != 64 || m.Height != 48 {
			t.Fatalf("%v: size = %dx%d", o, m.Width, m.Height)
		}
		if m.ExifOffset != fixture.ExifOffset {
			t.Fatalf("%v: ExifOffset = %d", o, m.ExifOffset)
		}
		v, ok := m.Orientation()
		if !ok || v.Shorts[0] != 6 {
			t.Fatalf("%v: orientation not decoded", o)
		}
		if m.Exif.String(272) != "Canon EOS 5D" {
			t.Fatalf("%v: Model = %q", o, m.Exif.String(272))
		}
	}
}

func TestAgreesWithGoexif(t *testing.T) {
	data := fixture.ExifJPEG(16, 16, cameraTIFF(binary.BigEndian, 8, "2008:06:27 08:36:55"))
	m, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	x, err := goexif.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("goexif.Decode failed: %v", err)
	}
	tag, err := x.Get(goexif.Orientation)
	if err != nil {
		t.Fatalf("goexif has no orientation: %v", err)
	}
	want, _ := tag.Int(0)
	if v, _ := m.Orientation(); int(v.Shorts[0]) != want {
		t.Fatalf("orientation = %d, goexif says %d", v.Shorts[0], want)
	}

	taken, err := x.DateTime()
	if err != nil {
		t.Fatalf("goexif has no DateTime: %v", err)
	}
	if sec, ok := m.TimeCreated(); !ok || sec != taken.Unix() {
		t.Fatalf("TimeCreated = %d, %v; goexif says %d", sec, ok, taken.Unix())
	}
}

func TestOpenJFIFAndPNG(t *testing.T) {
	m, err := Decode(bytes.NewReader(fixture.JPEG(10, 7, fixture.JFIFSegment())))
	if err != nil {
		t.Fatalf("Decode JFIF failed: %v", err)
	}
	if m.Format != core.FmtJPEG || m.Exif != nil || m.Width != 10 || m.Height != 7 {
		t.Fatalf("JFIF decoded as %+v", m)
	}

	xmp := fixture.XMPDateCreated("2017-05-06T07:08:09")
	tiff := fixture.TIFF(binary.LittleEndian, fixture.Dir(fixture.Short(exif.TagOrientation, 3)))
	m, err = Decode(bytes.NewReader(fixture.PNG(12, 9, fixture.XMPChunk(xmp), fixture.Chunk("eXIf", tiff))))
	if err != nil {
		t.Fatalf("Decode PNG failed: %v", err)
	}
	if m.Format != core.FmtPNG || m.Width != 12 || m.Height != 9 || m.XMP != xmp {
		t.Fatalf("PNG decoded as %+v", m)
	}
	if v, ok := m.Orientation(); !ok || v.Shorts[0] != 3 {
		t.Fatalf("PNG eXIf orientation not decoded")
	}
}

func TestUnsupportedIsNotAnError(t *testing.T) {
	for name, data := range map[string][]byte{
		"gif":   []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"),
		"empty": nil,
		"short": {0xFF, 0xD8},
	} {
		m, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: Decode failed: %v", name, err)
		}
		if m.Supported() || m.Exif != nil || m.Width != 0 {
			t.Fatalf("%s: decoded as %+v", name, m)
		}
		if _, ok := m.TimeCreated(); ok {
			t.Fatalf("%s: unexpected creation time", name)
		}
	}
}

func TestCorruptExif(t *testing.T) {
	tiff := cameraTIFF(binary.LittleEndian, 1, "2008:06:27 08:36:55")
	tiff[2] = 0
	path := writeFile(t, "bad.jpg", fixture.ExifJPEG(8, 8, tiff))
	_, err := Open(path)
	if !errors.Is(err, exif.ErrMagic) {
		t.Fatalf("expected ErrMagic, got %v", err)
	}
	if !strings.Contains(err.Error(), "file offset 0xc") || !strings.Contains(err.Error(), path) {
		t.Fatalf("error lacks location: %v", err)
	}
}

func TestTimeCreated(t *testing.T) {
	want := time.Date(2008, 6, 27, 8, 36, 55, 0, time.Local).Unix()
	m, err := Decode(bytes.NewReader(fixture.ExifJPEG(8, 8, cameraTIFF(binary.LittleEndian, 1, "2008:06:27 08:36:55"))))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if sec, ok := m.TimeCreated(); !ok || sec != want {
		t.Fatalf("TimeCreated = %d, %v; want %d", sec, ok, want)
	}

	m, _ = Decode(bytes.NewReader(fixture.ExifJPEG(8, 8, cameraTIFF(binary.LittleEndian, 1, "2008:13:45 99:00:00"))))
	if _, ok := m.TimeCreated(); ok {
		t.Fatalf("malformed DateTimeOriginal accepted")
	}

	m, _ = Decode(bytes.NewReader(fixture.ExifJPEG(8, 8,
		fixture.TIFF(binary.LittleEndian, fixture.Dir(fixture.Short(exif.TagOrientation, 1))))))
	if _, ok := m.TimeCreated(); ok {
		t.Fatalf("creation time reported without Exif IFD")
	}
}

func TestTimeCreatedPrefersXMP(t *testing.T) {
	tiff := cameraTIFF(binary.LittleEndian, 1, "2008:06:27 08:36:55")
	xmp := fixture.XMPDateCreated("2021-03-04T05:06:07")
	m, err := Decode(bytes.NewReader(fixture.ExifJPEG(8, 8, tiff, fixture.XMPSegment(xmp))))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := time.Date(2021, 3, 4, 5, 6, 7, 0, time.Local).Unix()
	if sec, ok := m.TimeCreated(); !ok || sec != want {
		t.Fatalf("TimeCreated = %d, %v; want XMP time %d", sec, ok, want)
	}

	attr := &Metadata{XMP: `<rdf:Description photoshop:DateCreated="2020-01-02T03:04:05+01:00"/>`}
	want = time.Date(2020, 1, 2, 3, 4, 5, 0, time.Local).Unix()
	if sec, ok := attr.TimeCreated(); !ok || sec != want {
		t.Fatalf("attribute form: TimeCreated = %d, %v; want %d", sec, ok, want)
	}

	// A date without a time does not match and Exif is used instead.
	m.XMP = fixture.XMPDateCreated("2021-03-04")
	want = time.Date(2008, 6, 27, 8, 36, 55, 0, time.Local).Unix()
	if sec, ok := m.TimeCreated(); !ok || sec != want {
		t.Fatalf("fallback: TimeCreated = %d, %v; want %d", sec, ok, want)
	}
}

func TestTimeCreatedXMPWithoutDate(t *testing.T) {
	tiff := cameraTIFF(binary.BigEndian, 1, "2008:06:27 08:36:55")
	xmp := `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmp:CreatorTool="GIMP 2.10"/>` +
		`</rdf:RDF></x:xmpmeta>`
	m, err := Decode(bytes.NewReader(fixture.ExifJPEG(8, 8, tiff, fixture.XMPSegment(xmp))))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if m.XMP == "" {
		t.Fatalf("XMP packet not captured")
	}
	want := time.Date(2008, 6, 27, 8, 36, 55, 0, time.Local).Unix()
	if sec, ok := m.TimeCreated(); !ok || sec != want {
		t.Fatalf("TimeCreated = %d, %v; want Exif time %d", sec, ok, want)
	}

	m.Exif = nil
	if _, ok := m.TimeCreated(); ok {
		t.Fatalf("creation time reported from XMP without a date")
	}
}

func TestView(t *testing.T) {
	xmp := fixture.XMPDateCreated("2021-03-04T05:06:07")
	path := writeFile(t, "view.jpg", fixture.ExifJPEG(20, 10,
		cameraTIFF(binary.LittleEndian, 6, "2008:06:27 08:36:55"), fixture.XMPSegment(xmp)))

	v, err := New(core.FmtJPEG).View(path)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if v.Format != "JPEG" || v.Width != 20 || v.Height != 10 || v.Created == 0 {
		t.Fatalf("view header = %+v", v)
	}

	fields := map[string]core.MetaField{}
	for _, f := range v.Fields {
		fields[f.Key] = f
	}
	if f := fields["Orientation"]; f.Value != "6" || !f.Editable || f.Category != "IFD0" {
		t.Fatalf("Orientation field = %+v", f)
	}
	if f := fields["ExposureTime"]; f.Value != "1/125" || f.Depth != 1 || f.Editable {
		t.Fatalf("ExposureTime field = %+v", f)
	}
	if f := fields["photoshop:DateCreated"]; f.Value != "2021-03-04T05:06:07" || f.Category != "XMP" {
		t.Fatalf("XMP field = %+v", f)
	}
}

func TestParseXMP(t *testing.T) {
	xmp := `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:acme="http://example.com/acme/" xmp:CreatorTool="Darktable 4.6" acme:Rating="5">` +
		`<dc:subject><rdf:Bag><rdf:li>harbour</rdf:li><rdf:li>night</rdf:li></rdf:Bag></dc:subject>` +
		`<dc:title><rdf:Alt><rdf:li xml:lang="x-default">Pier</rdf:li></rdf:Alt></dc:title>` +
		`</rdf:Description></rdf:RDF></x:xmpmeta>`

	m := &core.Metadata{}
	parseXMPInto([]byte(xmp), m)

	var got []string
	for _, f := range m.Fields {
		if f.Category != "XMP" {
			t.Fatalf("field %s has category %q", f.Key, f.Category)
		}
		got = append(got, f.Key+"="+f.Value)
	}
	want := []string{"xmp:CreatorTool=Darktable 4.6", "Rating=5",
		"dc:subject=harbour", "dc:subject=night", "dc:title=Pier"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("XMP fields = %v, want %v", got, want)
	}
}
