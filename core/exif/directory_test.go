package exif

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/ankit-chaubey/exif-surgery/core/internal/fixture"
)

func TestEntriesOrder(t *testing.T) {
	p, err := Decode(fixture.TIFF(binary.LittleEndian, fixture.Dir(
		fixture.ASCII(271, "Canon"),
		fixture.Short(43981, 1),
		fixture.ASCII(270, "desc"),
		fixture.Bytes(700, '<', 'x', '/', '>'),
	)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	var names []string
	for _, e := range p.Root.Entries() {
		names = append(names, e.Descriptor().Name)
	}
	want := []string{"700", "43981", "ImageDescription", "Make"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("Entries order = %v, want %v", names, want)
	}
}

func TestFieldsAndFormatters(t *testing.T) {
	apple := append([]byte("Apple iOS\x00\x00\x01MM"), []byte("....bplist00....bplist00..")...)
	p, err := Decode(fixture.TIFF(binary.BigEndian, fixture.Dir(
		fixture.ASCII(271, "Apple"),
		fixture.Pointer(TagExifIFD, fixture.Dir(
			fixture.Rational(33434, 1, 60),
			fixture.Rational(33437, 28, 10),
			fixture.Short(42081, 3, 2),
			fixture.Undefined(TagMakerNote, apple),
			fixture.Undefined(37121, []byte{1, 2, 3, 0}),
		)),
		fixture.Pointer(TagGPSIFD, fixture.Dir(
			fixture.Bytes(0, 2, 3, 0, 0),
			fixture.Rational(2, 37, 1, 48, 1, 30, 1),
			fixture.Rational(7, 8, 1, 5, 1, 9, 1),
		)),
	)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	got := map[string]Field{}
	var order []string
	for _, f := range p.Root.Fields() {
		got[f.Name] = f
		order = append(order, f.Name)
	}

	for name, want := range map[string]string{
		"Make":                              "Apple",
		"ExposureTime":                      "1/60",
		"FNumber":                           "ƒ/2.8",
		"SourceImageNumberOfCompositeImage": "3, 2",
		"MakerNote":                         "Apple, 40 bytes, 2 property lists",
		"ComponentsConfiguration":           "1 2 3 0",
		"GPSVersionID":                      "2.3.0.0",
		"GPSLatitude":                       "37.808333",
		"GPSTimeStamp":                      "08:05:09",
	} {
		if got[name].Value != want {
			t.Errorf("%s = %q, want %q", name, got[name].Value, want)
		}
	}

	if f := got["FNumber"]; f.Depth != 1 || f.Dir != "Exif IFD" || f.Kind != KindExif {
		t.Fatalf("FNumber placed at depth %d in %q", f.Depth, f.Dir)
	}
	if f := got["GPSLatitude"]; f.Kind != KindGPS {
		t.Fatalf("GPSLatitude kind = %d", f.Kind)
	}
	if f := got["Exif IFD"]; f.Depth != 0 || f.Value != "" || f.Kind != KindRoot {
		t.Fatalf("Exif IFD node field = %+v", f)
	}
	wantOrder := []string{"Exif IFD", "ComponentsConfiguration", "ExposureTime", "FNumber",
		"MakerNote", "SourceImageNumberOfCompositeImage", "GPS IFD", "GPSLatitude",
		"GPSTimeStamp", "GPSVersionID", "Make"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Fatalf("Fields order = %v\nwant %v", order, wantOrder)
	}
}

func TestMakerNoteVendor(t *testing.T) {
	for raw, want := range map[string]string{
		"Nikon\x00\x02\x10\x00\x00": "Nikon",
		"FUJIFILM\x0c\x00":          "Fujifilm",
		"random bytes":              "",
	} {
		if got := MakerNoteVendor([]byte(raw)); got != want {
			t.Errorf("MakerNoteVendor(%q) = %q, want %q", raw, got, want)
		}
	}
	v := &Value{Type: TypeUndefined, Count: 5, Raw: []byte("Nikon")}
	if got := formatMakerNote(v); got != "5 bytes" {
		t.Fatalf("unprefixed maker note = %q", got)
	}
}

func TestValueString(t *testing.T) {
	for _, tc := range []struct {
		v    *Value
		want string
	}{
		{&Value{Type: TypeASCII, Str: "a\tb"}, `a\x09b`},
		{&Value{Type: TypeUndefined, Raw: []byte{1}}, "..."},
		{&Value{Type: TypeShort, Shorts: []uint16{1, 2}}, "1 2"},
		{&Value{Type: TypeRational, Rationals: []Rational{{72, 1}}}, "72/1"},
		{&Value{Type: 13, Count: 1, Raw: []byte{1, 2, 3, 4}}, "13 x1 [01 02 03 04]"},
	} {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("%s value String() = %q, want %q", tc.v.Type, got, tc.want)
		}
	}
}
