package exif

import (
	"bytes"
	"fmt"
)

// Maker notes are vendor-proprietary. They are only previewed: the vendor
// is guessed from a known prefix and the size is reported. Apple notes
// additionally report how many binary property lists they embed.

var makerPrefixes = []struct {
	prefix string
	vendor string
}{
	{"Apple iOS\x00", "Apple"},
	{"Nikon\x00", "Nikon"},
	{"OLYMPUS\x00", "Olympus"},
	{"OLYMP\x00", "Olympus"},
	{"FUJIFILM", "Fujifilm"},
	{"Panasonic\x00", "Panasonic"},
	{"SONY DSC \x00", "Sony"},
	{"PENTAX \x00", "Pentax"},
	{"AOC\x00", "Pentax"},
	{"QVC\x00", "Casio"},
}

var bplistMagic = []byte("bplist00")

// MakerNoteVendor returns the vendor whose signature prefixes raw, or ""
// when none matches.
func MakerNoteVendor(raw []byte) string {
	for _, p := range makerPrefixes {
		if bytes.HasPrefix(raw, []byte(p.prefix)) {
			return p.vendor
		}
	}
	return ""
}

func formatMakerNote(v *Value) string {
	if v.Type != TypeUndefined {
		return v.String()
	}
	vendor := MakerNoteVendor(v.Raw)
	if vendor == "" {
		return fmt.Sprintf("%d bytes", len(v.Raw))
	}
	if vendor == "Apple" {
		if n := bytes.Count(v.Raw, bplistMagic); n > 0 {
			return fmt.Sprintf("%s, %d bytes, %d property lists", vendor, len(v.Raw), n)
		}
	}
	return fmt.Sprintf("%s, %d bytes", vendor, len(v.Raw))
}
