package exif

// Some camera firmware writes an Exif IFD pointer that is off by a small
// constant. The affected files are recognised by their IFD0 DateTime
// string together with the bad pointer value; nothing else is patched.
//
// Entries are keyed per file, not per camera model: no vendor list of
// affected firmware exists, so each line is one file whose pointer was
// seen to land inside the Exif IFD instead of at its entry count. The
// first two point 6 bytes past the IFD, the third 2 bytes past. A new
// case is added by the same pair of values.

type quirkKey struct {
	dateTime string
	offset   uint32
}

var subIFDQuirks = map[quirkKey]uint32{
	{"2004:08:27 13:52:55", 0x00000296}: 0x00000290,
	{"2004:08:27 14:00:21", 0x00000296}: 0x00000290,
	{"2005:11:20 10:14:03", 0x000000c6}: 0x000000c4,
}

// correctSubIFDOffset returns the corrected offset when (dateTime, off)
// matches a known-bad entry exactly.
func correctSubIFDOffset(dateTime string, off uint32) (uint32, bool) {
	if dateTime == "" {
		return off, false
	}
	fixed, ok := subIFDQuirks[quirkKey{dateTime, off}]
	if !ok {
		return off, false
	}
	return fixed, true
}
