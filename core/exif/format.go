package exif

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Display formatters referenced by the schema tables. Each one falls
// back to the plain rendering when the value has an unexpected shape.

func formatEscaped(v *Value) string {
	switch v.Type {
	case TypeASCII:
		return escape(v.Str)
	case TypeUndefined, TypeByte:
		return escape(string(v.Raw))
	}
	return v.String()
}

func formatByteList(v *Value) string {
	if v.Type != TypeUndefined && v.Type != TypeByte {
		return v.String()
	}
	return joinInts(len(v.Raw), func(i int) string { return strconv.Itoa(int(v.Raw[i])) })
}

func formatDotted(v *Value) string {
	if v.Type != TypeByte {
		return v.String()
	}
	parts := make([]string, len(v.Raw))
	for i, b := range v.Raw {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ".")
}

func formatCommaList(v *Value) string {
	n := v.Len()
	if v.Type == TypeASCII || n == 0 {
		return v.String()
	}
	parts := make([]string, n)
	for i := range parts {
		switch v.Type {
		case TypeRational:
			parts[i] = v.Rationals[i].String()
		case TypeSignedRational:
			parts[i] = v.SRats[i].String()
		case TypeUndefined, TypeByte:
			parts[i] = strconv.Itoa(int(v.Raw[i]))
		default:
			x, _ := v.Int(i)
			parts[i] = strconv.FormatInt(x, 10)
		}
	}
	return strings.Join(parts, ", ")
}

func formatExposureTime(v *Value) string {
	if v.Type != TypeRational || len(v.Rationals) != 1 {
		return v.String()
	}
	r := v.Rationals[0]
	switch {
	case r.Num == 0 || r.Den == 0:
		return r.String()
	case r.Num >= r.Den:
		return strconv.FormatFloat(r.Float(), 'f', -1, 64)
	case r.Den%r.Num == 0:
		return fmt.Sprintf("1/%d", r.Den/r.Num)
	}
	return r.String()
}

func formatFNumber(v *Value) string {
	f, err := v.Float(0)
	if err != nil || v.Len() != 1 || (v.Type != TypeRational && v.Type != TypeSignedRational) {
		return v.String()
	}
	return "ƒ/" + strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
}

func formatDecimal(v *Value) string {
	if v.Type != TypeRational || len(v.Rationals) != 1 {
		return v.String()
	}
	return strconv.FormatFloat(v.Rationals[0].Float(), 'f', -1, 64)
}

// formatDegrees turns a degree/minute/second triple into decimal degrees.
func formatDegrees(v *Value) string {
	if v.Type != TypeRational || len(v.Rationals) != 3 {
		return v.String()
	}
	r := v.Rationals
	deg := r[0].Float() + r[1].Float()/60 + r[2].Float()/3600
	return strconv.FormatFloat(deg, 'f', 6, 64)
}

func formatClock(v *Value) string {
	if v.Type != TypeRational || len(v.Rationals) != 3 {
		return v.String()
	}
	r := v.Rationals
	h, m, sec := int(r[0].Float()), int(r[1].Float()), r[2].Float()
	if sec == math.Trunc(sec) {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, int(sec))
	}
	return fmt.Sprintf("%02d:%02d:%s", h, m, strconv.FormatFloat(sec, 'f', -1, 64))
}
