// Package core defines the shared types, interfaces, and format detection
// for exif-surgery.
package core

import "strings"

// MetaField represents a single metadata key-value pair.
type MetaField struct {
	Key      string // Tag name (e.g. "Make", "Orientation")
	Value    string // Formatted value; empty for nested directories
	Category string // Directory the tag belongs to (e.g. "IFD0", "Exif IFD", "XMP")
	Depth    int    // Nesting level of the directory
	Editable bool   // Whether surgery can patch this field in place
}

// Metadata holds all metadata extracted from a single file.
type Metadata struct {
	FilePath string
	Format   string // Human-readable format name ("JPEG", "PNG")
	Width    int
	Height   int
	Created  int64 // Unix seconds, 0 when unknown
	Fields   []MetaField
}

// Camera returns the IFD0 Make and Model joined for display, or "" when
// neither is present. A Model that already starts with the Make is used
// alone.
func (m *Metadata) Camera() string {
	var maker, model string
	for _, f := range m.Fields {
		if f.Category != "IFD0" {
			continue
		}
		switch f.Key {
		case "Make":
			maker = f.Value
		case "Model":
			model = f.Value
		}
	}
	switch {
	case model == "":
		return maker
	case maker == "" || strings.HasPrefix(model, maker):
		return model
	}
	return maker + " " + model
}

// OrientOptions holds the parameters of an orientation patch.
type OrientOptions struct {
	// Value is the new Exif orientation, 1 through 8.
	Value uint16
	// DryRun reports the outcome without writing.
	DryRun bool
}

// OrientOutcome reports how an orientation patch ended. Only
// OrientWritten produces a file.
type OrientOutcome int

const (
	OrientWritten OrientOutcome = iota
	OrientNoExif
	OrientNoTag
	OrientUnchanged
	OrientTargetExists
	OrientBadExtension
	OrientDryRun
)

func (o OrientOutcome) String() string {
	switch o {
	case OrientWritten:
		return "orientation written"
	case OrientNoExif:
		return "no Exif metadata"
	case OrientNoTag:
		return "no Orientation tag"
	case OrientUnchanged:
		return "orientation already has this value"
	case OrientTargetExists:
		return "target file already exists"
	case OrientBadExtension:
		return "unsupported file extension"
	case OrientDryRun:
		return "dry run, nothing written"
	}
	return "unknown outcome"
}

// FormatInfo describes what a format handler supports.
type FormatInfo struct {
	Name       string   // "JPEG"
	Extensions []string // [".jpg", ".jpeg"]
	MIMETypes  []string
	CanView    bool
	CanOrient  bool
	Notes      string // Any caveats or notes
}

// Handler is the interface every format must implement.
type Handler interface {
	// View reads and returns all discoverable metadata from path.
	View(path string) (*Metadata, error)
	// Orient patches the Exif orientation of path into a new file outPath.
	Orient(path string, outPath string, opts OrientOptions) (OrientOutcome, error)
	// Info returns format capabilities.
	Info() FormatInfo
}
