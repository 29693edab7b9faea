// Package image handles metadata for the JPEG and PNG image formats:
// decoding size, Exif and XMP, and patching the Exif orientation in place.
package image

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
)

// ──────────────────────────────────────────────────────────────────────────────
// Handler
// ──────────────────────────────────────────────────────────────────────────────

// Handler implements core.Handler for JPEG and PNG.
type Handler struct {
	format core.FormatID
}

// New returns a Handler for the given format.
func New(fmt core.FormatID) *Handler { return &Handler{format: fmt} }

func (h *Handler) Info() core.FormatInfo {
	return formatInfo[h.format]
}

var formatInfo = map[core.FormatID]core.FormatInfo{
	core.FmtJPEG: {
		Name:       "JPEG",
		Extensions: []string{".jpg", ".jpeg"},
		MIMETypes:  []string{"image/jpeg"},
		CanView:    true,
		CanOrient:  true,
		Notes:      "Exif (APP1) and XMP (APP1). Orientation is patched in place into a copy.",
	},
	core.FmtPNG: {
		Name:       "PNG",
		Extensions: []string{".png"},
		MIMETypes:  []string{"image/png"},
		CanView:    true,
		CanOrient:  false,
		Notes:      "IHDR size, XMP in iTXt, Exif in eXIf.",
	},
	core.FmtUnknown: {
		Name: "Unknown",
	},
}

// ──────────────────────────────────────────────────────────────────────────────
// View
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) View(path string) (*core.Metadata, error) {
	m, err := Open(path)
	if err != nil {
		return nil, err
	}
	return m.View(), nil
}

// View converts m into the display model shared by all handlers.
func (m *Metadata) View() *core.Metadata {
	out := &core.Metadata{
		FilePath: m.Path,
		Format:   formatInfo[m.Format].Name,
		Width:    m.Width,
		Height:   m.Height,
	}
	if sec, ok := m.TimeCreated(); ok {
		out.Created = sec
	}
	if m.Exif != nil {
		for _, f := range m.Exif.Fields() {
			out.Fields = append(out.Fields, core.MetaField{
				Key:      f.Name,
				Value:    f.Value,
				Category: f.Dir,
				Depth:    f.Depth,
				Editable: m.Format == core.FmtJPEG && f.Kind == exif.KindRoot && f.Name == "Orientation",
			})
		}
	}
	if m.XMP != "" {
		parseXMPInto([]byte(m.XMP), out)
	}
	return out
}

// ─── XMP ─────────────────────────────────────────────────────────────────────

// xmpPrefixes maps the namespaces common in camera and editor XMP to the
// prefixes they are conventionally written with.
var xmpPrefixes = map[string]string{
	"http://ns.adobe.com/photoshop/1.0/":           "photoshop",
	"http://ns.adobe.com/xap/1.0/":                 "xmp",
	"http://ns.adobe.com/xap/1.0/mm/":              "xmpMM",
	"http://ns.adobe.com/xap/1.0/rights/":          "xmpRights",
	"http://purl.org/dc/elements/1.1/":             "dc",
	"http://ns.adobe.com/exif/1.0/":                "exif",
	"http://ns.adobe.com/tiff/1.0/":                "tiff",
	"http://ns.adobe.com/lightroom/1.0/":           "lr",
	"http://ns.adobe.com/camera-raw-settings/1.0/": "crs",
}

const (
	nsRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsMeta = "adobe:ns:meta/"
	nsXML  = "http://www.w3.org/XML/1998/namespace"
)

func xmpKey(n xml.Name) string {
	if p, ok := xmpPrefixes[n.Space]; ok {
		return p + ":" + n.Local
	}
	return n.Local
}

// parseXMPInto adds one field per XMP property. Simple properties may be
// attributes of rdf:Description or elements; items of rdf:Bag, rdf:Seq
// and rdf:Alt containers are reported under their property's key.
func parseXMPInto(data []byte, m *core.Metadata) {
	add := func(key, val string) {
		m.Fields = append(m.Fields, core.MetaField{Key: key, Value: val, Category: "XMP"})
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var props []string // open property elements
	var pushed []bool  // per open element: whether it is in props
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			isProp := t.Name.Space != nsRDF && t.Name.Space != nsMeta
			if isProp {
				props = append(props, xmpKey(t.Name))
			}
			pushed = append(pushed, isProp)
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" ||
					attr.Name.Space == nsRDF || attr.Name.Space == nsXML || attr.Value == "" {
					continue
				}
				add(xmpKey(attr.Name), attr.Value)
			}
		case xml.EndElement:
			if n := len(pushed) - 1; n >= 0 {
				if pushed[n] {
					props = props[:len(props)-1]
				}
				pushed = pushed[:n]
			}
		case xml.CharData:
			if val := strings.TrimSpace(string(t)); val != "" && len(props) > 0 {
				add(props[len(props)-1], val)
			}
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Orient
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) Orient(path string, outPath string, opts core.OrientOptions) (core.OrientOutcome, error) {
	m, err := Open(path)
	if err != nil {
		return 0, err
	}
	return setOrientation(m, opts.Value, outPath, opts.DryRun)
}

// orientationName describes the eight Exif orientation states.
var orientationName = [...]string{
	1: "top-left (normal)",
	2: "top-right (mirrored)",
	3: "bottom-right (rotated 180°)",
	4: "bottom-left (flipped)",
	5: "left-top (transposed)",
	6: "right-top (rotated 90° CW)",
	7: "right-bottom (transverse)",
	8: "left-bottom (rotated 90° CCW)",
}

// OrientationName returns a description of an Exif orientation value.
func OrientationName(v uint16) string {
	if v >= 1 && int(v) < len(orientationName) {
		return orientationName[v]
	}
	return "undefined"
}

var _ core.Handler = (*Handler)(nil)
