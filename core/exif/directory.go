package exif

import (
	"sort"
	"strconv"
	"strings"
)

// Entry is one tag of a Directory: either a *Leaf holding a value or a
// *Node holding a nested directory. Consumers switch on the concrete type.
type Entry interface {
	Descriptor() *Tag
	isEntry()
}

type Leaf struct {
	Desc  *Tag
	Value *Value
}

type Node struct {
	Desc *Tag
	Dir  *Directory
}

func (l *Leaf) Descriptor() *Tag { return l.Desc }
func (n *Node) Descriptor() *Tag { return n.Desc }
func (*Leaf) isEntry()           {}
func (*Node) isEntry()           {}

// Directory is a decoded IFD keyed by tag id.
type Directory struct {
	Schema  *Schema
	Offset  uint32 // IFD start, relative to the TIFF header
	entries map[uint16]Entry
}

func newDirectory(s *Schema, off uint32, n int) *Directory {
	return &Directory{Schema: s, Offset: off, entries: make(map[uint16]Entry, n)}
}

func (d *Directory) Len() int { return len(d.entries) }

func (d *Directory) Get(id uint16) (Entry, bool) {
	e, ok := d.entries[id]
	return e, ok
}

// Value returns the leaf value stored under id.
func (d *Directory) Value(id uint16) (*Value, bool) {
	if l, ok := d.entries[id].(*Leaf); ok {
		return l.Value, true
	}
	return nil, false
}

// Sub returns the nested directory stored under id.
func (d *Directory) Sub(id uint16) (*Directory, bool) {
	if n, ok := d.entries[id].(*Node); ok {
		return n.Dir, true
	}
	return nil, false
}

// String returns the ASCII value under id, or "" if absent or not ASCII.
func (d *Directory) String(id uint16) string {
	if v, ok := d.Value(id); ok && v.Type == TypeASCII {
		return v.Str
	}
	return ""
}

// Entries returns all entries ordered by display name. Numeric names of
// unknown tags sort by their zero-padded form.
func (d *Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return sortKey(out[i].Descriptor()) < sortKey(out[j].Descriptor())
	})
	return out
}

func sortKey(t *Tag) string {
	if _, err := strconv.Atoi(t.Name); err == nil && len(t.Name) < 5 {
		return strings.Repeat("0", 5-len(t.Name)) + t.Name
	}
	return t.Name
}

// Field is one flattened, display-ready entry.
type Field struct {
	Dir   string // name of the directory holding the tag
	Kind  Kind   // kind of that directory
	Depth int
	Name  string
	Value string
}

// Fields flattens d into display order, recursing into nested
// directories right after the tag that points at them.
func (d *Directory) Fields() []Field {
	var out []Field
	d.appendFields(&out, d.Schema.Name, 0)
	return out
}

func (d *Directory) appendFields(out *[]Field, dir string, depth int) {
	for _, e := range d.Entries() {
		switch e := e.(type) {
		case *Leaf:
			*out = append(*out, Field{Dir: dir, Kind: d.Schema.Kind, Depth: depth, Name: e.Desc.Name, Value: Format(e)})
		case *Node:
			*out = append(*out, Field{Dir: dir, Kind: d.Schema.Kind, Depth: depth, Name: e.Desc.Name})
			e.Dir.appendFields(out, e.Desc.Name, depth+1)
		}
	}
}

// Format renders a leaf with its tag formatter, if any.
func Format(l *Leaf) string {
	if l.Desc.Format != nil {
		return l.Desc.Format(l.Value)
	}
	return l.Value.String()
}
