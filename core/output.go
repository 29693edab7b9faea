package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Printer handles all display output for the CLI.
type Printer struct {
	JSON    bool
	Verbose bool
	Writer  io.Writer
}

// NewPrinter creates a default Printer writing to stdout.
func NewPrinter(jsonMode, verbose bool) *Printer {
	return &Printer{JSON: jsonMode, Verbose: verbose, Writer: os.Stdout}
}

// PrintMetadata renders a Metadata struct to the configured output.
func (p *Printer) PrintMetadata(m *Metadata) {
	if p.JSON {
		p.printJSON(m)
		return
	}
	p.printText(m)
}

func (p *Printer) printText(m *Metadata) {
	fmt.Fprintf(p.Writer, "File  : %s\n", m.FilePath)
	fmt.Fprintf(p.Writer, "Format: %s\n", m.Format)
	if m.Width > 0 {
		fmt.Fprintf(p.Writer, "Size  : %dx%d\n", m.Width, m.Height)
	}
	if c := m.Camera(); c != "" {
		fmt.Fprintf(p.Writer, "Camera: %s\n", c)
	}
	if m.Created != 0 {
		fmt.Fprintf(p.Writer, "Taken : %s\n", FormatTime(m.Created))
	}
	if len(m.Fields) == 0 {
		fmt.Fprintln(p.Writer, "(no metadata found)")
		return
	}
	fmt.Fprintln(p.Writer)

	for _, f := range m.Fields {
		indent := strings.Repeat("  ", f.Depth+1)
		if f.Value == "" && !p.Verbose {
			fmt.Fprintf(p.Writer, "%s%s:\n", indent, f.Key)
			continue
		}
		edit := ""
		if f.Editable {
			edit = " [editable]"
		}
		fmt.Fprintf(p.Writer, "%s%-30s %s%s\n", indent, f.Key+":", f.Value, edit)
	}
}

func (p *Printer) printJSON(m *Metadata) {
	type jsonField struct {
		Key      string `json:"key"`
		Value    string `json:"value,omitempty"`
		Category string `json:"category"`
		Editable bool   `json:"editable"`
	}
	type jsonOutput struct {
		FilePath string      `json:"file"`
		Format   string      `json:"format"`
		Width    int         `json:"width,omitempty"`
		Height   int         `json:"height,omitempty"`
		Created  int64       `json:"created,omitempty"`
		Fields   []jsonField `json:"fields"`
	}

	out := jsonOutput{
		FilePath: m.FilePath,
		Format:   m.Format,
		Width:    m.Width,
		Height:   m.Height,
		Created:  m.Created,
	}
	for _, f := range m.Fields {
		out.Fields = append(out.Fields, jsonField{
			Key:      f.Key,
			Value:    f.Value,
			Category: f.Category,
			Editable: f.Editable,
		})
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Fprintln(p.Writer, string(b))
}

// PrintSuccess prints a success message.
func (p *Printer) PrintSuccess(msg string) {
	fmt.Fprintln(p.Writer, "✓ "+msg)
}

// PrintInfo prints an info line (suppressed in JSON mode).
func (p *Printer) PrintInfo(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, msg)
	}
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}

// FormatTime renders Unix seconds in local time.
func FormatTime(sec int64) string {
	return time.Unix(sec, 0).Format("2006-01-02 15:04:05")
}
