// Package report renders scan results as text, json or yaml.
package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-andiamo/kdbxinfo/internal/scan"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a case-insensitive format name ("yml" is accepted for yaml)
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", name)
}

// File is the rendered form of a single scan.Result
type File struct {
	Path     string   `json:"path" yaml:"path"`
	Size     int64    `json:"size" yaml:"size"`
	Digests  []Digest `json:"digests,omitempty" yaml:"digests,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
	Header   []Field  `json:"header,omitempty" yaml:"header,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Skipped  []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type Digest struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Hex       string `json:"hex" yaml:"hex"`
}

// Field is one described header attribute
//
// Value is a string, or an unsigned integer for numeric fields
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// Build converts results into their rendered form, keeping their order
func Build(results []scan.Result) []File {
	files := make([]File, 0, len(results))
	for _, r := range results {
		f := File{Path: r.Path, Size: r.Size}
		for _, d := range r.Digests {
			f.Digests = append(f.Digests, Digest{Algorithm: string(d.Algorithm), Hex: d.Hex()})
		}
		if r.Err != nil {
			f.Error = r.Err.Error()
		}
		if db := r.Database; db != nil {
			for _, attr := range db.Describe() {
				f.Header = append(f.Header, Field{Key: attr.Key, Value: fieldValue(attr.Value)})
			}
			for _, w := range db.Warnings() {
				f.Warnings = append(f.Warnings, w.Error())
			}
			if h, ok := db.TLV(); ok {
				for _, id := range h.Skipped() {
					f.Skipped = append(f.Skipped, id.String())
				}
			}
		}
		files = append(files, f)
	}
	return files
}

func fieldValue(v any) any {
	switch vt := v.(type) {
	case []byte:
		return hex.EncodeToString(vt)
	case uint32, uint64, string:
		return vt
	case int:
		return uint64(max(vt, 0))
	case fmt.Stringer:
		return vt.String()
	}
	return fmt.Sprint(v)
}

// Render writes results to w in the given format
func Render(w io.Writer, format Format, results []scan.Result) error {
	files := Build(results)
	switch format {
	case FormatText, "":
		return renderText(w, files)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(files); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

const labelWidth = 22

func renderText(w io.Writer, files []File) error {
	tw := &textWriter{w: w}
	for i, f := range files {
		if i > 0 {
			tw.printf("\n")
		}
		tw.printf("%s\n", f.Path)
		tw.line("Size", fmt.Sprintf("%s (%d bytes)", humanize.Bytes(uint64(max(f.Size, 0))), f.Size))
		for _, d := range f.Digests {
			tw.line(strings.ToUpper(d.Algorithm), d.Hex)
		}
		if f.Error != "" {
			tw.line("Error", f.Error)
			continue
		}
		for _, fld := range f.Header {
			tw.line(fld.Key, textValue(fld.Value))
		}
		if len(f.Skipped) > 0 {
			tw.line("Skipped records", strings.Join(f.Skipped, ", "))
		}
		if len(f.Warnings) > 0 {
			tw.printf("  Warnings:\n")
			for _, warning := range f.Warnings {
				tw.printf("    - %s\n", warning)
			}
		}
	}
	return tw.err
}

func textValue(v any) string {
	switch vt := v.(type) {
	case uint32:
		return humanize.Comma(int64(vt))
	case uint64:
		if vt > 1<<62 {
			return fmt.Sprint(vt)
		}
		return humanize.Comma(int64(vt))
	case string:
		if vt == "" {
			return `""`
		}
		return vt
	}
	return fmt.Sprint(v)
}

// textWriter remembers the first write error so rendering code can ignore it
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err == nil {
		_, tw.err = fmt.Fprintf(tw.w, format, args...)
	}
}

func (tw *textWriter) line(label string, value string) {
	tw.printf("  %-*s %s\n", labelWidth, label+":", value)
}
