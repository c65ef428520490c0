// Package pretty renders described values as indented name = value lines.
package pretty

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/fatih/color"

	"github.com/tender-barbarian/go-describe/pkg/describe"
)

// Options configures a Printer.
type Options struct {
	NoColor bool
	// Indent is added per nesting level. Defaults to two spaces.
	Indent string
	// Registry resolves descriptions. Defaults to describe.Default.
	Registry *describe.Registry
}

// Printer writes described values field by field, recursing into fields whose
// types are described themselves. Other values are formatted with fmt.
type Printer struct {
	writer   io.Writer
	indent   string
	registry *describe.Registry
	name     *color.Color
	value    *color.Color
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, opts *Options) *Printer {
	p := &Printer{
		writer:   w,
		indent:   "  ",
		registry: describe.Default,
		name:     color.New(color.FgCyan),
		value:    color.New(color.FgHiBlack),
	}
	if opts == nil {
		return p
	}
	if opts.Indent != "" {
		p.indent = opts.Indent
	}
	if opts.Registry != nil {
		p.registry = opts.Registry
	}
	if opts.NoColor {
		p.name.DisableColor()
		p.value.DisableColor()
	}
	return p
}

// Print writes v. v must be a described struct or a pointer to one.
func (p *Printer) Print(v any) error {
	rv := reflect.ValueOf(v)
	if !p.described(rv) {
		return fmt.Errorf("printing %T: %w", v, describe.ErrMissingDescription)
	}
	return p.print(rv, 0)
}

func (p *Printer) print(v reflect.Value, depth int) error {
	prefix := strings.Repeat(p.indent, depth)

	var inner error
	err := p.registry.ForEachFieldValue(v, func(name string, field reflect.Value) {
		if inner != nil {
			return
		}
		fmt.Fprint(p.writer, prefix)
		p.name.Fprint(p.writer, name)
		fmt.Fprint(p.writer, " =")
		if p.described(field) {
			fmt.Fprintln(p.writer)
			inner = p.print(field, depth+1)
			return
		}
		fmt.Fprint(p.writer, " ")
		p.value.Fprint(p.writer, formatValue(field))
		fmt.Fprintln(p.writer)
	})
	if err != nil {
		return err
	}
	return inner
}

func (p *Printer) described(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	t := v.Type()
	if t.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && p.registry.HasFieldInfo(t)
}

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return fmt.Sprintf("%q", v.String())
	}
	return fmt.Sprintf("%v", v.Interface())
}

// String renders v without colour, or the fmt form of v if it is not described.
func String(v any) string {
	var b strings.Builder
	if err := NewPrinter(&b, &Options{NoColor: true}).Print(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return b.String()
}
