package describe

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// trailingPunct is stripped from the end of a signature before the
// identifier is extracted.
const trailingPunct = " })]>"

// methodValueSuffix marks the wrapper the toolchain emits for bound method values.
const methodValueSuffix = "-fm"

// ParseMemberName extracts the declared identifier from a qualified symbol
// string such as "example.com/pkg.(*User).Greet". The identifier is the segment
// after the last "." once trailing punctuation is removed. Nested names are
// truncated to their innermost segment.
func ParseMemberName(sig string) (string, error) {
	s := strings.TrimSuffix(sig, methodValueSuffix)
	s = strings.TrimRight(s, trailingPunct)

	i := strings.LastIndex(s, ".")
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrNoSeparator, sig)
	}
	name := s[i+1:]
	if name == "" {
		return "", fmt.Errorf("%w: %q has an empty trailing segment", ErrNoSeparator, sig)
	}
	return name, nil
}

// ParseTypeName returns the innermost name of a type string as printed by
// reflect, e.g. "*example.com/pkg.Box[example.com/pkg.Inner]" yields "Box".
// Unqualified names such as "int" are returned unchanged.
func ParseTypeName(sig string) string {
	s := strings.TrimLeft(sig, "*")
	if i := strings.IndexByte(s, '['); i > 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, trailingPunct)
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// TypeNameOf returns the declared name of t. Unnamed types are returned in
// their full reflect notation.
func TypeNameOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() == "" {
		return t.String()
	}
	return ParseTypeName(t.String())
}

// funcName recovers the name of the function behind fn from the runtime
// symbol table.
func funcName(fn reflect.Value) (string, error) {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "", fmt.Errorf("%w: no symbol for %s", ErrNoSeparator, fn.Type())
	}
	return ParseMemberName(f.Name())
}
