// Package ddl generates SQLite table definitions and inserts from described
// struct types.
package ddl

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tender-barbarian/go-describe/pkg/describe"
)

// PrimaryKey is a field annotation marking the table's primary key column.
type PrimaryKey struct{}

// Column is one column derived from a described field.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
}

// Columns derives the columns of t from its field declarations.
func Columns(r *describe.Registry, t reflect.Type) ([]Column, error) {
	if r == nil {
		r = describe.Default
	}
	var cols []Column
	err := r.ForEachFieldDeclaration(t, func(f describe.Field) {
		col := Column{Name: f.Name, Type: SQLType(f.Type)}
		if ann, ok := f.Annotation(); ok {
			_, col.PrimaryKey = ann.(PrimaryKey)
		}
		cols = append(cols, col)
	})
	if err != nil {
		return nil, fmt.Errorf("deriving columns of %s: %w", describe.TypeNameOf(t), err)
	}
	return cols, nil
}

// SQLType maps a Go type to a SQLite column type affinity.
func SQLType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	default:
		return "NONE"
	}
}

// CreateTable returns the CREATE TABLE statement of T, named after the type.
func CreateTable[T any]() (string, error) {
	return CreateTableFor(nil, reflect.TypeFor[T]())
}

// CreateTableFor is the dynamic form of CreateTable.
func CreateTableFor(r *describe.Registry, t reflect.Type) (string, error) {
	cols, err := Columns(r, t)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("creating table %s: no columns", describe.TypeNameOf(t))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", describe.TypeNameOf(t))
	for i, c := range cols {
		fmt.Fprintf(&b, "    %s %s", c.Name, c.Type)
		if c.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");")
	return b.String(), nil
}

// Insert returns a parameterised INSERT statement for v and its arguments in
// column order. v must be a described struct or a pointer to one.
func Insert(r *describe.Registry, v any) (string, []any, error) {
	if r == nil {
		r = describe.Default
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("inserting %T: not a struct", v)
	}

	var names []string
	var args []any
	err := r.ForEachFieldValue(rv, func(name string, field reflect.Value) {
		names = append(names, name)
		args = append(args, field.Interface())
	})
	if err != nil {
		return "", nil, fmt.Errorf("inserting %s: %w", describe.TypeNameOf(rv.Type()), err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		describe.TypeNameOf(rv.Type()), strings.Join(names, ", "), placeholders)
	return query, args, nil
}
