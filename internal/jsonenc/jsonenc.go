// Package jsonenc encodes described values as JSON objects whose keys follow
// the described field order, and derives JSON Schemas from field declarations.
package jsonenc

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tender-barbarian/go-describe/pkg/describe"
)

// Name is a field annotation that replaces the field name as the JSON key.
type Name string

// Encoder converts described values into ordered JSON trees.
type Encoder struct {
	registry *describe.Registry
}

// NewEncoder creates an encoder resolving descriptions in r, or in
// describe.Default when r is nil.
func NewEncoder(r *describe.Registry) *Encoder {
	if r == nil {
		r = describe.Default
	}
	return &Encoder{registry: r}
}

// Marshal encodes v using the Default registry.
func Marshal(v any) ([]byte, error) {
	return NewEncoder(nil).Marshal(v)
}

// MarshalIndent is Marshal with indentation.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return NewEncoder(nil).MarshalIndent(v, prefix, indent)
}

// Marshal encodes v. Described structs become objects keyed by field name in
// declaration order; everything else is encoded by encoding/json.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	tree, err := e.Tree(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// MarshalIndent is Marshal with indentation.
func (e *Encoder) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	tree, err := e.Tree(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, prefix, indent)
}

// Tree converts v into a value encoding/json can marshal.
func (e *Encoder) Tree(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return e.Tree(v.Elem())
	case reflect.Struct:
		if e.registry.HasFieldInfo(v.Type()) {
			return e.object(v)
		}
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		if !e.describedElem(v.Type().Elem()) {
			break
		}
		out := make([]any, v.Len())
		for i := range out {
			elem, err := e.Tree(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("encoding element %d: %w", i, err)
			}
			out[i] = elem
		}
		return out, nil
	}
	return v.Interface(), nil
}

func (e *Encoder) object(v reflect.Value) (any, error) {
	info, err := e.registry.Fields(v.Type())
	if err != nil {
		return nil, err
	}
	if !v.CanAddr() {
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		v = c
	}

	obj := orderedmap.New[string, any]()
	var fieldErr error
	err = info.Each(v, func(f describe.Field, value reflect.Value) {
		if fieldErr != nil {
			return
		}
		child, err := e.Tree(value)
		if err != nil {
			fieldErr = fmt.Errorf("encoding %s.%s: %w", describe.TypeNameOf(v.Type()), f.Name, err)
			return
		}
		obj.Set(key(f), child)
	})
	if err != nil {
		return nil, err
	}
	if fieldErr != nil {
		return nil, fieldErr
	}
	return obj, nil
}

func (e *Encoder) describedElem(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Interface || (t.Kind() == reflect.Struct && e.registry.HasFieldInfo(t))
}

func key(f describe.Field) string {
	if ann, ok := f.Annotation(); ok {
		if n, ok := ann.(Name); ok && n != "" {
			return string(n)
		}
	}
	return f.Name
}

// Schema returns the JSON Schema of T built from its field declarations.
func Schema[T any]() (*jsonschema.Schema, error) {
	return NewEncoder(nil).Schema(reflect.TypeFor[T]())
}

// Schema returns the JSON Schema of t. Every described field is required;
// undescribed types are reflected by jsonschema.
func (e *Encoder) Schema(t reflect.Type) (*jsonschema.Schema, error) {
	s, err := e.schema(t)
	if err != nil {
		return nil, err
	}
	s.Version = jsonschema.Version
	s.Title = describe.TypeNameOf(t)
	return s, nil
}

func (e *Encoder) schema(t reflect.Type) (*jsonschema.Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct && e.registry.HasFieldInfo(t) {
		info, err := e.registry.Fields(t)
		if err != nil {
			return nil, err
		}
		s := &jsonschema.Schema{
			Type:       "object",
			Properties: jsonschema.NewProperties(),
		}
		for _, f := range info.Fields() {
			child, err := e.schema(f.Type)
			if err != nil {
				return nil, fmt.Errorf("describing %s.%s: %w", describe.TypeNameOf(t), f.Name, err)
			}
			k := key(f)
			s.Properties.Set(k, child)
			s.Required = append(s.Required, k)
		}
		return s, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &jsonschema.Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &jsonschema.Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &jsonschema.Schema{Type: "number"}, nil
	case reflect.String:
		return &jsonschema.Schema{Type: "string"}, nil
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return &jsonschema.Schema{Type: "string", ContentEncoding: "base64"}, nil
		}
		items, err := e.schema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &jsonschema.Schema{Type: "array", Items: items}, nil
	}

	r := &jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	s := r.ReflectFromType(t)
	s.Version = ""
	return s, nil
}
