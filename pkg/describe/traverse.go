package describe

import (
	"errors"
	"fmt"
	"reflect"
)

// ForEachField calls visit once per described field of *v, in declaration
// order. The reflect.Value passed to visit aliases the field, so it can be
// read or set even when the field is unexported. Visitors may recurse into
// nested described values. ForEachField panics if T has no valid field info.
func ForEachField[T any](v *T, visit func(name string, field reflect.Value)) {
	info := mustFields[T]()
	if v == nil {
		panic(fmt.Sprintf("describe: ForEachField called with a nil *%s", TypeNameOf(info.typ)))
	}
	err := info.Each(reflect.ValueOf(v).Elem(), func(f Field, value reflect.Value) {
		visit(f.Name, value)
	})
	if err != nil {
		panic(err)
	}
}

// ForEachFieldDeclaration calls visit once per described field of T without
// an instance. It panics if T has no valid field info.
func ForEachFieldDeclaration[T any](visit func(f Field)) {
	for _, f := range mustFields[T]().Fields() {
		visit(f)
	}
}

// ForEachFieldValue is the dynamic form of ForEachField on the Default registry.
func ForEachFieldValue(v reflect.Value, visit func(name string, field reflect.Value)) error {
	return Default.ForEachFieldValue(v, visit)
}

// ForEachFieldValue calls visit once per described field of v. v may be a
// struct value or a non-nil pointer to one. Non-addressable values are
// copied first, so writes through the visited fields do not reach them.
func (r *Registry) ForEachFieldValue(v reflect.Value, visit func(name string, field reflect.Value)) error {
	if !v.IsValid() {
		return errors.New("traversing: invalid value")
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return errors.New("traversing: nil pointer")
		}
		v = v.Elem()
	}
	info, err := r.Fields(v.Type())
	if err != nil {
		return err
	}
	if !v.CanAddr() {
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		v = c
	}
	return info.Each(v, func(f Field, value reflect.Value) {
		visit(f.Name, value)
	})
}

// ForEachFieldDeclaration calls visit once per described field of t.
func (r *Registry) ForEachFieldDeclaration(t reflect.Type, visit func(f Field)) error {
	info, err := r.Fields(t)
	if err != nil {
		return err
	}
	for _, f := range info.Fields() {
		visit(f)
	}
	return nil
}
