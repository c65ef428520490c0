package describe

import (
	"fmt"
	"reflect"
)

// RegisterFields registers a field list for T in the Default registry. list
// receives a zero *T and returns pointers to its fields in declaration order.
func RegisterFields[T any](list func(*T) []any) error {
	if list == nil {
		return fmt.Errorf("registering fields of %s: nil list function", TypeName[T]())
	}
	return Default.Register(reflect.TypeFor[T](), Declaration{
		Fields: func(p any) []any { return list(p.(*T)) },
	})
}

// RegisterFieldNames registers T's field list as literal identifiers.
func RegisterFieldNames[T any](names ...string) error {
	return Default.Register(reflect.TypeFor[T](), Declaration{
		FieldNames: append([]string{}, names...),
	})
}

// RegisterMethods registers T's method list as method expressions.
func RegisterMethods[T any](methods ...any) error {
	return Default.Register(reflect.TypeFor[T](), Declaration{
		Methods: append([]any{}, methods...),
	})
}

// RegisterMethodNames registers T's method list as literal identifiers.
func RegisterMethodNames[T any](names ...string) error {
	return Default.Register(reflect.TypeFor[T](), Declaration{
		MethodNames: append([]string{}, names...),
	})
}

// RegisterAnnotations registers an annotation declaration for T.
func RegisterAnnotations[T any](annotate func(*T, *Annotator)) error {
	if annotate == nil {
		return fmt.Errorf("registering annotations of %s: nil declaration", TypeName[T]())
	}
	return Default.Register(reflect.TypeFor[T](), Declaration{
		Annotate: func(p any, a *Annotator) { annotate(p.(*T), a) },
	})
}

// MustRegisterFields is like RegisterFields but panics on error. It is meant
// for init functions.
func MustRegisterFields[T any](list func(*T) []any) {
	must(RegisterFields(list))
}

// MustRegisterFieldNames is like RegisterFieldNames but panics on error.
func MustRegisterFieldNames[T any](names ...string) {
	must(RegisterFieldNames[T](names...))
}

// MustRegisterMethods is like RegisterMethods but panics on error.
func MustRegisterMethods[T any](methods ...any) {
	must(RegisterMethods[T](methods...))
}

// MustRegisterMethodNames is like RegisterMethodNames but panics on error.
func MustRegisterMethodNames[T any](names ...string) {
	must(RegisterMethodNames[T](names...))
}

// MustRegisterAnnotations is like RegisterAnnotations but panics on error.
func MustRegisterAnnotations[T any](annotate func(*T, *Annotator)) {
	must(RegisterAnnotations(annotate))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// IsDescribed reports whether T has a field list. It never panics.
func IsDescribed[T any]() bool {
	return Default.IsDescribed(reflect.TypeFor[T]())
}

// HasFieldInfo reports whether T has a valid field description.
func HasFieldInfo[T any]() bool {
	return Default.HasFieldInfo(reflect.TypeFor[T]())
}

// HasMethodInfo reports whether T has a valid method description.
func HasMethodInfo[T any]() bool {
	return Default.HasMethodInfo(reflect.TypeFor[T]())
}

// CheckFields returns the validation report of T's field list.
func CheckFields[T any]() Report {
	return Default.CheckFields(reflect.TypeFor[T]())
}

// CheckMethods returns the validation report of T's method list.
func CheckMethods[T any]() Report {
	return Default.CheckMethods(reflect.TypeFor[T]())
}

// FieldsOf returns T's field info.
func FieldsOf[T any]() (*Info, error) {
	return Default.Fields(reflect.TypeFor[T]())
}

// MethodsOf returns T's method info.
func MethodsOf[T any]() (*Info, error) {
	return Default.Methods(reflect.TypeFor[T]())
}

// Verify derives the given types in the Default registry and reports every
// problem. Call it at startup to surface invalid descriptions early.
func Verify(types ...reflect.Type) error {
	return Default.Verify(types...)
}

// The accessors below require valid metadata and panic with the validation
// error otherwise. Gate them behind HasFieldInfo or HasMethodInfo.

// FieldCount returns the number of described fields of T.
func FieldCount[T any]() int {
	return mustFields[T]().Len()
}

// FieldName returns the name of field i of T.
func FieldName[T any](i int) string {
	return mustFields[T]().Name(i)
}

// FieldNames returns the field names of T in declaration order.
func FieldNames[T any]() []string {
	return mustFields[T]().Names()
}

// FieldValueType returns the value type of field i of T.
func FieldValueType[T any](i int) reflect.Type {
	return mustFields[T]().Member(i).Type
}

// MethodNames returns the method names of T in declaration order.
func MethodNames[T any]() []string {
	info, err := MethodsOf[T]()
	if err != nil {
		panic(err)
	}
	return info.Names()
}

// TypeName returns the declared name of T.
func TypeName[T any]() string {
	return TypeNameOf(reflect.TypeFor[T]())
}

// AnnotationOf returns the annotation attached to the field of T that field
// points to. field receives a zero *T:
//
//	v, ok := describe.AnnotationOf(func(c *Consents) any { return &c.EmailContact })
//
// Annotations are keyed by the field itself, not by its position in the field
// list, so a type with no field list or an invalid one still answers. Invalid
// annotations panic. Zero-size fields sharing an address resolve to the first.
func AnnotationOf[T any](field func(*T) any) (any, bool) {
	t := reflect.TypeFor[T]()
	p := newProbe(t)
	rv := reflect.ValueOf(field(p.instance().(*T)))
	if rv.Kind() != reflect.Pointer {
		panic(p.ownershipError("", "annotation lookup needs a field pointer"))
	}
	m, err := p.fieldOf(rv)
	if err != nil {
		panic(err)
	}
	v, ok, err := Default.Annotation(t, m.Index)
	if err != nil {
		panic(err)
	}
	return v, ok
}

// AnnotationAs is AnnotationOf with a type assertion. A value of another
// type is reported as absent.
func AnnotationAs[V, T any](field func(*T) any) (V, bool) {
	v, ok := AnnotationOf(field)
	if !ok {
		var zero V
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

func mustFields[T any]() *Info {
	info, err := FieldsOf[T]()
	if err != nil {
		panic(err)
	}
	return info
}
