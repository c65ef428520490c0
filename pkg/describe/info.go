package describe

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Info is the validated, immutable metadata of one member list of a type.
// It is safe for concurrent use.
type Info struct {
	typ         reflect.Type
	kind        ListKind
	members     []Member
	names       []string
	annotations map[int]any
}

// Field is the declaration-level view of one described field.
type Field struct {
	Name string
	// Index is the position of the field in the description.
	Index int
	// StructIndex is the index of the field in the struct type.
	StructIndex int
	Offset      uintptr
	Type        reflect.Type
	Tag         reflect.StructTag
	Owner       reflect.Type

	annotation any
	annotated  bool
}

// Annotation returns the value attached to the field, if any.
func (f Field) Annotation() (any, bool) {
	return f.annotation, f.annotated
}

// Type returns the described type.
func (i *Info) Type() reflect.Type { return i.typ }

// Kind returns whether the info covers fields or methods.
func (i *Info) Kind() ListKind { return i.kind }

// Len returns the number of members.
func (i *Info) Len() int { return len(i.members) }

// Name returns the name of member n.
func (i *Info) Name(n int) string { return i.names[n] }

// Names returns a copy of the member names in declaration order.
func (i *Info) Names() []string {
	out := make([]string, len(i.names))
	copy(out, i.names)
	return out
}

// Member returns descriptor n.
func (i *Info) Member(n int) Member { return i.members[n] }

// Members returns a copy of the descriptors in declaration order.
func (i *Info) Members() []Member {
	out := make([]Member, len(i.members))
	copy(out, i.members)
	return out
}

// Field returns the declaration view of field n. It panics on method infos.
func (i *Info) Field(n int) Field {
	if i.kind != FieldList {
		panic(fmt.Sprintf("describe: Field called on the %s info of %s", i.kind, i.typ))
	}
	m := i.members[n]
	ann, ok := i.annotations[m.Index]
	return Field{
		Name:        i.names[n],
		Index:       n,
		StructIndex: m.Index,
		Offset:      m.Offset,
		Type:        m.Type,
		Tag:         m.Tag,
		Owner:       m.Owner,
		annotation:  ann,
		annotated:   ok,
	}
}

// Fields returns the declaration views of all fields.
func (i *Info) Fields() []Field {
	out := make([]Field, i.Len())
	for n := range out {
		out[n] = i.Field(n)
	}
	return out
}

// Each calls fn for every described field of v, in declaration order.
// v must be an addressable value of the described type; the values passed to
// fn alias its fields, unexported ones included.
func (i *Info) Each(v reflect.Value, fn func(f Field, value reflect.Value)) error {
	if i.kind != FieldList {
		return fmt.Errorf("traversing %s: info describes methods", TypeNameOf(i.typ))
	}
	if v.Type() != i.typ {
		return fmt.Errorf("traversing %s: value has type %s", TypeNameOf(i.typ), v.Type())
	}
	if !v.CanAddr() {
		return fmt.Errorf("traversing %s: value is not addressable", TypeNameOf(i.typ))
	}
	base := v.Addr().UnsafePointer()
	for n, m := range i.members {
		fn(i.Field(n), reflect.NewAt(m.Type, unsafe.Add(base, m.Offset)).Elem())
	}
	return nil
}
