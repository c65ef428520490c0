package describe

import (
	"fmt"
	"reflect"
)

// FieldLister is implemented by *T for types that declare their own field list.
// DescribeFields is called on a zero probe and must return pointers to the
// probe's fields, in declaration order:
//
//	func (u *User) DescribeFields() []any {
//		return []any{&u.FirstName, &u.LastName, &u.Age}
//	}
type FieldLister interface {
	DescribeFields() []any
}

// MethodLister is implemented by *T for types that declare their own method
// list as method expressions:
//
//	func (*User) DescribeMethods() []any {
//		return []any{(*User).Greet, User.FullName}
//	}
type MethodLister interface {
	DescribeMethods() []any
}

// Annotated is implemented by *T for types that attach annotations to their
// fields. The receiver is a zero probe; use it to name fields.
type Annotated interface {
	DescribeAnnotations(a *Annotator)
}

// Opaque marks a struct whose fields are not all part of its description.
// Completeness is not required of opaque types.
type Opaque interface {
	DescribeOpaque()
}

var (
	fieldListerType  = reflect.TypeFor[FieldLister]()
	methodListerType = reflect.TypeFor[MethodLister]()
	annotatedType    = reflect.TypeFor[Annotated]()
	opaqueType       = reflect.TypeFor[Opaque]()
)

// Declaration is an out-of-band description of a type, used when the type
// cannot declare its lists itself. Each slot may be filled once; Fields and
// FieldNames are alternatives, as are Methods and MethodNames.
type Declaration struct {
	// Fields receives a *T probe and returns pointers to its fields.
	Fields func(probe any) []any
	// FieldNames lists field identifiers as literals.
	FieldNames []string
	// Methods lists method expressions.
	Methods []any
	// MethodNames lists method identifiers as literals.
	MethodNames []string
	// Annotate receives a *T probe and the annotator.
	Annotate func(probe any, a *Annotator)
}

func (d *Declaration) hasFields() bool {
	return d != nil && (d.Fields != nil || d.FieldNames != nil)
}

func (d *Declaration) hasMethods() bool {
	return d != nil && (d.Methods != nil || d.MethodNames != nil)
}

// merge fills the empty slots of d from other and fails on any overlap.
func (d *Declaration) merge(typeName string, other Declaration) error {
	conflict := func(slot string) error {
		return &ValidationError{
			Type:    typeName,
			Message: fmt.Sprintf("%s already registered", slot),
			Kind:    ErrAlreadyRegistered,
		}
	}
	if other.Fields != nil || other.FieldNames != nil {
		if d.hasFields() || (other.Fields != nil && other.FieldNames != nil) {
			return conflict("field list")
		}
		d.Fields, d.FieldNames = other.Fields, other.FieldNames
	}
	if other.Methods != nil || other.MethodNames != nil {
		if d.hasMethods() || (other.Methods != nil && other.MethodNames != nil) {
			return conflict("method list")
		}
		d.Methods, d.MethodNames = other.Methods, other.MethodNames
	}
	if other.Annotate != nil {
		if d.Annotate != nil {
			return conflict("annotation declaration")
		}
		d.Annotate = other.Annotate
	}
	return nil
}

// collected is a resolved, not yet validated member list.
type collected struct {
	found   bool
	source  string
	members []Member
	errs    []error
}

func (c *collected) add(m Member, err error) {
	c.members = append(c.members, m)
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// collectFields gathers the field list of t, inline declaration first.
func collectFields(t reflect.Type, d *Declaration) collected {
	var c collected
	p := newProbe(t)
	p.claimed = make(map[int]bool)
	switch {
	case reflect.PointerTo(t).Implements(fieldListerType):
		c.found, c.source = true, "inline"
		for _, ref := range p.instance().(FieldLister).DescribeFields() {
			c.add(p.resolve(ref))
		}
	case d != nil && d.Fields != nil:
		c.found, c.source = true, "registered"
		for _, ref := range d.Fields(p.instance()) {
			c.add(p.resolve(ref))
		}
	case d != nil && d.FieldNames != nil:
		c.found, c.source = true, "registered names"
		for _, name := range d.FieldNames {
			c.add(p.fieldNamed(name))
		}
	}
	return c
}

// collectMethods gathers the method list of t, inline declaration first.
func collectMethods(t reflect.Type, d *Declaration) collected {
	var c collected
	p := newProbe(t)
	switch {
	case reflect.PointerTo(t).Implements(methodListerType):
		c.found, c.source = true, "inline"
		for _, ref := range p.instance().(MethodLister).DescribeMethods() {
			c.add(p.resolve(ref))
		}
	case d != nil && d.Methods != nil:
		c.found, c.source = true, "registered"
		for _, ref := range d.Methods {
			c.add(p.resolve(ref))
		}
	case d != nil && d.MethodNames != nil:
		c.found, c.source = true, "registered names"
		for _, name := range d.MethodNames {
			c.add(p.methodNamed(name))
		}
	}
	return c
}

// collectAnnotations runs the annotation declaration of t, if any.
func collectAnnotations(t reflect.Type, d *Declaration) (map[int]any, error) {
	p := newProbe(t)
	a := newAnnotator(p)
	switch {
	case reflect.PointerTo(t).Implements(annotatedType):
		p.instance().(Annotated).DescribeAnnotations(a)
	case d != nil && d.Annotate != nil:
		d.Annotate(p.instance(), a)
	default:
		return nil, nil
	}
	return a.finish()
}

// isAggregate reports whether t is a plain struct whose full field set must
// be described.
func isAggregate(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && !reflect.PointerTo(t).Implements(opaqueType)
}
