package describe

import (
	"fmt"
	"reflect"
)

// MemberKind classifies a descriptor.
type MemberKind uint8

const (
	KindInvalid MemberKind = iota
	KindField
	KindMethod
)

// String returns the lower-case name of the kind.
func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	default:
		return "invalid"
	}
}

// Member is a resolved descriptor: a reference to one field or method of Owner.
type Member struct {
	Kind  MemberKind
	Owner reflect.Type
	Name  string
	// Index is the struct field index for fields and the method index in
	// the receiver's method set for methods.
	Index  int
	Offset uintptr
	// Type is the value type of a field or the func type of a method
	// expression, receiver included.
	Type reflect.Type
	Tag  reflect.StructTag
	// PointerReceiver reports a method expression taken on *Owner.
	PointerReceiver bool

	owned bool
}

// probe is a zero instance of a type whose address range identifies the
// fields that author-supplied pointers refer to.
type probe struct {
	typ  reflect.Type
	ptr  reflect.Value
	base uintptr
	size uintptr
	// claimed records the fields a list has already resolved, so that
	// zero-size fields sharing an address resolve in declaration order.
	// It is nil outside list collection.
	claimed map[int]bool
}

func newProbe(t reflect.Type) *probe {
	p := reflect.New(t)
	return &probe{typ: t, ptr: p, base: p.Pointer(), size: t.Size()}
}

// instance returns the probe as a *T inside an interface.
func (p *probe) instance() any {
	return p.ptr.Interface()
}

// resolve maps one descriptor value to a Member. Pointers are field
// references, funcs are method expressions, anything else is invalid.
func (p *probe) resolve(ref any) (Member, error) {
	rv := reflect.ValueOf(ref)
	switch rv.Kind() {
	case reflect.Pointer:
		return p.fieldOf(rv)
	case reflect.Func:
		return p.methodOf(rv)
	default:
		m := Member{Kind: KindInvalid, Name: fmt.Sprintf("%T", ref)}
		return m, p.ownershipError(m.Name, fmt.Sprintf("descriptor of type %T is neither a field pointer nor a method expression", ref))
	}
}

// fieldOf resolves a pointer into the probe to the top-level field it addresses.
func (p *probe) fieldOf(rv reflect.Value) (Member, error) {
	m := Member{Kind: KindField, Type: rv.Type().Elem()}
	if rv.IsNil() {
		return m, p.ownershipError("", "nil field pointer")
	}
	if p.typ.Kind() != reflect.Struct {
		return m, p.ownershipError("", fmt.Sprintf("%s is not a struct and has no fields", p.typ))
	}

	addr := rv.Pointer()
	if addr < p.base || addr > p.base+p.size {
		return m, p.ownershipError("", "pointer does not address the instance passed to the list function")
	}
	off := addr - p.base
	match := -1
	for i := range p.typ.NumField() {
		sf := p.typ.Field(i)
		if sf.Name == "_" || sf.Offset != off || sf.Type != m.Type {
			continue
		}
		if match < 0 {
			match = i
		}
		if !p.claimed[i] {
			match = i
			break
		}
	}
	if match >= 0 {
		sf := p.typ.Field(match)
		m.Owner = p.typ
		m.Name = sf.Name
		m.Index = match
		m.Offset = sf.Offset
		m.Tag = sf.Tag
		m.owned = true
		if p.claimed != nil {
			p.claimed[match] = true
		}
		return m, nil
	}
	return m, p.ownershipError("", fmt.Sprintf("no top-level %s field at offset %d", m.Type, off))
}

// methodOf resolves a method expression such as (*T).Name or T.Name.
func (p *probe) methodOf(rv reflect.Value) (Member, error) {
	ft := rv.Type()
	m := Member{Kind: KindMethod, Type: ft}
	if rv.IsNil() {
		return m, p.ownershipError("", "nil method expression")
	}

	ptrType := reflect.PointerTo(p.typ)
	if ft.NumIn() == 0 || (ft.In(0) != p.typ && ft.In(0) != ptrType) {
		return m, p.ownershipError("", fmt.Sprintf("%s does not take %s as its receiver", ft, p.typ))
	}

	name, err := funcName(rv)
	if err != nil {
		return m, p.ownershipError("", err.Error())
	}
	m.Name = name

	recv := ft.In(0)
	method, ok := recv.MethodByName(name)
	if !ok || method.Type != ft {
		return m, p.ownershipError(name, "func is not a method expression of the type")
	}
	m.Owner = p.typ
	m.Index = method.Index
	m.PointerReceiver = recv == ptrType
	m.owned = true
	return m, nil
}

// fieldNamed resolves a literal field identifier.
func (p *probe) fieldNamed(name string) (Member, error) {
	m := Member{Kind: KindField, Name: name}
	if p.typ.Kind() != reflect.Struct {
		return m, p.ownershipError(name, fmt.Sprintf("%s is not a struct and has no fields", p.typ))
	}
	for i := range p.typ.NumField() {
		sf := p.typ.Field(i)
		if sf.Name != name || name == "_" {
			continue
		}
		m.Owner = p.typ
		m.Index = i
		m.Offset = sf.Offset
		m.Type = sf.Type
		m.Tag = sf.Tag
		m.owned = true
		return m, nil
	}
	return m, p.ownershipError(name, "no such field")
}

// methodNamed resolves a literal method identifier against the method set of *T.
func (p *probe) methodNamed(name string) (Member, error) {
	m := Member{Kind: KindMethod, Name: name}
	recv := reflect.PointerTo(p.typ)
	method, ok := recv.MethodByName(name)
	if !ok {
		return m, p.ownershipError(name, "no such method")
	}
	m.Owner = p.typ
	m.Index = method.Index
	m.Type = method.Type
	m.PointerReceiver = true
	m.owned = true
	return m, nil
}

func (p *probe) ownershipError(member, msg string) error {
	return &ValidationError{
		Type:    TypeNameOf(p.typ),
		Member:  member,
		Message: msg,
		Hint:    "descriptors must reference members of the described type itself",
		Kind:    ErrOwnershipMismatch,
	}
}

// authoritativeFields returns the indices of the referenceable struct fields
// of t in declaration order.
func authoritativeFields(t reflect.Type) []int {
	if t.Kind() != reflect.Struct {
		return nil
	}
	idx := make([]int, 0, t.NumField())
	for i := range t.NumField() {
		if t.Field(i).Name == "_" {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}
