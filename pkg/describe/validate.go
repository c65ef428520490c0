package describe

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// ListKind says which member list of a type a Report or Info covers.
type ListKind uint8

const (
	FieldList ListKind = iota
	MethodList
)

// String returns "fields" or "methods".
func (k ListKind) String() string {
	if k == MethodList {
		return "methods"
	}
	return "fields"
}

// Report is the outcome of validating one member list. Reports are always
// observable, even for lists that fail; Info values only exist for lists
// whose report passes.
type Report struct {
	Type reflect.Type
	Kind ListKind
	// Names holds the resolved member names, index-aligned with the list.
	Names []string

	Collected        bool
	Valid            bool
	IsFieldList      bool
	IsMethodList     bool
	Complete         bool
	Unique           bool
	Aggregate        bool
	AnnotationsValid bool

	Err error
}

// HasFieldInfo reports whether the list is a usable field description.
func (r Report) HasFieldInfo() bool {
	return r.Kind == FieldList &&
		r.Collected &&
		r.Valid &&
		r.IsFieldList &&
		r.Unique &&
		(!r.Aggregate || r.Complete) &&
		r.AnnotationsValid
}

// HasMethodInfo reports whether the list is a usable method description.
func (r Report) HasMethodInfo() bool {
	return r.Kind == MethodList && r.Collected && r.Valid && r.IsMethodList
}

func (r Report) clone() Report {
	r.Names = slices.Clone(r.Names)
	return r
}

// ok reports whether the list passes for its own kind.
func (r Report) ok() bool {
	if r.Kind == MethodList {
		return r.HasMethodInfo()
	}
	return r.HasFieldInfo()
}

// listCheck is the validator input: resolved members plus, for aggregates,
// the authoritative field indices of the owner.
type listCheck struct {
	typeName      string
	kind          ListKind
	members       []Member
	aggregate     bool
	authoritative []int
	// names lists the authoritative field names, used in messages.
	names []string
}

// validate computes the flags of a collected list. Resolution errors are
// passed in so they appear in the report alongside rule violations.
func validate(c listCheck, resolveErrs []error) Report {
	r := Report{
		Kind:             c.kind,
		Collected:        true,
		Valid:            true,
		IsFieldList:      true,
		IsMethodList:     true,
		Aggregate:        c.aggregate,
		AnnotationsValid: true,
		Names:            make([]string, len(c.members)),
	}
	errs := append([]error(nil), resolveErrs...)

	for i, m := range c.members {
		r.Names[i] = m.Name
		if !m.owned {
			r.Valid = false
		}
		if m.Kind != KindField {
			r.IsFieldList = false
		}
		if m.Kind != KindMethod {
			r.IsMethodList = false
		}
	}

	switch {
	case !r.IsFieldList && !r.IsMethodList:
		errs = append(errs, &ValidationError{
			Type:    c.typeName,
			Message: fmt.Sprintf("%s list mixes member kinds", c.kind),
			Hint:    "declare fields and methods in separate lists",
			Kind:    ErrMixedKind,
		})
	case c.kind == FieldList && !r.IsFieldList:
		errs = append(errs, &ValidationError{Type: c.typeName, Message: "field list holds only methods", Kind: ErrWrongKind})
	case c.kind == MethodList && !r.IsMethodList:
		errs = append(errs, &ValidationError{Type: c.typeName, Message: "method list holds only fields", Kind: ErrWrongKind})
	}

	if c.kind == FieldList && r.IsFieldList && r.Valid {
		r.Complete = isComplete(c.members, c.authoritative)
		if c.aggregate && !r.Complete {
			errs = append(errs, incompleteError(c))
		}
	}

	dups := duplicateNames(c.members)
	r.Unique = len(dups) == 0
	if c.kind == MethodList {
		// uniqueness is reported but not required of method lists
		dups = nil
	}
	for _, name := range dups {
		errs = append(errs, &ValidationError{
			Type:    c.typeName,
			Member:  name,
			Message: "listed more than once",
			Kind:    ErrDuplicateName,
		})
	}

	r.Err = errors.Join(errs...)
	return r
}

// isComplete reports whether members name every authoritative field exactly
// once, in declaration order.
func isComplete(members []Member, authoritative []int) bool {
	if len(members) != len(authoritative) {
		return false
	}
	for i, m := range members {
		if m.Index != authoritative[i] {
			return false
		}
	}
	return true
}

// duplicateNames returns names that occur more than once among the resolved
// members. Unresolved members have no name and are skipped.
func duplicateNames(members []Member) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		if m.owned {
			names = append(names, m.Name)
		}
	}
	slices.Sort(names)

	var dups []string
	for i := 1; i < len(names); i++ {
		if names[i] == names[i-1] && (len(dups) == 0 || dups[len(dups)-1] != names[i]) {
			dups = append(dups, names[i])
		}
	}
	return dups
}

func incompleteError(c listCheck) error {
	listed := make(map[int]bool, len(c.members))
	for _, m := range c.members {
		listed[m.Index] = true
	}
	var missing []string
	for i, idx := range c.authoritative {
		if !listed[idx] {
			missing = append(missing, c.names[i])
		}
	}

	msg := "field list does not match the declared fields in order"
	if len(missing) > 0 {
		msg = "field list omits " + strings.Join(missing, ", ")
	}
	return &ValidationError{
		Type:    c.typeName,
		Message: msg,
		Hint:    fmt.Sprintf("list every field once, in declaration order: %s", strings.Join(c.names, ", ")),
		Kind:    ErrIncomplete,
	}
}

// ValidateFieldNames applies the field-list rules to plain identifiers:
// declared is the author's list and fields the struct's own non-blank
// fields in declaration order. It is the static counterpart of the checks
// performed on registered lists.
func ValidateFieldNames(typeName string, declared, fields []string) error {
	members := make([]Member, len(declared))
	var errs []error
	for i, name := range declared {
		members[i] = Member{Kind: KindField, Name: name, Index: -1}
		if j := slices.Index(fields, name); j >= 0 && name != "_" {
			members[i].Index = j
			members[i].owned = true
			continue
		}
		errs = append(errs, &ValidationError{
			Type:    typeName,
			Member:  name,
			Message: "no such field",
			Kind:    ErrOwnershipMismatch,
		})
	}

	authoritative := make([]int, len(fields))
	for i := range fields {
		authoritative[i] = i
	}
	r := validate(listCheck{
		typeName:      typeName,
		kind:          FieldList,
		members:       members,
		aggregate:     true,
		authoritative: authoritative,
		names:         fields,
	}, errs)
	return r.Err
}

// ValidateMethodNames applies the method-list rules to plain identifiers
// against the names in a type's method set.
func ValidateMethodNames(typeName string, declared, methods []string) error {
	members := make([]Member, len(declared))
	var errs []error
	for i, name := range declared {
		members[i] = Member{Kind: KindMethod, Name: name}
		if slices.Contains(methods, name) {
			members[i].owned = true
			continue
		}
		errs = append(errs, &ValidationError{
			Type:    typeName,
			Member:  name,
			Message: "no such method",
			Kind:    ErrOwnershipMismatch,
		})
	}
	r := validate(listCheck{typeName: typeName, kind: MethodList, members: members}, errs)
	return r.Err
}
