package describe

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Registry holds out-of-band declarations and the metadata derived from them.
// Metadata for a type is derived once, on first query, and never changes
// afterwards; registering a declaration for an already derived type fails.
type Registry struct {
	mu      sync.Mutex
	decls   map[reflect.Type]*Declaration
	derived map[reflect.Type]*entry
	logger  *zap.Logger
}

// entry is the immutable derivation result for one type.
type entry struct {
	fields      Report
	fieldInfo   *Info
	methods     Report
	methodInfo  *Info
	annotations map[int]any
	annErr      error
}

var errNilType = &ValidationError{Message: "nil type", Kind: ErrMissingDescription}

// nilEntry is returned for queries on a nil reflect.Type.
var nilEntry = &entry{
	fields:  Report{Kind: FieldList, Err: errNilType},
	methods: Report{Kind: MethodList, Err: errNilType},
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger makes the registry log derivations at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		decls:   make(map[reflect.Type]*Declaration),
		derived: make(map[reflect.Type]*entry),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the process-wide registry used by the package-level functions.
var Default = NewRegistry()

// Register adds an out-of-band declaration for t. Declarations for the same
// type merge slot by slot; filling a slot twice returns ErrAlreadyRegistered
// and registering after t has been derived returns ErrFrozen.
func (r *Registry) Register(t reflect.Type, d Declaration) error {
	if t == nil {
		return errors.New("registering declaration: nil type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.derived[t]; ok {
		return &ValidationError{
			Type:    TypeNameOf(t),
			Message: "registered after its metadata was derived",
			Hint:    "register descriptions from init functions",
			Kind:    ErrFrozen,
		}
	}

	existing, ok := r.decls[t]
	if !ok {
		existing = &Declaration{}
	}
	merged := *existing
	if err := merged.merge(TypeNameOf(t), d); err != nil {
		return err
	}
	r.decls[t] = &merged
	return nil
}

// IsDescribed reports whether t has a field list from any source. It does
// not validate the list.
func (r *Registry) IsDescribed(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if reflect.PointerTo(t).Implements(fieldListerType) {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decls[t].hasFields()
}

// HasMethodList reports whether t has a method list from any source.
func (r *Registry) HasMethodList(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if reflect.PointerTo(t).Implements(methodListerType) {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decls[t].hasMethods()
}

// CheckFields returns the validation report of t's field list. The report
// is a copy; changing it does not affect the registry.
func (r *Registry) CheckFields(t reflect.Type) Report {
	return r.derive(t).fields.clone()
}

// CheckMethods returns the validation report of t's method list.
func (r *Registry) CheckMethods(t reflect.Type) Report {
	return r.derive(t).methods.clone()
}

// HasFieldInfo reports whether t has a valid field description.
func (r *Registry) HasFieldInfo(t reflect.Type) bool {
	return t != nil && r.derive(t).fieldInfo != nil
}

// HasMethodInfo reports whether t has a valid method description.
func (r *Registry) HasMethodInfo(t reflect.Type) bool {
	return t != nil && r.derive(t).methodInfo != nil
}

// Fields returns the field info of t, or the validation error explaining why
// there is none.
func (r *Registry) Fields(t reflect.Type) (*Info, error) {
	if t == nil {
		return nil, errors.New("describing fields: nil type")
	}
	e := r.derive(t)
	if e.fieldInfo == nil {
		return nil, fmt.Errorf("describing fields of %s: %w", TypeNameOf(t), e.fields.Err)
	}
	return e.fieldInfo, nil
}

// Methods returns the method info of t, or the validation error explaining
// why there is none.
func (r *Registry) Methods(t reflect.Type) (*Info, error) {
	if t == nil {
		return nil, errors.New("describing methods: nil type")
	}
	e := r.derive(t)
	if e.methodInfo == nil {
		return nil, fmt.Errorf("describing methods of %s: %w", TypeNameOf(t), e.methods.Err)
	}
	return e.methodInfo, nil
}

// Annotation returns the annotation of the struct field with the given
// index. A type without annotations yields ok == false for every field.
func (r *Registry) Annotation(t reflect.Type, structIndex int) (value any, ok bool, err error) {
	e := r.derive(t)
	if e.annErr != nil {
		return nil, false, fmt.Errorf("annotating %s: %w", TypeNameOf(t), e.annErr)
	}
	value, ok = e.annotations[structIndex]
	return value, ok, nil
}

// Types returns the types with out-of-band declarations, sorted by name.
func (r *Registry) Types() []reflect.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]reflect.Type, 0, len(r.decls))
	for t := range r.decls {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b reflect.Type) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
	return out
}

// Verify derives the given types and returns every problem found. A type
// must have a field list or a method list; each list it has must be valid.
func (r *Registry) Verify(types ...reflect.Type) error {
	var errs []error
	for _, t := range types {
		if err := r.verify(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateAll verifies every type with an out-of-band declaration.
func (r *Registry) ValidateAll() error {
	return r.Verify(r.Types()...)
}

func (r *Registry) verify(t reflect.Type) error {
	if t == nil {
		return errors.New("verifying: nil type")
	}
	e := r.derive(t)
	if !e.fields.Collected && !e.methods.Collected {
		return e.fields.Err
	}
	var errs []error
	if e.fields.Collected && e.fieldInfo == nil {
		errs = append(errs, e.fields.Err)
	}
	if e.methods.Collected && e.methodInfo == nil {
		errs = append(errs, e.methods.Err)
	}
	if e.annErr != nil && !e.fields.Collected {
		errs = append(errs, e.annErr)
	}
	return errors.Join(errs...)
}

// derive returns the cached entry for t, computing it on first use.
func (r *Registry) derive(t reflect.Type) *entry {
	if t == nil {
		return nilEntry
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.derived[t]; ok {
		return e
	}
	d := r.decls[t]
	name := TypeNameOf(t)

	e := &entry{}
	e.annotations, e.annErr = collectAnnotations(t, d)

	fc := collectFields(t, d)
	e.fields = r.report(t, FieldList, fc, e.annErr)
	if e.fields.ok() {
		e.fieldInfo = newInfo(t, FieldList, fc.members, e.fields.Names, e.annotations)
	}

	mc := collectMethods(t, d)
	e.methods = r.report(t, MethodList, mc, nil)
	if e.methods.ok() {
		e.methodInfo = newInfo(t, MethodList, mc.members, e.methods.Names, nil)
	}

	r.derived[t] = e
	r.logger.Debug("derived type metadata",
		zap.String("type", name),
		zap.String("field_source", fc.source),
		zap.Bool("has_field_info", e.fieldInfo != nil),
		zap.String("method_source", mc.source),
		zap.Bool("has_method_info", e.methodInfo != nil),
	)
	return e
}

// report validates a collected list, or reports it missing.
func (r *Registry) report(t reflect.Type, kind ListKind, c collected, annErr error) Report {
	name := TypeNameOf(t)
	if !c.found {
		return Report{
			Type: t,
			Kind: kind,
			Err: &ValidationError{
				Type:    name,
				Message: fmt.Sprintf("no %s description", kind),
				Hint:    fmt.Sprintf("implement Describe%s on *%s or register it out of band", kindMethodSuffix(kind), name),
				Kind:    ErrMissingDescription,
			},
		}
	}

	check := listCheck{typeName: name, kind: kind, members: c.members}
	if kind == FieldList {
		check.aggregate = isAggregate(t)
		check.authoritative = authoritativeFields(t)
		for _, idx := range check.authoritative {
			check.names = append(check.names, t.Field(idx).Name)
		}
	}
	rep := validate(check, c.errs)
	rep.Type = t
	if kind == FieldList && annErr != nil {
		rep.AnnotationsValid = false
		rep.Err = errors.Join(rep.Err, annErr)
	}
	return rep
}

func kindMethodSuffix(k ListKind) string {
	if k == MethodList {
		return "Methods"
	}
	return "Fields"
}

func newInfo(t reflect.Type, kind ListKind, members []Member, names []string, ann map[int]any) *Info {
	info := &Info{
		typ:         t,
		kind:        kind,
		members:     make([]Member, len(members)),
		names:       make([]string, len(names)),
		annotations: ann,
	}
	copy(info.members, members)
	copy(info.names, names)
	return info
}
