package describe

import (
	"errors"
	"fmt"
	"reflect"
)

// Annotator collects per-field annotations while a type's annotation
// declaration runs. Values are attached either positionally, with a Begin
// marker followed by an End marker naming the field, or directly with Set.
//
// Begin and End share one counter that advances once per marker. Every End
// must land on an even count and close a Begin; anything else is reported
// as ErrAnnotationMismatch rather than attributed to the wrong field.
type Annotator struct {
	probe   *probe
	markers []marker
	values  map[int]any
	errs    []error
}

type marker struct {
	begin bool
	value any
}

func newAnnotator(p *probe) *Annotator {
	return &Annotator{probe: p, values: make(map[int]any)}
}

// Begin opens an annotation carrying value for the field named by the next End.
func (a *Annotator) Begin(value any) {
	a.markers = append(a.markers, marker{begin: true, value: value})
}

// End closes the most recent Begin and attaches its value to the field that
// field points to.
func (a *Annotator) End(field any) {
	a.markers = append(a.markers, marker{})
	count := len(a.markers)

	if count%2 != 0 || !a.markers[count-2].begin {
		a.errs = append(a.errs, &ValidationError{
			Type:    TypeNameOf(a.probe.typ),
			Message: fmt.Sprintf("End marker %d does not close a Begin", count),
			Hint:    "pair every Begin with exactly one End",
			Kind:    ErrAnnotationMismatch,
		})
		return
	}
	a.set(field, a.markers[count-2].value)
}

// Set attaches value to the field that field points to.
func (a *Annotator) Set(field any, value any) {
	a.set(field, value)
}

func (a *Annotator) set(field any, value any) {
	rv := reflect.ValueOf(field)
	if rv.Kind() != reflect.Pointer {
		a.errs = append(a.errs, a.probe.ownershipError("", fmt.Sprintf("annotation target of type %T is not a field pointer", field)))
		return
	}
	m, err := a.probe.fieldOf(rv)
	if err != nil {
		a.errs = append(a.errs, err)
		return
	}
	if _, dup := a.values[m.Index]; dup {
		a.errs = append(a.errs, &ValidationError{
			Type:    TypeNameOf(a.probe.typ),
			Member:  m.Name,
			Message: "annotated more than once",
			Kind:    ErrAnnotationMismatch,
		})
		return
	}
	a.values[m.Index] = value
}

// finish validates the counter state at the end of the declaration.
func (a *Annotator) finish() (map[int]any, error) {
	if len(a.markers)%2 != 0 {
		a.errs = append(a.errs, &ValidationError{
			Type:    TypeNameOf(a.probe.typ),
			Message: "Begin marker without a matching End",
			Kind:    ErrAnnotationMismatch,
		})
	}
	if len(a.errs) > 0 {
		return nil, errors.Join(a.errs...)
	}
	return a.values, nil
}
