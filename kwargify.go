package bytesplit

import (
	"fmt"
	"reflect"

	"github.com/stewi1014/bytesplit/splitio"
)

// NamedField is one Kwargifier slot; a schema form (as accepted by
// NewSplitter) bound to a field name on the target struct.
type NamedField struct {
	Name   string
	Schema interface{}
}

// Validator is implemented by targets that want to reject assembled field
// values. ValidateFields runs after all fields are set, on both the eager and
// the Finish path; its error is reported as a construction failure.
type Validator interface {
	ValidateFields() error
}

var validatorType = reflect.TypeOf(new(Validator)).Elem()

// NewKwargifier builds a Kwargifier constructing instances of target's type.
// target may be a struct value, a pointer to one, or a reflect.Type.
// Each NamedField's name must match an exported struct field assignable from
// the value the field's schema produces; mismatches are schema errors
// reported here, never at build time.
func NewKwargifier(target interface{}, fields ...NamedField) (*Kwargifier, error) {
	t, ok := target.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(target)
	}
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("kwargifier target must be a struct type; got %v", t))
	}
	if len(fields) == 0 {
		return nil, splitio.NewError(splitio.ErrBadType, "empty schema")
	}

	k := &Kwargifier{
		target: t,
		fields: make([]kwargField, len(fields)),
	}

	specs := make([]fieldSpec, len(fields))
	for i, f := range fields {
		spec, err := normalize(f.Schema)
		if err != nil {
			return nil, err
		}

		sf, ok := t.FieldByName(f.Name)
		if !ok || sf.PkgPath != "" {
			return nil, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("%v has no exported field %q", t, f.Name))
		}
		if !spec.producedType().AssignableTo(sf.Type) {
			return nil, splitio.NewError(
				splitio.ErrBadType,
				fmt.Sprintf("field %q decodes %v, not assignable to %v", f.Name, spec.producedType(), sf.Type),
			)
		}

		specs[i] = spec
		k.fields[i] = kwargField{name: f.Name, index: sf.Index, spec: spec}
	}

	k.splitter = newSplitter(specs)
	return k, nil
}

// MustKwargifier is like NewKwargifier but panics on schema errors.
func MustKwargifier(target interface{}, fields ...NamedField) *Kwargifier {
	k, err := NewKwargifier(target, fields...)
	if err != nil {
		panic(err)
	}
	return k
}

type kwargField struct {
	name  string
	index []int
	spec  fieldSpec
}

// Kwargifier splits a buffer like a Splitter, but binds each decoded value to
// a named field of a target struct and returns one constructed instance.
// Like a Splitter it is immutable and safe for concurrent use.
type Kwargifier struct {
	target   reflect.Type
	fields   []kwargField
	splitter *Splitter
}

// Build decodes buff into a new instance of the target type, returned as a
// pointer to the struct. The whole buffer must be consumed.
func (k *Kwargifier) Build(buff []byte) (interface{}, error) {
	values, rest, err := k.splitter.split(buff)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, splitio.NewError(splitio.ErrSizeMismatch, fmt.Sprintf("%v excess bytes after splitting", len(rest)))
	}
	return k.assemble(values)
}

// Partial segments buff without decoding any field, returning a proxy that
// decodes fields on first access. The whole buffer must be consumed.
func (k *Kwargifier) Partial(buff []byte) (*Partial, error) {
	segments, rest, err := k.splitter.segment(buff)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, splitio.NewError(splitio.ErrSizeMismatch, fmt.Sprintf("%v excess bytes after splitting", len(rest)))
	}
	return &Partial{
		k:        k,
		segments: segments,
		resolved: make(map[string]interface{}),
	}, nil
}

// assemble sets values onto a new target instance, runs its Validator if it
// has one, and returns the instance.
func (k *Kwargifier) assemble(values []interface{}) (interface{}, error) {
	ptr := reflect.New(k.target)
	v := ptr.Elem()
	for i, f := range k.fields {
		v.FieldByIndex(f.index).Set(reflect.ValueOf(values[i]))
	}

	if ptr.Type().Implements(validatorType) {
		if err := ptr.Interface().(Validator).ValidateFields(); err != nil {
			return nil, splitio.NewError(splitio.ErrConstruction, fmt.Sprintf("%v: %v", k.target, err))
		}
	}
	return ptr.Interface(), nil
}
