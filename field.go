package bytesplit

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/stewi1014/bytesplit/splitio"
)

// Variable marks a field as self-describing; its length is read from a frame's
// length prefix at split time instead of being fixed in the schema.
const Variable = -1

// Args holds named extra arguments handed to a field's constructor.
// An Args map must not be modified after the schema is built.
type Args map[string]interface{}

// ArgUnmarshaler is the capability for types that construct themselves from a
// byte segment plus named extra arguments. UnmarshalBytesArgs is called on a
// new instance of the type with the field's segment and the schema's Args.
type ArgUnmarshaler interface {
	UnmarshalBytesArgs(data []byte, args Args) error
}

// Field is the full schema form for one slot.
//
// Type is the value to construct; nil means a raw []byte passthrough.
// Length is the segment's byte count, or Variable for a self-describing field.
// Args are extra constructor arguments, only valid for ArgUnmarshaler types.
type Field struct {
	Type   reflect.Type
	Length int
	Args   Args
}

var (
	bytesType             = reflect.TypeOf([]byte(nil))
	argUnmarshalerType    = reflect.TypeOf(new(ArgUnmarshaler)).Elem()
	binaryUnmarshalerType = reflect.TypeOf(new(encoding.BinaryUnmarshaler)).Elem()
)

// decodeFunc constructs a field's value from its sliced segment.
// It is resolved once at schema build time and reused across calls.
type decodeFunc func(segment []byte, args Args) (interface{}, error)

// fieldSpec is the normalized form of one schema slot.
type fieldSpec struct {
	typ    reflect.Type // nil for raw bytes
	length int          // byte count, or Variable
	args   Args
	decode decodeFunc
}

// normalize canonicalises one schema slot. Accepted forms:
//
//	int n          raw n-byte field
//	Variable       raw self-describing field
//	reflect.Type   self-describing field constructing that type
//	Field{...}     the full form
func normalize(slot interface{}) (fieldSpec, error) {
	switch v := slot.(type) {
	case int:
		if v == Variable {
			return Field{Length: Variable}.spec()
		}
		return Field{Length: v}.spec()
	case reflect.Type:
		return Field{Type: v, Length: Variable}.spec()
	case Field:
		return v.spec()
	default:
		return fieldSpec{}, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("%T is not a schema form", slot))
	}
}

func (f Field) spec() (fieldSpec, error) {
	if f.Length != Variable && f.Length <= 0 {
		return fieldSpec{}, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("field length %v; want a positive byte count or Variable", f.Length))
	}

	decode, err := resolveDecoder(f.Type, f.Length, f.Args)
	if err != nil {
		return fieldSpec{}, err
	}

	return fieldSpec{
		typ:    f.Type,
		length: f.Length,
		args:   f.Args,
		decode: decode,
	}, nil
}

// producedType is the type a spec's decode returns; bytesType for passthrough fields.
func (s fieldSpec) producedType() reflect.Type {
	if s.typ == nil {
		return bytesType
	}
	return s.typ
}

// resolveDecoder resolves a field type's byte-decoding capability.
// Resolution happens once per schema slot; the split path only ever
// calls the returned decodeFunc.
func resolveDecoder(t reflect.Type, length int, args Args) (decodeFunc, error) {
	if t == nil || t == bytesType {
		if len(args) > 0 {
			return nil, splitio.NewError(splitio.ErrBadType, "raw byte fields take no arguments")
		}
		return decodeRaw, nil
	}

	ptrt := reflect.PtrTo(t)
	kind := t.Kind()
	switch {
	// Implementers
	case ptrt.Implements(argUnmarshalerType):
		return newArgDecoder(t), nil
	case ptrt.Implements(binaryUnmarshalerType):
		if len(args) > 0 {
			return nil, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("%v unmarshals without arguments, but arguments were given", t))
		}
		return newBinaryDecoder(t), nil

	// Kinds with built-in decoders
	case kind == reflect.String:
		if len(args) > 0 {
			return nil, splitio.NewError(splitio.ErrBadType, "string fields take no arguments")
		}
		return newStringDecoder(t), nil
	case kind >= reflect.Int && kind <= reflect.Int64:
		if len(args) > 0 {
			return nil, splitio.NewError(splitio.ErrBadType, "integer fields take no arguments")
		}
		if length != Variable && length > 8 {
			return nil, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("cannot decode %v from %v bytes", t, length))
		}
		return newIntDecoder(t, true), nil
	case kind >= reflect.Uint && kind <= reflect.Uint64:
		if len(args) > 0 {
			return nil, splitio.NewError(splitio.ErrBadType, "integer fields take no arguments")
		}
		if length != Variable && length > 8 {
			return nil, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("cannot decode %v from %v bytes", t, length))
		}
		return newIntDecoder(t, false), nil

	default:
		return nil, splitio.NewError(splitio.ErrBadType, fmt.Sprintf("%v has no byte-decoding capability", t))
	}
}

func decodeRaw(segment []byte, _ Args) (interface{}, error) {
	return segment, nil
}

func newArgDecoder(t reflect.Type) decodeFunc {
	return func(segment []byte, args Args) (interface{}, error) {
		v := reflect.New(t)
		if err := v.Interface().(ArgUnmarshaler).UnmarshalBytesArgs(segment, args); err != nil {
			return nil, splitio.NewError(splitio.ErrConstruction, fmt.Sprintf("%v: %v", t, err))
		}
		return v.Elem().Interface(), nil
	}
}

func newBinaryDecoder(t reflect.Type) decodeFunc {
	return func(segment []byte, _ Args) (interface{}, error) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.BinaryUnmarshaler).UnmarshalBinary(segment); err != nil {
			return nil, splitio.NewError(splitio.ErrConstruction, fmt.Sprintf("%v: %v", t, err))
		}
		return v.Elem().Interface(), nil
	}
}

func newStringDecoder(t reflect.Type) decodeFunc {
	return func(segment []byte, _ Args) (interface{}, error) {
		v := reflect.New(t).Elem()
		v.SetString(string(segment))
		return v.Interface(), nil
	}
}

// newIntDecoder decodes big-endian integers spanning the whole segment.
// Signed kinds sign-extend from the segment's own width.
func newIntDecoder(t reflect.Type, signed bool) decodeFunc {
	return func(segment []byte, _ Args) (interface{}, error) {
		n, err := splitio.DecodeUint(segment)
		if err != nil {
			return nil, splitio.NewError(splitio.ErrConstruction, fmt.Sprintf("%v: %v byte segment", t, len(segment)))
		}

		v := reflect.New(t).Elem()
		if signed {
			if len(segment) < 8 && segment[0]&0x80 != 0 {
				n |= ^uint64(0) << (8 * len(segment))
			}
			if v.OverflowInt(int64(n)) {
				return nil, splitio.NewError(splitio.ErrConstruction, fmt.Sprintf("%v overflows %v", int64(n), t))
			}
			v.SetInt(int64(n))
		} else {
			if v.OverflowUint(n) {
				return nil, splitio.NewError(splitio.ErrConstruction, fmt.Sprintf("%v overflows %v", n, t))
			}
			v.SetUint(n)
		}
		return v.Interface(), nil
	}
}
