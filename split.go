// Package bytesplit splits flat byte buffers into typed values according to a
// declarative schema.
//
// A Splitter is built once from a sequence of field descriptions; fixed-length
// byte counts, self-describing variable-length slots, or types with a
// byte-decoding capability. It is then applied to any number of buffers,
// slicing each into segments and constructing each field's value. Splitters
// are immutable and safe for concurrent use.
//
// A Kwargifier names each field and assembles the decoded values into a target
// struct, either eagerly or through a Partial proxy which decodes fields on
// first access and defers construction until Finish.
//
// The only wire format in the system is the variable-length frame implemented
// by bytesplit/frame; a 4 byte big-endian length prefix followed by that many
// payload bytes.
package bytesplit

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/stewi1014/bytesplit/frame"
	"github.com/stewi1014/bytesplit/splitio"
)

// NewSplitter builds a Splitter from schema slots. Each slot is an int
// (raw fixed-length field), Variable (raw self-describing field), a
// reflect.Type (self-describing field of that type) or a Field.
// Schema errors are reported here, never at split time.
func NewSplitter(schema ...interface{}) (*Splitter, error) {
	if len(schema) == 0 {
		return nil, splitio.NewError(splitio.ErrBadType, "empty schema")
	}

	specs := make([]fieldSpec, len(schema))
	for i, slot := range schema {
		spec, err := normalize(slot)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}

	return newSplitter(specs), nil
}

// MustSplitter is like NewSplitter but panics on schema errors.
// It simplifies package-level schema declarations.
func MustSplitter(schema ...interface{}) *Splitter {
	s, err := NewSplitter(schema...)
	if err != nil {
		panic(err)
	}
	return s
}

func newSplitter(specs []fieldSpec) *Splitter {
	fixed := 0
	for _, spec := range specs {
		if spec.length == Variable {
			fixed = Variable
			break
		}
		fixed += spec.length
	}
	return &Splitter{specs: specs, fixed: fixed}
}

// Splitter holds an immutable ordered sequence of field specs.
// It keeps no per-call state; one Splitter can be shared freely.
type Splitter struct {
	specs []fieldSpec

	// total byte length of an all-fixed schema; Variable otherwise.
	fixed int
}

// Len returns the total byte length consumed by an all-fixed schema,
// or Variable if any field is self-describing.
func (s *Splitter) Len() int {
	return s.fixed
}

// Concat returns a new Splitter splitting s's fields followed by o's.
func (s *Splitter) Concat(o *Splitter) *Splitter {
	specs := make([]fieldSpec, 0, len(s.specs)+len(o.specs))
	specs = append(specs, s.specs...)
	specs = append(specs, o.specs...)
	return newSplitter(specs)
}

// Times returns a new Splitter splitting s's fields repeated n times.
// It panics if n < 1; programmer error.
func (s *Splitter) Times(n int) *Splitter {
	if n < 1 {
		panic(splitio.NewError(splitio.ErrBadCall, fmt.Sprintf("cannot repeat a schema %v times", n)))
	}
	specs := make([]fieldSpec, 0, len(s.specs)*n)
	for i := 0; i < n; i++ {
		specs = append(specs, s.specs...)
	}
	return newSplitter(specs)
}

// segment slices buff into one raw segment per field without decoding anything,
// returning the segments and the unconsumed tail.
func (s *Splitter) segment(buff []byte) (segments [][]byte, rest []byte, err error) {
	segments = make([][]byte, len(s.specs))
	cursor := 0
	for i, spec := range s.specs {
		if spec.length == Variable {
			payload, consumed, err := frame.Decode(buff, cursor)
			if err != nil {
				return nil, nil, err
			}
			segments[i] = payload
			cursor += consumed
			continue
		}

		if len(buff)-cursor < spec.length {
			return nil, nil, splitio.NewError(
				splitio.ErrSizeMismatch,
				fmt.Sprintf("field %v wants %v bytes but only %v remain", i, spec.length, len(buff)-cursor),
			)
		}
		segments[i] = buff[cursor : cursor+spec.length]
		cursor += spec.length
	}
	return segments, buff[cursor:], nil
}

// split segments buff and decodes every field, returning the values and the
// unconsumed tail.
func (s *Splitter) split(buff []byte) (values []interface{}, rest []byte, err error) {
	segments, rest, err := s.segment(buff)
	if err != nil {
		return nil, nil, err
	}

	values = make([]interface{}, len(s.specs))
	for i, spec := range s.specs {
		values[i], err = spec.decode(segments[i], spec.args)
		if err != nil {
			return nil, nil, err
		}
	}
	return values, rest, nil
}

// Split decodes buff into one value per field, requiring exact consumption;
// leftover bytes are a size mismatch.
func (s *Splitter) Split(buff []byte) ([]interface{}, error) {
	values, rest, err := s.split(buff)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, splitio.NewError(splitio.ErrSizeMismatch, fmt.Sprintf("%v excess bytes after splitting", len(rest)))
	}
	return values, nil
}

// Single decodes buff with a one-field schema, returning the bare value.
func (s *Splitter) Single(buff []byte) (interface{}, error) {
	if len(s.specs) != 1 {
		return nil, splitio.NewError(splitio.ErrBadCall, fmt.Sprintf("schema has %v fields; Single wants exactly 1", len(s.specs)))
	}
	values, err := s.Split(buff)
	if err != nil {
		return nil, err
	}
	return values[0], nil
}

// SplitRemainder decodes buff, returning the unconsumed tail instead of
// requiring exact consumption. The tail aliases buff.
func (s *Splitter) SplitRemainder(buff []byte) ([]interface{}, []byte, error) {
	return s.split(buff)
}

// SplitMapRemainder decodes buff, handing the unconsumed tail to the msgpack
// codec and returning it as a key-value mapping. A tail the codec cannot
// decode is a construction failure, not a size mismatch.
func (s *Splitter) SplitMapRemainder(buff []byte) ([]interface{}, map[string]interface{}, error) {
	values, rest, err := s.split(buff)
	if err != nil {
		return nil, nil, err
	}

	mapping := make(map[string]interface{})
	if err := msgpack.Unmarshal(rest, &mapping); err != nil {
		return nil, nil, splitio.NewError(splitio.ErrConstruction, fmt.Sprintf("remainder mapping: %v", err))
	}
	return values, mapping, nil
}

// Repeat applies the schema from the front of buff until it is exactly
// exhausted, collecting each application's result. For a one-field schema the
// results are bare values; otherwise each result is a []interface{} group.
// A buffer that doesn't divide into whole records is a size mismatch.
func (s *Splitter) Repeat(buff []byte) ([]interface{}, error) {
	if s.fixed != Variable && len(buff)%s.fixed != 0 {
		return nil, splitio.NewError(
			splitio.ErrSizeMismatch,
			fmt.Sprintf("%v byte buffer does not divide into %v byte records", len(buff), s.fixed),
		)
	}

	var results []interface{}
	for len(buff) > 0 {
		values, rest, err := s.split(buff)
		if err != nil {
			return nil, err
		}
		if len(s.specs) == 1 {
			results = append(results, values[0])
		} else {
			results = append(results, values)
		}
		buff = rest
	}
	return results, nil
}
