package bytesplit

import (
	"fmt"
	"sort"

	"github.com/stewi1014/bytesplit/splitio"
)

// Partial is a deferred-construction proxy returned by Kwargifier.Partial.
// Each field's raw segment is held undecoded; Field decodes one on first
// access and caches it, and Finish decodes whatever remains and constructs
// the real target instance.
//
// A Partial exposes nothing of the target type itself. Asking for anything
// that only the finished target has fails until Finish is called, and a
// Partial is consumed by its Finish; it holds private mutable cache state
// and is not safe for concurrent use.
type Partial struct {
	k        *Kwargifier
	segments [][]byte
	resolved map[string]interface{}
	finished bool
}

// Field returns the named field's value, decoding its segment on first access.
// Repeat reads return the cached value without redecoding.
func (p *Partial) Field(name string) (interface{}, error) {
	if p.finished {
		return nil, splitio.NewError(splitio.ErrUnresolved, "partial already finished")
	}
	if value, ok := p.resolved[name]; ok {
		return value, nil
	}

	for i, f := range p.k.fields {
		if f.name != name {
			continue
		}
		value, err := f.spec.decode(p.segments[i], f.spec.args)
		if err != nil {
			return nil, err
		}
		p.resolved[name] = value
		return value, nil
	}

	return nil, splitio.NewError(
		splitio.ErrUnresolved,
		fmt.Sprintf("%v is not a schema field; the finished %v may have it, but this partial doesn't", name, p.k.target),
	)
}

// Resolved returns the names of the fields decoded so far, sorted.
func (p *Partial) Resolved() []string {
	names := make([]string, 0, len(p.resolved))
	for name := range p.resolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Finish decodes any fields not yet resolved, constructs the target instance
// from the full field set and returns it as a pointer to the struct.
// The Partial is consumed; any use after Finish fails.
func (p *Partial) Finish() (interface{}, error) {
	if p.finished {
		return nil, splitio.NewError(splitio.ErrUnresolved, "partial already finished")
	}
	p.finished = true

	values := make([]interface{}, len(p.k.fields))
	for i, f := range p.k.fields {
		if value, ok := p.resolved[f.name]; ok {
			values[i] = value
			continue
		}
		value, err := f.spec.decode(p.segments[i], f.spec.args)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}

	return p.k.assemble(values)
}
