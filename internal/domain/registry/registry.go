// Package registry maps raw record type tags to canonical series identities.
//
// A Registry is built once and never mutated afterwards; callers share it by
// pointer. Tags that are not registered are an error, never skipped.
package registry

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/medb/internal/domain/parse"
)

// Transform converts a parsed raw value into the canonical unit.
type Transform func(v float64) int64

// Identity keeps the value in its raw unit, rounded to the nearest integer.
func Identity(v float64) int64 {
	return int64(math.Round(v))
}

// Scale multiplies by factor and rounds to the nearest integer.
func Scale(factor float64) Transform {
	return func(v float64) int64 {
		return int64(math.Round(v * factor))
	}
}

// Descriptor describes the canonical series a raw type tag feeds.
type Descriptor struct {
	Family string
	Name   string
	Unit   string

	// Integer requires the raw value to be an integer literal.
	Integer bool

	// Transform defaults to Identity when nil.
	Transform Transform
}

// Value parses raw according to the descriptor and converts it to the
// canonical unit.
func (d Descriptor) Value(raw string) (int64, error) {
	if d.Integer {
		v, err := parse.Int(raw)
		if err != nil {
			return 0, err
		}
		if d.Transform == nil {
			return v, nil
		}
		return d.Transform(float64(v)), nil
	}

	v, err := parse.Double(raw)
	if err != nil {
		return 0, err
	}
	if d.Transform == nil {
		return Identity(v), nil
	}
	return d.Transform(v), nil
}

func (d Descriptor) validate() error {
	if d.Family == "" || d.Name == "" || d.Unit == "" {
		return fmt.Errorf("%w: family, name and unit are required (got %q/%q/%q)",
			ErrInvalidDescriptor, d.Family, d.Name, d.Unit)
	}
	return nil
}

// Registry is an immutable tag to Descriptor table.
type Registry struct {
	descriptors map[string]Descriptor
	names       map[string]struct{}
}

// New builds a Registry from a copy of descriptors. Two tags may not share a
// canonical name.
func New(descriptors map[string]Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make(map[string]Descriptor, len(descriptors)),
		names:       make(map[string]struct{}, len(descriptors)),
	}
	owners := make(map[string]string, len(descriptors))

	for _, tag := range sortedKeys(descriptors) {
		d := descriptors[tag]
		if tag == "" {
			return nil, fmt.Errorf("%w: empty type tag", ErrInvalidDescriptor)
		}
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("type %q: %w", tag, err)
		}
		if other, ok := owners[d.Name]; ok {
			return nil, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateName, d.Name, other, tag)
		}
		owners[d.Name] = tag
		r.names[d.Name] = struct{}{}
		r.descriptors[tag] = d
	}
	return r, nil
}

// MustNew is like New but panics on error. Use for tables compiled into the
// binary.
func MustNew(descriptors map[string]Descriptor) *Registry {
	r, err := New(descriptors)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the descriptor registered for tag.
func (r *Registry) Resolve(tag string) (Descriptor, error) {
	d, ok := r.descriptors[tag]
	if !ok {
		return Descriptor{}, &UnhandledTypeError{Tag: tag}
	}
	return d, nil
}

// HasName reports whether some tag resolves to the canonical name.
func (r *Registry) HasName(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Tags returns the registered tags in lexical order.
func (r *Registry) Tags() []string {
	return sortedKeys(r.descriptors)
}

func sortedKeys(m map[string]Descriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
