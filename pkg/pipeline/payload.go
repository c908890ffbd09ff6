package pipeline

import (
	"fmt"
	"sort"
)

// Payload is the mutable state shared by the pipes of a pipeline.
// It has no locking: a single pipeline mutates it at a time.
type Payload struct {
	values map[string]any
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{values: make(map[string]any)}
}

// Key is a payload key bound to the type of its value.
type Key[T any] struct {
	name string
}

// NewKey declares a key. Two keys with the same name address the same value.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) Name() string {
	return k.name
}

// Get returns the value stored under key.
func Get[T any](p *Payload, key Key[T]) (T, error) {
	var zero T
	raw, ok := p.values[key.name]
	if !ok {
		return zero, &MissingContextKeyError{Key: key.name, Want: typeName[T]()}
	}
	val, ok := raw.(T)
	if !ok {
		return zero, &MissingContextKeyError{Key: key.name, Want: typeName[T](), Got: fmt.Sprintf("%T", raw)}
	}
	return val, nil
}

// Set stores val under key, replacing any previous value.
func Set[T any](p *Payload, key Key[T], val T) {
	p.values[key.name] = val
}

// Has reports whether a value of the key's type is stored under key.
func Has[T any](p *Payload, key Key[T]) bool {
	_, ok := p.values[key.name].(T)
	return ok
}

// Delete removes the value stored under name.
func (p *Payload) Delete(name string) {
	delete(p.values, name)
}

// Keys returns the names of the stored values, sorted.
func (p *Payload) Keys() []string {
	res := make([]string, 0, len(p.values))
	for k := range p.values {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// typeName works for interface types too, where %T of a zero value would print <nil>.
func typeName[T any]() string {
	var ptr *T
	return fmt.Sprintf("%T", ptr)[1:]
}
