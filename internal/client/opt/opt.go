// Package opt provides a tri-state optional value for partial updates.
//
// A Value is either unset (the zero value: "leave the field alone"), set to
// a concrete value, or explicitly cleared ("reset the field to empty"). Update
// structs use one Value per mutable field so callers can tell those cases
// apart, and remote payloads carry only the fields that were provided.
package opt

type state uint8

const (
	unset state = iota
	set
	cleared
)

// Value is an optional field update. The zero value is unset.
type Value[T any] struct {
	state state
	v     T
}

// Some returns a Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{state: set, v: v}
}

// Clear returns a Value that resets the field to its zero value.
func Clear[T any]() Value[T] {
	return Value[T]{state: cleared}
}

// Provided reports whether the caller supplied the field at all (set or cleared).
func (o Value[T]) Provided() bool { return o.state != unset }

// IsCleared reports whether the field is being explicitly cleared.
func (o Value[T]) IsCleared() bool { return o.state == cleared }

// Get returns the held value and true when the Value is set.
func (o Value[T]) Get() (T, bool) {
	if o.state != set {
		var zero T
		return zero, false
	}
	return o.v, true
}

// Apply writes the update into dst: a set value is copied, a cleared value
// resets dst to the zero value, an unset value leaves dst untouched. It
// reports whether dst was written.
func (o Value[T]) Apply(dst *T) bool {
	switch o.state {
	case set:
		*dst = o.v
		return true
	case cleared:
		var zero T
		*dst = zero
		return true
	default:
		return false
	}
}
