// Package choice holds small expression helpers Go does not ship with.
package choice

// Ternary returns isTrue when condition holds, otherwise isFalse.
func Ternary[T any](condition bool, isTrue, isFalse T) T {
	if condition {
		return isTrue
	}

	return isFalse
}

// FuncTernary is Ternary for values that should only be built when chosen.
func FuncTernary[T any](condition bool, isTrue, isFalse func() T) T {
	if condition {
		return isTrue()
	}

	return isFalse()
}
