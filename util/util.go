package util

import (
	"os"

	"golang.org/x/exp/constraints"
)

// EnsureDir creates a directory and any missing parents.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0777)
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func Abs[A constraints.Signed](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

// Clamp pins a value into [lo, hi].
func Clamp[A constraints.Ordered](v, lo, hi A) A {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
