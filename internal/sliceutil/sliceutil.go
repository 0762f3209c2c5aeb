// Package sliceutil holds small generic slice helpers shared by the report surfaces.
package sliceutil

// Map returns fn applied to every element of slice.
func Map[T any, U any](slice []T, fn func(T) U) []U {
	mapped := make([]U, len(slice))
	for i, elem := range slice {
		mapped[i] = fn(elem)
	}
	return mapped
}

// Take returns at most the first n elements of slice. n <= 0 keeps all of them.
func Take[T any](slice []T, n int) []T {
	if n <= 0 || len(slice) <= n {
		return slice
	}
	return slice[:n]
}
