// Package window implements the capacity-bounded FIFO that backs every
// document history.
package window

// Append adds item to the end of w and evicts from the front until the
// result fits capacity. Surviving entries keep their order. The input
// slice is never modified; the document mutators hand out documents that
// must not alias their predecessor.
//
// Capacity is policy owned by the caller, one fixed value per window
// type. Anything below one is a programmer error.
func Append[T any](w []T, item T, capacity int) []T {
	if capacity < 1 {
		panic("window: capacity must be positive")
	}
	out := make([]T, 0, len(w)+1)
	out = append(out, w...)
	out = append(out, item)
	if len(out) > capacity {
		out = out[len(out)-capacity:]
	}
	return out
}

// Tail returns the last n entries of w, or all of them when n is zero or
// exceeds the window length.
func Tail[T any](w []T, n int) []T {
	if n <= 0 || n >= len(w) {
		return w
	}
	return w[len(w)-n:]
}
