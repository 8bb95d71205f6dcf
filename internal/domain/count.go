package domain

import (
	"fmt"
	"io"
	"iter"
)

// CountTo returns the integers 0 through n-1 in order. The sequence holds no
// state between iterations, so ranging over it again starts from zero.
// An n of zero or less yields nothing.
func CountTo(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Count writes one "i is <n>" line per value of CountTo(n) to w.
func Count(w io.Writer, n int) error {
	for i := range CountTo(n) {
		if _, err := fmt.Fprintf(w, "i is %d\n", i); err != nil {
			return fmt.Errorf("write count %d: %w", i, err)
		}
	}
	return nil
}
