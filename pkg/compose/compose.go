// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

// Package compose merges an ordered sequence of same-format byte buffers
// into one artifact. The only implemented format is PDF; other formats can
// be added behind the Composer interface without touching the resolver.
package compose

import "fmt"

// Composer merges ordered byte buffers into one document. Output page
// order is the concatenation of each input's pages in input order.
type Composer interface {
	Merge(inputs [][]byte) ([]byte, error)
}

// MergeError indicates a malformed input buffer. Index is the position of
// the offending input, or -1 when the failure cannot be attributed.
type MergeError struct {
	Index int
	Err   error
}

func (e *MergeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("merge input %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("merge: %v", e.Err)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}
