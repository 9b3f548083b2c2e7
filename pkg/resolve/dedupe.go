// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import "github.com/LeeDigitalWorks/b2gate/pkg/b2"

// Partition splits versions into survivors and stale duplicates. Versions
// sharing a content fingerprint are grouped; the first occurrence in list
// order wins (the upstream enumerates oldest first, so the survivor is the
// oldest upload of that content). Survivors keep overall enumeration order.
//
// Pure function: no I/O, same input always yields the same output, and
// survivors ∪ stale is exactly the input.
func Partition(versions []b2.FileVersion) (survivors, stale []b2.FileVersion) {
	seen := make(map[string]bool, len(versions))

	for _, v := range versions {
		if seen[v.ContentSHA1] {
			stale = append(stale, v)
			continue
		}
		seen[v.ContentSHA1] = true
		survivors = append(survivors, v)
	}

	return survivors, stale
}
