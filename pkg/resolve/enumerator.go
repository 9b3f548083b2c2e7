// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolve implements the version reconciliation pipeline: enumerate
// every stored version of a logical path, partition byte-identical
// duplicates, purge the redundant ones, and pass through or merge the
// survivors.
package resolve

import (
	"context"

	"github.com/LeeDigitalWorks/b2gate/pkg/b2"
)

// PageLister supplies one page of a version listing at a cursor position.
type PageLister interface {
	ListPage(ctx context.Context, bucketID string, cur b2.Cursor) (*b2.VersionPage, error)
}

// Enumerate returns every upload version of exactly the given path, in
// chronological order (oldest first). The upstream listing is a prefix
// match, so exact-name filtering here is mandatory. Any page failure
// discards partial results and aborts.
func Enumerate(ctx context.Context, lister PageLister, bucketID, path string) ([]b2.FileVersion, error) {
	var versions []b2.FileVersion

	cur := b2.Cursor{StartName: path}
	for {
		page, err := lister.ListPage(ctx, bucketID, cur)
		if err != nil {
			return nil, err
		}

		for _, f := range page.Files {
			if f.FileName == path && f.Action == b2.ActionUpload {
				versions = append(versions, f)
			}
		}

		// An empty NextName means the listing is exhausted; a NextName
		// past the requested path means enumeration has moved into
		// sibling paths.
		if page.NextName == "" || page.NextName != path {
			return versions, nil
		}
		cur = b2.Cursor{StartName: page.NextName, StartID: page.NextID}
	}
}
