// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"context"
	"errors"

	"github.com/LeeDigitalWorks/b2gate/pkg/b2"
	"github.com/LeeDigitalWorks/b2gate/pkg/compose"
	"github.com/LeeDigitalWorks/b2gate/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ErrNoVersions is returned when a logical path has no upload versions.
var ErrNoVersions = errors.New("no versions found")

// Store is the upstream surface the resolver needs: listing, download and
// deletion, all bound to one request-scoped session.
type Store interface {
	PageLister
	Download(ctx context.Context, fileID string) ([]byte, error)
	Delete(ctx context.Context, fileID, fileName string) error
}

// Resolver runs the reconciliation pipeline for one logical path.
type Resolver struct {
	composer compose.Composer
}

func New(composer compose.Composer) *Resolver {
	return &Resolver{composer: composer}
}

// Resolve enumerates all versions of path, deletes byte-identical duplicate
// uploads (best effort), and returns the resulting artifact bytes:
//
//   - no versions: ErrNoVersions
//   - one distinct content: that version's bytes
//   - several distinct contents, merge off: the oldest distinct content
//   - several distinct contents, merge on: all survivors composed into one
//     document, in chronological order
func (r *Resolver) Resolve(ctx context.Context, store Store, bucketID, path string, merge bool) ([]byte, error) {
	versions, err := Enumerate(ctx, store, bucketID, path)
	if err != nil {
		return nil, err
	}

	switch len(versions) {
	case 0:
		return nil, ErrNoVersions
	case 1:
		return store.Download(ctx, versions[0].FileID)
	}

	survivors, stale := Partition(versions)
	r.deleteStale(ctx, store, stale)

	if len(survivors) == 1 || !merge {
		return store.Download(ctx, survivors[0].FileID)
	}

	bufs, err := r.fetchAll(ctx, store, survivors)
	if err != nil {
		return nil, err
	}
	return r.composer.Merge(bufs)
}

// deleteStale issues best-effort deletions for superseded duplicates. A
// failed delete leaves an orphaned duplicate behind to be retried on a
// future request; it never fails the enclosing request.
func (r *Resolver) deleteStale(ctx context.Context, store Store, stale []b2.FileVersion) {
	for _, v := range stale {
		if err := store.Delete(ctx, v.FileID, v.FileName); err != nil {
			staleDeletesTotal.WithLabelValues("error").Inc()
			logger.Ctx(ctx).Warn().
				Err(err).
				Str("file_id", v.FileID).
				Str("file_name", v.FileName).
				Msg("failed to delete duplicate version")
			continue
		}
		staleDeletesTotal.WithLabelValues("ok").Inc()
		logger.Ctx(ctx).Debug().
			Str("file_id", v.FileID).
			Str("file_name", v.FileName).
			Msg("deleted duplicate version")
	}
}

// fetchAll downloads every survivor. Downloads run concurrently but results
// are slotted by survivor index, so composition order is survivor order,
// never completion order.
func (r *Resolver) fetchAll(ctx context.Context, store Store, survivors []b2.FileVersion) ([][]byte, error) {
	bufs := make([][]byte, len(survivors))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range survivors {
		i, v := i, v
		g.Go(func() error {
			data, err := store.Download(gctx, v.FileID)
			if err != nil {
				return err
			}
			bufs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mergesTotal.Inc()
	return bufs, nil
}
