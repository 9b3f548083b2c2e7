// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"fmt"
	"sort"
	"strings"
)

// Config is built once at process start and passed into the gateway; the
// pipeline never reads ambient state.
type Config struct {
	// BucketID serves every path from one fixed bucket. Mutually exclusive
	// with Buckets.
	BucketID string

	// Buckets maps the first path segment to a bucket id; the remainder of
	// the path is the logical path within that bucket.
	Buckets map[string]string

	// MergePDFs enables composing distinct historical uploads of a .pdf
	// path into one combined document.
	MergePDFs bool

	// Cache TTLs in seconds for the Cache-Control / CDN-Cache-Control
	// response headers.
	BrowserTTL int
	CDNTTL     int
}

// ConfigError indicates missing or contradictory bucket configuration.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "gateway config: " + e.Reason
}

func (c Config) validate() error {
	if c.BucketID == "" && len(c.Buckets) == 0 {
		return &ConfigError{Reason: "either bucket_id or a [buckets] map is required"}
	}
	if c.BucketID != "" && len(c.Buckets) > 0 {
		return &ConfigError{Reason: "bucket_id and [buckets] map are mutually exclusive"}
	}
	return nil
}

// resolveBucket maps a request path (leading slash stripped) to a bucket id
// and the logical path within it.
func (c Config) resolveBucket(path string) (bucketID, logicalPath string, err error) {
	if c.BucketID != "" {
		return c.BucketID, path, nil
	}

	prefix, rest, _ := strings.Cut(path, "/")
	id, ok := c.Buckets[prefix]
	if !ok || rest == "" {
		return "", "", &ConfigError{Reason: fmt.Sprintf(
			"no bucket mapped for prefix %q (valid prefixes: %s)",
			prefix, strings.Join(c.prefixes(), ", "))}
	}
	return id, rest, nil
}

func (c Config) prefixes() []string {
	out := make([]string, 0, len(c.Buckets))
	for p := range c.Buckets {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
