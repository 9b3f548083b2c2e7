// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"path"
	"strings"
)

// Static extension table. Anything unknown is served as an octet stream.
var contentTypes = map[string]string{
	".pdf":   "application/pdf",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".css":   "text/css",
	".js":    "application/javascript",
	".json":  "application/json",
	".html":  "text/html",
	".htm":   "text/html",
	".txt":   "text/plain",
	".csv":   "text/csv",
	".xml":   "application/xml",
	".zip":   "application/zip",
	".gz":    "application/gzip",
	".mp4":   "video/mp4",
	".mp3":   "audio/mpeg",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

func contentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
