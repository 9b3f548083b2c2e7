// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway is the inbound HTTP surface of the read-through proxy.
// It routes a logical path to a bucket, runs the resolve pipeline, and
// writes the resulting artifact with caching headers.
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/b2gate/pkg/b2"
	"github.com/LeeDigitalWorks/b2gate/pkg/logger"
	"github.com/LeeDigitalWorks/b2gate/pkg/resolve"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type Gateway struct {
	cfg      Config
	client   *b2.Client
	resolver *resolve.Resolver
}

func New(cfg Config, client *b2.Client, resolver *resolve.Resolver) (*Gateway, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Gateway{cfg: cfg, client: client, resolver: resolver}, nil
}

// Register installs the gateway handlers on mux.
func (g *Gateway) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", g.serve)
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		g.handleGet(w, r)
	case http.MethodHead:
		g.handleHead(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (g *Gateway) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reqLogger := logger.Ctx(r.Context()).With().
		Str("request_id", uuid.NewString()).
		Str("path", r.URL.Path).
		Logger()
	ctx := logger.WithLogger(r.Context(), &reqLogger)

	requested := strings.TrimPrefix(r.URL.Path, "/")
	if requested == "" {
		requestsTotal.WithLabelValues(r.Method, "not_found").Inc()
		w.WriteHeader(http.StatusNotFound)
		return
	}

	bucketID, name, err := g.cfg.resolveBucket(requested)
	if err != nil {
		requestsTotal.WithLabelValues(r.Method, "not_found").Inc()
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := g.client.Authorize(ctx)
	if err != nil {
		requestsTotal.WithLabelValues(r.Method, "error").Inc()
		reqLogger.Error().Err(err).Msg("upstream authorization failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	merge := g.cfg.MergePDFs && strings.EqualFold(path.Ext(name), ".pdf")

	data, err := g.resolver.Resolve(ctx, conn, bucketID, name, merge)
	if err != nil {
		if errors.Is(err, resolve.ErrNoVersions) {
			requestsTotal.WithLabelValues(r.Method, "not_found").Inc()
			w.WriteHeader(http.StatusNotFound)
			return
		}
		requestsTotal.WithLabelValues(r.Method, "error").Inc()
		reqLogger.Error().Err(err).Msg("resolution failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	g.writeCacheHeaders(w, name)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)

	requestsTotal.WithLabelValues(r.Method, "ok").Inc()
	requestDuration.Observe(time.Since(start).Seconds())
	reqLogger.Info().
		Str("size", humanize.Bytes(uint64(len(data)))).
		Dur("elapsed", time.Since(start)).
		Bool("merge", merge).
		Msg("served object")
}

// handleHead answers with the most recent version's metadata. No body, no
// deduplication, no merge.
func (g *Gateway) handleHead(w http.ResponseWriter, r *http.Request) {
	requested := strings.TrimPrefix(r.URL.Path, "/")
	if requested == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	bucketID, name, err := g.cfg.resolveBucket(requested)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := g.client.Authorize(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	versions, err := resolve.Enumerate(r.Context(), conn, bucketID, name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(versions) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	latest := versions[len(versions)-1]
	w.Header().Set("Content-Type", contentTypeFor(name))
	w.Header().Set("Content-Length", strconv.FormatInt(latest.ContentLength, 10))
	w.WriteHeader(http.StatusOK)
}

func (g *Gateway) writeCacheHeaders(w http.ResponseWriter, name string) {
	h := w.Header()
	h.Set("Content-Type", contentTypeFor(name))
	h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(name)))
	h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", g.cfg.BrowserTTL))
	h.Set("CDN-Cache-Control", fmt.Sprintf("public, max-age=%d", g.cfg.CDNTTL))
}
