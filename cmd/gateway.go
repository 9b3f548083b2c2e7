// Copyright 2025 b2gate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/LeeDigitalWorks/b2gate/pkg/b2"
	"github.com/LeeDigitalWorks/b2gate/pkg/compose"
	"github.com/LeeDigitalWorks/b2gate/pkg/debug"
	"github.com/LeeDigitalWorks/b2gate/pkg/gateway"
	"github.com/LeeDigitalWorks/b2gate/pkg/logger"
	"github.com/LeeDigitalWorks/b2gate/pkg/resolve"
	"github.com/LeeDigitalWorks/b2gate/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GatewayOpts holds all configuration for the gateway server
type GatewayOpts struct {
	ListenPort int
	DebugPort  int

	// Upstream credentials
	KeyID string
	Key   string

	// Bucket selection: a single fixed bucket id, or a [buckets] prefix map
	BucketID string
	Buckets  map[string]string

	MergePDFs  bool
	BrowserTTL int
	CDNTTL     int

	UpstreamTimeout time.Duration
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the object gateway",
	Long: `Start the b2gate HTTP gateway. The gateway authorizes against the upstream
store per request, reconciles duplicate versions of the requested path, and
serves the surviving (or merged) artifact with caching headers.`,
	Run: runGateway,
}

func init() {
	rootCmd.AddCommand(gatewayCmd)

	f := gatewayCmd.Flags()

	f.Int("listen_port", 8080, "HTTP port for the object gateway")
	f.Int("debug_port", 8090, "Debug/metrics HTTP port")

	f.String("application_key_id", "", "Upstream application key id (or set APPLICATION_KEY_ID)")
	f.String("application_key", "", "Upstream application key (or set APPLICATION_KEY)")

	f.String("bucket_id", "", "Single bucket id to serve all paths from (exclusive with [buckets] map)")

	f.Bool("merge_pdfs", false, "Merge distinct historical uploads of a .pdf path into one document")
	f.Int("browser_ttl", 3600, "Cache-Control max-age in seconds")
	f.Int("cdn_ttl", 86400, "CDN-Cache-Control max-age in seconds")

	f.Duration("upstream_timeout", 5*time.Minute, "Timeout for a single upstream HTTP call")

	viper.BindPFlags(f)
}

func runGateway(cmd *cobra.Command, args []string) {
	utils.LoadConfiguration("gateway", false)
	opts := loadGatewayOpts(cmd)

	debug.SetNotReady()

	client := b2.NewClient(b2.Config{
		KeyID:   opts.KeyID,
		Key:     opts.Key,
		Timeout: opts.UpstreamTimeout,
	})
	resolver := resolve.New(compose.NewPDFComposer())

	gw, err := gateway.New(gateway.Config{
		BucketID:   opts.BucketID,
		Buckets:    opts.Buckets,
		MergePDFs:  opts.MergePDFs,
		BrowserTTL: opts.BrowserTTL,
		CDNTTL:     opts.CDNTTL,
	}, client, resolver)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid gateway configuration")
	}

	logger.Info().
		Int("listen_port", opts.ListenPort).
		Bool("merge_pdfs", opts.MergePDFs).
		Int("num_buckets", len(opts.Buckets)).
		Msg("Gateway configuration")

	mux := http.NewServeMux()
	gw.Register(mux)

	httpServer := startHTTPServer(mux, opts.ListenPort)
	debugServer := startHTTPServer(debug.GetMux(), opts.DebugPort)

	debug.SetReady()

	waitForShutdown()

	debug.SetNotReady()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	debugServer.Shutdown(shutdownCtx)
}

func loadGatewayOpts(cmd *cobra.Command) GatewayOpts {
	f := NewFlagLoader(cmd)

	keyID := f.String("application_key_id")
	if keyID == "" {
		keyID = os.Getenv("APPLICATION_KEY_ID")
	}
	key := f.String("application_key")
	if key == "" {
		key = os.Getenv("APPLICATION_KEY")
	}

	return GatewayOpts{
		ListenPort:      f.Int("listen_port"),
		DebugPort:       f.Int("debug_port"),
		KeyID:           keyID,
		Key:             key,
		BucketID:        f.String("bucket_id"),
		Buckets:         viper.GetStringMapString("buckets"),
		MergePDFs:       f.Bool("merge_pdfs"),
		BrowserTTL:      f.Int("browser_ttl"),
		CDNTTL:          f.Int("cdn_ttl"),
		UpstreamTimeout: f.Duration("upstream_timeout"),
	}
}

func startHTTPServer(handler http.Handler, port int) *http.Server {
	addr := ":" + strconv.Itoa(port)
	httpServer := &http.Server{Addr: addr, Handler: handler}
	go func() {
		logger.Info().Str("http_addr", addr).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start HTTP server")
		}
	}()
	return httpServer
}

func waitForShutdown() {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	<-stopChan
}
