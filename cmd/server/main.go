// Package main starts the SportConnectIA gateway: it serves the built
// front-end and forwards /auth, /sports, /reco and /chat to their services.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/certgen"
	"github.com/atinyakov/SportConnectIA/internal/config"
	"github.com/atinyakov/SportConnectIA/internal/logger"
	"github.com/atinyakov/SportConnectIA/internal/server/handler/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	proxy, err := http.NewProxyHandler([]http.Upstream{
		{Prefix: "/auth", Target: options.AuthUpstream},
		{Prefix: "/sports", Target: options.SportsUpstream},
		{Prefix: "/reco", Target: options.RecoUpstream},
		{Prefix: "/chat", Target: options.ChatUpstream},
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("invalid upstream", zap.Error(err))
	}

	var static nethttp.Handler
	if options.StaticDir != "" {
		static = http.SPAHandler{Dir: options.StaticDir}
	}

	router := http.NewRouter(proxy, http.NewHealthHandler(time.Now()), static, options.Origins(), zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if options.SelfSigned && !options.TLS() {
		tlsConfig, err := certgen.SelfSignedTLS(certgen.DefaultHosts, 24*time.Hour)
		if err != nil {
			zapLogger.Fatal("failed to generate TLS certificate", zap.Error(err))
		}
		server.TLSConfig = tlsConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("starting gateway",
			zap.String("addr", options.Addr),
			zap.Bool("tls", options.HTTPS()),
			zap.Strings("upstreams", proxy.Prefixes()),
		)
		var err error
		switch {
		case options.TLS():
			err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
		case options.HTTPS():
			err = server.ListenAndServeTLS("", "")
		default:
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), options.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
