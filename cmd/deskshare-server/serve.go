package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/deskshare-go/internal/core/domain"
	"github.com/yndnr/deskshare-go/internal/core/service"
	"github.com/yndnr/deskshare-go/internal/desktop"
	"github.com/yndnr/deskshare-go/internal/infra/buildinfo"
	"github.com/yndnr/deskshare-go/internal/infra/confloader"
	"github.com/yndnr/deskshare-go/internal/infra/shellexec"
	"github.com/yndnr/deskshare-go/internal/infra/shutdown"
	"github.com/yndnr/deskshare-go/internal/infra/tlscert"
	"github.com/yndnr/deskshare-go/internal/server/config"
	"github.com/yndnr/deskshare-go/internal/server/httpserver"
	"github.com/yndnr/deskshare-go/internal/server/httpserver/handler"
	"github.com/yndnr/deskshare-go/internal/server/streamserver"
	"github.com/yndnr/deskshare-go/internal/telemetry/logger"
	"github.com/yndnr/deskshare-go/internal/telemetry/metric"
)

// shutdownTimeout bounds all shutdown hooks together.
const shutdownTimeout = 10 * time.Second

func serve(c *cli.Context) error {
	configFile := c.String("config")
	overrides := flagOverrides(c)

	cfg, err := config.Load(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting deskshare-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	capturer := desktop.NewScreenCapturer()
	monitors := capturer.MonitorCount()
	if monitors == 0 {
		return domain.ErrNoMonitor
	}
	monitor := startMonitor(cfg.Capture.Monitor, monitors, log)

	tok, err := accessToken(cfg.Security.AccessToken)
	if err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	log.Info("access token ready",
		"pinned", cfg.Security.AccessToken != "",
		"token_fingerprint", tok.Fingerprint())

	// Interface-typed so a disabled registry stays a nil interface.
	var (
		svcMetrics    service.Metrics = service.NopMetrics{}
		streamMetrics streamserver.Metrics
		observer      httpserver.RequestObserver
		metricsRoute  http.Handler
	)
	if cfg.Telemetry.MetricsEnabled {
		reg := metric.Global()
		svcMetrics, streamMetrics, observer, metricsRoute = reg, reg, reg, reg.Handler()
	}

	gate := service.NewGate(tok, monitor, svcMetrics)
	dispatcher := service.NewDispatcher(gate, log, svcMetrics)

	commands := service.NewCommandService(service.CommandServiceConfig{
		Gate:     gate,
		Capturer: capturer,
		Injector: desktop.NewXdotoolInjector(),
		Shell:    shellexec.New(cfg.Shell.Program, cfg.Shell.Flag, cfg.Shell.Timeout),
		Launcher: domain.LauncherName(cfg.Shell.Program),
		Logger:   log,
		Metrics:  svcMetrics,
	})

	producer := service.NewProducer(service.ProducerConfig{
		Gate:      gate,
		Capturer:  capturer,
		Encoder:   desktop.NewJPEGEncoder(cfg.Capture.Quality),
		Publisher: dispatcher,
		Interval:  cfg.Capture.Interval,
		Logger:    log,
		Metrics:   svcMetrics,
	})

	clientIP := httpserver.ClientIP(cfg.Server.HTTP.TrustProxyHeaders)

	stream := streamserver.New(streamserver.Options{
		Gate:       gate,
		Dispatcher: dispatcher,
		Logger:     log,
		Metrics:    streamMetrics,
		ClientIP:   clientIP,
		Config: streamserver.Config{
			SendQueue:      cfg.Stream.SendQueue,
			PingInterval:   cfg.Stream.PingInterval,
			PongWait:       cfg.Stream.PongWait,
			WriteWait:      cfg.Stream.WriteWait,
			AllowedOrigins: cfg.Security.CORSAllowedOrigins,
		},
	})

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler: handler.New(handler.Config{
			Gate:              gate,
			Commands:          commands,
			Logger:            log,
			PublicURL:         cfg.Server.HTTP.PublicURL,
			TrustProxyHeaders: cfg.Server.HTTP.TrustProxyHeaders,
			Version:           buildinfo.Version,
		}),
		Stream:             stream,
		Metrics:            metricsRoute,
		Gate:               gate,
		Logger:             log,
		Observer:           observer,
		TrustProxyHeaders:  cfg.Server.HTTP.TrustProxyHeaders,
		RequestRate:        cfg.Security.RequestRate,
		HandshakeRate:      cfg.Security.HandshakeRate,
		CORSAllowedOrigins: cfg.Security.CORSAllowedOrigins,
		EnableAudit:        true,
	})

	listener, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.HTTP.Addr, err)
	}
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))

	if cfg.Server.HTTP.TLSCertFile != "" {
		certs, err := tlscert.New(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlscert.WithLogger(log))
		if err != nil {
			_ = listener.Close()
			return err
		}
		if err := certs.Watch(); err != nil {
			log.Warn("certificate hot reload disabled", "error", err)
		}
		shutdownHandler.OnShutdown("certificate watcher", func(context.Context) error {
			return certs.Stop()
		})
		httpServer.UseTLS(certs.TLSConfig())
	}

	// Hooks run in reverse order of registration.
	shutdownHandler.OnShutdown("http server", httpServer.Shutdown)
	shutdownHandler.OnShutdown("stream connections", func(context.Context) error {
		log.Info("closing stream connections", "count", dispatcher.Len())
		dispatcher.CloseAll()
		return nil
	})

	producerCtx, cancelProducer := context.WithCancel(context.Background())
	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		producer.Run(producerCtx)
	}()
	shutdownHandler.OnShutdown("frame producer", func(ctx context.Context) error {
		cancelProducer()
		select {
		case <-producerDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if configFile != "" {
		watcher, err := watchConfig(configFile, overrides, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	go func() {
		log.Info("HTTP server listening",
			"addr", listener.Addr().String(),
			"tls", httpServer.TLS(),
			"monitors", monitors)
		if err := httpServer.Serve(listener); err != nil {
			shutdownHandler.Trigger(fmt.Errorf("http server: %w", err))
		}
	}()

	printBanner(os.Stdout, tok.Value(), cfg.Server.HTTP.PublicURL)

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// initLogger initializes the structured logger and makes it the default.
func initLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	slog.SetDefault(log)
	return log, nil
}

// accessToken pins the configured token or issues a fresh one.
func accessToken(pinned string) (*domain.AccessToken, error) {
	if pinned != "" {
		return domain.NewAccessToken(pinned)
	}
	return domain.IssueAccessToken()
}

// startMonitor clamps the configured monitor into 1..count. The number of
// attached displays can change between runs, so a stale index is not fatal.
func startMonitor(requested, count int, log *slog.Logger) int {
	monitor := domain.ClampMonitorIndex(requested, count)
	if monitor != requested {
		log.Warn("configured monitor not available, clamped",
			"requested", requested,
			"monitors", count,
			"monitor", monitor)
	}
	return monitor
}

// watchConfig reloads the config file on change and applies the log level.
// Other settings need a restart.
func watchConfig(path string, overrides map[string]any, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(changed string) {
		applyReload(changed, overrides, log)
	})
	watcher.StartAsync()
	return watcher, nil
}

// applyReload re-reads path and applies the live-reloadable settings.
func applyReload(path string, overrides map[string]any, log *slog.Logger) {
	cfg, err := config.Load(path, overrides)
	if err != nil {
		log.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	previous := logger.GetLevel()
	logger.SetLevel(cfg.Log.Level)
	if current := logger.GetLevel(); current != previous {
		log.Info("log level changed", "from", previous, "to", current)
	}
}

// printBanner writes the access token, and the connect URL when the public
// base URL is known, for the operator.
func printBanner(w io.Writer, token, publicURL string) {
	fmt.Fprintln(w, "deskshare access token (single use):")
	fmt.Fprintf(w, "  %s\n", token)
	if publicURL != "" {
		fmt.Fprintf(w, "connect URL:\n  %s/?token=%s\n", strings.TrimRight(publicURL, "/"), token)
	}
}
