// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"travelbooking/internal/pkg/nacos"
)

// Shutdowner is a resource released during graceful shutdown.
type Shutdowner func(ctx context.Context) error

// AppInfo holds what one service needs to be started.
type AppInfo struct {
	ServiceName     string
	Port            int
	ShutdownTimeout time.Duration

	// Nacos is optional. When set the instance is registered on start and
	// deregistered first on shutdown.
	Nacos *nacos.Client

	// RegisterHandlers mounts the service routes. /healthz and /metrics are added by StartService.
	RegisterHandlers func(mux *http.ServeMux)

	// Background tasks run next to the HTTP server until the service stops.
	Background []func(ctx context.Context) error

	// Cleanup runs in order after the server has stopped accepting requests.
	Cleanup []Shutdowner
}

// StartService runs the HTTP server and background tasks until SIGINT or
// SIGTERM, then shuts everything down within ShutdownTimeout.
func StartService(info AppInfo) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Register with nacos
	var ip string
	if info.Nacos != nil {
		var err error
		ip, err = nacos.GetOutboundIP()
		if err != nil {
			return errors.Wrap(err, "get outbound IP address")
		}
		if err := info.Nacos.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			return errors.Wrap(err, "register service with nacos")
		}
	}

	// 2. HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(mux)
	}
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(info.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("service", info.ServiceName).Int("port", info.Port).Msg("✅ HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "listen on %s", server.Addr)
		}
		return nil
	})
	for _, task := range info.Background {
		task := task
		g.Go(func() error { return task(gctx) })
	}

	// 3. Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("service", info.ServiceName).Msg("Shutting down service...")

		timeout := info.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// a. Deregister first so no new traffic is routed here
		if info.Nacos != nil {
			if err := info.Nacos.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
				log.Error().Err(err).Msg("Error deregistering from Nacos")
			} else {
				log.Info().Msg("Service deregistered from Nacos.")
			}
		}

		// b. Stop accepting requests and drain in-flight ones
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down http server")
		} else {
			log.Info().Msg("HTTP server shut down.")
		}

		// c. Release resources
		for _, cleanup := range info.Cleanup {
			if err := cleanup(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error during cleanup")
			}
		}
		return nil
	})

	err := g.Wait()
	log.Info().Str("service", info.ServiceName).Msg("Service gracefully shut down.")
	return err
}
