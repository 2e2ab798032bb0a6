package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/vasapolrittideah/strive-blog/services/web-service/internal/client"
	"github.com/vasapolrittideah/strive-blog/services/web-service/internal/config"
	"github.com/vasapolrittideah/strive-blog/services/web-service/internal/handler"
	"github.com/vasapolrittideah/strive-blog/shared/logger"
	"github.com/vasapolrittideah/strive-blog/shared/registry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *registry.ConsulRegistry
	if cfg.ConsulAddr != "" {
		reg, err = registry.NewConsulRegistry(cfg.ConsulAddr, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create service registry")
		}
	}

	apiURL := cfg.APIURL
	if cfg.APIServiceName != "" {
		if reg == nil {
			log.Fatal().Msg("API_SERVICE_NAME requires CONSUL_ADDR")
		}

		addr, err := reg.Resolve(cfg.APIServiceName)
		if err != nil {
			log.Fatal().Err(err).Str("service", cfg.APIServiceName).Msg("failed to resolve blog API")
		}
		apiURL = "http://" + addr
	}

	router, err := handler.NewRouter(handler.Config{
		PublicAPIURL: cfg.PublicAPIURL,
		CookieSecure: cfg.CookieSecure,
	}, client.New(apiURL, cfg.APITimeout), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if reg != nil {
		serviceID := cfg.ServiceName + "-" + uuid.NewString()
		if err := reg.Register(registry.Service{
			ID:        serviceID,
			Name:      cfg.ServiceName,
			Address:   cfg.Host,
			Port:      cfg.Port,
			Tags:      []string{"http", "web"},
			HealthURL: fmt.Sprintf("http://%s:%d/health", cfg.Host, cfg.Port),
		}); err != nil {
			log.Fatal().Err(err).Msg("failed to register service")
		}
		defer func() {
			if err := reg.Deregister(serviceID); err != nil {
				log.Error().Err(err).Msg("failed to deregister service")
			}
		}()
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("api_url", apiURL).Msg("web service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("web service stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down web service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down web service gracefully")
	}
}
