package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/schedule-gateway/identity"
	"github.com/jrsteele09/schedule-gateway/internal/config"
	"github.com/jrsteele09/schedule-gateway/internal/logging"
	"github.com/jrsteele09/schedule-gateway/internal/telemetry"
	"github.com/jrsteele09/schedule-gateway/server"
	"github.com/jrsteele09/schedule-gateway/token"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, c.GetAppName(), c.GetOtelEndpoint())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Tracer shutdown failed")
		}
	}()

	handler, err := newHandler(ctx, c)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func newHandler(ctx context.Context, c config.Config) (http.Handler, error) {
	var idpOpts []identity.Option
	if issuer := c.GetIdentityIssuerURL(); issuer != "" {
		endpoint, err := identity.Discover(ctx, issuer)
		if err != nil {
			return nil, err
		}
		idpOpts = append(idpOpts, identity.WithEndpoint(endpoint))
	}
	idp, err := identity.NewRedirectBuilder(c.GetTenantID(), c.GetClientID(), c.GetScope(), c.GetRedirectURI(), idpOpts...)
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewClient(c.GetBackendBaseURL(), c.GetScope(), c.GetRedirectURI(), token.WithTimeout(c.GetBackendTimeout()))
	if err != nil {
		return nil, err
	}

	upstream, err := server.NewUpstreamProxy(c.GetUpstreamURL())
	if err != nil {
		return nil, err
	}

	return server.New(c, tokens, idp, upstream)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
