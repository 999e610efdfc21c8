package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickcheckout/internal/api"
	"quickcheckout/internal/auth"
	"quickcheckout/internal/catalog"
	"quickcheckout/internal/checkout"
	"quickcheckout/internal/config"
	"quickcheckout/internal/logger"
	"quickcheckout/internal/metrics"
	"quickcheckout/internal/middleware"
	"quickcheckout/internal/pricing"
	"quickcheckout/internal/register"
	"quickcheckout/internal/returns"
	"quickcheckout/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Replaced in tests.
var listenAndServe = func(srv *http.Server) error {
	return srv.ListenAndServe()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg)
}

type server struct {
	handler *api.Handler
	limiter *middleware.RateLimiter
	httpSrv *http.Server
}

func newAuthenticator(cfg *config.Config) (auth.Authenticator, error) {
	if cfg.AuthMode == config.AuthModeDirectory {
		records, err := auth.DemoDirectory()
		if err != nil {
			return nil, err
		}
		return auth.NewDirectoryAuthenticator(cfg.LoginDelay, records...), nil
	}

	role, err := session.ParseRole(cfg.DefaultStaffRole)
	if err != nil {
		return nil, err
	}
	return auth.NewDemoAuthenticator(cfg.LoginDelay, role), nil
}

func newServer(cfg *config.Config) (*server, error) {
	authenticator, err := newAuthenticator(cfg)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokens(cfg.JWTSecret, 0)
	if err != nil {
		return nil, err
	}

	calc := pricing.NewCalculator(cfg.TaxRate, cfg.BagPrice)
	handler := api.NewHandler(api.Deps{
		Catalog:       catalog.NewService(catalog.NewDemoRepository()),
		Returns:       returns.NewService(returns.NewDemoRepository()),
		Authenticator: authenticator,
		Tokens:        tokens,
		Sales:         metrics.NewSales(),
		Checkout: checkout.Options{
			PaymentDelay: cfg.PaymentDelay,
			ScanDelay:    cfg.ScanDelay,
			Calculator:   calc,
		},
		Register: register.Options{
			ReceiptDelay: cfg.ReceiptDelay,
			Calculator:   calc,
		},
		SecureCookies: cfg.IsProduction(),
	})

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigin: cfg.AllowedOrigin,
		Limiter:       limiter,
	})

	return &server{
		handler: handler,
		limiter: limiter,
		httpSrv: &http.Server{
			Addr:              ":" + cfg.AppPort,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// serve blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests and closes every live session.
func serve(ctx context.Context, cfg *config.Config) error {
	srv, err := newServer(cfg)
	if err != nil {
		return err
	}
	defer srv.handler.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info("server listening",
			zap.String("addr", srv.httpSrv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("auth_mode", cfg.AuthMode),
		)
		if err := listenAndServe(srv.httpSrv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return srv.limiter.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.L().Info("shutting down")
		return srv.httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
