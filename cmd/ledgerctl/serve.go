package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-rental/internal/jobs"
	"equipment-rental/internal/listeners"
	"equipment-rental/internal/routes"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/middleware"
	"equipment-rental/pkg/mq"
	"equipment-rental/pkg/service"
	"equipment-rental/pkg/utils"
	"equipment-rental/pkg/validation"
	"equipment-rental/pkg/websocket"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var allowedOrigins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the availability websocket and the reconcile schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), c, allowedOrigins)
		},
	}
	cmd.Flags().StringSliceVar(&allowedOrigins, "cors-origin", []string{"http://localhost:5173"}, "allowed CORS origins")
	return cmd
}

func runServe(ctx context.Context, c *cli, allowedOrigins []string) error {
	logger := c.logger
	app, err := newApplication(ctx, c.cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	listeners.NewAvailabilityListener(hub, logger).Register(app.bus)

	if c.cfg.AMQP.Enabled() {
		publisher, err := mq.NewPublisher(c.cfg.AMQP.URL, c.cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("close amqp publisher", zap.Error(err))
			}
		}()
		listeners.NewMQListener(publisher, logger).Register(app.bus)
		logger.Info("publishing ledger events", zap.String("exchange", c.cfg.AMQP.Exchange))
	}

	scheduler, err := jobs.NewScheduler(c.cfg.Ledger.ReconcileCron,
		jobs.NewReconcileJob(app.reconcile, time.Minute, logger), logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	e := newEcho(logger, allowedOrigins, c.cfg.Server.RequestTimeout)
	jwtSvc := service.NewJWTService(c.cfg.JWT.SecretKey, c.cfg.JWT.AccessTokenTTL, logger)
	routes.InitRouter(e, routes.Services{
		Equipment:    app.equipment,
		Availability: app.availability,
		Events:       app.events,
		Reservations: app.reservations,
		Maintenance:  app.maintenance,
		Reports:      app.reports,
	}, jwtSvc, hub, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("port", c.cfg.Server.Port))
		if err := e.Start(":" + c.cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	app.bus.Wait()
	return err
}

func newEcho(logger *zap.Logger, allowedOrigins []string, requestTimeout time.Duration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(ctx echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", ctx.Request().Method),
				zap.String("uri", ctx.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !ctx.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Internal server error", err, nil)
				_ = utils.ErrorResponse(ctx, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.RequestTimeout(requestTimeout))

	e.Validator = validation.New()
	return e
}
