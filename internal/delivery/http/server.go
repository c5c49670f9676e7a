package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/ais-service/internal/config"
	"github.com/ais-service/internal/delivery/http/handler"
	"github.com/ais-service/internal/delivery/http/middleware"
	"github.com/ais-service/internal/pkg/errors"
	"github.com/ais-service/internal/pkg/utils"
)

// Server - fiber HTTP server of the address service
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	reverseGeocodeHandler *handler.ReverseGeocodeHandler
	serviceAreaHandler    *handler.ServiceAreaHandler
	lookupHandler         *handler.LookupHandler
	indexHandler          *handler.IndexHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	reverseGeocodeHandler *handler.ReverseGeocodeHandler,
	serviceAreaHandler *handler.ServiceAreaHandler,
	lookupHandler *handler.LookupHandler,
	indexHandler *handler.IndexHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "AIS Address Service",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                   app,
		config:                cfg,
		logger:                logger,
		reverseGeocodeHandler: reverseGeocodeHandler,
		serviceAreaHandler:    serviceAreaHandler,
		lookupHandler:         lookupHandler,
		indexHandler:          indexHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	s.app.Get("/health", s.indexHandler.Health)
	s.app.Get("/index/stats", s.indexHandler.Stats)

	s.app.Get("/reverse_geocode/:coords", s.reverseGeocodeHandler.ReverseGeocode)
	s.app.Get("/service_areas/:coords", s.serviceAreaHandler.ServiceAreas)

	s.app.Get("/account/:number", s.lookupHandler.Account)
	s.app.Get("/pwd_parcel_id/:id", s.lookupHandler.PWDParcel)
	s.app.Get("/dor_parcel_id/:id", s.lookupHandler.DORParcel)
	s.app.Get("/owner/:query", s.lookupHandler.Owner)
}

// App exposes the fiber app for in-process tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown, in-flight requests finish before ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler renders errors that escape the handlers, unknown routes included,
// in the same envelope the handlers use
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := errors.ErrInternalServer
		if e, ok := err.(*fiber.Error); ok {
			appErr = errors.New(codeForStatus(e.Code), e.Message, e.Code)
		}

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		return c.Status(appErr.StatusCode).JSON(utils.ErrorResponse{
			Status: appErr.StatusCode,
			Error:  appErr,
		})
	}
}

func codeForStatus(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return errors.CodeNotFound
	case status == fiber.StatusServiceUnavailable:
		return errors.CodeIndexUnavailable
	case status >= fiber.StatusInternalServerError:
		return errors.CodeInternalServer
	default:
		return errors.CodeInvalidRequest
	}
}
