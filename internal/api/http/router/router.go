package router

import (
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/fileshare-server/docs"
	"github.com/dtroode/fileshare-server/internal/api/http/handler"
	"github.com/dtroode/fileshare-server/internal/api/http/middleware"
	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
	"github.com/dtroode/fileshare-server/internal/service"
)

// multipartSlack covers the multipart envelope around an upload of the
// maximum size; the handler enforces the exact file limit.
const multipartSlack = 64 * 1024

// Router wires services into the public HTTP API.
type Router struct {
	authService    *service.Auth
	fileService    *service.File
	grantService   *service.Grant
	accessService  *service.Access
	db             handler.Pinger
	blobStore      model.BlobStore
	contextManager model.ContextManager
	registry       *prometheus.Registry
	publicBaseURL  string
	maxUploadBytes int64
	logger         *logger.Logger
}

// Options carries transport settings.
type Options struct {
	PublicBaseURL  string
	MaxUploadBytes int64
}

func New(
	authService *service.Auth,
	fileService *service.File,
	grantService *service.Grant,
	accessService *service.Access,
	db handler.Pinger,
	blobStore model.BlobStore,
	contextManager model.ContextManager,
	registry *prometheus.Registry,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		fileService:    fileService,
		grantService:   grantService,
		accessService:  accessService,
		db:             db,
		blobStore:      blobStore,
		contextManager: contextManager,
		registry:       registry,
		publicBaseURL:  opts.PublicBaseURL,
		maxUploadBytes: opts.MaxUploadBytes,
		logger:         logger,
	}
}

// Register builds the fiber app with middleware and all routes.
func (r *Router) Register() (*fiber.App, error) {
	prom, err := middleware.NewPrometheus(r.registry)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "fileshare",
		BodyLimit:             int(r.maxUploadBytes) + multipartSlack,
		ErrorHandler:          handler.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.NewLogging(r.logger).Handler())
	app.Use(prom.Handler())

	r.registerOpsRoutes(app)
	r.registerAPIRoutes(app)

	return app, nil
}

func (r *Router) registerOpsRoutes(app *fiber.App) {
	health := handler.NewHealth(r.db, r.blobStore, r.logger)
	app.Get("/health", health.Health)
	app.Get("/healthz", health.Live)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))

	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get(fiber.HeaderHost)
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})
}

func (r *Router) registerAPIRoutes(app *fiber.App) {
	authHandler := handler.NewAuth(r.authService, r.logger)
	fileHandler := handler.NewFile(r.fileService, r.accessService, r.contextManager, r.maxUploadBytes, r.logger)
	shareHandler := handler.NewShare(r.grantService, r.contextManager, r.publicBaseURL, r.logger)
	requireAuth := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger).Handler()

	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)

	// Link holders are not authenticated.
	app.Get("/shared/:link", fileHandler.Shared)

	app.Post("/upload", requireAuth, fileHandler.Upload)
	app.Get("/myfiles", requireAuth, fileHandler.MyFiles)
	app.Get("/files/shared", requireAuth, fileHandler.SharedWithMe)
	app.Get("/download/:id", requireAuth, fileHandler.Download)
	app.Post("/share", requireAuth, shareHandler.Share)
	app.Post("/create-link", requireAuth, shareHandler.CreateLink)
}
