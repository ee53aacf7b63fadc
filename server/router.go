package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echolog "github.com/spirosoik/echo-logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"

	"github.com/clearproof/api/config"
	"github.com/clearproof/api/internal/auth"
	"github.com/clearproof/api/internal/controllers"
)

func InitRouter(spec *config.Specification) *echo.Echo {
	log := log.WithFields(logrus.Fields{"context": "router"})

	// Create the web server.
	e := echo.New()
	e.HideBanner = true

	// Set a custom logger.
	echoLogger := echolog.NewLoggerMiddleware(log)
	e.Logger = echoLogger

	// Add middleware.
	e.Use(otelecho.Middleware(config.ServiceName))
	e.Use(echoLogger.Hook())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("10M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: spec.AllowedOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(spec.RateLimit),
			Burst: spec.RateBurst,
		},
	)))

	return e
}

func registerModuleEndpoints(modules *echo.Group, s *controllers.Server) {
	// Lists the account's training modules.
	modules.GET("", s.GetAllModules)

	// Creates a training module, subject to the plan's module ceiling.
	modules.POST("", s.AddModule)

	// Gets the details of a single module.
	modules.GET("/:id", s.GetModule)

	// Applies a partial update to a module.
	modules.PATCH("/:id", s.UpdateModule)

	// Renders the QR code that links workers to the module's verification page.
	modules.GET("/:id/qr", s.GetModuleQRCode)

	// Rewrites the module's raw document into simplified training sections.
	modules.POST("/:id/process", s.TransformModule)
}

func registerWorkerEndpoints(workers *echo.Group, s *controllers.Server) {
	workers.GET("", s.GetAllWorkers)
	workers.POST("", s.AddWorker)
	workers.GET("/:id", s.GetWorker)
	workers.PATCH("/:id", s.UpdateWorker)
}

func registerBillingEndpoints(billing *echo.Group, s *controllers.Server) {
	// Gets the subscription details, limits, and recorded usage.
	billing.GET("/subscription", s.GetSubscription)

	// Starts a hosted checkout for a paid plan.
	billing.POST("/checkout", s.CreateCheckoutSession)

	// Starts a customer portal session for managing an existing subscription.
	billing.POST("/portal", s.CreatePortalSession)
}

func RegisterHandlers(s controllers.Server, verifier *auth.Verifier) {

	// The base URL acts as a service identification endpoint.
	s.Router.GET("/", s.RootHandler)
	s.Router.GET("/health", s.HealthHandler)

	api := s.Router.Group("/api")

	// The submission endpoint is reached from worker phones via QR code and
	// carries no credentials. The webhook endpoint authenticates with the
	// provider's signature instead of a bearer token.
	api.POST("/verifications", s.SubmitVerification)
	api.POST("/billing/webhook", s.HandleBillingWebhook)

	authed := api.Group("", auth.Middleware(verifier))

	modules := authed.Group("/modules")
	registerModuleEndpoints(modules, &s)

	workers := authed.Group("/workers")
	registerWorkerEndpoints(workers, &s)

	verifications := authed.Group("/verifications")
	verifications.GET("", s.GetAllVerifications)
	verifications.GET("/:id", s.GetVerification)

	process := authed.Group("/process")
	process.POST("/translate", s.TranslateContent)
	process.POST("/questions", s.GenerateQuestions)

	billing := authed.Group("/billing")
	registerBillingEndpoints(billing, &s)
}
