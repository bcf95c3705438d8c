package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/wine-catalog/internal/platform/config"
	"github.com/jsamuelsen/wine-catalog/internal/platform/telemetry"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// APIPrefix is where the wine catalog and login routes live.
const APIPrefix = "/api"

// RouterConfig carries what SetupRouter mounts. Nil handlers leave their
// routes unregistered.
type RouterConfig struct {
	Logger        *slog.Logger
	AppConfig     *config.AppConfig
	HealthHandler *handlers.HealthHandler
	WineHandler   *handlers.WineHandler
	AuthHandler   *handlers.AuthHandler

	// TokenVerifier checks bearer tokens on DELETE /wines/:id.
	TokenVerifier ports.TokenVerifier

	// Timeout is the per-request deadline under APIPrefix. Zero disables it.
	Timeout time.Duration
}

// SetupRouter installs the middleware chain and every route on engine.
//
// The chain runs outermost first: the panic guard, request and
// correlation ids, the tracing span, metrics, the access log, then the
// error boundary, so the access log and metrics see the 500 it writes.
// Probe routes under /- skip the access log and the API timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(chain(cfg)...)

	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group(APIPrefix, middleware.Timeout(cfg.Timeout))

	if cfg.AuthHandler != nil {
		cfg.AuthHandler.RegisterAuthRoutes(api)
	}

	if cfg.WineHandler != nil {
		cfg.WineHandler.RegisterWineRoutes(api, middleware.RequireAuth(cfg.TokenVerifier))
	}
}

func chain(cfg RouterConfig) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
		middleware.ErrorBoundary(cfg.Logger),
	}
}
