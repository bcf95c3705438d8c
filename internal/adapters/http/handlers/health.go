// Package handlers holds the gin handlers for the wine catalog API and the
// operational /-/ endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// unknownBuildValue marks a build attribute nobody supplied.
const unknownBuildValue = "unknown"

// BuildInfo is served from /-/build.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo records the given values, falling back to the VCS stamp the
// Go toolchain embeds when commit or buildTime is empty or "unknown".
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	bi := BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			bi.Commit = orStamp(bi.Commit, s.Value)
		case "vcs.time":
			bi.BuildTime = orStamp(bi.BuildTime, s.Value)
		}
	}

	return bi
}

func orStamp(given, stamped string) string {
	if given == "" || given == unknownBuildValue {
		return stamped
	}

	return given
}

// HealthHandler serves liveness, readiness, build info and metrics.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	gatherer  prometheus.Gatherer
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithGatherer serves /-/metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) HealthOption {
	return func(h *HealthHandler) {
		h.gatherer = g
	}
}

func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

type livenessResponse struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Liveness answers 200 while the process runs. It never consults dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	noStore(c)
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

// Readiness runs every registered check, the wine store included, and
// answers 503 when any of them fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	code := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	noStore(c)
	c.JSON(code, readinessResponse{Status: string(result.Status), Checks: result.Checks})
}

func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler exposes g in the Prometheus text format.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RegisterHealthRoutes mounts live, ready, build and metrics on rg.
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(MetricsHandler(h.gatherer)))
}

// RegisterHealthRoutesOnEngine mounts the routes under /-.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	h.RegisterHealthRoutes(engine.Group("/-"))
}

// noStore keeps probe answers out of intermediary caches.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
