package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/wine-catalog/internal/adapters/storage/memory"
	"github.com/jsamuelsen/wine-catalog/internal/app"
	"github.com/jsamuelsen/wine-catalog/internal/domain"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// setupHealthHandler creates a HealthHandler with a minimal registry for benchmarking.
func setupHealthHandler() *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	return handlers.NewHealthHandler(registry, buildInfo)
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
// This is a critical path for Kubernetes probes and should be extremely fast.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkReadinessHandler measures the performance of the readiness endpoint.
// This includes running all registered health checks.
func BenchmarkReadinessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with registered health checks.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	registry := ports.NewHealthRegistry()

	// Register the store and a static checker
	_ = registry.Register(memory.NewStore[domain.Wine]("wine-store"))
	_ = registry.Register(&simpleHealthChecker{name: "token-signer"})

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	handler := handlers.NewHealthHandler(registry, buildInfo)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkBuildInfoHandler measures the performance of the build info endpoint.
func BenchmarkBuildInfoHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/build", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.BuildInfoHandler(c)
	}
}

// newWineRouter builds the wine routes behind the production middleware chain.
func newWineRouter(b *testing.B) *gin.Engine {
	b.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore[domain.Wine]("wine-store")

	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.Logging(logger),
		middleware.ErrorBoundary(logger),
	)

	svc := app.NewWineService(app.WineServiceConfig{Repositories: store, Logger: logger})
	handlers.NewWineHandler(svc).RegisterWineRoutes(router.Group("/api"), func(c *gin.Context) { c.Next() })

	return router
}

// BenchmarkWineCreate measures binding, validation and commit of a new wine.
func BenchmarkWineCreate(b *testing.B) {
	router := newWineRouter(b)
	body := `{"title":"Chardonnay","year":2019,"brand":"Acme","type":"White"}`

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/wines", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// BenchmarkWineGet measures a single read through the full middleware chain.
func BenchmarkWineGet(b *testing.B) {
	router := newWineRouter(b)

	seed := httptest.NewRequest(http.MethodPost, "/api/wines",
		strings.NewReader(`{"title":"Merlot","year":2018,"brand":"Acme","type":"Red"}`))
	seed.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), seed)

	req := httptest.NewRequest(http.MethodGet, "/api/wines/1", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// BenchmarkWineList measures listing a catalog of 100 wines.
func BenchmarkWineList(b *testing.B) {
	router := newWineRouter(b)

	for i := range 100 {
		seed := httptest.NewRequest(http.MethodPost, "/api/wines",
			strings.NewReader(fmt.Sprintf(`{"title":"Wine %03d","year":%d,"brand":"Acme","type":"Red"}`, i, 1950+i)))
		seed.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(httptest.NewRecorder(), seed)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/wines", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// BenchmarkValidateWine measures validation of a payload that breaks every rule.
func BenchmarkValidateWine(b *testing.B) {
	invalid := dto.WineDTO{}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = dto.ValidateWine(invalid)
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
