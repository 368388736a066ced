package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/medibook/clinic-api/internal/handler"
	adminhandler "github.com/medibook/clinic-api/internal/handler/admin"
	appointmenthandler "github.com/medibook/clinic-api/internal/handler/appointment"
	authhandler "github.com/medibook/clinic-api/internal/handler/auth"
	doctorhandler "github.com/medibook/clinic-api/internal/handler/doctor"
	"github.com/medibook/clinic-api/internal/middleware"
	"github.com/medibook/clinic-api/internal/model"
)

// Config carries the HTTP-surface knobs the router needs.
type Config struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

// Router wires the middleware chain and mounts every handler group
// behind its role guard.
type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authhandler.Handler
	appointmentH *appointmenthandler.Handler
	doctorH      *doctorhandler.Handler
	adminH       *adminhandler.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func New(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	appointmentH *appointmenthandler.Handler,
	doctorH *doctorhandler.Handler,
	adminH *adminhandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		appointmentH: appointmentH,
		doctorH:      doctorH,
		adminH:       adminH,
		h:            h,
		metrics:      newRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)

	// Public surface: logins and the doctor directory.
	r.authH.RegisterRoutes(api)
	r.doctorH.RegisterPublicRoutes(api)

	// Each role gets its own guarded group.
	patients := api.Group("", r.auth.Authenticate(), r.auth.RequireRole(model.RolePatient))
	r.appointmentH.RegisterRoutes(patients)

	doctors := api.Group("", r.auth.Authenticate(), r.auth.RequireRole(model.RoleDoctor))
	r.doctorH.RegisterRoutes(doctors)

	admins := api.Group("", r.auth.Authenticate(), r.auth.RequireRole(model.RoleAdmin))
	r.adminH.RegisterRoutes(admins)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
