package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"clinic-scheduler/internal/handler/api"
	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/handler/validation"
	"clinic-scheduler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking      *api.BookingHandler
	Case         *api.CaseHandler
	Availability *api.AvailabilityHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers) error {
	if err := validation.RegisterGinValidators(); err != nil {
		return err
	}
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, middleware.NewRateLimiter(cfg.RateLimit))
	return nil
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, limiter *middleware.RateLimiter) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	actor := middleware.RequireActor()
	throttled := []gin.HandlerFunc{limiter.Middleware(), actor}

	apiGroup := engine.Group("/api")
	{
		resources := apiGroup.Group("/resources")
		addRoutes(resources, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Availability.CreateResource, Mw: []gin.HandlerFunc{actor}},
			{Method: http.MethodPut, Path: "/:id/template", Handler: h.Availability.ReplaceTemplate, Mw: []gin.HandlerFunc{actor}},
			{Method: http.MethodPost, Path: "/:id/overrides", Handler: h.Availability.AddOverride, Mw: []gin.HandlerFunc{actor}},
			{Method: http.MethodPost, Path: "/:id/blocks", Handler: h.Availability.AddBlock, Mw: []gin.HandlerFunc{actor}},
			{Method: http.MethodPost, Path: "/:id/breaks", Handler: h.Availability.AddBreak, Mw: []gin.HandlerFunc{actor}},
			{Method: http.MethodGet, Path: "/:id/slots", Handler: h.Availability.Slots},
			{Method: http.MethodGet, Path: "/:id/utilization", Handler: h.Availability.Utilization},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/conflicts", Handler: h.Availability.Conflicts},
		})

		bookings := apiGroup.Group("/bookings")
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "/holds", Handler: h.Booking.Hold, Mw: throttled},
			{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Booking.Confirm, Mw: throttled},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel, Mw: throttled},
			{Method: http.MethodPost, Path: "/:id/reschedule", Handler: h.Booking.Reschedule, Mw: throttled},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
		})

		cases := apiGroup.Group("/cases")
		addRoutes(cases, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Case.Create, Mw: []gin.HandlerFunc{actor}},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Case.Get},
			{Method: http.MethodPost, Path: "/:id/transitions", Handler: h.Case.Transition, Mw: []gin.HandlerFunc{actor}},
			{Method: http.MethodPut, Path: "/:id/plan", Handler: h.Case.UpdatePlan, Mw: []gin.HandlerFunc{actor}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

// chainHandlers runs hs in order inside one gin handler. Middleware in hs
// must not depend on c.Next() to reach the next element.
func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
