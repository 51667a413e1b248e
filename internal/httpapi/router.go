// Package httpapi exposes the scheduling and assignment services over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/floor/internal/ports/primary"
	"github.com/example/floor/internal/version"
)

// Services are the primary ports served by the router.
type Services struct {
	Scheduling primary.SchedulingService
	Assignment primary.AssignmentService
	Catalog    primary.CatalogService
	Repair     primary.RepairService
}

// Options configures NewRouter.
type Options struct {
	// JWTSecret enables bearer-token auth on /api when set.
	JWTSecret string
	Logger    *zap.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})

	h := &handlers{svc: svc, logger: logger}
	api := r.Group("/api", actor(opts.JWTSecret))

	orders := api.Group("/ordrefabs")
	orders.GET("", h.listOrders)
	orders.POST("", h.createOrder)
	orders.GET("/statuts", h.statuses)
	orders.POST("/check-availability", h.checkAvailability)
	orders.GET("/next-available-date", h.nextAvailableDate)
	orders.GET("/:id", h.getOrder)
	orders.PUT("/:id", h.updateOrder)
	orders.DELETE("/:id", h.deleteOrder)
	orders.POST("/:id/cancel", h.cancelOrder)
	orders.POST("/:id/start-today", h.startOrderToday)
	orders.POST("/:id/start-on-date", h.startOrderOnDate)
	orders.POST("/:id/complete", h.completeOrder)
	orders.GET("/:id/next-available-date", h.nextAvailableDateForOrder)

	assignments := api.Group("/affectations")
	assignments.POST("/assign", h.assign)
	assignments.POST("/unassign/:appId", h.unassign)
	assignments.GET("/application/:id", h.activeForApplication)
	assignments.GET("/application/:id/history", h.historyForApplication)
	assignments.GET("/application/:id/status", h.applicationStatus)
	assignments.GET("/poste/:id", h.activeForPoste)
	assignments.GET("/poste/:id/history", h.historyForPoste)
	assignments.GET("/poste/:id/status", h.posteStatus)

	api.GET("/lignes", h.listLines)
	api.POST("/lignes", h.createLine)
	api.GET("/lignes/:id", h.getLine)
	api.POST("/lignes/:id/postes/:posteId", h.addWorkstationToLine)
	api.GET("/postes", h.listWorkstations)
	api.POST("/postes", h.createWorkstation)
	api.GET("/postes/:id", h.getWorkstation)
	api.GET("/applications", h.listApplications)
	api.POST("/applications", h.createApplication)
	api.GET("/applications/:id", h.getApplication)
	api.GET("/produits", h.listProducts)
	api.POST("/produits", h.createProduct)
	api.GET("/produits/:id", h.getProduct)

	api.POST("/maintenance/repair", h.repair)

	return r
}

type handlers struct {
	svc    Services
	logger *zap.Logger
}
