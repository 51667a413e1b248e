package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/floor/internal/ports/primary"
)

func (h *handlers) listLines(c *gin.Context) {
	lines, err := h.svc.Catalog.ListLines(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *handlers) createLine(c *gin.Context) {
	var req primary.CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	line, err := h.svc.Catalog.CreateLine(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *handlers) getLine(c *gin.Context) {
	line, err := h.svc.Catalog.GetLine(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *handlers) addWorkstationToLine(c *gin.Context) {
	if err := h.svc.Catalog.AddWorkstationToLine(c.Request.Context(), c.Param("id"), c.Param("posteId")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listWorkstations(c *gin.Context) {
	stations, err := h.svc.Catalog.ListWorkstations(c.Request.Context(), primary.WorkstationFilters{
		State:  c.Query("state"),
		LineID: c.Query("lineId"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

func (h *handlers) createWorkstation(c *gin.Context) {
	var req primary.CreateWorkstationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ws, err := h.svc.Catalog.CreateWorkstation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ws)
}

func (h *handlers) getWorkstation(c *gin.Context) {
	ws, err := h.svc.Catalog.GetWorkstation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *handlers) listApplications(c *gin.Context) {
	apps, err := h.svc.Catalog.ListApplications(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *handlers) createApplication(c *gin.Context) {
	var req primary.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	app, err := h.svc.Catalog.CreateApplication(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *handlers) getApplication(c *gin.Context) {
	app, err := h.svc.Catalog.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.svc.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) createProduct(c *gin.Context) {
	var req primary.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	product, err := h.svc.Catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.svc.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
