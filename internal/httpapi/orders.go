package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ports/primary"
)

type availabilityBody struct {
	LineID         string       `json:"lineId"`
	StartDate      schedule.Day `json:"startDate"`
	EndDate        schedule.Day `json:"endDate"`
	ExcludeOrderID string       `json:"excludeOrderId"`
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.svc.Scheduling.ListOrders(c.Request.Context(), primary.OrderFilters{
		LineID: c.Query("lineId"),
		Status: c.Query("status"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) createOrder(c *gin.Context) {
	var req primary.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	order, err := h.svc.Scheduling.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.svc.Scheduling.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) updateOrder(c *gin.Context) {
	var req primary.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	req.OrderID = c.Param("id")
	order, err := h.svc.Scheduling.UpdateOrder(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) deleteOrder(c *gin.Context) {
	if err := h.svc.Scheduling.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) cancelOrder(c *gin.Context) {
	order, err := h.svc.Scheduling.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) completeOrder(c *gin.Context) {
	order, err := h.svc.Scheduling.CompleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// startOrderToday answers 200 both when the order started and when the line
// is busy; the body's needsNewDate tells them apart.
func (h *handlers) startOrderToday(c *gin.Context) {
	result, err := h.svc.Scheduling.StartOrderToday(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) startOrderOnDate(c *gin.Context) {
	day, err := schedule.ParseDay(c.Query("newStartDate"))
	if err != nil {
		h.fail(c, apperr.Invalid("%s", err.Error()))
		return
	}
	order, err := h.svc.Scheduling.StartOrderOnDate(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) nextAvailableDateForOrder(c *gin.Context) {
	day, err := h.svc.Scheduling.NextAvailableDateForOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextAvailableDate": day})
}

func (h *handlers) nextAvailableDate(c *gin.Context) {
	duration := 0
	if raw := c.Query("duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, apperr.Invalid("duration must be a number of days, got %q", raw))
			return
		}
		duration = n
	}
	day, err := h.svc.Scheduling.FindNextAvailableDate(c.Request.Context(), primary.NextDateRequest{
		LineID:         c.Query("lineId"),
		DurationDays:   duration,
		ExcludeOrderID: c.Query("excludeOrderId"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextAvailableDate": day})
}

func (h *handlers) checkAvailability(c *gin.Context) {
	var body availabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err)
		return
	}
	availability, err := h.svc.Scheduling.CheckAvailability(c.Request.Context(), primary.AvailabilityRequest{
		LineID:         body.LineID,
		Start:          body.StartDate,
		End:            body.EndDate,
		ExcludeOrderID: body.ExcludeOrderID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *handlers) statuses(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Scheduling.Statuses())
}
