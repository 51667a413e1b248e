package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type assignBody struct {
	ApplicationID string `json:"applicationId"`
	WorkstationID string `json:"posteId"`
}

func (h *handlers) assign(c *gin.Context) {
	var body assignBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err)
		return
	}
	assignment, err := h.svc.Assignment.AssignApplication(c.Request.Context(), body.ApplicationID, body.WorkstationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *handlers) unassign(c *gin.Context) {
	assignment, err := h.svc.Assignment.UnassignApplication(c.Request.Context(), c.Param("appId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// activeForApplication answers 404 when the application is not assigned.
func (h *handlers) activeForApplication(c *gin.Context) {
	assignment, err := h.svc.Assignment.GetActiveAssignmentForApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if assignment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active assignment", "kind": "not_found"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *handlers) activeForPoste(c *gin.Context) {
	assignment, err := h.svc.Assignment.GetActiveAssignmentForPoste(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if assignment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active assignment", "kind": "not_found"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *handlers) historyForApplication(c *gin.Context) {
	history, err := h.svc.Assignment.GetHistoryForApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *handlers) historyForPoste(c *gin.Context) {
	history, err := h.svc.Assignment.GetHistoryForPoste(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *handlers) applicationStatus(c *gin.Context) {
	affected, err := h.svc.Assignment.IsApplicationAffected(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applicationId": c.Param("id"), "affected": affected})
}

func (h *handlers) posteStatus(c *gin.Context) {
	configured, err := h.svc.Assignment.IsPosteConfigured(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posteId": c.Param("id"), "configured": configured})
}

func (h *handlers) repair(c *gin.Context) {
	report, err := h.svc.Repair.RepairDuplicateAssignments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
