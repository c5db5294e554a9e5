package ticket

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ticket9ja/ticket9ja-backend/internal/event"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return 0, false
	}
	return uint(id), true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, event.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ===========================
// CreateBatch - POST /api/events/:id/tickets
func (h *Handler) CreateBatch(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	created, err := h.Service.CreateBatch(uint(eventID), &req)
	if err != nil {
		// Tickets created before a mid-batch failure are valid and are
		// returned alongside the error.
		if len(created) > 0 {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   err.Error(),
				"created": created,
			})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListByEvent - GET /api/events/:id/tickets
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	tickets, err := h.Service.ListByEvent(uint(eventID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// List - GET /api/tickets
func (h *Handler) List(c *gin.Context) {
	tickets, err := h.Service.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// Get - GET /api/tickets/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	t, err := h.Service.GetByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update - PUT /api/tickets/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	t, err := h.Service.Update(id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete - DELETE /api/tickets/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	t, err := h.Service.Delete(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Ticket deleted successfully: %s - %s", t.AttendeeName, t.TicketID),
	})
}

// Resend - POST /api/tickets/:id/resend
func (h *Handler) Resend(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Service.Resend(id); err != nil {
		if errors.Is(err, ErrNotificationFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket email resent successfully"})
}
