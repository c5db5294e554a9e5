package dashboard

import (
	"errors"
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

// Overview - GET /api/dashboard/stats
func (h *Handler) Overview(c *gin.Context) {
	stats, err := h.Service.Overview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ForEvent - GET /api/events/:id/stats
func (h *Handler) ForEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	stats, err := h.Service.ForEvent(uint(id))
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
