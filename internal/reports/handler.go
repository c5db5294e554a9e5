package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func serveExport(c *gin.Context, ex *Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ex.Filename))
	c.Data(http.StatusOK, ex.ContentType, ex.Data)
}

// GuestList - GET /api/events/:id/guestlist?format=xlsx|csv|pdf
func (h *Handler) GuestList(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	format := strings.ToLower(c.Query("format"))
	ex, err := h.Service.GuestList(uint(id), format)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case strings.HasPrefix(err.Error(), "unsupported guest list format"):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed: " + err.Error()})
		}
		return
	}
	serveExport(c, ex)
}

// TicketPDF - GET /api/tickets/:id/pdf
func (h *Handler) TicketPDF(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ex, err := h.Service.TicketDocument(uint(id))
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) || errors.Is(err, event.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed: " + err.Error()})
		return
	}
	serveExport(c, ex)
}
