package scan

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

type validateRequest struct {
	TicketID string `json:"ticket_id" binding:"required"`
}

// Validate - POST /api/scan/validate
//
// Always answers 200 with a structured outcome; the scanner UI decides
// how to display it.
func (h *Handler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	res, err := h.Service.Validate(c.Request.Context(), req.TicketID, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
