package event

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func eventIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
}

// ===========================
// Create Event - POST /api/events
func (h *Handler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.Create(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// List - GET /api/events
func (h *Handler) List(c *gin.Context) {
	events, err := h.Service.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListActive - GET /api/events/active
func (h *Handler) ListActive(c *gin.Context) {
	events, err := h.Service.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// Get - GET /api/events/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	e, err := h.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// Update - PUT /api/events/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	e, err := h.Service.Update(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		case errors.Is(err, ErrEventLocked):
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrEventLocked.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, e)
}

// Delete - DELETE /api/events/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	e, err := h.Service.Delete(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Event '%s' and all associated tickets deleted successfully", e.Name)})
}

// ToggleActive - POST /api/events/:id/toggle-active
func (h *Handler) ToggleActive(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	e, err := h.Service.ToggleActive(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := "deactivated"
	if e.IsActive {
		status = "activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Event '%s' %s", e.Name, status),
		"is_active": e.IsActive,
	})
}

// UploadDesign - POST /api/events/:id/upload-design
func (h *Handler) UploadDesign(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not found in request"})
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload: " + err.Error()})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload: " + err.Error()})
		return
	}

	path, err := h.Service.UploadDesign(id, filepath.Ext(file.Filename), data)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket design uploaded successfully", "path": path})
}
