package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sammy440/Habit-tracker/internal/service"
	"github.com/sammy440/Habit-tracker/internal/storage"
)

type HabitHandler struct {
	tracker *service.TrackerService
}

func NewHabitHandler(tracker *service.TrackerService) *HabitHandler {
	return &HabitHandler{tracker: tracker}
}

// ListHabits handles GET /habits
func (h *HabitHandler) ListHabits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"habits": h.tracker.ListHabits()})
}

// CreateHabit handles POST /habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	view, err := h.tracker.CreateHabit(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetHabit handles GET /habits/:id
func (h *HabitHandler) GetHabit(c *gin.Context) {
	view, err := h.tracker.GetHabit(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateHabit handles PATCH /habits/:id
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	view, err := h.tracker.UpdateHabit(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteHabit handles DELETE /habits/:id
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	if err := h.tracker.DeleteHabit(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CheckIn handles POST /habits/:id/checkin
func (h *HabitHandler) CheckIn(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}

	// the body is optional; an absent date means today
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	view, err := h.tracker.CheckIn(c.Request.Context(), c.Param("id"), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UndoCheckIn handles DELETE /habits/:id/checkin
func (h *HabitHandler) UndoCheckIn(c *gin.Context) {
	view, err := h.tracker.UndoCheckIn(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetStats handles GET /habits/:id/stats
func (h *HabitHandler) GetStats(c *gin.Context) {
	stats, err := h.tracker.GetStats(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetHistory handles GET /habits/:id/history
func (h *HabitHandler) GetHistory(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a number"})
		return
	}

	strip, err := h.tracker.History(c.Param("id"), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id": c.Param("id"),
		"history":  strip,
	})
}

// GetOverview handles GET /stats
func (h *HabitHandler) GetOverview(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.GetOverview())
}

// Export handles GET /export
func (h *HabitHandler) Export(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Export())
}

// Backup handles POST /backup
func (h *HabitHandler) Backup(c *gin.Context) {
	if err := h.tracker.Backup(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "backed_up"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrBackupNotSupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
