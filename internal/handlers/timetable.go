package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/at14318-design/timetable-backend/internal/auth"
	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/dto"
	"github.com/at14318-design/timetable-backend/internal/schedule"
	"github.com/at14318-design/timetable-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TimetableHandler handles the personal timetable CRUD.
type TimetableHandler struct {
	svc *service.TimetableService
}

// NewTimetableHandler returns a new TimetableHandler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// Create godoc
// @Summary      Create a timetable entry
// @Tags         timetable
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateEntryRequest  true  "Entry body"
// @Success      201   {object}  dto.EntryResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	e, err := h.svc.Create(c.Request.Context(), userID, req.Subject, req.Day, req.StartTime, req.EndTime, req.Reminder)
	if err != nil {
		respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entryToResponse(e))
}

// List godoc
// @Summary      List timetable entries
// @Tags         timetable
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListEntriesResponse
// @Failure      500  {object}  map[string]string
// @Router       /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{Items: entriesToResponses(list)})
}

// GetByID godoc
// @Summary      Get a timetable entry by ID
// @Tags         timetable
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  dto.EntryResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /timetable/{id} [get]
func (h *TimetableHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	e, err := h.svc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entryToResponse(e))
}

// Update godoc
// @Summary      Update a timetable entry
// @Tags         timetable
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Entry ID"
// @Param        body  body      dto.UpdateEntryRequest  true  "Partial update"
// @Success      200   {object}  dto.EntryResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /timetable/{id} [patch]
func (h *TimetableHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	e, err := h.svc.Update(c.Request.Context(), userID, id, service.SlotChange{
		Subject:   req.Subject,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reminder:  req.Reminder,
	})
	if err != nil {
		respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryToResponse(e))
}

// Delete godoc
// @Summary      Delete a timetable entry
// @Tags         timetable
// @Security     CookieAuth
// @Param        id   path  int  true  "Entry ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// respondSlotError maps the shared slot-write failure modes: parse and
// interval problems are the caller's fault, overlaps are a conflict.
func respondSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrTimeFormat), errors.Is(err, schedule.ErrDay), errors.Is(err, schedule.ErrInterval):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func entryToResponse(e dom.TimetableEntry) dto.EntryResponse {
	return dto.EntryResponse{
		ID:        e.ID,
		Subject:   e.Subject,
		Day:       e.Day,
		StartTime: schedule.FormatMinutes(e.StartMin),
		EndTime:   schedule.FormatMinutes(e.EndMin),
		Reminder:  e.Reminder,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func entriesToResponses(list []dom.TimetableEntry) []dto.EntryResponse {
	out := make([]dto.EntryResponse, len(list))
	for i := range list {
		out[i] = entryToResponse(list[i])
	}
	return out
}
