package handlers

import (
	"net/http"

	"github.com/at14318-design/timetable-backend/internal/auth"
	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/dto"
	"github.com/at14318-design/timetable-backend/internal/schedule"
	"github.com/at14318-design/timetable-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupScheduleHandler handles group schedule slots.
type GroupScheduleHandler struct {
	svc *service.GroupService
}

// NewGroupScheduleHandler returns a new GroupScheduleHandler.
func NewGroupScheduleHandler(svc *service.GroupService) *GroupScheduleHandler {
	return &GroupScheduleHandler{svc: svc}
}

// Create godoc
// @Summary      Create a group schedule slot
// @Tags         group-schedules
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateGroupScheduleRequest  true  "Schedule body"
// @Success      201   {object}  dto.GroupScheduleResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /group-schedules [post]
func (h *GroupScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateGroupScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	s, err := h.svc.CreateSchedule(c.Request.Context(), userID, req.GroupID,
		req.Title, req.Description, req.Day, req.StartTime, req.EndTime)
	if err != nil {
		respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusCreated, groupScheduleToResponse(s))
}

// ListByGroup godoc
// @Summary      List schedule slots of a group
// @Tags         group-schedules
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Group ID"
// @Success      200  {object}  dto.ListGroupSchedulesResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /groups/{id}/schedules [get]
func (h *GroupScheduleHandler) ListByGroup(c *gin.Context) {
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.ListSchedules(c.Request.Context(), userID, groupID)
	if err != nil {
		respondSlotError(c, err)
		return
	}
	out := make([]dto.GroupScheduleResponse, len(list))
	for i := range list {
		out[i] = groupScheduleToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListGroupSchedulesResponse{Items: out})
}

// GetByID godoc
// @Summary      Get a schedule slot by ID
// @Tags         group-schedules
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Schedule ID"
// @Success      200  {object}  dto.GroupScheduleResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /group-schedules/{id} [get]
func (h *GroupScheduleHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	s, err := h.svc.GetSchedule(c.Request.Context(), userID, id)
	if err != nil {
		respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupScheduleToResponse(s))
}

// Update godoc
// @Summary      Update a schedule slot (slot creator only)
// @Tags         group-schedules
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Schedule ID"
// @Param        body  body      dto.UpdateGroupScheduleRequest  true  "Partial update"
// @Success      200   {object}  dto.GroupScheduleResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /group-schedules/{id} [patch]
func (h *GroupScheduleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGroupScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	s, err := h.svc.UpdateSchedule(c.Request.Context(), userID, id,
		req.Title, req.Description, req.Day, req.StartTime, req.EndTime)
	if err != nil {
		respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupScheduleToResponse(s))
}

// Delete godoc
// @Summary      Delete a schedule slot (slot creator only)
// @Tags         group-schedules
// @Security     CookieAuth
// @Param        id   path  int  true  "Schedule ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /group-schedules/{id} [delete]
func (h *GroupScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.svc.DeleteSchedule(c.Request.Context(), userID, id); err != nil {
		respondSlotError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func groupScheduleToResponse(s dom.GroupSchedule) dto.GroupScheduleResponse {
	return dto.GroupScheduleResponse{
		ID:          s.ID,
		GroupID:     s.GroupID,
		Title:       s.Title,
		Description: s.Description,
		Day:         s.Day,
		StartTime:   schedule.FormatMinutes(s.StartMin),
		EndTime:     schedule.FormatMinutes(s.EndMin),
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
