package handlers

import (
	"errors"
	"net/http"

	"github.com/at14318-design/timetable-backend/internal/auth"
	dom "github.com/at14318-design/timetable-backend/internal/domain"
	"github.com/at14318-design/timetable-backend/internal/dto"
	"github.com/at14318-design/timetable-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler handles group CRUD and membership.
type GroupHandler struct {
	svc *service.GroupService
}

// NewGroupHandler returns a new GroupHandler.
func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// Create godoc
// @Summary      Create a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateGroupRequest  true  "Group body"
// @Success      201   {object}  dto.GroupResponse
// @Failure      400   {object}  map[string]string
// @Router       /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	g, err := h.svc.CreateGroup(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, groupToResponse(g))
}

// List godoc
// @Summary      List groups for the current user
// @Tags         groups
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListGroupsResponse
// @Failure      500  {object}  map[string]string
// @Router       /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.ListGroups(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.GroupResponse, len(list))
	for i := range list {
		out[i] = groupToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListGroupsResponse{Items: out})
}

// GetByID godoc
// @Summary      Get a group by ID
// @Tags         groups
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Group ID"
// @Success      200  {object}  dto.GroupResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /groups/{id} [get]
func (h *GroupHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	g, err := h.svc.GetGroup(c.Request.Context(), userID, id)
	if err != nil {
		respondGroupError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupToResponse(g))
}

// Update godoc
// @Summary      Update a group (creator only)
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Group ID"
// @Param        body  body      dto.UpdateGroupRequest  true  "Partial update"
// @Success      200   {object}  dto.GroupResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /groups/{id} [patch]
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	g, err := h.svc.UpdateGroup(c.Request.Context(), userID, id, req.Name, req.Description)
	if err != nil {
		respondGroupError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupToResponse(g))
}

// Delete godoc
// @Summary      Delete a group (creator only)
// @Tags         groups
// @Security     CookieAuth
// @Param        id   path  int  true  "Group ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.svc.DeleteGroup(c.Request.Context(), userID, id); err != nil {
		respondGroupError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMember godoc
// @Summary      Add a member by email (creator only)
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Group ID"
// @Param        body  body      dto.AddMemberRequest  true  "Member email"
// @Success      200   {object}  dto.GroupResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /groups/{id}/members [post]
func (h *GroupHandler) AddMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	g, err := h.svc.AddMember(c.Request.Context(), userID, id, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyMember) {
			c.JSON(http.StatusConflict, gin.H{"error": "user is already a member"})
			return
		}
		respondGroupError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupToResponse(g))
}

// RemoveMember godoc
// @Summary      Remove a member (creator only)
// @Tags         groups
// @Produce      json
// @Security     CookieAuth
// @Param        id        path  int  true  "Group ID"
// @Param        memberID  path  int  true  "Member user ID"
// @Success      200  {object}  dto.GroupResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /groups/{id}/members/{memberID} [delete]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseID(c, "memberID")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	g, err := h.svc.RemoveMember(c.Request.Context(), userID, id, memberID)
	if err != nil {
		respondGroupError(c, err)
		return
	}
	c.JSON(http.StatusOK, groupToResponse(g))
}

func respondGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func groupToResponse(g dom.Group) dto.GroupResponse {
	members := g.MemberIDs
	if members == nil {
		members = []int64{}
	}
	return dto.GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		MemberIDs:   members,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
