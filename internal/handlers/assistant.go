package handlers

import (
	"errors"
	"net/http"

	"github.com/at14318-design/timetable-backend/internal/auth"
	"github.com/at14318-design/timetable-backend/internal/dto"
	"github.com/at14318-design/timetable-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AssistantHandler handles the timetable assistant endpoints.
type AssistantHandler struct {
	svc *service.AssistantService
}

// NewAssistantHandler returns a new AssistantHandler.
func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// Suggestions godoc
// @Summary      Canned assistant prompts
// @Tags         assistant
// @Produce      json
// @Success      200  {object}  dto.SuggestionsResponse
// @Router       /assistant/suggestions [get]
func (h *AssistantHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SuggestionsResponse{Suggestions: service.Suggestions})
}

// Ask godoc
// @Summary      Ask the timetable assistant
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AskRequest  true  "Message"
// @Success      200   {object}  dto.AskResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /assistant/ask [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c) // 0 for anonymous callers
	reply, err := h.svc.Ask(c.Request.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrAssistantDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "error processing assistant request"})
		return
	}
	c.JSON(http.StatusOK, dto.AskResponse{Reply: reply})
}
