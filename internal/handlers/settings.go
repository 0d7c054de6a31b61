package handlers

import (
	"ai-assistant-server/internal/search"
	"ai-assistant-server/internal/store"
	"ai-assistant-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the settings knowledge base and search endpoint.
type SettingsHandler struct {
	Store  *store.Store
	Search *search.Service
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(st *store.Store, searchSvc *search.Service) *SettingsHandler {
	return &SettingsHandler{Store: st, Search: searchSvc}
}

// ListSettings handles GET /settings.
func (h *SettingsHandler) ListSettings(c *gin.Context) {
	settings, err := h.Store.ListSettings(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch settings: "+err.Error())
		return
	}
	utils.Success(c, "Settings fetched successfully", settings)
}

// GetInsight handles GET /insight/:name.
func (h *SettingsHandler) GetInsight(c *gin.Context) {
	name := c.Param("name")
	insight, err := h.Store.GetInsight(c.Request.Context(), name)
	if err != nil {
		if store.IsNotFound(err) {
			utils.NotFound(c, "Insight not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Insight fetched successfully", insight)
}

// SearchRequest represents the request body for a settings search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchResponse carries the answer text.
type SearchResponse struct {
	Answer string `json:"answer"`
}

// SearchSettings handles POST /search. The service always produces an answer
// or a sentinel; upstream failures never become request errors.
func (h *SettingsHandler) SearchSettings(c *gin.Context) {
	var req SearchRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	answer := h.Search.Answer(c.Request.Context(), req.Query)
	utils.Success(c, "Search completed", SearchResponse{Answer: answer})
}
