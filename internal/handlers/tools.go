package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ai-assistant-server/internal/agent"
	"ai-assistant-server/internal/utils"
)

// ToolsHandler exposes the agent through the tool-call API.
type ToolsHandler struct {
	Agent *agent.Agent
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(a *agent.Agent) *ToolsHandler {
	return &ToolsHandler{Agent: a}
}

// ListTools handles GET /list_tools.
func (h *ToolsHandler) ListTools(c *gin.Context) {
	c.JSON(200, gin.H{"tools": h.Agent.Tools()})
}

// CallToolRequest represents the request body for a tool invocation.
type CallToolRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Arguments map[string]interface{} `json:"arguments"`
}

// CallTool handles POST /call_tool.
func (h *ToolsHandler) CallTool(c *gin.Context) {
	var req CallToolRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.Agent.CallTool(c.Request.Context(), req.Name, req.Arguments)
	if err != nil {
		if errors.Is(err, agent.ErrToolNotFound) {
			utils.NotFound(c, err.Error())
		} else {
			utils.BadRequest(c, err.Error())
		}
		return
	}
	c.JSON(200, result)
}
