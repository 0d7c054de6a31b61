package handlers

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"ai-assistant-server/internal/config"
	"ai-assistant-server/internal/utils"
)

// AuthHandler issues service tokens for the protected tool-call routes.
type AuthHandler struct {
	Config *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{Config: cfg}
}

// TokenRequest represents the request body for issuing a service token.
type TokenRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if h.Config.ServiceAPIKey == "" {
		utils.InternalServerError(c, "Service API key is not configured")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.Config.ServiceAPIKey)) != 1 {
		utils.Unauthorized(c, "Invalid API key")
		return
	}

	token, err := utils.GenerateServiceToken(h.Config)
	if err != nil {
		utils.InternalServerError(c, "Failed to issue token: "+err.Error())
		return
	}
	utils.Success(c, "Token issued", gin.H{"accessToken": token})
}
