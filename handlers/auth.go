package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"salonbook/config"
	"salonbook/utils"
)

const adminTokenTTL = 12 * time.Hour

// AuthHandler issues admin tokens for the local login provider. When the
// Firebase provider is configured this handler is not routed; Firebase mints
// the tokens and the middleware verifies them.
type AuthHandler struct {
	Logger *zap.Logger
}

func NewAuthHandler(logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Logger: logger}
}

// AdminLoginHandler handles POST /api/admin/login.
func (h *AuthHandler) AdminLoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	hash := config.AppConfig.AdminPasswordHash
	if hash == "" || req.Email != config.AppConfig.AdminEmail {
		h.Logger.Warn("admin login rejected", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		h.Logger.Warn("admin login rejected", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken("admin", req.Email, adminTokenTTL)
	if err != nil {
		h.Logger.Error("failed to sign admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_in":   int(adminTokenTTL.Seconds()),
	})
}
