package handlers

import (
	"errors"
	"net/http"

	"taskflow-api/internal/auth"
	"taskflow-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	EID      uint   `json:"e_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
// Verifies the employee credentials and issues a JWT carrying the account's
// id and roles.
func Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. e_id and password are required.",
		})
		return
	}

	var user models.User
	if err := userDB.Where("e_id = ?", req.EID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid e_id or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid e_id or password"})
		return
	}

	token, err := auth.GenerateToken(user.EID, user.RoleList())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user": gin.H{
			"e_id":   user.EID,
			"roles":  user.RoleList(),
			"status": user.Status,
		},
	})
}

// Me handles GET /api/auth/me
// Returns the identity resolved for the current token.
func Me(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ident)
}
