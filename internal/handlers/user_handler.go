package handlers

import (
	"errors"
	"net/http"
	"strings"

	"taskflow-api/internal/middleware"
	"taskflow-api/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserResponse is the safe user payload: no password hash.
type UserResponse struct {
	EID    uint     `json:"e_id"`
	Roles  []string `json:"roles"`
	Status string   `json:"status"`
}

// CreateUserRequest represents the request payload for creating a user account
type CreateUserRequest struct {
	EID      uint     `json:"e_id" binding:"required"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
	Status   string   `json:"status"`
}

// UpdateUserRequest represents the request payload for updating a user account
type UpdateUserRequest struct {
	Password *string   `json:"password"`
	Roles    *[]string `json:"roles"`
	Status   *string   `json:"status"`
}

// GetAllUsers handles GET /api/users
func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := userDB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Map to safe response payload
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserResponse{
			EID:    u.EID,
			Roles:  u.RoleList(),
			Status: u.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}

// CreateUser handles POST /api/users
// Creates a login account for an employee. An empty role list defaults to
// Developer; the password is stored as a bcrypt hash.
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	password := req.Password
	if password == "" {
		password = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{models.RoleDeveloper}
	}
	status := req.Status
	if status == "" {
		status = "Active"
	}

	user := models.User{
		EID:      req.EID,
		Password: string(hash),
		Roles:    strings.Join(roles, ","),
		Status:   status,
	}
	if err := userDB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{EID: user.EID, Roles: user.RoleList(), Status: user.Status})
}

// UpdateUser handles PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	eid, ok := idParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := userDB.Where("e_id = ?", eid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = string(hash)
	}
	if req.Roles != nil {
		user.Roles = strings.Join(*req.Roles, ",")
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := userDB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	// Role changes must not be served from stale cache entries.
	middleware.FlushIdentityCache()

	c.JSON(http.StatusOK, UserResponse{EID: user.EID, Roles: user.RoleList(), Status: user.Status})
}

// DeleteUser handles DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	eid, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := userDB.Where("e_id = ?", eid).Delete(&models.User{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	middleware.FlushIdentityCache()

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully", "id": eid})
}
