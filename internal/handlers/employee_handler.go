package handlers

import (
	"errors"
	"net/http"

	"taskflow-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateEmployeeRequest represents the request payload for creating an employee
type CreateEmployeeRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Designation string `json:"designation"`
	MgrID       *uint  `json:"mgr_id"`
}

// UpdateEmployeeRequest represents the request payload for updating an employee
type UpdateEmployeeRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Designation *string `json:"designation"`
	MgrID       *uint   `json:"mgr_id"`
}

// GetEmployees handles GET /api/employees
// Optional query params: mgr_id and designation filters.
func GetEmployees(c *gin.Context) {
	query := userDB.Model(&models.Employee{})
	if mgrID := c.Query("mgr_id"); mgrID != "" {
		query = query.Where("mgr_id = ?", mgrID)
	}
	if designation := c.Query("designation"); designation != "" {
		query = query.Where("designation = ?", designation)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": employees,
		"count":     len(employees),
	})
}

// GetEmployeeByID handles GET /api/employees/:id
func GetEmployeeByID(c *gin.Context) {
	eid, ok := idParam(c, "id")
	if !ok {
		return
	}

	var emp models.Employee
	if err := userDB.Where("e_id = ?", eid).First(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee"})
		}
		return
	}

	c.JSON(http.StatusOK, emp)
}

// CreateEmployee handles POST /api/employees
func CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emp := models.Employee{
		Name:        req.Name,
		Email:       req.Email,
		Designation: req.Designation,
		MgrID:       req.MgrID,
	}
	if err := userDB.Create(&emp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}

	c.JSON(http.StatusCreated, emp)
}

// UpdateEmployee handles PUT /api/employees/:id
func UpdateEmployee(c *gin.Context) {
	eid, ok := idParam(c, "id")
	if !ok {
		return
	}

	var emp models.Employee
	if err := userDB.Where("e_id = ?", eid).First(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employee"})
		}
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Designation != nil {
		emp.Designation = *req.Designation
	}
	if req.MgrID != nil {
		emp.MgrID = req.MgrID
	}

	if err := userDB.Save(&emp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}

	c.JSON(http.StatusOK, emp)
}

// DeleteEmployee handles DELETE /api/employees/:id
func DeleteEmployee(c *gin.Context) {
	eid, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := userDB.Where("e_id = ?", eid).Delete(&models.Employee{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete employee"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully", "id": eid})
}
