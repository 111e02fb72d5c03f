package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskflow-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	AssignedTo      *uint      `json:"assigned_to"`
	AssignedBy      *uint      `json:"assigned_by"`
	Reviewer        *uint      `json:"reviewer"`
	ExpectedClosure *time.Time `json:"expected_closure"`
}

// UpdateTaskRequest represents the request payload for a partial update.
// The field set is closed: unknown keys are rejected when decoding.
type UpdateTaskRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status"`
	Priority        *string    `json:"priority"`
	AssignedTo      *uint      `json:"assigned_to"`
	AssignedBy      *uint      `json:"assigned_by"`
	Reviewer        *uint      `json:"reviewer"`
	UpdatedBy       *uint      `json:"updated_by"`
	ExpectedClosure *time.Time `json:"expected_closure"`
}

// GetTasks handles GET /api/tasks?role=
// Admin and Manager acting roles see every task; any other role sees only
// tasks assigned to the caller.
func GetTasks(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}

	tasks, err := taskSvc.List(c.Request.Context(), c.Query("role"), ident)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// GetTasksByStatus handles GET /api/tasks/status?role=&status=
func GetTasksByStatus(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}

	tasks, err := taskSvc.ListByStatus(c.Request.Context(), c.Query("status"), c.Query("role"), ident)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// GetTaskByID handles GET /api/tasks/:id
func GetTaskByID(c *gin.Context) {
	if _, ok := identityOrAbort(c); !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	task, err := taskSvc.Get(c.Request.Context(), taskID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks?role=
func CreateTask(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	task, err := taskSvc.Create(c.Request.Context(), service.CreateTask{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		AssignedTo:      req.AssignedTo,
		AssignedBy:      req.AssignedBy,
		Reviewer:        req.Reviewer,
		ExpectedClosure: req.ExpectedClosure,
	}, c.Query("role"), ident)
	if err != nil {
		abortWithError(c, err)
		return
	}

	broadcastTaskEvent("task_created", task)

	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id?role=
func UpdateTask(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	// Decode with a closed field set: unknown keys are a client error
	// rather than silently dropped.
	var req UpdateTaskRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	task, err := taskSvc.Update(c.Request.Context(), taskID, service.TaskUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		AssignedTo:      req.AssignedTo,
		AssignedBy:      req.AssignedBy,
		Reviewer:        req.Reviewer,
		UpdatedBy:       req.UpdatedBy,
		ExpectedClosure: req.ExpectedClosure,
	}, c.Query("role"), ident)
	if err != nil {
		abortWithError(c, err)
		return
	}

	broadcastTaskEvent("task_updated", task)

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status?role=&status=
// This is the dedicated transition path of the lifecycle state machine.
func UpdateTaskStatus(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	task, err := taskSvc.Transition(c.Request.Context(), taskID, c.Query("status"), c.Query("role"), ident)
	if err != nil {
		abortWithError(c, err)
		return
	}

	broadcastTaskEvent("task_status_changed", task)

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id?role=
func DeleteTask(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	task, err := taskSvc.Get(c.Request.Context(), taskID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := taskSvc.Delete(c.Request.Context(), taskID, c.Query("role"), ident); err != nil {
		abortWithError(c, err)
		return
	}

	broadcastTaskEvent("task_deleted", task)

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}
