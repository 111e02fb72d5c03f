package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/middleware"
	"taskflow-api/internal/models"
	"taskflow-api/internal/realtime"
	"taskflow-api/internal/service"
	"taskflow-api/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	taskSvc       *service.TaskService
	attachmentSvc *service.AttachmentService
	remarkSvc     *service.RemarkService
	userDB        *gorm.DB
)

// Init wires the handler package to a database and file store. Called once
// from route setup (and from tests with an in-memory database).
func Init(db *gorm.DB, files *storage.LocalStore) {
	userDB = db
	taskSvc = service.NewTaskService(db, files)
	attachmentSvc = service.NewAttachmentService(db, files)
	remarkSvc = service.NewRemarkService(db, files)
}

// abortWithError maps an application error to its HTTP status.
func abortWithError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
}

// identityOrAbort fetches the identity set by the auth middleware.
func identityOrAbort(c *gin.Context) (models.Identity, bool) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identity not found in request context"})
	}
	return ident, ok
}

// idParam parses the :id path segment.
func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// broadcastTaskEvent pushes a lifecycle event to the websocket connections
// of the task's assignee and reviewer.
func broadcastTaskEvent(event string, task *models.Task) {
	evt := map[string]any{
		"type":    event,
		"taskId":  task.ID,
		"status":  task.Status,
		"version": task.Version,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	hub := realtime.GetHub()
	if task.AssignedTo != nil {
		hub.Broadcast(*task.AssignedTo, payload)
	}
	if task.Reviewer != nil && (task.AssignedTo == nil || *task.Reviewer != *task.AssignedTo) {
		hub.Broadcast(*task.Reviewer, payload)
	}
}
