package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadAttachment handles POST /api/tasks/:id/attachments
// Multipart form: "file" (required) and "remark" (optional text). An
// earlier attachment by the same caller on the same task is replaced.
func UploadAttachment(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer f.Close()

	att, svcErr := attachmentSvc.Attach(c.Request.Context(), taskID, fileHeader.Filename, f, c.PostForm("remark"), ident)
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, att)
}

// GetAttachments handles GET /api/tasks/:id/attachments?role=
func GetAttachments(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	attachments, err := attachmentSvc.List(c.Request.Context(), taskID, c.Query("role"), ident)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attachments": attachments,
		"count":       len(attachments),
	})
}

// DeleteAttachment handles DELETE /api/attachments/:id
func DeleteAttachment(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	attachmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := attachmentSvc.Delete(c.Request.Context(), attachmentID, ident); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attachment deleted successfully",
		"id":      attachmentID,
	})
}
