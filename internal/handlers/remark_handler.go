package handlers

import (
	"net/http"

	"taskflow-api/internal/service"

	"github.com/gin-gonic/gin"
)

// openRemarkFile pulls the optional "file" part out of a multipart form.
// The caller must close the returned closer when non-nil.
func openRemarkFile(c *gin.Context) (*service.RemarkFile, func(), error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		// no file supplied
		return nil, func() {}, nil
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.RemarkFile{Name: fileHeader.Filename, Content: f}, func() { f.Close() }, nil
}

// CreateRemark handles POST /api/tasks/:id/remarks
// Multipart form: "comment" text plus an optional "file". Any
// authenticated identity may comment.
func CreateRemark(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	comment := c.PostForm("comment")
	if comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment is required"})
		return
	}

	file, closeFile, err := openRemarkFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer closeFile()

	remark, svcErr := remarkSvc.Add(c.Request.Context(), taskID, comment, file, ident)
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, remark)
}

// GetRemarks handles GET /api/tasks/:id/remarks
func GetRemarks(c *gin.Context) {
	if _, ok := identityOrAbort(c); !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	remarks, err := remarkSvc.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"remarks": remarks,
		"count":   len(remarks),
	})
}

// UpdateRemark handles PUT /api/remarks/:id?role=
// Multipart form: optional "comment" and optional "file"; at least one
// must be present. Restricted to the creator or an Admin acting role.
func UpdateRemark(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	remarkID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var comment *string
	if v := c.PostForm("comment"); v != "" {
		comment = &v
	}

	file, closeFile, err := openRemarkFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer closeFile()

	remark, svcErr := remarkSvc.Update(c.Request.Context(), remarkID, comment, file, c.Query("role"), ident)
	if svcErr != nil {
		abortWithError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, remark)
}

// DeleteRemark handles DELETE /api/remarks/:id
func DeleteRemark(c *gin.Context) {
	ident, ok := identityOrAbort(c)
	if !ok {
		return
	}
	remarkID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := remarkSvc.Delete(c.Request.Context(), remarkID, ident); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Remark and file deleted successfully",
		"id":      remarkID,
	})
}
