package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskflow-api/internal/auth"
	"taskflow-api/internal/database"
	"taskflow-api/internal/middleware"
	"taskflow-api/internal/models"
	"taskflow-api/internal/storage"
	"taskflow-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	middleware.FlushIdentityCache()
	Init(db, storage.NewLocalStore(t.TempDir()))

	r := gin.New()
	r.POST("/api/auth/login", Login)
	protected := r.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(time.Minute))
	{
		protected.GET("/auth/me", Me)
		protected.GET("/tasks", GetTasks)
		protected.GET("/tasks/status", GetTasksByStatus)
		protected.GET("/tasks/:id", GetTaskByID)
		protected.POST("/tasks", CreateTask)
		protected.PUT("/tasks/:id", UpdateTask)
		protected.PATCH("/tasks/:id/status", UpdateTaskStatus)
		protected.DELETE("/tasks/:id", DeleteTask)
		protected.GET("/tasks/:id/attachments", GetAttachments)
		protected.POST("/tasks/:id/attachments", UploadAttachment)
		protected.DELETE("/attachments/:id", DeleteAttachment)
		protected.GET("/tasks/:id/remarks", GetRemarks)
		protected.POST("/tasks/:id/remarks", CreateRemark)
		protected.PUT("/remarks/:id", UpdateRemark)
		protected.DELETE("/remarks/:id", DeleteRemark)
		protected.GET("/employees", GetEmployees)
		protected.POST("/employees", CreateEmployee)
		protected.GET("/employees/:id", GetEmployeeByID)
		protected.PUT("/employees/:id", UpdateEmployee)
		protected.DELETE("/employees/:id", DeleteEmployee)
		protected.GET("/users", GetAllUsers)
		protected.POST("/users", CreateUser)
	}
	return r
}

func seedUser(t *testing.T, eid uint, roles string) {
	t.Helper()
	require.NoError(t, database.DB.Create(&models.User{
		EID:      eid,
		Password: "x",
		Roles:    roles,
		Status:   "Active",
	}).Error)
}

func tokenFor(t *testing.T, eid uint, roles ...string) string {
	t.Helper()
	token, err := auth.GenerateToken(eid, roles)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTask_Success(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")

	w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", tokenFor(t, 3, "Manager"), map[string]any{
		"title":       "Implement login page",
		"description": "frontend work",
		"status":      "TO_DO",
		"assigned_to": 7,
		"reviewer":    3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, uint(3), created.CreatedBy)
	require.Equal(t, models.StatusToDo, created.Status)
	require.NotNil(t, created.AssignedAt)
}

func TestCreateTask_DeveloperForbidden(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 7, "Developer")

	w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Developer", tokenFor(t, 7, "Developer"), map[string]any{
		"title": "sneaky task",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateTask_UnknownFieldRejected(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")
	token := tokenFor(t, 3, "Manager")

	w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", token, map[string]any{"title": "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d?role=Manager", created.ID), token, map[string]any{
		"titel": "typo field",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskLifecycle_EndToEnd(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")
	seedUser(t, 7, "Developer")
	managerToken := tokenFor(t, 3, "Manager")
	devToken := tokenFor(t, 7, "Developer")

	w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", managerToken, map[string]any{
		"title":       "Build report export",
		"status":      "TO_DO",
		"assigned_to": 7,
		"reviewer":    3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	patch := func(token, role, status string) *httptest.ResponseRecorder {
		path := fmt.Sprintf("/api/tasks/%d/status?role=%s&status=%s", task.ID, role, status)
		return doJSON(t, r, http.MethodPatch, path, token, nil)
	}

	require.Equal(t, http.StatusOK, patch(devToken, "Developer", "IN_PROGRESS").Code)
	require.Equal(t, http.StatusConflict, patch(devToken, "Developer", "DONE").Code)
	require.Equal(t, http.StatusOK, patch(devToken, "Developer", "REVIEW").Code)

	w = patch(managerToken, "Manager", "DONE")
	require.Equal(t, http.StatusOK, w.Code)
	var done models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &done))
	require.Equal(t, models.StatusDone, done.Status)
	require.NotNil(t, done.ActualClosure)
}

func TestGetTasks_DeveloperSeesOnlyOwn(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")
	seedUser(t, 7, "Developer")
	managerToken := tokenFor(t, 3, "Manager")

	for _, assignee := range []uint{7, 8} {
		w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", managerToken, map[string]any{
			"title":       fmt.Sprintf("task for %d", assignee),
			"assigned_to": assignee,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/tasks?role=Developer", tokenFor(t, 7, "Developer"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, uint(7), *resp.Tasks[0].AssignedTo)
}

func TestDeleteTask_OnlyCreatorViaHTTP(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")
	seedUser(t, 1, "Admin")
	managerToken := tokenFor(t, 3, "Manager")

	w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", managerToken, map[string]any{"title": "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	path := fmt.Sprintf("/api/tasks/%d?role=Admin", task.ID)
	w = doJSON(t, r, http.MethodDelete, path, tokenFor(t, 1, "Admin"), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	path = fmt.Sprintf("/api/tasks/%d?role=Manager", task.ID)
	w = doJSON(t, r, http.MethodDelete, path, managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), managerToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTasksByStatus_Filters(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")
	token := tokenFor(t, 3, "Manager")

	for status, title := range map[string]string{"TO_DO": "a", "REVIEW": "b"} {
		w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", token, map[string]any{
			"title":  title,
			"status": status,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/tasks/status?role=Manager&status=review", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tasks, 1)
	require.Equal(t, "b", resp.Tasks[0].Title)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestAttachmentReplace_ViaHTTP(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")
	seedUser(t, 7, "Developer")
	managerToken := tokenFor(t, 3, "Manager")
	devToken := tokenFor(t, 7, "Developer")

	w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", managerToken, map[string]any{"title": "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	upload := func(content string) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, map[string]string{"remark": "draft"}, "file", "spec.pdf", content)
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/tasks/%d/attachments", task.ID), body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+devToken)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusCreated, upload("v1").Code)
	require.Equal(t, http.StatusCreated, upload("v2").Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d/attachments?role=Developer", task.ID), devToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
}

func TestRemarkFlow_ViaHTTP(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 3, "Manager")
	seedUser(t, 7, "Developer")
	managerToken := tokenFor(t, 3, "Manager")
	devToken := tokenFor(t, 7, "Developer")

	w := doJSON(t, r, http.MethodPost, "/api/tasks?role=Manager", managerToken, map[string]any{"title": "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	body, contentType := multipartBody(t, map[string]string{"comment": "looks good"}, "", "", "")
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/tasks/%d/remarks", task.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+devToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var remark models.Remark
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &remark))
	require.Equal(t, uint(7), remark.CreatedBy)

	// A different developer may not delete someone else's remark
	seedUser(t, 8, "Developer")
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/remarks/%d", remark.ID), tokenFor(t, 8, "Developer"), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/remarks/%d", remark.ID), devToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	if !strings.Contains(w.Body.String(), "deleted") {
		t.Fatalf("unexpected delete response: %s", w.Body.String())
	}
}
