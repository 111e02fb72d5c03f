package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"taskflow-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestEmployeeCRUD(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 1, "Admin")
	token := tokenFor(t, 1, "Admin")

	w := doJSON(t, r, http.MethodPost, "/api/employees", token, map[string]any{
		"name":        "Priya Sharma",
		"email":       "priya@example.com",
		"designation": "Senior Engineer",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var emp models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &emp))
	require.NotZero(t, emp.EID)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/employees/%d", emp.EID), token, map[string]any{
		"designation": "Staff Engineer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/employees/%d", emp.EID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &emp))
	require.Equal(t, "Staff Engineer", emp.Designation)
	require.Equal(t, "priya@example.com", emp.Email)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/employees/%d", emp.EID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/employees/%d", emp.EID), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEmployees_Filters(t *testing.T) {
	r := setupAPI(t)
	seedUser(t, 1, "Admin")
	token := tokenFor(t, 1, "Admin")

	mgr := uint(100)
	for i, designation := range []string{"Engineer", "Engineer", "Designer"} {
		payload := map[string]any{
			"name":        fmt.Sprintf("emp %d", i),
			"email":       fmt.Sprintf("emp%d@example.com", i),
			"designation": designation,
		}
		if designation == "Engineer" {
			payload["mgr_id"] = mgr
		}
		w := doJSON(t, r, http.MethodPost, "/api/employees", token, payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/employees?mgr_id=100&designation=Engineer", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Employees []models.Employee `json:"employees"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	for _, e := range resp.Employees {
		require.Equal(t, "Engineer", e.Designation)
		require.Equal(t, mgr, *e.MgrID)
	}
}
