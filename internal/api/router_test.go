package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"studyshare/internal/auth"
	"studyshare/internal/models"
)

func TestRoutes_ReadsAreOpen(t *testing.T) {
	router := testServer.Routes()

	paths := []string{
		"/api/v1/folders",
		"/api/v1/folders/tree",
		"/api/v1/resources",
	}
	for _, path := range paths {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, "GET %s without a token", path)
	}
}

func TestRoutes_MutationsRequireRole(t *testing.T) {
	router := testServer.Routes()
	body := `{"name": "Nieautoryzowany"}`

	req := httptest.NewRequest("POST", "/api/v1/folders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// A student token authenticates but cannot touch the folder tree.
	student := &models.User{ID: 424242, Username: "router_student", Role: models.RoleStudent}
	token, err := auth.GenerateJWT(student, testServer.config.JWT.Secret)
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/api/v1/folders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}
