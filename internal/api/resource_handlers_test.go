package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"studyshare/internal/models"
)

func uploadResource(t *testing.T, title, folderID, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notatki.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("title", title))
	require.NoError(t, writer.WriteField("folder_id", folderID))
	require.NoError(t, writer.WriteField("tags", "algebra, wyklad"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/resources", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()

	http.HandlerFunc(testServer.UploadResourceHandler).ServeHTTP(rr, authed(req))
	return rr
}

func TestAPI_UploadAndDownloadResource(t *testing.T) {
	folder := createFolderAPI(t, "Zasoby Upload", nil)

	rr := uploadResource(t, "Notatki z algebry", folder.ID, "PDF-ish content")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resource models.Resource
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resource))
	require.Equal(t, "Notatki z algebry", resource.Title)
	require.Equal(t, folder.ID, resource.FolderID)
	require.Equal(t, []string{"algebra", "wyklad"}, resource.Tags)
	require.Equal(t, testUserClaims.UserID, resource.UploadedBy)

	// Download streams the blob back and bumps the view counter.
	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/resources/%s/download", resource.ID), nil)
	req = withURLParam(req, "resourceId", resource.ID)
	dl := httptest.NewRecorder()
	http.HandlerFunc(testServer.DownloadResourceHandler).ServeHTTP(dl, authed(req))

	require.Equal(t, http.StatusOK, dl.Code)
	require.Equal(t, "PDF-ish content", dl.Body.String())

	got, err := testServer.store.GetResourceByID(req.Context(), resource.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Views)
}

func TestAPI_UploadResource_UnknownFolder(t *testing.T) {
	rr := uploadResource(t, "Sierota", "aaaaaaaaaaaaaaaaaaaaa", "content")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_DeleteResource(t *testing.T) {
	folder := createFolderAPI(t, "Zasoby Delete", nil)

	rr := uploadResource(t, "Do skasowania", folder.ID, "bye")
	require.Equal(t, http.StatusCreated, rr.Code)
	var resource models.Resource
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resource))

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/resources/%s", resource.ID), nil)
	req = withURLParam(req, "resourceId", resource.ID)
	del := httptest.NewRecorder()
	http.HandlerFunc(testServer.DeleteResourceHandler).ServeHTTP(del, authed(req))
	require.Equal(t, http.StatusNoContent, del.Code)

	// The blob is gone with the record.
	_, err := testServer.storage.Get(resource.ID)
	require.Error(t, err)
}

func TestAPI_DeleteFolderWithResourceRejected(t *testing.T) {
	folder := createFolderAPI(t, "Zasoby Blokada", nil)

	rr := uploadResource(t, "Blokuje kasowanie", folder.ID, "x")
	require.Equal(t, http.StatusCreated, rr.Code)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/folders/%s", folder.ID), nil)
	req = withURLParam(req, "folderId", folder.ID)
	del := httptest.NewRecorder()
	http.HandlerFunc(testServer.DeleteFolderHandler).ServeHTTP(del, authed(req))
	require.Equal(t, http.StatusBadRequest, del.Code)
}
