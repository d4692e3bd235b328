package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"

	"studyshare/internal/database"
)

func (s *Server) generateResourceID() (string, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return generateID(), nil
}

func (s *Server) ListResourcesHandler(w http.ResponseWriter, r *http.Request) {
	params := database.ListResourcesParams{
		Search: r.URL.Query().Get("search"),
		Limit:  50,
		Offset: 0,
	}

	if folder := r.URL.Query().Get("folder"); folder != "" {
		params.FolderID = &folder
	}
	if featured := r.URL.Query().Get("featured"); featured != "" {
		value := featured == "true"
		params.Featured = &value
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit <= 200 {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset >= 0 {
		params.Offset = offset
	}

	resources, err := s.store.ListResources(r.Context(), params)
	if err != nil {
		http.Error(w, "Failed to list resources", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resources)
}

func (s *Server) UploadResourceHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<30)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = handler.Filename
	}
	if len([]rune(title)) > 200 {
		http.Error(w, "Title cannot exceed 200 characters", http.StatusBadRequest)
		return
	}

	folderID := r.FormValue("folder_id")
	if folderID == "" {
		http.Error(w, "folder_id is required", http.StatusBadRequest)
		return
	}

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	resourceID, err := s.generateResourceID()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sizeBytes, err := s.storage.Save(resourceID, file)
	if err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	mimeType := handler.Header.Get("Content-Type")

	resource, err := s.store.CreateResource(r.Context(), database.CreateResourceParams{
		ID:          resourceID,
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		MimeType:    &mimeType,
		SizeBytes:   &sizeBytes,
		FolderID:    folderID,
		Tags:        tags,
		UploadedBy:  claims.UserID,
	})
	if err != nil {
		// The blob is already on disk; do not leave it orphaned.
		if rmErr := s.storage.Delete(resourceID); rmErr != nil {
			log.Printf("WARN: failed to remove orphaned blob %s: %v", resourceID, rmErr)
		}
		if errors.Is(err, database.ErrResourceFolderMissing) {
			http.Error(w, "Folder does not exist", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create resource record", http.StatusInternalServerError)
		return
	}

	s.logEvent(r, "resource.uploaded", map[string]string{"id": resource.ID, "title": resource.Title})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resource)
}

func (s *Server) DownloadResourceHandler(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "resourceId")
	if resourceID == "" {
		http.Error(w, "Resource ID is required", http.StatusBadRequest)
		return
	}

	resource, err := s.store.GetResourceByID(r.Context(), resourceID)
	if err != nil {
		http.Error(w, "Failed to retrieve resource metadata", http.StatusInternalServerError)
		return
	}
	if resource == nil {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	fileStream, err := s.storage.Get(resource.ID)
	if err != nil {
		http.Error(w, "File not found on storage", http.StatusInternalServerError)
		return
	}
	defer fileStream.Close()

	if err := s.store.IncrementResourceViews(r.Context(), resource.ID); err != nil {
		log.Printf("WARN: failed to bump view count for %s: %v", resource.ID, err)
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+resource.Title+"\"")
	if resource.MimeType != nil && *resource.MimeType != "" {
		w.Header().Set("Content-Type", *resource.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if resource.SizeBytes != nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", *resource.SizeBytes))
	}

	io.Copy(w, fileStream)
}

type UpdateResourceRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Featured    *bool   `json:"featured"`
}

func (s *Server) UpdateResourceHandler(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "resourceId")

	var req UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			http.Error(w, "Title cannot be empty", http.StatusBadRequest)
			return
		}
		req.Title = &trimmed
	}

	resource, err := s.store.UpdateResource(r.Context(), database.UpdateResourceParams{
		ID:          resourceID,
		Title:       req.Title,
		Description: req.Description,
		Featured:    req.Featured,
	})
	if err != nil {
		http.Error(w, "Failed to update resource", http.StatusInternalServerError)
		return
	}
	if resource == nil {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resource)
}

func (s *Server) DeleteResourceHandler(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "resourceId")
	if resourceID == "" {
		http.Error(w, "Resource ID is required", http.StatusBadRequest)
		return
	}

	deleted, err := s.store.DeleteResource(r.Context(), resourceID)
	if err != nil {
		http.Error(w, "Failed to delete resource", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	if err := s.storage.Delete(resourceID); err != nil {
		log.Printf("WARN: failed to delete blob %s: %v", resourceID, err)
	}

	s.logEvent(r, "resource.deleted", map[string]string{"id": resourceID})

	w.WriteHeader(http.StatusNoContent)
}
