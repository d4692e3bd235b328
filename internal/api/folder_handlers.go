package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyshare/internal/foldertree"
)

type CreateFolderRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	ParentFolder *string `json:"parent_folder"`
	Icon         string  `json:"icon"`
	Order        int32   `json:"order"`
}

func (s *Server) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	folder, err := s.folders.Create(r.Context(), foldertree.CreateRequest{
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  req.ParentFolder,
		Icon:      req.Icon,
		Order:     req.Order,
		CreatedBy: claims.UserID,
	})
	if err != nil {
		writeFolderError(w, err)
		return
	}

	s.logEvent(r, "folder.created", map[string]string{"id": folder.ID, "name": folder.Name})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(folder)
}

// ListFoldersHandler returns the children of ?parent= (root when absent),
// annotated with recursive resource and subfolder counts. ?tree=true
// returns the nested forest instead.
func (s *Server) ListFoldersHandler(w http.ResponseWriter, r *http.Request) {
	parentID := parentParam(r)

	if r.URL.Query().Get("tree") == "true" {
		tree, err := s.folders.Tree(r.Context(), parentID)
		if err != nil {
			http.Error(w, "Failed to build folder tree", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tree)
		return
	}

	folders, err := s.folders.ChildrenWithCounts(r.Context(), parentID)
	if err != nil {
		http.Error(w, "Failed to list folders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folders)
}

func (s *Server) FolderTreeHandler(w http.ResponseWriter, r *http.Request) {
	tree, err := s.folders.Tree(r.Context(), parentParam(r))
	if err != nil {
		http.Error(w, "Failed to build folder tree", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tree)
}

func (s *Server) GetFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderId")
	if folderID == "" {
		http.Error(w, "Folder ID is required", http.StatusBadRequest)
		return
	}

	detail, err := s.folders.Detail(r.Context(), folderID)
	if err != nil {
		writeFolderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

type FolderCountResponse struct {
	Count int64 `json:"count"`
}

func (s *Server) CountFolderResourcesHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderId")
	if folderID == "" {
		http.Error(w, "Folder ID is required", http.StatusBadRequest)
		return
	}

	count, err := s.folders.CountResourcesRecursive(r.Context(), folderID)
	if err != nil {
		http.Error(w, "Failed to count resources", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FolderCountResponse{Count: count})
}

type UpdateFolderRequest struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Order *int32  `json:"order"`
}

func (s *Server) UpdateFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderId")

	var req UpdateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	folder, err := s.folders.Update(r.Context(), folderID, foldertree.UpdateRequest{
		Name:  req.Name,
		Icon:  req.Icon,
		Order: req.Order,
	})
	if err != nil {
		writeFolderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folder)
}

type MoveFolderRequest struct {
	ParentFolder *string `json:"parent_folder"`
}

func (s *Server) MoveFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderId")

	var req MoveFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	folder, err := s.folders.Move(r.Context(), folderID, req.ParentFolder)
	if err != nil {
		writeFolderError(w, err)
		return
	}

	s.logEvent(r, "folder.moved", map[string]string{"id": folder.ID})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(folder)
}

func (s *Server) DeleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderId")
	if folderID == "" {
		http.Error(w, "Folder ID is required", http.StatusBadRequest)
		return
	}

	if err := s.folders.Delete(r.Context(), folderID); err != nil {
		writeFolderError(w, err)
		return
	}

	s.logEvent(r, "folder.deleted", map[string]string{"id": folderID})

	w.WriteHeader(http.StatusNoContent)
}

func writeFolderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, foldertree.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, foldertree.ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, foldertree.ErrValidation),
		errors.Is(err, foldertree.ErrParentNotFound),
		errors.Is(err, foldertree.ErrHasSubfolders),
		errors.Is(err, foldertree.ErrHasResources),
		errors.Is(err, foldertree.ErrCycle):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// parentParam reads ?parent= as a nullable folder id. Absent, empty or the
// literal "null" all mean root.
func parentParam(r *http.Request) *string {
	parent := r.URL.Query().Get("parent")
	if parent == "" || parent == "null" {
		return nil
	}
	return &parent
}

func (s *Server) logEvent(r *http.Request, eventType string, payload interface{}) {
	claims := GetUserFromContext(r.Context())
	if claims == nil {
		return
	}
	if err := s.store.LogEvent(r.Context(), claims.UserID, eventType, payload); err != nil {
		log.Printf("WARN: failed to journal event %s: %v", eventType, err)
	}
}
