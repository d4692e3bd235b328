package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"

	"studyshare/internal/database"
	"studyshare/internal/models"
)

func (s *Server) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	posts, err := s.store.ListPosts(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Failed to list posts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (s *Server) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len([]rune(req.Title)) > 200 {
		http.Error(w, "Title must be between 1 and 200 characters", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		req.Category = "general"
	}

	generateID, err := nanoid.Standard(21)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	post, err := s.store.CreatePost(r.Context(), database.CreatePostParams{
		ID:       generateID(),
		AuthorID: claims.UserID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	s.logEvent(r, "post.created", map[string]string{"id": post.ID, "title": post.Title})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

type PostDetailResponse struct {
	*models.Post
	LikeCount int64            `json:"like_count"`
	Comments  []models.Comment `json:"comments"`
}

func (s *Server) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")

	post, err := s.store.GetPostByID(r.Context(), postID)
	if err != nil {
		http.Error(w, "Failed to retrieve post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	comments, err := s.store.GetCommentsByPostID(r.Context(), postID)
	if err != nil {
		http.Error(w, "Failed to retrieve comments", http.StatusInternalServerError)
		return
	}

	likes, err := s.store.CountPostLikes(r.Context(), postID)
	if err != nil {
		http.Error(w, "Failed to count likes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PostDetailResponse{
		Post:      post,
		LikeCount: likes,
		Comments:  comments,
	})
}

func (s *Server) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	post, err := s.store.GetPostByID(r.Context(), postID)
	if err != nil {
		http.Error(w, "Failed to retrieve post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	// Authors delete their own posts; admins delete any.
	if post.AuthorID != claims.UserID && claims.Role != models.RoleAdmin {
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
		return
	}

	if _, err := s.store.DeletePost(r.Context(), postID); err != nil {
		http.Error(w, "Failed to delete post", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	generateID, err := nanoid.Standard(21)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	comment, err := s.store.CreateComment(r.Context(), database.CreateCommentParams{
		ID:       generateID(),
		PostID:   postID,
		AuthorID: claims.UserID,
		Content:  req.Content,
	})
	if err != nil {
		if errors.Is(err, database.ErrPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to create comment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// TogglePostLikeHandler likes the post, or removes the caller's existing
// like when one is already present.
func (s *Server) TogglePostLikeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	postID := chi.URLParam(r, "postId")

	liked := true
	err := s.store.AddPostLike(r.Context(), postID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrAlreadyLiked):
			if _, err := s.store.RemovePostLike(r.Context(), postID, claims.UserID); err != nil {
				http.Error(w, "Failed to remove like", http.StatusInternalServerError)
				return
			}
			liked = false
		case errors.Is(err, database.ErrPostNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		default:
			http.Error(w, "Failed to like post", http.StatusInternalServerError)
			return
		}
	}

	count, err := s.store.CountPostLikes(r.Context(), postID)
	if err != nil {
		http.Error(w, "Failed to count likes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LikeResponse{Liked: liked, LikeCount: count})
}
