package api

import (
	"net/http"

	"studyshare/internal/config"
	"studyshare/internal/database"
	"studyshare/internal/foldertree"
	"studyshare/internal/storage"
)

type Server struct {
	config  *config.Config
	store   *database.Store
	storage *storage.LocalStorage
	folders *foldertree.Service
}

func NewServer(cfg *config.Config, store *database.Store, storage *storage.LocalStorage, folders *foldertree.Service) *Server {
	return &Server{
		config:  cfg,
		store:   store,
		storage: storage,
		folders: folders,
	}
}

func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
