package foldertree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jaevor/go-nanoid"

	"studyshare/internal/database"
	"studyshare/internal/models"
)

// Store is the persistence surface the folder service needs. It is
// implemented by *database.Queries (and therefore by *database.Store).
type Store interface {
	CreateFolder(ctx context.Context, arg database.CreateFolderParams) (*models.Folder, error)
	GetFolderByID(ctx context.Context, id string) (*models.Folder, error)
	FolderExists(ctx context.Context, id string) (bool, error)
	ListAllFolders(ctx context.Context) ([]models.Folder, error)
	GetFoldersByParentID(ctx context.Context, parentID *string) ([]models.Folder, error)
	CountFoldersByParentID(ctx context.Context, parentID string) (int64, error)
	UpdateFolder(ctx context.Context, arg database.UpdateFolderParams) (*models.Folder, error)
	SetFolderParent(ctx context.Context, id string, parentID *string, path []string) (*models.Folder, error)
	SetFolderPath(ctx context.Context, id string, path []string) error
	DeleteFolderIfEmpty(ctx context.Context, id string) (bool, error)
	IsDescendantOf(ctx context.Context, folderID string, potentialDescendant string) (bool, error)
	CountResourcesByFolderID(ctx context.Context, folderID string) (int64, error)
	CountResourcesGroupedByFolder(ctx context.Context) (map[string]int64, error)
	GetResourcesByFolderID(ctx context.Context, folderID string) ([]models.Resource, error)
}

const idLength = 21

// Service owns the folder hierarchy: creation, rename/reorder, move,
// emptiness-guarded deletion and the read-side aggregations (tree
// materialization, recursive counts, folder detail).
type Service struct {
	store  Store
	logger *slog.Logger
	newID  func() string
}

func NewService(store Store, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	generateID, err := nanoid.Standard(idLength)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	return &Service{
		store:  store,
		logger: logger,
		newID:  generateID,
	}, nil
}

func folderTypes() []interface{} {
	return []interface{}{
		models.FolderTypeSemester,
		models.FolderTypeCourse,
		models.FolderTypeTopic,
		models.FolderTypeCustom,
	}
}

type CreateRequest struct {
	Name      string
	Type      string
	ParentID  *string
	Icon      string
	Order     int32
	CreatedBy int64
}

func (r CreateRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.Type, validation.In(folderTypes()...)),
	)
}

// Create adds a folder under the given parent (nil for root). The cached
// path is derived from the parent's current path and name; sibling name
// uniqueness is enforced by the store, not by a pre-check.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Type == "" {
		req.Type = models.FolderTypeCustom
	}
	if req.Icon == "" {
		req.Icon = "📁"
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	path := []string{}
	if req.ParentID != nil {
		parent, err := s.store.GetFolderByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
		path = append(append(path, parent.Path...), parent.Name)
	}

	id, err := s.generateUniqueID(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := s.store.CreateFolder(ctx, database.CreateFolderParams{
		ID:        id,
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  req.ParentID,
		Path:      path,
		Order:     req.Order,
		Icon:      req.Icon,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateFolderName) {
			return nil, ErrDuplicateName
		}
		if errors.Is(err, database.ErrParentFolderMissing) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent", deref(folder.ParentID),
	)

	return folder, nil
}

type UpdateRequest struct {
	Name  *string
	Icon  *string
	Order *int32
}

// Update changes name, icon and/or sort order. A blank name is treated as
// "no change" rather than rejected. Renaming eagerly rewrites the cached
// paths of all descendants.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*models.Folder, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			req.Name = nil
		} else {
			if len([]rune(trimmed)) > 100 {
				return nil, fmt.Errorf("%w: name cannot exceed 100 characters", ErrValidation)
			}
			req.Name = &trimmed
		}
	}

	current, err := s.store.GetFolderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	if req.Name == nil && req.Icon == nil && req.Order == nil {
		return current, nil
	}

	folder, err := s.store.UpdateFolder(ctx, database.UpdateFolderParams{
		ID:    id,
		Name:  req.Name,
		Icon:  req.Icon,
		Order: req.Order,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateFolderName) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	if folder == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil && *req.Name != current.Name {
		if err := s.recomputeDescendantPaths(ctx, folder); err != nil {
			return nil, err
		}
	}

	return folder, nil
}

// Move reparents a folder (nil parent means root). Rejected when the
// target parent is the folder itself or any of its descendants. The moved
// subtree's cached paths are rewritten eagerly.
func (s *Service) Move(ctx context.Context, id string, newParent *string) (*models.Folder, error) {
	if newParent != nil && *newParent == "" {
		newParent = nil
	}

	current, err := s.store.GetFolderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	path := []string{}
	if newParent != nil {
		if *newParent == id {
			return nil, ErrCycle
		}

		parent, err := s.store.GetFolderByID(ctx, *newParent)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}

		isDescendant, err := s.store.IsDescendantOf(ctx, id, *newParent)
		if err != nil {
			return nil, err
		}
		if isDescendant {
			return nil, ErrCycle
		}

		path = append(append(path, parent.Path...), parent.Name)
	}

	folder, err := s.store.SetFolderParent(ctx, id, newParent, path)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateFolderName) {
			return nil, ErrDuplicateName
		}
		if errors.Is(err, database.ErrParentFolderMissing) {
			return nil, ErrParentNotFound
		}
		return nil, err
	}
	if folder == nil {
		return nil, ErrNotFound
	}

	if err := s.recomputeDescendantPaths(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder moved",
		"id", folder.ID,
		"new_parent", deref(folder.ParentID),
	)

	return folder, nil
}

// Delete removes a folder with no direct subfolders and no direct
// resources. The counting pre-checks exist to produce precise errors; the
// delete statement itself re-verifies emptiness, so a concurrent insert
// cannot orphan children.
func (s *Service) Delete(ctx context.Context, id string) error {
	folder, err := s.store.GetFolderByID(ctx, id)
	if err != nil {
		return err
	}
	if folder == nil {
		return ErrNotFound
	}

	subfolders, err := s.store.CountFoldersByParentID(ctx, id)
	if err != nil {
		return err
	}
	if subfolders > 0 {
		return fmt.Errorf("%w: %d direct subfolders, delete or move them first", ErrHasSubfolders, subfolders)
	}

	resources, err := s.store.CountResourcesByFolderID(ctx, id)
	if err != nil {
		return err
	}
	if resources > 0 {
		return fmt.Errorf("%w: %d resources, delete or move them first", ErrHasResources, resources)
	}

	deleted, err := s.store.DeleteFolderIfEmpty(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		// The guarded delete lost a race: either the folder vanished or it
		// gained contents between the pre-checks and the delete.
		exists, err := s.store.FolderExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return fmt.Errorf("%w: folder is no longer empty", ErrHasSubfolders)
	}

	s.logger.Info("folder deleted", "id", id, "name", folder.Name)

	return nil
}

// Get returns a single folder by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Folder, error) {
	folder, err := s.store.GetFolderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, ErrNotFound
	}
	return folder, nil
}

// Children lists direct subfolders of parentID (nil for root), ordered by
// sort order then name.
func (s *Service) Children(ctx context.Context, parentID *string) ([]models.Folder, error) {
	return s.store.GetFoldersByParentID(ctx, parentID)
}

// FolderWithCounts annotates a folder with its recursive totals for
// listing UIs.
type FolderWithCounts struct {
	models.Folder
	ResourceCount  int64 `json:"resource_count"`
	SubfolderCount int64 `json:"subfolder_count"`
}

// ChildrenWithCounts lists direct subfolders, each annotated with the
// recursive resource and subfolder counts of its subtree.
func (s *Service) ChildrenWithCounts(ctx context.Context, parentID *string) ([]FolderWithCounts, error) {
	children, err := s.store.GetFoldersByParentID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, true)
	if err != nil {
		return nil, err
	}

	annotated := make([]FolderWithCounts, 0, len(children))
	for _, child := range children {
		annotated = append(annotated, FolderWithCounts{
			Folder:         child,
			ResourceCount:  snap.resourcesUnder(child.ID),
			SubfolderCount: snap.foldersUnder(child.ID),
		})
	}

	return annotated, nil
}

// CountResourcesRecursive returns the number of resources in the folder
// and every transitive descendant. An unknown id counts as zero.
func (s *Service) CountResourcesRecursive(ctx context.Context, id string) (int64, error) {
	snap, err := s.loadSnapshot(ctx, true)
	if err != nil {
		return 0, err
	}
	return snap.resourcesUnder(id), nil
}

// CountFoldersRecursive returns the number of transitive descendant
// folders, the folder itself excluded.
func (s *Service) CountFoldersRecursive(ctx context.Context, id string) (int64, error) {
	snap, err := s.loadSnapshot(ctx, false)
	if err != nil {
		return 0, err
	}
	return snap.foldersUnder(id), nil
}

// FolderDetail is a folder plus its direct contents: resources newest
// first and subfolders annotated with recursive resource counts.
type FolderDetail struct {
	models.Folder
	Subfolders []FolderWithCounts `json:"subfolders"`
	Resources  []models.Resource  `json:"resources"`
}

func (s *Service) Detail(ctx context.Context, id string) (*FolderDetail, error) {
	folder, err := s.store.GetFolderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, ErrNotFound
	}

	subfolders, err := s.ChildrenWithCounts(ctx, &id)
	if err != nil {
		return nil, err
	}

	resources, err := s.store.GetResourcesByFolderID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &FolderDetail{
		Folder:     *folder,
		Subfolders: subfolders,
		Resources:  resources,
	}, nil
}

func (s *Service) generateUniqueID(ctx context.Context) (string, error) {
	const maxRetries = 10

	for i := 0; i < maxRetries; i++ {
		id := s.newID()
		exists, err := s.store.FolderExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check for folder existence: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
