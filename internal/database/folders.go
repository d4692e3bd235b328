package database

import (
	"context"
	"errors"
	"time"

	"studyshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateFolderName = errors.New("a folder with the same name already exists in this location")
var ErrParentFolderMissing = errors.New("parent folder does not exist")

const folderColumns = "id, name, folder_type, parent_folder, path, sort_order, icon, created_by, created_at, updated_at"

type CreateFolderParams struct {
	ID        string
	Name      string
	Type      string
	ParentID  *string
	Path      []string
	Order     int32
	Icon      string
	CreatedBy int64
}

func (q *Queries) CreateFolder(ctx context.Context, arg CreateFolderParams) (*models.Folder, error) {
	query := `
		INSERT INTO folders (id, name, folder_type, parent_folder, path, sort_order, icon, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + folderColumns

	now := time.Now()
	row := q.db.QueryRow(ctx, query,
		arg.ID,
		arg.Name,
		arg.Type,
		arg.ParentID,
		arg.Path,
		arg.Order,
		arg.Icon,
		arg.CreatedBy,
		now,
	)

	folder, err := scanFolder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateFolderName
		}
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrParentFolderMissing
		}
		return nil, err
	}

	return folder, nil
}

func (q *Queries) GetFolderByID(ctx context.Context, id string) (*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`

	folder, err := scanFolder(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return folder, nil
}

func (q *Queries) FolderExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM folders WHERE id = $1)"
	err := q.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (q *Queries) ListAllFolders(ctx context.Context) ([]models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders ORDER BY sort_order, name`

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFolders(rows)
}

func (q *Queries) GetFoldersByParentID(ctx context.Context, parentID *string) ([]models.Folder, error) {
	var rows pgx.Rows
	var err error

	if parentID == nil {
		query := `SELECT ` + folderColumns + ` FROM folders WHERE parent_folder IS NULL ORDER BY sort_order, name`
		rows, err = q.db.Query(ctx, query)
	} else {
		query := `SELECT ` + folderColumns + ` FROM folders WHERE parent_folder = $1 ORDER BY sort_order, name`
		rows, err = q.db.Query(ctx, query, *parentID)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFolders(rows)
}

func (q *Queries) CountFoldersByParentID(ctx context.Context, parentID string) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM folders WHERE parent_folder = $1`
	err := q.db.QueryRow(ctx, query, parentID).Scan(&count)
	return count, err
}

type UpdateFolderParams struct {
	ID    string
	Name  *string
	Icon  *string
	Order *int32
}

// UpdateFolder changes name, icon and/or sort order. Nil fields are left
// untouched. Returns nil when the folder does not exist.
func (q *Queries) UpdateFolder(ctx context.Context, arg UpdateFolderParams) (*models.Folder, error) {
	query := `
		UPDATE folders
		SET name = COALESCE($2, name),
		    icon = COALESCE($3, icon),
		    sort_order = COALESCE($4, sort_order),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + folderColumns

	now := time.Now()
	folder, err := scanFolder(q.db.QueryRow(ctx, query, arg.ID, arg.Name, arg.Icon, arg.Order, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateFolderName
		}
		return nil, err
	}

	return folder, nil
}

// SetFolderParent reparents a folder and replaces its cached path. Cycle
// checks belong to the caller; this only enforces referential integrity
// and sibling name uniqueness.
func (q *Queries) SetFolderParent(ctx context.Context, id string, parentID *string, path []string) (*models.Folder, error) {
	query := `
		UPDATE folders
		SET parent_folder = $2, path = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + folderColumns

	now := time.Now()
	folder, err := scanFolder(q.db.QueryRow(ctx, query, id, parentID, path, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateFolderName
		}
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrParentFolderMissing
		}
		return nil, err
	}

	return folder, nil
}

func (q *Queries) SetFolderPath(ctx context.Context, id string, path []string) error {
	query := `UPDATE folders SET path = $2, updated_at = $3 WHERE id = $1`
	_, err := q.db.Exec(ctx, query, id, path, time.Now())
	return err
}

// DeleteFolderIfEmpty removes the folder only when it still has no direct
// subfolders and no direct resources at delete time. The emptiness check
// lives inside the statement so a concurrent insert cannot slip between a
// pre-check and the delete.
func (q *Queries) DeleteFolderIfEmpty(ctx context.Context, id string) (bool, error) {
	query := `
		DELETE FROM folders f
		WHERE f.id = $1
		  AND NOT EXISTS (SELECT 1 FROM folders c WHERE c.parent_folder = f.id)
		  AND NOT EXISTS (SELECT 1 FROM resources r WHERE r.folder_id = f.id)
	`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

// IsDescendantOf reports whether potentialDescendant sits in the subtree
// rooted at folderID (a folder counts as its own descendant).
func (q *Queries) IsDescendantOf(ctx context.Context, folderID string, potentialDescendant string) (bool, error) {
	if folderID == potentialDescendant {
		return true, nil
	}

	query := `
		WITH RECURSIVE folder_children AS (
			SELECT id FROM folders WHERE id = $1

			UNION ALL

			SELECT f.id
			FROM folders f
			JOIN folder_children fc ON f.parent_folder = fc.id
		)
		SELECT EXISTS (
			SELECT 1
			FROM folder_children
			WHERE id = $2
		);
	`
	var isDescendant bool
	err := q.db.QueryRow(ctx, query, folderID, potentialDescendant).Scan(&isDescendant)
	return isDescendant, err
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.Type,
		&folder.ParentID,
		&folder.Path,
		&folder.Order,
		&folder.Icon,
		&folder.CreatedBy,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if folders == nil {
		return []models.Folder{}, nil
	}

	return folders, nil
}
