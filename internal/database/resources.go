package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"studyshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrResourceFolderMissing = errors.New("resource folder does not exist")

const resourceColumns = "id, title, description, mime_type, size_bytes, folder_id, tags, uploaded_by, views, featured, created_at, updated_at"

type CreateResourceParams struct {
	ID          string
	Title       string
	Description string
	MimeType    *string
	SizeBytes   *int64
	FolderID    string
	Tags        []string
	UploadedBy  int64
}

func (q *Queries) CreateResource(ctx context.Context, arg CreateResourceParams) (*models.Resource, error) {
	query := `
		INSERT INTO resources (id, title, description, mime_type, size_bytes, folder_id, tags, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + resourceColumns

	tags := arg.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	row := q.db.QueryRow(ctx, query,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.MimeType,
		arg.SizeBytes,
		arg.FolderID,
		tags,
		arg.UploadedBy,
		now,
	)

	resource, err := scanResource(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrResourceFolderMissing
		}
		return nil, err
	}

	return resource, nil
}

func (q *Queries) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

	resource, err := scanResource(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return resource, nil
}

// GetResourcesByFolderID returns a folder's direct resources, newest first.
func (q *Queries) GetResourcesByFolderID(ctx context.Context, folderID string) ([]models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE folder_id = $1 ORDER BY created_at DESC`

	rows, err := q.db.Query(ctx, query, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectResources(rows)
}

type ListResourcesParams struct {
	FolderID *string
	Featured *bool
	Search   string
	Limit    int
	Offset   int
}

func (q *Queries) ListResources(ctx context.Context, arg ListResourcesParams) ([]models.Resource, error) {
	var conds []string
	var args []interface{}

	if arg.FolderID != nil {
		args = append(args, *arg.FolderID)
		conds = append(conds, "folder_id = $"+itoa(len(args)))
	}
	if arg.Featured != nil {
		args = append(args, *arg.Featured)
		conds = append(conds, "featured = $"+itoa(len(args)))
	}
	if arg.Search != "" {
		args = append(args, "%"+arg.Search+"%")
		n := itoa(len(args))
		conds = append(conds, "(title ILIKE $"+n+" OR description ILIKE $"+n+")")
	}

	query := `SELECT ` + resourceColumns + ` FROM resources`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, arg.Limit)
	query += " ORDER BY created_at DESC LIMIT $" + itoa(len(args))
	args = append(args, arg.Offset)
	query += " OFFSET $" + itoa(len(args))

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectResources(rows)
}

func (q *Queries) CountResourcesByFolderID(ctx context.Context, folderID string) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM resources WHERE folder_id = $1`
	err := q.db.QueryRow(ctx, query, folderID).Scan(&count)
	return count, err
}

// CountResourcesGroupedByFolder returns direct resource counts for every
// folder that has at least one resource, in a single round-trip.
func (q *Queries) CountResourcesGroupedByFolder(ctx context.Context) (map[string]int64, error) {
	query := `SELECT folder_id, count(*) FROM resources GROUP BY folder_id`

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var folderID string
		var count int64
		if err := rows.Scan(&folderID, &count); err != nil {
			return nil, err
		}
		counts[folderID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

type UpdateResourceParams struct {
	ID          string
	Title       *string
	Description *string
	Featured    *bool
}

func (q *Queries) UpdateResource(ctx context.Context, arg UpdateResourceParams) (*models.Resource, error) {
	query := `
		UPDATE resources
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    featured = COALESCE($4, featured),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + resourceColumns

	resource, err := scanResource(q.db.QueryRow(ctx, query, arg.ID, arg.Title, arg.Description, arg.Featured, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return resource, nil
}

func (q *Queries) IncrementResourceViews(ctx context.Context, id string) error {
	query := `UPDATE resources SET views = views + 1 WHERE id = $1`
	_, err := q.db.Exec(ctx, query, id)
	return err
}

func (q *Queries) DeleteResource(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM resources WHERE id = $1`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) ResourceExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM resources WHERE id = $1)"
	err := q.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var resource models.Resource
	err := row.Scan(
		&resource.ID,
		&resource.Title,
		&resource.Description,
		&resource.MimeType,
		&resource.SizeBytes,
		&resource.FolderID,
		&resource.Tags,
		&resource.UploadedBy,
		&resource.Views,
		&resource.Featured,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func collectResources(rows pgx.Rows) ([]models.Resource, error) {
	var resources []models.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *resource)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if resources == nil {
		return []models.Resource{}, nil
	}

	return resources, nil
}
