package database

import (
	"context"
	"errors"
	"time"

	"studyshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrPostNotFound = errors.New("post not found")
var ErrAlreadyLiked = errors.New("this post is already liked by the user")

type CreatePostParams struct {
	ID       string
	AuthorID int64
	Title    string
	Content  string
	Category string
	Tags     []string
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (*models.Post, error) {
	query := `
		INSERT INTO posts (id, author_id, title, content, category, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, author_id, title, content, category, tags, created_at, updated_at
	`

	tags := arg.Tags
	if tags == nil {
		tags = []string{}
	}

	var post models.Post
	err := q.db.QueryRow(ctx, query, arg.ID, arg.AuthorID, arg.Title, arg.Content, arg.Category, tags, time.Now()).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Category,
		&post.Tags,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// PostSummary is a feed entry: the post plus its author name and
// like/comment totals.
type PostSummary struct {
	models.Post
	AuthorName   string `json:"author_name"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}

func (q *Queries) ListPosts(ctx context.Context, limit int, offset int) ([]PostSummary, error) {
	query := `
		SELECT
			p.id, p.author_id, p.title, p.content, p.category, p.tags, p.created_at, p.updated_at,
			u.username AS author_name,
			(SELECT count(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
			(SELECT count(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
		FROM posts p
		JOIN users u ON p.author_id = u.id
		ORDER BY p.created_at DESC LIMIT $1 OFFSET $2
	`
	rows, err := q.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []PostSummary
	for rows.Next() {
		var post PostSummary
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Content, &post.Category, &post.Tags,
			&post.CreatedAt, &post.UpdatedAt,
			&post.AuthorName, &post.LikeCount, &post.CommentCount,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if posts == nil {
		return []PostSummary{}, nil
	}

	return posts, nil
}

func (q *Queries) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, author_id, title, content, category, tags, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	var post models.Post
	err := q.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Category,
		&post.Tags,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

func (q *Queries) DeletePost(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM posts WHERE id = $1`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

type CreateCommentParams struct {
	ID       string
	PostID   string
	AuthorID int64
	Content  string
}

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (*models.Comment, error) {
	query := `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, post_id, author_id, content, created_at
	`
	var comment models.Comment
	err := q.db.QueryRow(ctx, query, arg.ID, arg.PostID, arg.AuthorID, arg.Content, time.Now()).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &comment, nil
}

func (q *Queries) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at
	`
	rows, err := q.db.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if comments == nil {
		return []models.Comment{}, nil
	}

	return comments, nil
}

func (q *Queries) AddPostLike(ctx context.Context, postID string, userID int64) error {
	query := `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`
	_, err := q.db.Exec(ctx, query, postID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyLiked
		}
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrPostNotFound
		}
		return err
	}

	return nil
}

func (q *Queries) RemovePostLike(ctx context.Context, postID string, userID int64) (bool, error) {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	res, err := q.db.Exec(ctx, query, postID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) CountPostLikes(ctx context.Context, postID string) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM post_likes WHERE post_id = $1`
	err := q.db.QueryRow(ctx, query, postID).Scan(&count)
	return count, err
}
