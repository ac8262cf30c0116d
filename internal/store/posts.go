// ABOUTME: SQLite operations for posts, likes, and comments
// ABOUTME: Posts are listed newest-first with likes and comments attached

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreatePost inserts a new post.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (id, owner_id, author_name, author_avatar, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.OwnerID,
		post.AuthorName,
		post.AuthorAvatar,
		post.Body,
		formatTime(post.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	s.logger.Debug("created post", "id", post.ID, "owner", post.OwnerID)
	return nil
}

// GetPost retrieves a post by ID with its likes and comments attached.
// Returns ErrNotFound if the post doesn't exist.
func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*Post, error) {
	query := `
		SELECT id, owner_id, author_name, author_avatar, body, created_at
		FROM posts
		WHERE id = ?
	`

	var post Post
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.OwnerID,
		&post.AuthorName,
		&post.AuthorAvatar,
		&post.Body,
		&createdAtStr,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying post: %w", err)
	}

	post.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if post.Likes, err = s.listLikes(ctx, post.ID); err != nil {
		return nil, err
	}
	if post.Comments, err = s.ListComments(ctx, post.ID); err != nil {
		return nil, err
	}

	return &post, nil
}

// ListPosts returns all posts newest-first with likes and comments attached.
func (s *SQLiteStore) ListPosts(ctx context.Context) ([]*Post, error) {
	query := `
		SELECT id, owner_id, author_name, author_avatar, body, created_at
		FROM posts
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	for rows.Next() {
		var post Post
		var createdAtStr string
		if err := rows.Scan(
			&post.ID,
			&post.OwnerID,
			&post.AuthorName,
			&post.AuthorAvatar,
			&post.Body,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		if post.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	for _, post := range posts {
		if post.Likes, err = s.listLikes(ctx, post.ID); err != nil {
			return nil, err
		}
		if post.Comments, err = s.ListComments(ctx, post.ID); err != nil {
			return nil, err
		}
	}

	return posts, nil
}

// DeletePost deletes a post. The owner id is part of the predicate so
// the ownership check and the delete address the same row.
// Returns ErrNotFound if no post matches.
func (s *SQLiteStore) DeletePost(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted post", "id", id, "owner", ownerID)
	return nil
}

// ToggleLike adds the identity's like to the post, or removes it if it
// is already present, inside one transaction. Returns the resulting
// like list newest-first. Returns ErrNotFound if the post doesn't exist.
func (s *SQLiteStore) ToggleLike(ctx context.Context, postID, identityID string) ([]Like, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT count(*) FROM posts WHERE id = ?`, postID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking post: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = ? AND identity_id = ?`, postID, identityID)
	if err != nil {
		return nil, fmt.Errorf("removing like: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}

	if removed == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, identity_id, created_at) VALUES (?, ?, ?)`,
			postID, identityID, formatTime(time.Now()))
		if err != nil {
			return nil, fmt.Errorf("inserting like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing like toggle: %w", err)
	}

	return s.listLikes(ctx, postID)
}

func (s *SQLiteStore) listLikes(ctx context.Context, postID string) ([]Like, error) {
	query := `
		SELECT post_id, identity_id, created_at
		FROM post_likes
		WHERE post_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("querying likes: %w", err)
	}
	defer rows.Close()

	likes := make([]Like, 0)
	for rows.Next() {
		var like Like
		var createdAtStr string
		if err := rows.Scan(&like.PostID, &like.IdentityID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning like: %w", err)
		}
		if like.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating likes: %w", err)
	}

	return likes, nil
}

// AddComment attaches a comment to a post.
// Returns ErrNotFound if the post doesn't exist.
func (s *SQLiteStore) AddComment(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (id, post_id, owner_id, author_name, author_avatar, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.OwnerID,
		comment.AuthorName,
		comment.AuthorAvatar,
		comment.Body,
		formatTime(comment.CreatedAt),
	)
	if err != nil {
		// A missing post surfaces as a foreign key violation
		if isConstraintViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting comment: %w", err)
	}

	s.logger.Debug("added comment", "id", comment.ID, "post", comment.PostID)
	return nil
}

// DeleteComment removes a comment located strictly by its own id within
// the post. Returns ErrNotFound if no comment matches.
func (s *SQLiteStore) DeleteComment(ctx context.Context, postID, commentID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND post_id = ?`, commentID, postID)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted comment", "id", commentID, "post", postID)
	return nil
}

// ListComments returns a post's comments newest-first.
func (s *SQLiteStore) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	query := `
		SELECT id, post_id, owner_id, author_name, author_avatar, body, created_at
		FROM comments
		WHERE post_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	for rows.Next() {
		var comment Comment
		var createdAtStr string
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.OwnerID,
			&comment.AuthorName,
			&comment.AuthorAvatar,
			&comment.Body,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		if comment.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}
