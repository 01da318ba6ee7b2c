package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bboard/internal/models"
)

var (
	// ErrPostNotFound is returned when no post matches the given id.
	ErrPostNotFound = errors.New("post not found")
)

// CountPosts returns the total number of posts on the board.
func (db *DB) CountPosts() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

// ListPosts returns one page of posts, newest first.
func (db *DB) ListPosts(offset, limit int) ([]*models.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
			  FROM posts p
			  JOIN users u ON p.author_id = u.id
			  ORDER BY p.created_at DESC, p.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := db.Query(db.rebind(query), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListAllPosts returns every post without pagination, newest first. The
// list and search views hand the full set to the template alongside the
// current page.
func (db *DB) ListAllPosts() ([]*models.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
			  FROM posts p
			  JOIN users u ON p.author_id = u.id
			  ORDER BY p.created_at DESC, p.id DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// GetPost fetches a single post with its author's username.
func (db *DB) GetPost(id int) (*models.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
			  FROM posts p
			  JOIN users u ON p.author_id = u.id
			  WHERE p.id = ?`

	post := &models.Post{}
	err := db.QueryRow(db.rebind(query), id).Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CreatedAt, &post.Author)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetPostOwner returns the author id of a post.
func (db *DB) GetPostOwner(id int) (int, error) {
	var authorID int
	err := db.QueryRow(db.rebind(`SELECT author_id FROM posts WHERE id = ?`), id).Scan(&authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return authorID, nil
}

// CreatePost inserts a new post owned by authorID and returns its id.
func (db *DB) CreatePost(title, content string, authorID int) (int, error) {
	query := `INSERT INTO posts (title, content, author_id, created_at)
			  VALUES (?, ?, ?, ?) RETURNING id`

	var id int
	err := db.QueryRow(db.rebind(query), title, content, authorID, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create post: %w", err)
	}
	return id, nil
}

// UpdatePost rewrites title and content. The author predicate is part of
// the statement so a concurrent owner change cannot slip past the
// ownership check that ran before it.
func (db *DB) UpdatePost(id, authorID int, title, content string) error {
	result, err := db.Exec(
		db.rebind(`UPDATE posts SET title = ?, content = ? WHERE id = ? AND author_id = ?`),
		title, content, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return checkAffected(result)
}

// DeletePost removes a post. Same author predicate as UpdatePost.
func (db *DB) DeletePost(id, authorID int) error {
	result, err := db.Exec(
		db.rebind(`DELETE FROM posts WHERE id = ? AND author_id = ?`), id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return checkAffected(result)
}

// SearchPostsCount returns how many posts match a case-insensitive
// title substring.
func (db *DB) SearchPostsCount(substr string) (int, error) {
	var count int
	err := db.QueryRow(
		db.rebind(`SELECT COUNT(*) FROM posts WHERE LOWER(title) LIKE LOWER(?) ESCAPE '\'`),
		likePattern(substr)).Scan(&count)
	return count, err
}

// SearchPosts returns one page of posts whose title contains substr,
// case-insensitively, newest first.
func (db *DB) SearchPosts(substr string, offset, limit int) ([]*models.Post, error) {
	query := `SELECT p.id, p.title, p.content, p.author_id, p.created_at, u.username
			  FROM posts p
			  JOIN users u ON p.author_id = u.id
			  WHERE LOWER(p.title) LIKE LOWER(?) ESCAPE '\'
			  ORDER BY p.created_at DESC, p.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := db.Query(db.rebind(query), likePattern(substr), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		err := rows.Scan(
			&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CreatedAt, &post.Author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps the search term for LIKE, escaping the wildcard
// characters so the match stays a literal substring.
func likePattern(substr string) string {
	return "%" + likeEscaper.Replace(substr) + "%"
}
