package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"bboard/internal/models"
)

var (
	// ErrUserNotFound is returned when no user matches the given username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// FindUserByUsername looks up a user by exact username.
func (db *DB) FindUserByUsername(username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`

	user := &models.User{}
	err := db.QueryRow(db.rebind(query), username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user and returns its id. Username uniqueness
// is checked first; if a concurrent registration wins the race between
// check and insert, the unique index fires and the constraint error is
// mapped back to ErrUsernameTaken.
func (db *DB) CreateUser(username, passwordHash string) (int, error) {
	var exists int
	err := db.QueryRow(db.rebind(`SELECT 1 FROM users WHERE username = ?`), username).Scan(&exists)
	if err == nil {
		return 0, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check username: %w", err)
	}

	query := `INSERT INTO users (username, password_hash, created_at)
			  VALUES (?, ?, ?) RETURNING id`

	var id int
	err = db.QueryRow(db.rebind(query), username, passwordHash, time.Now().UTC()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// isUniqueViolation reports whether err is a unique-constraint error
// from either supported driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}

	return false
}
