package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/quizforge/trivia-api/models"
	"github.com/quizforge/trivia-api/utils"
)

// CreateUser is idempotent by email: creating a user that already exists
// returns the existing id instead of erroring or duplicating.
func (db *DB) CreateUser(email string) (*models.CreateUserResult, error) {
	utils.LogDB("Creating user with email '%s'", email)

	if email == "" {
		return nil, NewValidationError("email")
	}

	existing, err := db.GetUserIDByEmail(email)
	if err == nil {
		utils.LogDB("User with email '%s' already exists (ID %d)", email, existing)
		return &models.CreateUserResult{
			Success: false,
			Message: "User already exists",
			UserID:  existing,
		}, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	createdAt := time.Now().Format("2006-01-02 15:04:05")
	result, err := db.Exec(`
		INSERT INTO users (email, created_at)
		VALUES (?, ?)
	`, email, createdAt)
	if err != nil {
		utils.LogError("CreateUser failed: %v", err)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get user LastInsertId: %v", err)
		return nil, err
	}

	utils.LogDB("User created with ID %d", id)
	return &models.CreateUserResult{
		Success: true,
		Message: "User created successfully",
		UserID:  int(id),
	}, nil
}

func (db *DB) GetUserIDByEmail(email string) (int, error) {
	var id int
	err := db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		utils.LogError("GetUserIDByEmail(%s) failed: %v", email, err)
		return 0, err
	}
	return id, nil
}
