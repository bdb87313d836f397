package models

// User represents a registered quiz taker, keyed by email
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// UserRequest for creating users
type UserRequest struct {
	Email string `json:"email"`
}

// CreateUserResult reports an idempotent user creation. Success is false
// when the email already existed; UserID is valid either way.
type CreateUserResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}
