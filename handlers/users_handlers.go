package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quizforge/trivia-api/db"
	"github.com/quizforge/trivia-api/models"
	"github.com/quizforge/trivia-api/utils"
)

type UserHandlers struct {
	db *db.DB
}

func NewUserHandlers(database *db.DB) *UserHandlers {
	return &UserHandlers{db: database}
}

func (uh *UserHandlers) HandleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		uh.createUser(w, r)
	default:
		utils.LogHTTP("Method %s not allowed for /users", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleUserSubpath dispatches /users/{email}/results and /users/{email}/stats.
func (uh *UserHandlers) HandleUserSubpath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/users/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	email := parts[0]

	switch parts[1] {
	case "results":
		uh.handleUserResults(w, r, email)
	case "stats":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		uh.getUserStats(w, r, email)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (uh *UserHandlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in create user request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := uh.db.CreateUser(req.Email)
	if err != nil {
		utils.LogError("Failed to create user: %v", err)
		writeStorageError(w, err)
		return
	}

	// Duplicate create is not an error: the existing id comes back with 200.
	if result.Success {
		writeJSON(w, http.StatusCreated, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (uh *UserHandlers) handleUserResults(w http.ResponseWriter, r *http.Request, email string) {
	switch r.Method {
	case http.MethodPost:
		uh.recordResult(w, r, email)
	case http.MethodGet:
		uh.getUserResults(w, r, email)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (uh *UserHandlers) recordResult(w http.ResponseWriter, r *http.Request, email string) {
	var req models.ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in record result request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := uh.db.RecordResult(email, req)
	if err != nil {
		utils.LogError("Failed to record result for '%s': %v", email, err)
		writeStorageError(w, err)
		return
	}

	utils.LogHTTP("Recorded result ID %d for '%s'", result.ResultID, email)
	writeJSON(w, http.StatusCreated, result)
}

func (uh *UserHandlers) getUserResults(w http.ResponseWriter, r *http.Request, email string) {
	results, err := uh.db.GetUserResults(email)
	if err != nil {
		utils.LogError("Failed to fetch results for '%s': %v", email, err)
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (uh *UserHandlers) getUserStats(w http.ResponseWriter, r *http.Request, email string) {
	stats, err := uh.db.GetUserStats(email)
	if err != nil {
		utils.LogError("Failed to fetch stats for '%s': %v", email, err)
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
