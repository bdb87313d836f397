package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizforge/trivia-api/db"
	"github.com/quizforge/trivia-api/utils"
)

// API wrapper to hold all handlers
type API struct {
	quizHandlers     *QuizHandlers
	questionHandlers *QuestionHandlers
	userHandlers     *UserHandlers
}

func NewAPI(database *db.DB) *API {
	return &API{
		quizHandlers:     NewQuizHandlers(database),
		questionHandlers: NewQuestionHandlers(database),
		userHandlers:     NewUserHandlers(database),
	}
}

func NewRouter(database *db.DB) http.Handler {
	api := NewAPI(database)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", healthCheck)

	// Quiz routes
	mux.HandleFunc("/quizzes", api.quizHandlers.HandleQuizzes)
	mux.HandleFunc("/quizzes/", api.quizHandlers.HandleQuizSubpath)

	// Question routes
	mux.HandleFunc("/questions", api.questionHandlers.HandleQuestions)
	mux.HandleFunc("/questions/", api.questionHandlers.HandleQuestionByID)

	// Category routes
	mux.HandleFunc("/categories", api.quizHandlers.GetCategories)

	// User routes
	mux.HandleFunc("/users", api.userHandlers.HandleUsers)
	mux.HandleFunc("/users/", api.userHandlers.HandleUserSubpath)

	return corsMiddleware(loggingMiddleware(mux))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Failed to encode response: %v", err)
	}
}

// writeError sends a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStorageError maps a storage error onto the status taxonomy:
// 400 for validation failures, 404 for unresolved references, 500 for
// anything else.
func writeStorageError(w http.ResponseWriter, err error) {
	var validationErr *db.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrQuizNotFound),
		errors.Is(err, db.ErrQuestionNotFound),
		errors.Is(err, db.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
