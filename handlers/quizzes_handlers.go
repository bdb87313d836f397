package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/quizforge/trivia-api/db"
	"github.com/quizforge/trivia-api/models"
	"github.com/quizforge/trivia-api/utils"
)

type QuizHandlers struct {
	db *db.DB
}

func NewQuizHandlers(database *db.DB) *QuizHandlers {
	return &QuizHandlers{db: database}
}

func (qh *QuizHandlers) HandleQuizzes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		qh.getQuizzes(w, r)
	case http.MethodPost:
		qh.createQuiz(w, r)
	default:
		utils.LogHTTP("Method %s not allowed for /quizzes", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleQuizSubpath dispatches /quizzes/category-samples,
// /quizzes/with-questions, /quizzes/{id} and /quizzes/{id}/questions.
func (qh *QuizHandlers) HandleQuizSubpath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/quizzes/")

	switch path {
	case "category-samples":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		qh.getCategorySamples(w, r)
		return
	case "with-questions":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		qh.createQuizWithQuestions(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		utils.LogHTTP("Invalid quiz ID: %s", parts[0])
		writeError(w, http.StatusBadRequest, "Invalid quiz ID")
		return
	}

	switch {
	case len(parts) == 1:
		qh.handleQuizByID(w, r, id)
	case len(parts) == 2 && parts[1] == "questions":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		qh.getQuizQuestions(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (qh *QuizHandlers) handleQuizByID(w http.ResponseWriter, r *http.Request, id int) {
	switch r.Method {
	case http.MethodGet:
		qh.getQuizByID(w, r, id)
	case http.MethodDelete:
		qh.deleteQuiz(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (qh *QuizHandlers) getQuizzes(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	quizzes, err := qh.db.GetAllQuizzes(category)
	if err != nil {
		utils.LogError("Failed to fetch quizzes: %v", err)
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quizzes)
}

func (qh *QuizHandlers) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in create quiz request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	quiz, err := qh.db.CreateQuiz(req)
	if err != nil {
		utils.LogError("Failed to create quiz: %v", err)
		writeStorageError(w, err)
		return
	}

	utils.LogHTTP("Created quiz ID %d", quiz.ID)
	writeJSON(w, http.StatusCreated, quiz)
}

func (qh *QuizHandlers) getQuizByID(w http.ResponseWriter, r *http.Request, id int) {
	quiz, err := qh.db.GetQuizByID(id)
	if err != nil {
		if errors.Is(err, db.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Quiz with ID %d not found", id))
			return
		}
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (qh *QuizHandlers) deleteQuiz(w http.ResponseWriter, r *http.Request, id int) {
	questionsDeleted, err := qh.db.DeleteQuizCascade(id)
	if err != nil {
		if errors.Is(err, db.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Quiz with ID %d not found", id))
			return
		}
		utils.LogError("Failed to delete quiz ID %d: %v", id, err)
		writeStorageError(w, err)
		return
	}

	utils.LogHTTP("Deleted quiz ID %d (%d questions removed)", id, questionsDeleted)
	writeJSON(w, http.StatusOK, models.DeleteQuizResult{
		Success:          true,
		Message:          fmt.Sprintf("Quiz with ID %d was deleted successfully", id),
		QuestionsDeleted: questionsDeleted,
	})
}

func (qh *QuizHandlers) getQuizQuestions(w http.ResponseWriter, r *http.Request, id int) {
	quiz, err := qh.db.GetQuizWithQuestions(id)
	if err != nil {
		if errors.Is(err, db.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Quiz with ID %d not found", id))
			return
		}
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (qh *QuizHandlers) createQuizWithQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuizWithQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in quiz-with-questions request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "Missing or invalid questions array")
		return
	}

	result, err := qh.db.CreateQuizWithQuestions(req)
	if err != nil {
		utils.LogError("Failed to create quiz with questions: %v", err)
		writeStorageError(w, err)
		return
	}

	utils.LogHTTP("Created quiz ID %d with %d questions", result.Quiz.ID, result.TotalQuestions)
	writeJSON(w, http.StatusCreated, result)
}

func (qh *QuizHandlers) getCategorySamples(w http.ResponseWriter, r *http.Request) {
	limit := 3
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	samples, err := qh.db.GetCategorySamples(limit)
	if err != nil {
		utils.LogError("Failed to fetch category samples: %v", err)
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, samples)
}

func (qh *QuizHandlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.LogHTTP("Method %s not allowed for /categories", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	categories, err := qh.db.GetCategories()
	if err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
