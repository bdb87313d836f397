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

type QuestionHandlers struct {
	db *db.DB
}

func NewQuestionHandlers(database *db.DB) *QuestionHandlers {
	return &QuestionHandlers{db: database}
}

func (qh *QuestionHandlers) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		qh.importQuestions(w, r)
	default:
		utils.LogHTTP("Method %s not allowed for /questions", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (qh *QuestionHandlers) HandleQuestionByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/questions/")
	id, err := strconv.Atoi(path)
	if err != nil {
		utils.LogHTTP("Invalid question ID: %s", path)
		writeError(w, http.StatusBadRequest, "Invalid question ID")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		qh.deleteQuestion(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// importQuestions is the batch import endpoint. The request body is an
// ordered array of candidate questions; each is inserted or skipped
// independently. The request as a whole only fails when every supplied
// record failed.
func (qh *QuestionHandlers) importQuestions(w http.ResponseWriter, r *http.Request) {
	utils.LogImport("Starting question import process")

	var candidates []models.QuestionImport
	if err := json.NewDecoder(r.Body).Decode(&candidates); err != nil {
		utils.LogError("Invalid JSON in import request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	utils.LogImport("Received import request with %d questions", len(candidates))

	result, err := qh.db.ImportQuestions(candidates)
	if err != nil {
		utils.LogError("Import failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Import failed")
		return
	}

	utils.LogImport("Import completed: %d added, %d errors",
		result.TotalAdded, result.TotalErrors)

	// Per-record failures ride along in a success response. The request as
	// a whole only fails when records were supplied and every one of them
	// was rejected; an empty batch is a trivially successful no-op.
	switch {
	case result.TotalAdded > 0:
		writeJSON(w, http.StatusCreated, result)
	case len(candidates) == 0:
		writeJSON(w, http.StatusOK, result)
	default:
		writeJSON(w, http.StatusBadRequest, result)
	}
}

func (qh *QuestionHandlers) deleteQuestion(w http.ResponseWriter, r *http.Request, id int) {
	if err := qh.db.DeleteQuestion(id); err != nil {
		if errors.Is(err, db.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Question with ID %d not found", id))
			return
		}
		utils.LogError("Failed to delete question ID %d: %v", id, err)
		writeStorageError(w, err)
		return
	}

	utils.LogHTTP("Deleted question ID %d", id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Question with ID %d was deleted successfully", id),
	})
}
