package db

import (
	"path/filepath"
	"testing"

	"github.com/quizforge/trivia-api/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func validQuizRequest() models.QuizRequest {
	return models.QuizRequest{
		Name:        "Capitals",
		Description: "Test your knowledge of capital cities",
		Image:       "https://example.com/capitals.jpg",
		Category:    "Geography",
		Difficulty:  "Medium",
	}
}

func intPtr(v int) *int {
	return &v
}

func validQuestionImport(quizID int) models.QuestionImport {
	return models.QuestionImport{
		QuizID:             quizID,
		QuestionText:       "What is the capital of France?",
		Choices:            []string{"Paris", "London", "Berlin", "Madrid"},
		CorrectAnswerIndex: intPtr(0),
		Explanation:        "Paris is the capital and largest city of France.",
		Category:           "Geography",
		Difficulty:         "Medium",
		Image:              "https://example.com/paris.jpg",
	}
}
