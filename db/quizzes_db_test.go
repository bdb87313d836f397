package db

import (
	"errors"
	"testing"
	"time"

	"github.com/quizforge/trivia-api/models"
)

func TestCreateQuizAndGetByID(t *testing.T) {
	database := newTestDB(t)

	req := validQuizRequest()
	created, err := database.CreateQuiz(req)
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id, got 0")
	}
	if created.Name != req.Name || created.Description != req.Description ||
		created.Image != req.Image || created.Category != req.Category ||
		created.Difficulty != req.Difficulty {
		t.Fatalf("created quiz does not match request: %+v", created)
	}
	if created.CreatedAt != time.Now().Format("2006-01-02") {
		t.Fatalf("expected day-granularity created_at, got %q", created.CreatedAt)
	}

	got, err := database.GetQuizByID(created.ID)
	if err != nil {
		t.Fatalf("GetQuizByID failed: %v", err)
	}
	if *got != *created {
		t.Fatalf("read-back mismatch: got %+v want %+v", got, created)
	}
}

func TestCreateQuizMissingFields(t *testing.T) {
	database := newTestDB(t)

	req := validQuizRequest()
	req.Image = ""
	req.Difficulty = ""

	_, err := database.CreateQuiz(req)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Fields) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", validationErr.Fields)
	}

	quizzes, err := database.GetAllQuizzes("")
	if err != nil {
		t.Fatalf("GetAllQuizzes failed: %v", err)
	}
	if len(quizzes) != 0 {
		t.Fatalf("validation failure must not persist anything, got %d quizzes", len(quizzes))
	}
}

func TestGetAllQuizzesCategoryFilter(t *testing.T) {
	database := newTestDB(t)

	for _, category := range []string{"Geography", "History", "Geography"} {
		req := validQuizRequest()
		req.Category = category
		if _, err := database.CreateQuiz(req); err != nil {
			t.Fatalf("CreateQuiz failed: %v", err)
		}
	}

	all, err := database.GetAllQuizzes("")
	if err != nil {
		t.Fatalf("GetAllQuizzes failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 quizzes, got %d", len(all))
	}
	// Insertion order preserved
	if all[0].ID > all[1].ID || all[1].ID > all[2].ID {
		t.Fatalf("quizzes not in insertion order: %+v", all)
	}

	geography, err := database.GetAllQuizzes("Geography")
	if err != nil {
		t.Fatalf("GetAllQuizzes with filter failed: %v", err)
	}
	if len(geography) != 2 {
		t.Fatalf("expected 2 Geography quizzes, got %d", len(geography))
	}
	for _, q := range geography {
		if q.Category != "Geography" {
			t.Fatalf("filter returned wrong category: %+v", q)
		}
	}
}

func TestGetCategoriesSorted(t *testing.T) {
	database := newTestDB(t)

	for _, category := range []string{"Science", "Geography", "History", "Geography"} {
		req := validQuizRequest()
		req.Category = category
		if _, err := database.CreateQuiz(req); err != nil {
			t.Fatalf("CreateQuiz failed: %v", err)
		}
	}

	categories, err := database.GetCategories()
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	want := []string{"Geography", "History", "Science"}
	if len(categories) != len(want) {
		t.Fatalf("expected %v, got %v", want, categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, categories)
		}
	}
}

func TestGetCategorySamplesLimit(t *testing.T) {
	database := newTestDB(t)

	for i := 0; i < 5; i++ {
		req := validQuizRequest()
		req.Category = "Geography"
		if _, err := database.CreateQuiz(req); err != nil {
			t.Fatalf("CreateQuiz failed: %v", err)
		}
	}
	historyReq := validQuizRequest()
	historyReq.Category = "History"
	if _, err := database.CreateQuiz(historyReq); err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}

	samples, err := database.GetCategorySamples(2)
	if err != nil {
		t.Fatalf("GetCategorySamples failed: %v", err)
	}
	if samples.TotalCategories != 2 || samples.QuizzesPerCategory != 2 {
		t.Fatalf("unexpected sample envelope: %+v", samples)
	}
	if len(samples.Samples["Geography"]) != 2 {
		t.Fatalf("expected 2 Geography samples, got %d", len(samples.Samples["Geography"]))
	}
	if len(samples.Samples["History"]) != 1 {
		t.Fatalf("expected 1 History sample, got %d", len(samples.Samples["History"]))
	}
	for category, quizzes := range samples.Samples {
		for _, q := range quizzes {
			if q.Category != category {
				t.Fatalf("sample in wrong bucket: %q contains %+v", category, q)
			}
		}
	}
}

func TestDeleteQuizCascade(t *testing.T) {
	database := newTestDB(t)

	quiz, err := database.CreateQuiz(validQuizRequest())
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}

	imports := []models.QuestionImport{
		validQuestionImport(quiz.ID),
		validQuestionImport(quiz.ID),
		validQuestionImport(quiz.ID),
	}
	result, err := database.ImportQuestions(imports)
	if err != nil {
		t.Fatalf("ImportQuestions failed: %v", err)
	}
	if result.TotalAdded != 3 {
		t.Fatalf("expected 3 imported questions, got %d", result.TotalAdded)
	}

	deleted, err := database.DeleteQuizCascade(quiz.ID)
	if err != nil {
		t.Fatalf("DeleteQuizCascade failed: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted questions, got %d", deleted)
	}

	questions, err := database.GetQuestionsByQuizID(quiz.ID)
	if err != nil {
		t.Fatalf("GetQuestionsByQuizID failed: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("cascade left %d questions behind", len(questions))
	}

	if _, err := database.GetQuizByID(quiz.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound after delete, got %v", err)
	}
}

func TestDeleteQuizNotFoundMutatesNothing(t *testing.T) {
	database := newTestDB(t)

	quiz, err := database.CreateQuiz(validQuizRequest())
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}
	if _, err := database.ImportQuestions([]models.QuestionImport{validQuestionImport(quiz.ID)}); err != nil {
		t.Fatalf("ImportQuestions failed: %v", err)
	}

	if _, err := database.DeleteQuizCascade(quiz.ID + 100); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	// The existing quiz and its question survive unchanged
	if _, err := database.GetQuizByID(quiz.ID); err != nil {
		t.Fatalf("existing quiz was mutated: %v", err)
	}
	questions, err := database.GetQuestionsByQuizID(quiz.ID)
	if err != nil {
		t.Fatalf("GetQuestionsByQuizID failed: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 surviving question, got %d", len(questions))
	}
}

func TestGetQuizWithQuestions(t *testing.T) {
	database := newTestDB(t)

	quiz, err := database.CreateQuiz(validQuizRequest())
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}
	if _, err := database.ImportQuestions([]models.QuestionImport{
		validQuestionImport(quiz.ID),
		validQuestionImport(quiz.ID),
	}); err != nil {
		t.Fatalf("ImportQuestions failed: %v", err)
	}

	got, err := database.GetQuizWithQuestions(quiz.ID)
	if err != nil {
		t.Fatalf("GetQuizWithQuestions failed: %v", err)
	}
	if got.ID != quiz.ID || len(got.Questions) != 2 {
		t.Fatalf("unexpected quiz-with-questions: %+v", got)
	}
	for _, q := range got.Questions {
		if q.QuizID != quiz.ID {
			t.Fatalf("question has wrong quiz_id: %+v", q)
		}
		if len(q.Choices) != 4 {
			t.Fatalf("choices not deserialized: %+v", q)
		}
	}

	if _, err := database.GetQuizWithQuestions(quiz.ID + 50); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
