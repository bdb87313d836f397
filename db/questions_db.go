package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quizforge/trivia-api/models"
	"github.com/quizforge/trivia-api/utils"
)

func (db *DB) GetQuestionByID(id int) (*models.Question, error) {
	return getQuestionByID(db, id)
}

func getQuestionByID(q rowQuerier, id int) (*models.Question, error) {
	var question models.Question
	var choicesJSON string

	err := q.QueryRow(`
		SELECT id, quiz_id, question_text, choices, correct_answer_index,
		       explanation, category, difficulty, image
		FROM questions WHERE id = ?
	`, id).Scan(&question.ID, &question.QuizID, &question.QuestionText, &choicesJSON,
		&question.CorrectAnswerIndex, &question.Explanation, &question.Category,
		&question.Difficulty, &question.Image)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("Question ID %d not found", id)
			return nil, ErrQuestionNotFound
		}
		utils.LogError("GetQuestionByID(%d) failed: %v", id, err)
		return nil, err
	}

	if err := json.Unmarshal([]byte(choicesJSON), &question.Choices); err != nil {
		utils.LogError("Failed to unmarshal choices for question %d: %v", id, err)
		return nil, err
	}

	return &question, nil
}

func (db *DB) GetQuestionsByQuizID(quizID int) ([]models.Question, error) {
	utils.LogDB("Getting questions for quiz %d", quizID)
	start := time.Now()

	rows, err := db.Query(`
		SELECT id, quiz_id, question_text, choices, correct_answer_index,
		       explanation, category, difficulty, image
		FROM questions WHERE quiz_id = ?
	`, quizID)
	if err != nil {
		utils.LogError("GetQuestionsByQuizID(%d) query failed: %v", quizID, err)
		return nil, err
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		var choicesJSON string

		err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionText, &choicesJSON,
			&q.CorrectAnswerIndex, &q.Explanation, &q.Category, &q.Difficulty, &q.Image)
		if err != nil {
			utils.LogError("Failed to scan question row: %v", err)
			return nil, err
		}

		if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
			utils.LogError("Failed to unmarshal choices for question %d: %v", q.ID, err)
			return nil, err
		}

		questions = append(questions, q)
	}

	duration := time.Since(start)
	utils.LogDB("GetQuestionsByQuizID(%d) completed: %d questions in %v",
		quizID, len(questions), duration)
	return questions, rows.Err()
}

func (db *DB) DeleteQuestion(id int) error {
	utils.LogDB("Deleting question ID %d", id)

	result, err := db.Exec("DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		utils.LogError("Failed to delete question %d: %v", id, err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		utils.LogDB("DeleteQuestion(%d): no rows affected", id)
		return ErrQuestionNotFound
	}

	return nil
}

// ImportQuestions inserts a batch of candidate questions, each against its
// own quiz, collecting per-record failures by input index instead of
// aborting the batch. Records that pass validation are committed together
// at the end; an invalid record never rolls back its predecessors.
func (db *DB) ImportQuestions(candidates []models.QuestionImport) (*models.ImportResult, error) {
	utils.LogImport("Starting import of %d questions", len(candidates))
	start := time.Now()

	result := &models.ImportResult{
		Results: []models.Question{},
	}

	tx, err := db.Begin()
	if err != nil {
		utils.LogError("Failed to start import transaction: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO questions (quiz_id, question_text, choices, correct_answer_index,
		                       explanation, category, difficulty, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		utils.LogError("Failed to prepare import statement: %v", err)
		return nil, err
	}
	defer stmt.Close()

	for i, q := range candidates {
		if fields := q.MissingFields(true); len(fields) > 0 {
			failure := models.ImportFailure{
				Index:  i,
				Error:  (&ValidationError{Fields: fields, Index: i}).Error(),
				Fields: fields,
			}
			utils.LogImport("SKIP %d/%d: %s", i+1, len(candidates), failure.Error)
			result.Errors = append(result.Errors, failure)
			continue
		}

		if *q.CorrectAnswerIndex < 0 || *q.CorrectAnswerIndex >= len(q.Choices) {
			failure := models.ImportFailure{
				Index: i,
				Error: fmt.Sprintf("correct_answer_index %d out of range for %d choices",
					*q.CorrectAnswerIndex, len(q.Choices)),
			}
			utils.LogImport("SKIP %d/%d: %s", i+1, len(candidates), failure.Error)
			result.Errors = append(result.Errors, failure)
			continue
		}

		var quizID int
		err := tx.QueryRow("SELECT id FROM quiz WHERE id = ?", q.QuizID).Scan(&quizID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				utils.LogError("Quiz existence check failed for quiz %d: %v", q.QuizID, err)
				return nil, err
			}
			failure := models.ImportFailure{
				Index:  i,
				Error:  fmt.Sprintf("Quiz with ID %d not found", q.QuizID),
				QuizID: q.QuizID,
			}
			utils.LogImport("SKIP %d/%d: %s", i+1, len(candidates), failure.Error)
			result.Errors = append(result.Errors, failure)
			continue
		}

		choicesJSON, err := json.Marshal(q.Choices)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal choices: %w", err)
		}

		insertResult, err := stmt.Exec(q.QuizID, q.QuestionText, string(choicesJSON),
			*q.CorrectAnswerIndex, q.Explanation, q.Category, q.Difficulty, q.Image)
		if err != nil {
			utils.LogError("Question insert failed at index %d: %v", i, err)
			return nil, err
		}

		id, err := insertResult.LastInsertId()
		if err != nil {
			utils.LogError("Failed to get question LastInsertId: %v", err)
			return nil, err
		}

		// Read back inside the transaction so choices come out deserialized
		// exactly as stored.
		stored, err := getQuestionByID(tx, int(id))
		if err != nil {
			return nil, err
		}

		result.Results = append(result.Results, *stored)
		result.TotalAdded++
	}

	if err := tx.Commit(); err != nil {
		utils.LogError("Failed to commit import transaction: %v", err)
		return nil, err
	}

	result.TotalErrors = len(result.Errors)
	result.Success = result.TotalAdded > 0 || len(candidates) == 0

	duration := time.Since(start)
	utils.LogImport("Import completed: %d added, %d errors in %v",
		result.TotalAdded, result.TotalErrors, duration)

	return result, nil
}

// CreateQuizWithQuestions creates a quiz and all of its questions in one
// transaction. Unlike ImportQuestions this is all-or-nothing: every
// question is validated up front and any insert failure rolls back the
// quiz row too.
func (db *DB) CreateQuizWithQuestions(req models.CreateQuizWithQuestionsRequest) (*models.CreateQuizWithQuestionsResult, error) {
	utils.LogDB("Creating quiz '%s' with %d questions", req.Quiz.Name, len(req.Questions))
	start := time.Now()

	if missing := req.Quiz.MissingFields(); len(missing) > 0 {
		return nil, NewValidationError(missing...)
	}
	for i, q := range req.Questions {
		if fields := q.MissingFields(false); len(fields) > 0 {
			return nil, &ValidationError{Fields: fields, Index: i}
		}
		if *q.CorrectAnswerIndex < 0 || *q.CorrectAnswerIndex >= len(q.Choices) {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("correct_answer_index %d out of range for %d choices",
					*q.CorrectAnswerIndex, len(q.Choices)),
				Index: i,
			}
		}
	}

	tx, err := db.Begin()
	if err != nil {
		utils.LogError("Failed to start transaction: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	createdAt := time.Now().Format("2006-01-02")
	quizInsert, err := tx.Exec(`
		INSERT INTO quiz (name, description, image, category, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, req.Quiz.Name, req.Quiz.Description, req.Quiz.Image, req.Quiz.Category,
		req.Quiz.Difficulty, createdAt)
	if err != nil {
		utils.LogError("Quiz insert failed: %v", err)
		return nil, err
	}

	quizID, err := quizInsert.LastInsertId()
	if err != nil {
		return nil, err
	}

	questions := []models.Question{}
	for _, q := range req.Questions {
		choicesJSON, err := json.Marshal(q.Choices)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal choices: %w", err)
		}

		questionInsert, err := tx.Exec(`
			INSERT INTO questions (quiz_id, question_text, choices, correct_answer_index,
			                       explanation, category, difficulty, image)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, quizID, q.QuestionText, string(choicesJSON), *q.CorrectAnswerIndex,
			q.Explanation, q.Category, q.Difficulty, q.Image)
		if err != nil {
			utils.LogError("Question insert failed, rolling back quiz: %v", err)
			return nil, err
		}

		questionID, err := questionInsert.LastInsertId()
		if err != nil {
			return nil, err
		}

		stored, err := getQuestionByID(tx, int(questionID))
		if err != nil {
			return nil, err
		}
		questions = append(questions, *stored)
	}

	quiz, err := getQuizByID(tx, int(quizID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		utils.LogError("Failed to commit quiz-with-questions transaction: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Quiz %d created with %d questions in %v", quiz.ID, len(questions), duration)

	return &models.CreateQuizWithQuestionsResult{
		Success:        true,
		Quiz:           *quiz,
		Questions:      questions,
		TotalQuestions: len(questions),
	}, nil
}
