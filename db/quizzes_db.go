package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/quizforge/trivia-api/models"
	"github.com/quizforge/trivia-api/utils"
)

// rowQuerier is satisfied by both *sql.DB and *sql.Tx so read-backs can
// run inside the transaction that wrote the row.
type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (db *DB) CreateQuiz(req models.QuizRequest) (*models.Quiz, error) {
	utils.LogDB("Creating quiz '%s' in category '%s'", req.Name, req.Category)
	start := time.Now()

	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, NewValidationError(missing...)
	}

	createdAt := time.Now().Format("2006-01-02")

	result, err := db.Exec(`
		INSERT INTO quiz (name, description, image, category, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, req.Name, req.Description, req.Image, req.Category, req.Difficulty, createdAt)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("CreateQuiz failed: %v (%v)", err, duration)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get quiz LastInsertId: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Quiz created with ID %d in %v", id, duration)

	return db.GetQuizByID(int(id))
}

func (db *DB) GetQuizByID(id int) (*models.Quiz, error) {
	return getQuizByID(db, id)
}

func getQuizByID(q rowQuerier, id int) (*models.Quiz, error) {
	var quiz models.Quiz

	err := q.QueryRow(`
		SELECT id, name, description, image, category, difficulty, created_at
		FROM quiz WHERE id = ?
	`, id).Scan(&quiz.ID, &quiz.Name, &quiz.Description, &quiz.Image,
		&quiz.Category, &quiz.Difficulty, &quiz.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("Quiz ID %d not found", id)
			return nil, ErrQuizNotFound
		}
		utils.LogError("GetQuizByID(%d) failed: %v", id, err)
		return nil, err
	}

	return &quiz, nil
}

// GetAllQuizzes returns every quiz in insertion order, restricted to an
// exact category match when category is non-empty.
func (db *DB) GetAllQuizzes(category string) ([]models.Quiz, error) {
	utils.LogDB("Getting quizzes (category filter: %q)", category)
	start := time.Now()

	query := "SELECT id, name, description, image, category, difficulty, created_at FROM quiz"
	var args []interface{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		utils.LogError("GetAllQuizzes query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	quizzes, err := scanQuizzes(rows)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("GetAllQuizzes completed: %d quizzes in %v", len(quizzes), duration)
	return quizzes, nil
}

func scanQuizzes(rows *sql.Rows) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	for rows.Next() {
		var q models.Quiz
		err := rows.Scan(&q.ID, &q.Name, &q.Description, &q.Image,
			&q.Category, &q.Difficulty, &q.CreatedAt)
		if err != nil {
			utils.LogError("Failed to scan quiz row: %v", err)
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// GetCategories returns the distinct quiz categories, sorted lexicographically.
func (db *DB) GetCategories() ([]string, error) {
	utils.LogDB("Getting distinct categories")

	rows, err := db.Query("SELECT DISTINCT category FROM quiz ORDER BY category")
	if err != nil {
		utils.LogError("GetCategories query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			utils.LogError("Failed to scan category row: %v", err)
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// GetCategorySamples returns up to limit quizzes per category, chosen
// uniformly at random. Used for display variety, not for any statistical
// guarantee.
func (db *DB) GetCategorySamples(limit int) (*models.CategorySamples, error) {
	utils.LogDB("Sampling up to %d quizzes per category", limit)
	start := time.Now()

	categories, err := db.GetCategories()
	if err != nil {
		return nil, err
	}

	samples := make(map[string][]models.Quiz, len(categories))
	for _, category := range categories {
		rows, err := db.Query(`
			SELECT id, name, description, image, category, difficulty, created_at
			FROM quiz
			WHERE category = ?
			ORDER BY RANDOM()
			LIMIT ?
		`, category, limit)
		if err != nil {
			utils.LogError("Category sample query failed for %q: %v", category, err)
			return nil, err
		}

		quizzes, err := scanQuizzes(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		samples[category] = quizzes
	}

	duration := time.Since(start)
	utils.LogDB("Category samples completed: %d categories in %v", len(categories), duration)

	return &models.CategorySamples{
		Success:            true,
		Samples:            samples,
		TotalCategories:    len(categories),
		QuizzesPerCategory: limit,
	}, nil
}

// GetQuizWithQuestions returns a quiz and all of its questions, with each
// question's choices deserialized.
func (db *DB) GetQuizWithQuestions(id int) (*models.QuizWithQuestions, error) {
	quiz, err := db.GetQuizByID(id)
	if err != nil {
		return nil, err
	}

	questions, err := db.GetQuestionsByQuizID(id)
	if err != nil {
		return nil, err
	}

	return &models.QuizWithQuestions{
		Quiz:      *quiz,
		Questions: questions,
	}, nil
}

// DeleteQuizCascade removes a quiz and every question referencing it as one
// atomic unit, returning the number of questions removed. The existence
// check runs before the transaction; the race window between check and
// delete is closed by treating the quiz delete's affected-row count as the
// atomicity gate rather than by locking.
func (db *DB) DeleteQuizCascade(id int) (int, error) {
	utils.LogDB("Deleting quiz ID %d with cascade", id)
	start := time.Now()

	var existingID int
	err := db.QueryRow("SELECT id FROM quiz WHERE id = ?", id).Scan(&existingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogDB("DeleteQuizCascade(%d): quiz not found", id)
			return 0, ErrQuizNotFound
		}
		utils.LogError("DeleteQuizCascade(%d) existence check failed: %v", id, err)
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		utils.LogError("Failed to start delete transaction: %v", err)
		return 0, err
	}
	defer tx.Rollback()

	questionResult, err := tx.Exec("DELETE FROM questions WHERE quiz_id = ?", id)
	if err != nil {
		utils.LogError("Failed to delete questions for quiz %d: %v", id, err)
		return 0, err
	}
	questionsDeleted, _ := questionResult.RowsAffected()

	quizResult, err := tx.Exec("DELETE FROM quiz WHERE id = ?", id)
	if err != nil {
		utils.LogError("Failed to delete quiz %d: %v", id, err)
		return 0, err
	}

	rowsAffected, _ := quizResult.RowsAffected()
	if rowsAffected == 0 {
		// Deleted concurrently between the existence check and here. The
		// deferred rollback restores the question rows.
		utils.LogError("DeleteQuizCascade(%d): quiz delete affected no rows, rolling back", id)
		return 0, ErrDeleteFailed
	}

	if err := tx.Commit(); err != nil {
		utils.LogError("Failed to commit quiz delete: %v", err)
		return 0, err
	}

	duration := time.Since(start)
	utils.LogDB("DeleteQuizCascade(%d) completed: %d questions removed in %v",
		id, questionsDeleted, duration)

	return int(questionsDeleted), nil
}
