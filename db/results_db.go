package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizforge/trivia-api/models"
	"github.com/quizforge/trivia-api/utils"
)

// RecordResult appends one quiz attempt for the user identified by email.
// The user must already exist. Score and answers are stored as given; the
// answers mapping only has to be serializable.
func (db *DB) RecordResult(email string, req models.ResultRequest) (*models.RecordResultOutcome, error) {
	utils.LogDB("Recording result for '%s' on quiz %d (score %.2f)", email, req.QuizID, req.Score)
	start := time.Now()

	userID, err := db.GetUserIDByEmail(email)
	if err != nil {
		return nil, err
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	completedAt := time.Now().Format("2006-01-02 15:04:05")
	result, err := db.Exec(`
		INSERT INTO quiz_results (user_id, quiz_id, score, answers, completed_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, req.QuizID, req.Score, string(answersJSON), completedAt)
	if err != nil {
		utils.LogError("RecordResult failed: %v", err)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get result LastInsertId: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Result recorded with ID %d in %v", id, duration)

	return &models.RecordResultOutcome{
		Success:  true,
		Message:  "Quiz result saved successfully",
		ResultID: int(id),
	}, nil
}

// GetUserResults returns every attempt for the user joined with quiz
// metadata, newest first.
func (db *DB) GetUserResults(email string) (*models.UserResults, error) {
	utils.LogDB("Getting results for '%s'", email)
	start := time.Now()

	userID, err := db.GetUserIDByEmail(email)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT qr.id, qr.score, qr.answers, qr.completed_at,
		       q.id, q.name, q.category, q.difficulty
		FROM quiz_results qr
		JOIN quiz q ON qr.quiz_id = q.id
		WHERE qr.user_id = ?
		ORDER BY qr.completed_at DESC
	`, userID)
	if err != nil {
		utils.LogError("GetUserResults query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	results := []models.QuizResult{}
	for rows.Next() {
		var r models.QuizResult
		var answersJSON string

		err := rows.Scan(&r.ResultID, &r.Score, &answersJSON, &r.CompletedAt,
			&r.QuizID, &r.QuizName, &r.Category, &r.Difficulty)
		if err != nil {
			utils.LogError("Failed to scan result row: %v", err)
			return nil, err
		}

		if err := json.Unmarshal([]byte(answersJSON), &r.Answers); err != nil {
			utils.LogError("Failed to unmarshal answers for result %d: %v", r.ResultID, err)
			return nil, err
		}

		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("GetUserResults completed: %d results in %v", len(results), duration)

	return &models.UserResults{
		Email:        email,
		Results:      results,
		TotalResults: len(results),
	}, nil
}

// GetUserStats computes overall and per-category aggregates for the user in
// one read. Nothing is cached or materialized; result volumes are small
// enough to aggregate fresh every time.
func (db *DB) GetUserStats(email string) (*models.UserStats, error) {
	utils.LogDB("Calculating stats for '%s'", email)
	start := time.Now()

	userID, err := db.GetUserIDByEmail(email)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{
		Email:         email,
		CategoryStats: []models.CategoryStat{},
	}

	// COALESCE handles the no-results case where the aggregates are NULL
	err = db.QueryRow(`
		SELECT COUNT(*) as total_quizzes,
		       COALESCE(AVG(score), 0) as average_score,
		       COALESCE(MAX(score), 0) as highest_score,
		       COALESCE(MIN(score), 0) as lowest_score,
		       COUNT(DISTINCT quiz_id) as unique_quizzes
		FROM quiz_results
		WHERE user_id = ?
	`, userID).Scan(&stats.OverallStats.TotalQuizzes, &stats.OverallStats.AverageScore,
		&stats.OverallStats.HighestScore, &stats.OverallStats.LowestScore,
		&stats.OverallStats.UniqueQuizzes)
	if err != nil {
		utils.LogError("Failed to get overall stats: %v", err)
		return nil, err
	}

	rows, err := db.Query(`
		SELECT q.category,
		       COUNT(*) as quizzes_taken,
		       AVG(qr.score) as average_score
		FROM quiz_results qr
		JOIN quiz q ON qr.quiz_id = q.id
		WHERE qr.user_id = ?
		GROUP BY q.category
	`, userID)
	if err != nil {
		utils.LogError("Failed to get category stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cat models.CategoryStat
		if err := rows.Scan(&cat.Category, &cat.QuizzesTaken, &cat.AverageScore); err != nil {
			utils.LogError("Failed to scan category stats: %v", err)
			return nil, err
		}
		stats.CategoryStats = append(stats.CategoryStats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Stats calculated for '%s': %d results across %d categories (%v)",
		email, stats.OverallStats.TotalQuizzes, len(stats.CategoryStats), duration)

	return stats, nil
}
