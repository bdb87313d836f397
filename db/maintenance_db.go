package db

import (
	"time"

	"github.com/quizforge/trivia-api/utils"
)

// SweepOrphanQuestions deletes questions whose quiz no longer exists.
// Quiz existence is checked in code at insert time and cascading deletes
// remove questions atomically, so under normal operation this finds
// nothing; it exists as a periodic safety net behind those checks.
func (db *DB) SweepOrphanQuestions() (int, error) {
	utils.LogDB("Sweeping orphaned questions")
	start := time.Now()

	result, err := db.Exec(`
		DELETE FROM questions
		WHERE quiz_id NOT IN (SELECT id FROM quiz)
	`)
	if err != nil {
		utils.LogError("Orphan question sweep failed: %v", err)
		return 0, err
	}

	deleted, _ := result.RowsAffected()
	duration := time.Since(start)
	utils.LogDB("Orphan question sweep completed: %d removed in %v", deleted, duration)

	return int(deleted), nil
}

// CountDanglingResults counts quiz results whose quiz has been deleted.
// Results are append-only and deliberately survive quiz deletion, so these
// are only reported, never removed.
func (db *DB) CountDanglingResults() (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM quiz_results
		WHERE quiz_id NOT IN (SELECT id FROM quiz)
	`).Scan(&count)
	if err != nil {
		utils.LogError("Dangling result count failed: %v", err)
		return 0, err
	}
	return count, nil
}
