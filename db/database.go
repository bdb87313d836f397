package db

import (
	"database/sql"
	"fmt"

	"github.com/quizforge/trivia-api/utils"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func InitDB(dbPath string) (*DB, error) {
	utils.LogStartup("Initializing database at: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		utils.LogError("Failed to open database: %v", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		utils.LogError("Failed to ping database: %v", err)
		return nil, err
	}

	utils.LogStartup("Database connection established")

	if err := createTables(db); err != nil {
		utils.LogError("Failed to create tables: %v", err)
		return nil, err
	}

	utils.LogStartup("Database tables initialized successfully")
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Quiz table. created_at holds a day-granularity date string.
		`CREATE TABLE IF NOT EXISTS quiz (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			image TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,

		// Questions table. choices is a JSON array that must round-trip
		// exactly. The foreign key is declared for defense in depth only;
		// quiz existence is checked in code at insert time.
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quiz_id INTEGER NOT NULL,
			question_text TEXT NOT NULL,
			choices TEXT NOT NULL,
			correct_answer_index INTEGER NOT NULL,
			explanation TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			image TEXT NOT NULL,
			FOREIGN KEY (quiz_id) REFERENCES quiz(id)
		)`,

		// Users table, keyed by email as the business key
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			created_at TEXT NOT NULL
		)`,

		// Quiz results table. Append-only; answers is a JSON object.
		// quiz_id carries no foreign key on purpose: results outlive
		// quiz deletion.
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			quiz_id INTEGER NOT NULL,
			score REAL NOT NULL,
			answers TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
	}

	for i, query := range queries {
		utils.LogDB("Creating table %d/%d", i+1, len(queries))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Create indexes for performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_questions_quiz_id ON questions(quiz_id)",
		"CREATE INDEX IF NOT EXISTS idx_quiz_category ON quiz(category)",
		"CREATE INDEX IF NOT EXISTS idx_quiz_results_user_id ON quiz_results(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			utils.LogDB("Failed to create index (non-fatal): %v", err)
		}
	}

	return nil
}
