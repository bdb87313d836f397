package models

// ResultRequest records one quiz attempt for a user.
type ResultRequest struct {
	QuizID  int                    `json:"quiz_id"`
	Score   float64                `json:"score"`
	Answers map[string]interface{} `json:"answers"`
}

// RecordResultOutcome is the response to a saved quiz attempt.
type RecordResultOutcome struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ResultID int    `json:"result_id"`
}

// QuizResult is a stored attempt joined with its quiz metadata.
type QuizResult struct {
	ResultID    int                    `json:"result_id"`
	Score       float64                `json:"score"`
	Answers     map[string]interface{} `json:"answers"`
	CompletedAt string                 `json:"completed_at"`
	QuizID      int                    `json:"quiz_id"`
	QuizName    string                 `json:"quiz_name"`
	Category    string                 `json:"category"`
	Difficulty  string                 `json:"difficulty"`
}

// UserResults lists all attempts for one user, newest first.
type UserResults struct {
	Email        string       `json:"email"`
	Results      []QuizResult `json:"results"`
	TotalResults int          `json:"total_results"`
}

// OverallStats aggregates every attempt a user has recorded.
type OverallStats struct {
	TotalQuizzes  int     `json:"total_quizzes"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
	LowestScore   float64 `json:"lowest_score"`
	UniqueQuizzes int     `json:"unique_quizzes"`
}

// CategoryStat aggregates a user's attempts within one quiz category.
type CategoryStat struct {
	Category     string  `json:"category"`
	QuizzesTaken int     `json:"quizzes_taken"`
	AverageScore float64 `json:"average_score"`
}

// UserStats is the full per-user statistics read.
type UserStats struct {
	Email         string         `json:"email"`
	OverallStats  OverallStats   `json:"overall_stats"`
	CategoryStats []CategoryStat `json:"category_stats"`
}
