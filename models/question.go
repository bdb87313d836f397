package models

// Question represents a single trivia question belonging to a quiz
type Question struct {
	ID                 int      `json:"id"`
	QuizID             int      `json:"quiz_id"`
	QuestionText       string   `json:"question_text"`
	Choices            []string `json:"choices"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
	Category           string   `json:"category"`
	Difficulty         string   `json:"difficulty"`
	Image              string   `json:"image"`
}

// QuestionImport is one candidate question record in a batch import.
// CorrectAnswerIndex is a pointer so a missing field can be told apart
// from a legitimate index of 0.
type QuestionImport struct {
	QuizID             int      `json:"quiz_id"`
	QuestionText       string   `json:"question_text"`
	Choices            []string `json:"choices"`
	CorrectAnswerIndex *int     `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
	Category           string   `json:"category"`
	Difficulty         string   `json:"difficulty"`
	Image              string   `json:"image"`
}

// MissingFields returns the names of required fields that are absent.
// quiz_id is only required for the batch import path; the
// quiz-with-questions path assigns it from the freshly created quiz.
func (q *QuestionImport) MissingFields(requireQuizID bool) []string {
	var missing []string
	if requireQuizID && q.QuizID == 0 {
		missing = append(missing, "quiz_id")
	}
	if q.QuestionText == "" {
		missing = append(missing, "question_text")
	}
	if len(q.Choices) == 0 {
		missing = append(missing, "choices")
	}
	if q.CorrectAnswerIndex == nil {
		missing = append(missing, "correct_answer_index")
	}
	if q.Explanation == "" {
		missing = append(missing, "explanation")
	}
	if q.Category == "" {
		missing = append(missing, "category")
	}
	if q.Difficulty == "" {
		missing = append(missing, "difficulty")
	}
	if q.Image == "" {
		missing = append(missing, "image")
	}
	return missing
}

// ImportFailure records why one record in a batch import was skipped.
// Index is the position of the record in the original request.
type ImportFailure struct {
	Index  int      `json:"index"`
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
	QuizID int      `json:"quiz_id,omitempty"`
}

// ImportResult is the outcome of a batch question import. Successes and
// failures are reported side by side; the batch is never all-or-nothing.
type ImportResult struct {
	Success     bool            `json:"success"`
	Results     []Question      `json:"results"`
	TotalAdded  int             `json:"total_added"`
	Errors      []ImportFailure `json:"errors,omitempty"`
	TotalErrors int             `json:"total_errors,omitempty"`
}

// CreateQuizWithQuestionsRequest creates a quiz and its questions in one
// atomic operation.
type CreateQuizWithQuestionsRequest struct {
	Quiz      QuizRequest      `json:"quiz"`
	Questions []QuestionImport `json:"questions"`
}

// CreateQuizWithQuestionsResult is the read-back of an atomic
// quiz-with-questions creation.
type CreateQuizWithQuestionsResult struct {
	Success        bool       `json:"success"`
	Quiz           Quiz       `json:"quiz"`
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`
}
