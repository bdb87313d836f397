package models

// Quiz represents a quiz in the system
type Quiz struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	CreatedAt   string `json:"created_at"`
}

// QuizRequest for creating quizzes
type QuizRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}

// MissingFields returns the names of required quiz fields that are empty.
func (req *QuizRequest) MissingFields() []string {
	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Description == "" {
		missing = append(missing, "description")
	}
	if req.Image == "" {
		missing = append(missing, "image")
	}
	if req.Category == "" {
		missing = append(missing, "category")
	}
	if req.Difficulty == "" {
		missing = append(missing, "difficulty")
	}
	return missing
}

// QuizWithQuestions is a quiz together with all of its questions.
type QuizWithQuestions struct {
	Quiz
	Questions []Question `json:"questions"`
}

// DeleteQuizResult reports the outcome of a cascading quiz delete.
type DeleteQuizResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	QuestionsDeleted int    `json:"questions_deleted"`
}

// CategorySamples groups randomly sampled quizzes per category.
type CategorySamples struct {
	Success            bool              `json:"success"`
	Samples            map[string][]Quiz `json:"samples"`
	TotalCategories    int               `json:"total_categories"`
	QuizzesPerCategory int               `json:"quizzes_per_category"`
}
