package domain

// Request payloads for create and bulk-import operations. Optional fields
// that must be distinguishable from their zero value are pointers so the
// required-field checks can tell "absent" from "false"/"0".

type UserRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age"`
}

type QuestionRecord struct {
	LessonID      string `json:"lesson_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	CorrectAnswer string `json:"correct_answer"`
	Difficulty    string `json:"difficulty"`
	Page          *int   `json:"page"`
	ImageQuestion string `json:"image_question"`
	ImageAnswer   string `json:"image_answer"`
}

type AnswerRecord struct {
	UserID          string `json:"user_id"`
	QuestionID      string `json:"question_id"`
	StudentAnswer   string `json:"student_answer"`
	IsCorrect       *bool  `json:"is_correct"`
	StartTime       string `json:"start_time"`
	CompletionTime  string `json:"completion_time"`
	DurationSeconds int    `json:"duration_seconds"`
}

type KnowledgeRecord struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Grade       string `json:"grade"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

type KnowledgeLinkRecord struct {
	UserID      string `json:"user_id"`
	KnowledgeID string `json:"knowledge_id"`
	Status      string `json:"status"`
	Progress    *int   `json:"progress"`
}

// TestQuestionInput is one question inside a create-complete-test call:
// the question text, the expected answer, and what the student answered.
type TestQuestionInput struct {
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	StudentAnswer   string `json:"student_answer"`
	IsCorrect       *bool  `json:"is_correct"`
	Points          *int   `json:"points"`
	Difficulty      string `json:"difficulty"`
	ImageQuestion   string `json:"image_question"`
	ImageAnswer     string `json:"image_answer"`
	DurationSeconds int    `json:"duration_seconds"`
}

type CompleteTestInput struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	UserID          string              `json:"user_id"`
	DurationMinutes int                 `json:"duration_minutes"`
	StartTime       string              `json:"start_time"`
	Questions       []TestQuestionInput `json:"questions"`
}
