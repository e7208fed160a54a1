package models

import "time"

type UserType string

const (
	UserStudent UserType = "student"
	UserTeacher UserType = "teacher"
)

// ParseUserType maps anything other than "teacher" to student, matching how the
// upload endpoint is picked.
func ParseUserType(s string) UserType {
	if UserType(s) == UserTeacher {
		return UserTeacher
	}
	return UserStudent
}

type User struct {
	Email   string   `json:"email"`
	Role    UserType `json:"role,omitempty"`
	Subject string   `json:"subject,omitempty"`
	Name    string   `json:"name,omitempty"`
}

type UploadResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id"`
	Filename  string `json:"filename"`
}

type AskResponse struct {
	Success bool     `json:"success"`
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

type QuestionPaper struct {
	Success      bool      `json:"success"`
	Title        string    `json:"title"`
	TotalMarks   int       `json:"total_marks"`
	Duration     string    `json:"duration,omitempty"`
	Instructions string    `json:"instructions"`
	Sections     []Section `json:"sections"`
}

type Section struct {
	Name             string     `json:"name"`
	MarksPerQuestion *int       `json:"marks_per_question,omitempty"`
	Questions        []Question `json:"questions"`
}

type Question struct {
	Number   *int     `json:"number,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`
}

// QuestionCount sums questions over all sections.
func (p QuestionPaper) QuestionCount() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Questions)
	}
	return n
}

type SummaryResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type QuizResponse struct {
	Success bool           `json:"success"`
	Quiz    []QuizQuestion `json:"quiz"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// Int returns a pointer to v, for optional numeric fields.
func Int(v int) *int {
	return &v
}

// Document is uploaded material after text extraction, keyed by the session id
// returned from the upload endpoints.
type Document struct {
	SessionID string    `json:"session_id"`
	Filename  string    `json:"filename"`
	Owner     UserType  `json:"owner"`
	Chunks    []string  `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}
