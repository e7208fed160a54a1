// Package quizboard keeps the teacher's list of quizzes in memory for display.
// Nothing here talks to the API; edits only change what is rendered.
package quizboard

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"studycompanion/internal/models"
)

var ErrQuizNotFound = errors.New("quiz not found")

type QuizSummary struct {
	ID            int
	Title         string
	Subject       string
	QuestionCount int
	Duration      string
	Created       string
	Assigned      bool
}

func (q QuizSummary) Status() string {
	if q.Assigned {
		return "Assigned"
	}
	return "Draft"
}

// Board is an ordered list of quizzes. IDs are assigned on Create and never reused.
type Board struct {
	mu      sync.Mutex
	quizzes []QuizSummary
	nextID  int
}

func New(seed ...QuizSummary) *Board {
	b := &Board{nextID: 1}
	for _, q := range seed {
		b.Create(q)
	}
	return b
}

func NewDemoBoard() *Board {
	return New(
		QuizSummary{Title: "Data Structures Final", Subject: "Computer Science", QuestionCount: 25, Duration: "60 min", Created: "2 days ago"},
		QuizSummary{Title: "Algorithm Analysis", Subject: "Computer Science", QuestionCount: 20, Duration: "45 min", Created: "5 days ago", Assigned: true},
		QuizSummary{Title: "Database Fundamentals", Subject: "Information Systems", QuestionCount: 15, Duration: "30 min", Created: "1 week ago"},
	)
}

func (b *Board) List() []QuizSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]QuizSummary(nil), b.quizzes...)
}

// Create appends q with a fresh ID, ignoring any ID already set.
func (b *Board) Create(q QuizSummary) QuizSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	q.ID = b.nextID
	b.nextID++
	if q.Created == "" {
		q.Created = "just now"
	}
	b.quizzes = append(b.quizzes, q)
	return q
}

// Edit applies fn to the quiz with id. fn cannot change the ID.
func (b *Board) Edit(id int, fn func(*QuizSummary)) (QuizSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return QuizSummary{}, fmt.Errorf("edit %d: %w", id, ErrQuizNotFound)
	}
	fn(&b.quizzes[i])
	b.quizzes[i].ID = id
	return b.quizzes[i], nil
}

func (b *Board) Delete(id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return fmt.Errorf("delete %d: %w", id, ErrQuizNotFound)
	}
	b.quizzes = append(b.quizzes[:i], b.quizzes[i+1:]...)
	return nil
}

func (b *Board) Assign(id int) (QuizSummary, error) {
	return b.Edit(id, func(q *QuizSummary) { q.Assigned = true })
}

func (b *Board) index(id int) int {
	for i, q := range b.quizzes {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// FromPaper summarizes a generated paper as a draft quiz.
func FromPaper(p models.QuestionPaper, subject string) QuizSummary {
	return QuizSummary{
		Title:         p.Title,
		Subject:       subject,
		QuestionCount: p.QuestionCount(),
		Duration:      p.Duration,
	}
}

func (b *Board) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSUBJECT\tQUESTIONS\tDURATION\tCREATED\tSTATUS")
	for _, q := range b.List() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			q.ID, q.Title, q.Subject, q.QuestionCount, dash(q.Duration), q.Created, q.Status())
	}
	return tw.Flush()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
