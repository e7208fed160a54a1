package paper

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"studycompanion/internal/models"
)

// FormatDuration allows two minutes per question.
func FormatDuration(questions int) string {
	total := questions * 2
	if total < 60 {
		return fmt.Sprintf("%d minutes", total)
	}
	hours, mins := total/60, total%60
	s := fmt.Sprintf("%d hour", hours)
	if hours > 1 {
		s += "s"
	}
	if mins > 0 {
		s += fmt.Sprintf(" %d mins", mins)
	}
	return s
}

// Number returns the question's own number, or its 1-based position when unset.
func Number(q models.Question, pos int) int {
	if q.Number != nil {
		return *q.Number
	}
	return pos + 1
}

func sectionHeading(s models.Section) string {
	if s.MarksPerQuestion == nil {
		return s.Name
	}
	unit := "marks"
	if *s.MarksPerQuestion == 1 {
		unit = "mark"
	}
	return fmt.Sprintf("%s (%d %s each)", s.Name, *s.MarksPerQuestion, unit)
}

// Render writes a plain-text version of p suitable for a terminal or printing.
func Render(w io.Writer, p models.QuestionPaper) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, p.Title)
	fmt.Fprintln(bw, strings.Repeat("=", len([]rune(p.Title))))
	header := fmt.Sprintf("Total marks: %d", p.TotalMarks)
	if p.Duration != "" {
		header += "    Duration: " + p.Duration
	}
	fmt.Fprintln(bw, header)
	if p.Instructions != "" {
		fmt.Fprintf(bw, "\n%s\n", p.Instructions)
	}
	for _, s := range p.Sections {
		fmt.Fprintf(bw, "\n%s\n", sectionHeading(s))
		for i, q := range s.Questions {
			fmt.Fprintf(bw, "  %d. %s\n", Number(q, i), q.Question)
			for _, opt := range q.Options {
				fmt.Fprintf(bw, "     %s\n", opt)
			}
			if q.Answer != "" {
				fmt.Fprintf(bw, "     Answer: %s\n", q.Answer)
			}
		}
	}
	return bw.Flush()
}
