package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"studycompanion/internal/models"
)

const paperBody = `{
	"success": true,
	"title": "Question Paper - Cells",
	"total_marks": 2,
	"duration": "4 minutes",
	"instructions": "Choose the correct answer for each question. Each question carries 1 mark.",
	"sections": [{
		"name": "Multiple Choice Questions",
		"marks_per_question": 1,
		"questions": [
			{"number": 1, "question": "Which organelle makes ATP?", "options": ["A) Nucleus", "B) Mitochondria"], "answer": "B"},
			{"question": "Define osmosis."}
		]
	}]
}`

func TestGenerateQuestionPaperDefaults(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, paperBody)
	paper, err := c.GenerateQuestionPaper(context.Background(), "sid", PaperOptions{Topic: "x"})
	require.NoError(t, err)

	require.Equal(t, "/teacher/generate-paper", seen.all()[0].path)
	require.JSONEq(t, `{
		"session_id": "sid",
		"topic": "x",
		"num_questions": 10,
		"difficulty": "medium",
		"include_answers": false,
		"test_mode": "mcq",
		"question_types": ["mcq", "short_answer", "long_answer"]
	}`, string(seen.all()[0].body))

	require.Equal(t, 2, paper.TotalMarks)
	require.Equal(t, 2, paper.QuestionCount())
	sec := paper.Sections[0]
	require.Equal(t, models.Int(1), sec.MarksPerQuestion)
	require.Equal(t, models.Int(1), sec.Questions[0].Number)
	require.Nil(t, sec.Questions[1].Number)
	require.Empty(t, sec.Questions[1].Options)
}

func TestGenerateQuestionPaperOverrides(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, paperBody)
	_, err := c.GenerateQuestionPaper(context.Background(), "sid", PaperOptions{
		Topic:          "Genetics",
		NumQuestions:   20,
		Difficulty:     "hard",
		IncludeAnswers: true,
		TestMode:       "hybrid",
		QuestionTypes:  []string{"long_answer"},
	})
	require.NoError(t, err)
	body := decodeBody(t, seen.all()[0].body)
	require.Equal(t, float64(20), body["num_questions"])
	require.Equal(t, "hard", body["difficulty"])
	require.Equal(t, true, body["include_answers"])
	require.Equal(t, "hybrid", body["test_mode"])
	require.Equal(t, []any{"long_answer"}, body["question_types"])
}

func TestGenerateQuestionPaperEmptyTypesSentAsEmpty(t *testing.T) {
	c, seen := newTestServer(t, http.StatusOK, paperBody)
	_, err := c.GenerateQuestionPaper(context.Background(), "sid", PaperOptions{Topic: "x", QuestionTypes: []string{}})
	require.NoError(t, err)
	body := decodeBody(t, seen.all()[0].body)
	require.Equal(t, []any{}, body["question_types"])
}

func TestGenerateQuestionPaperSendsUncheckedOptions(t *testing.T) {
	c, seen := newTestServer(t, http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","topic"],"msg":"Field required","type":"required"}]}`)
	odd := []PaperOptions{
		{},
		{Topic: "x", NumQuestions: -5},
		{Topic: "x", NumQuestions: 150},
		{Topic: "x", Difficulty: "expert"},
		{Topic: "x", TestMode: "essay"},
	}
	for _, o := range odd {
		_, err := c.GenerateQuestionPaper(context.Background(), "sid", o)
		require.EqualError(t, err, "Field required", "%+v", o)
		require.True(t, IsStatus(err, http.StatusUnprocessableEntity))
		require.Equal(t, KindInvalid, Classify(err))
	}
	reqs := seen.all()
	require.Len(t, reqs, len(odd))
	require.Equal(t, float64(-5), decodeBody(t, reqs[1].body)["num_questions"])
	require.Equal(t, float64(150), decodeBody(t, reqs[2].body)["num_questions"])
	require.Equal(t, "expert", decodeBody(t, reqs[3].body)["difficulty"])
	require.Equal(t, "essay", decodeBody(t, reqs[4].body)["test_mode"])
}

func TestGenerateQuestionPaperServerDetail(t *testing.T) {
	c, _ := newTestServer(t, http.StatusNotFound, `{"detail":"Session not found. Please upload topic material first."}`)
	_, err := c.GenerateQuestionPaper(context.Background(), "sid", PaperOptions{Topic: "x"})
	require.EqualError(t, err, "Session not found. Please upload topic material first.")
}
