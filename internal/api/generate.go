package api

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"studycompanion/internal/models"
	"studycompanion/internal/paper"
	"studycompanion/internal/util"
)

const optionLetters = "ABCD"

var (
	wordRe = regexp.MustCompile(`[A-Za-z][A-Za-z\-]{4,}`)

	fillerOptions = []string{"None of the above", "All of the above", "Not covered in the material"}

	commonWords = map[string]struct{}{
		"about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "because": {}, "before": {},
		"being": {}, "below": {}, "between": {}, "could": {}, "during": {}, "every": {}, "first": {},
		"other": {}, "their": {}, "there": {}, "these": {}, "those": {}, "through": {}, "under": {},
		"until": {}, "where": {}, "which": {}, "while": {}, "would": {}, "should": {}, "within": {},
		"without": {}, "called": {}, "known": {}, "using": {}, "various": {}, "often": {},
		"chapter": {}, "example": {}, "section": {}, "figure": {}, "include": {}, "includes": {},
	}
)

// keyTerms ranks content words by frequency, breaking ties by first appearance.
func keyTerms(chunks []string, limit int) []string {
	type termStat struct {
		term  string
		count int
		first int
	}
	stats := map[string]*termStat{}
	pos := 0
	for _, c := range chunks {
		for _, w := range wordRe.FindAllString(c, -1) {
			low := strings.ToLower(strings.Trim(w, "-"))
			if _, skip := commonWords[low]; skip || len(low) < 5 {
				continue
			}
			if st, ok := stats[low]; ok {
				st.count++
				continue
			}
			stats[low] = &termStat{term: low, count: 1, first: pos}
			pos++
		}
	}
	list := make([]*termStat, 0, len(stats))
	for _, st := range stats {
		list = append(list, st)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count == list[j].count {
			return list[i].first < list[j].first
		}
		return list[i].count > list[j].count
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]string, 0, len(list))
	for _, st := range list {
		out = append(out, st.term)
	}
	return out
}

// orderTerms picks which terms questions are built on. Easy papers lean on the
// most repeated vocabulary, hard ones on the rarer end of the candidate list.
func orderTerms(terms []string, difficulty string) []string {
	out := append([]string(nil), terms...)
	if difficulty == "hard" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func sentences(chunks []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range chunks {
		for _, s := range util.SplitSentences(c) {
			s = strings.TrimSpace(s)
			if len(strings.Fields(s)) < 4 {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func sentenceFor(all []string, term string, used map[int]bool) (string, bool) {
	for i, s := range all {
		if used[i] {
			continue
		}
		if strings.Contains(strings.ToLower(s), term) {
			used[i] = true
			return s, true
		}
	}
	return "", false
}

func blankOut(sentence, term string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	out := re.ReplaceAllString(sentence, "_____")
	if out == sentence {
		out = strings.Replace(strings.ToLower(sentence), term, "_____", 1)
	}
	return util.DisplaySnippet(out, 280)
}

type mcq struct {
	question    string
	options     []string
	answer      string
	answerText  string
	explanation string
}

// buildMCQs makes fill-in-the-blank questions with the correct term rotated
// through positions A to D.
func buildMCQs(chunks []string, n int, difficulty string) []mcq {
	if n <= 0 {
		return nil
	}
	terms := orderTerms(keyTerms(chunks, n*3+3), difficulty)
	all := sentences(chunks)
	used := map[int]bool{}
	out := make([]mcq, 0, min(n, len(terms)))
	for i, term := range terms {
		if len(out) == n {
			break
		}
		s, ok := sentenceFor(all, term, used)
		if !ok {
			continue
		}
		distractors := make([]string, 0, 3)
		for k := 1; k < len(terms) && len(distractors) < 3; k++ {
			d := terms[(i+k)%len(terms)]
			if d != term {
				distractors = append(distractors, d)
			}
		}
		for _, f := range fillerOptions {
			if len(distractors) == 3 {
				break
			}
			distractors = append(distractors, f)
		}
		correct := len(out) % 4
		opts := make([]string, 0, 4)
		for k, d := 0, 0; k < 4; k++ {
			text := term
			if k != correct {
				text = distractors[d]
				d++
			}
			opts = append(opts, fmt.Sprintf("%c) %s", optionLetters[k], text))
		}
		out = append(out, mcq{
			question:    fmt.Sprintf("Which term completes the statement: %q", blankOut(s, term)),
			options:     opts,
			answer:      string(optionLetters[correct]),
			answerText:  opts[correct],
			explanation: util.DisplaySnippet(s, 280),
		})
	}
	return out
}

func buildQuiz(chunks []string, n int, difficulty string) []models.QuizQuestion {
	qs := buildMCQs(chunks, n, difficulty)
	out := make([]models.QuizQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, models.QuizQuestion{
			Question:      q.question,
			Options:       q.options,
			CorrectAnswer: q.answerText,
			Explanation:   q.explanation,
		})
	}
	return out
}

type paperRequest struct {
	SessionID      string   `json:"session_id" binding:"required"`
	Topic          string   `json:"topic" binding:"required"`
	NumQuestions   int      `json:"num_questions" binding:"lte=100"`
	Difficulty     string   `json:"difficulty"`
	IncludeAnswers bool     `json:"include_answers"`
	TestMode       string   `json:"test_mode"`
	QuestionTypes  []string `json:"question_types"`
}

type sectionKind struct {
	kind  string
	name  string
	marks int
}

var (
	sectionMCQ   = sectionKind{"mcq", "Multiple Choice Questions", 1}
	sectionShort = sectionKind{"short_answer", "Short Answer Questions", 2}
	sectionLong  = sectionKind{"long_answer", "Long Answer Questions", 5}
)

func paperSections(mode string, types []string) []sectionKind {
	allowed := map[string]bool{}
	for _, t := range types {
		allowed[t] = true
	}
	pick := func(candidates ...sectionKind) []sectionKind {
		var out []sectionKind
		for _, c := range candidates {
			if allowed[c.kind] {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			return candidates
		}
		return out
	}
	switch mode {
	case "theory":
		return pick(sectionShort, sectionLong)
	case "hybrid":
		return pick(sectionMCQ, sectionShort, sectionLong)
	default:
		return []sectionKind{sectionMCQ}
	}
}

// splitCount spreads n questions over k sections, earlier sections taking the remainder.
func splitCount(n, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = n / k
		if i < n%k {
			out[i]++
		}
	}
	return out
}

func buildPaper(chunks []string, req paperRequest) models.QuestionPaper {
	kinds := paperSections(req.TestMode, req.QuestionTypes)
	counts := splitCount(req.NumQuestions, len(kinds))

	relevant := util.TopChunks(chunks, req.Topic, 10)
	terms := orderTerms(keyTerms(relevant, req.NumQuestions*2+4), req.Difficulty)
	all := sentences(relevant)
	used := map[int]bool{}

	p := models.QuestionPaper{Success: true, Title: "Question Paper - " + req.Topic}
	for i, k := range kinds {
		sec := models.Section{Name: k.name, MarksPerQuestion: models.Int(k.marks)}
		if len(kinds) > 1 {
			sec.Name = fmt.Sprintf("Section %c - %s", 'A'+i, k.name)
		}
		switch k.kind {
		case "mcq":
			for j, q := range buildMCQs(relevant, counts[i], req.Difficulty) {
				item := models.Question{Number: models.Int(j + 1), Question: q.question, Options: q.options}
				if req.IncludeAnswers {
					item.Answer = q.answer
				}
				sec.Questions = append(sec.Questions, item)
			}
		default:
			for j := 0; j < counts[i] && j < len(terms); j++ {
				term := terms[(j+i)%len(terms)]
				item := models.Question{Number: models.Int(j + 1)}
				if k.kind == "short_answer" {
					item.Question = fmt.Sprintf("Define %q as used in the material on %s.", term, req.Topic)
				} else {
					item.Question = fmt.Sprintf("Explain the role of %q in %s, with examples from the material.", term, req.Topic)
				}
				if req.IncludeAnswers {
					if s, ok := sentenceFor(all, term, used); ok {
						item.Answer = util.DisplaySnippet(s, 400)
					}
				}
				sec.Questions = append(sec.Questions, item)
			}
		}
		if len(sec.Questions) == 0 {
			continue
		}
		p.TotalMarks += k.marks * len(sec.Questions)
		p.Sections = append(p.Sections, sec)
	}

	p.Duration = paper.FormatDuration(p.QuestionCount())
	if len(kinds) == 1 && kinds[0] == sectionMCQ {
		p.Instructions = "Choose the correct answer for each question. Each question carries 1 mark."
	} else {
		p.Instructions = "Answer all questions. Marks for each question are shown in the section heading."
	}
	return p
}
