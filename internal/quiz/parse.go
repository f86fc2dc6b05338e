package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/devtutor/internal/llm"
)

// ErrNoJSONArray is returned when the generated text contains no [...] block.
var ErrNoJSONArray = errors.New("no JSON array in generated text")

// jsonArrayPattern grabs the outermost bracketed span, like a greedy
// `\[[\s\S]*\]`, so prose before or after the array is ignored.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// generatedQuestion is the decoded shape of one generated element. The
// generator's id and category are dropped.
type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// parseQuestions extracts and validates the question array from generated
// text, renumbers ids 1..n and stamps category on every question.
func parseQuestions(text string, category Category) ([]Question, error) {
	raw := jsonArrayPattern.FindString(text)
	if raw == "" {
		return nil, ErrNoJSONArray
	}

	if err := llm.Validate(questionSetSchema, json.RawMessage(raw)); err != nil {
		return nil, err
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]Question, len(generated))
	for i, g := range generated {
		q := Question{
			ID:            i + 1,
			Question:      g.Question,
			Options:       g.Options,
			CorrectAnswer: g.CorrectAnswer,
			Explanation:   g.Explanation,
			Category:      category,
		}
		if err := validateStructure(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions[i] = q
	}
	return questions, nil
}

// validateStructure rejects blank text the schema lets through.
func validateStructure(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("empty question text")
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	return nil
}
