package quiz

import (
	"fmt"
	"strings"
)

// Question is a single multiple-choice quiz question.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Category      Category `json:"category"`
}

// OptionCount is the number of options every question carries.
const OptionCount = 4

// IsCorrect reports whether choice is the correct option index.
func (q Question) IsCorrect(choice int) bool {
	return choice == q.CorrectAnswer
}

// Category focuses generation on one kind of knowledge.
type Category string

const (
	CategoryBasics       Category = "basics"
	CategoryIntermediate Category = "intermediate"
	CategoryAdvanced     Category = "advanced"
	CategoryPractical    Category = "practical"
	CategoryTheory       Category = "theory"
)

var categories = []Category{
	CategoryBasics,
	CategoryIntermediate,
	CategoryAdvanced,
	CategoryPractical,
	CategoryTheory,
}

// Categories returns all categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Hint describes what the category asks the generator to focus on.
func (c Category) Hint() string {
	switch c {
	case CategoryBasics:
		return "fundamental concepts"
	case CategoryIntermediate:
		return "intermediate level knowledge"
	case CategoryAdvanced:
		return "advanced topics"
	case CategoryPractical:
		return "practical applications"
	case CategoryTheory:
		return "theoretical knowledge"
	}
	return ""
}

// Difficulty is the requested difficulty level. Values other than the
// constants below are passed to the generator unchanged.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Request describes a set of questions to resolve.
type Request struct {
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
	Category   Category   `json:"category"`
}

// Defaults applied to zero-valued Request fields.
const (
	DefaultDifficulty = DifficultyMedium
	DefaultCount      = 3
	DefaultCategory   = CategoryBasics
)

// WithDefaults fills zero-valued fields.
func (r Request) WithDefaults() Request {
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	if r.Count <= 0 {
		r.Count = DefaultCount
	}
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	return r
}

// Source records where a resolved question set came from.
type Source string

const (
	SourceRemote      Source = "remote"
	SourceFallback    Source = "fallback"
	SourcePlaceholder Source = "placeholder"
)

// Result is the detailed outcome of a resolution.
type Result struct {
	Questions []Question
	Source    Source

	// Err is why the remote generator was not used. Nil for remote results.
	Err error
}
