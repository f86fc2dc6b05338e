package quiz

import (
	"fmt"
	"strings"
)

// buildPrompt renders the single user message sent to the generator.
func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice quiz questions about %s at %s difficulty level. ",
		req.Count, req.Topic, req.Difficulty)
	fmt.Fprintf(&b, "The questions should be focused on the %q category, where: ", string(req.Category))

	hints := make([]string, len(categories))
	for i, c := range categories {
		hints[i] = fmt.Sprintf("%s=%s", c, c.Hint())
	}
	b.WriteString(strings.Join(hints, ", "))
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "Each question should have %d options and one correct answer.\n", OptionCount)
	b.WriteString("Format the response as a valid JSON array of objects with the following structure:\n")
	b.WriteString(`[
  {
    "id": 1,
    "question": "Question text",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": 0,
    "explanation": "Explanation of the correct answer",
    "category": "`)
	b.WriteString(string(req.Category))
	b.WriteString(`"
  }
]
`)
	b.WriteString("\ncorrectAnswer is the zero-based index of the correct option. ")
	b.WriteString("Return only the JSON array, with no additional text.")

	return b.String()
}
