// Package topics holds the static catalog of study topics and the guided
// learning path used by the tutor chat.
package topics

import "slices"

// Level is a topic's difficulty tier.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Topic is a quiz topic shown in the catalog.
type Topic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Difficulty  Level  `json:"difficulty"`
}

var catalog = []Topic{
	{
		ID:          "html",
		Name:        "HTML",
		Description: "A linguagem de marcação padrão para criar páginas web.",
		Icon:        "logo-html5",
		Color:       "#E44D26",
		Difficulty:  LevelBeginner,
	},
	{
		ID:          "css",
		Name:        "CSS",
		Description: "Linguagem de estilo usada para descrever a apresentação de um documento HTML.",
		Icon:        "logo-css3",
		Color:       "#264DE4",
		Difficulty:  LevelBeginner,
	},
	{
		ID:          "javascript",
		Name:        "JavaScript",
		Description: "Linguagem de programação que permite implementar funcionalidades complexas em páginas web.",
		Icon:        "logo-javascript",
		Color:       "#F7DF1E",
		Difficulty:  LevelIntermediate,
	},
	{
		ID:          "react",
		Name:        "React",
		Description: "Biblioteca JavaScript para construir interfaces de usuário.",
		Icon:        "logo-react",
		Color:       "#61DAFB",
		Difficulty:  LevelIntermediate,
	},
	{
		ID:          "nodejs",
		Name:        "Node.js",
		Description: "Ambiente de execução JavaScript do lado do servidor.",
		Icon:        "server-outline",
		Color:       "#339933",
		Difficulty:  LevelIntermediate,
	},
}

// All returns the catalog in display order.
func All() []Topic {
	return slices.Clone(catalog)
}

// ByID returns the topic with id. Unknown ids get the first topic.
func ByID(id string) Topic {
	if t, ok := Lookup(id); ok {
		return t
	}
	return catalog[0]
}

// Lookup returns the topic with id and whether it exists.
func Lookup(id string) (Topic, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// DifficultyLabel returns the display label for a difficulty tier.
func DifficultyLabel(l Level) string {
	switch l {
	case LevelBeginner:
		return "Iniciante"
	case LevelIntermediate:
		return "Intermediário"
	case LevelAdvanced:
		return "Avançado"
	default:
		return "Todos os níveis"
	}
}

// Glyph maps an icon token to a terminal-friendly symbol.
func Glyph(icon string) string {
	switch icon {
	case "logo-html5", "code-slash-outline":
		return "</>"
	case "logo-css3", "color-palette-outline":
		return "{ }"
	case "logo-javascript":
		return "JS"
	case "logo-react":
		return "⚛"
	case "server-outline":
		return "▤"
	case "document-text-outline":
		return "¶"
	case "grid-outline":
		return "▦"
	case "construct-outline":
		return "⚒"
	case "phone-portrait-outline":
		return "▯"
	default:
		return "•"
	}
}
