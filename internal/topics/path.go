package topics

import (
	"fmt"
	"slices"
)

// Track groups path topics by discipline.
type Track string

const (
	TrackFrontend    Track = "frontend"
	TrackProgramming Track = "programming"
)

// Label returns the display label for a track.
func (t Track) Label() string {
	switch t {
	case TrackFrontend:
		return "Frontend"
	case TrackProgramming:
		return "Programação"
	default:
		return "Outro"
	}
}

// PathTopic is one stop on the guided learning path.
type PathTopic struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Level        int    `json:"level"`
	Category     Track  `json:"category"`
	Prerequisite string `json:"prerequisite,omitempty"` // empty for the entry point
	Icon         string `json:"icon"`
}

var path = []PathTopic{
	{
		ID:          "html_intro",
		Name:        "Introdução ao HTML",
		Description: "Fundamentos básicos do HTML, tags e estrutura.",
		Level:       1,
		Category:    TrackFrontend,
		Icon:        "code-slash-outline",
	},
	{
		ID:           "html_semantic",
		Name:         "HTML Semântico",
		Description:  "Uso correto de tags semânticas para melhor estrutura.",
		Level:        2,
		Category:     TrackFrontend,
		Prerequisite: "html_intro",
		Icon:         "document-text-outline",
	},
	{
		ID:           "css_basics",
		Name:         "Fundamentos de CSS",
		Description:  "Estilização básica com CSS, seletores e propriedades.",
		Level:        1,
		Category:     TrackFrontend,
		Prerequisite: "html_intro",
		Icon:         "color-palette-outline",
	},
	{
		ID:           "css_layout",
		Name:         "Layouts em CSS",
		Description:  "Técnicas de layout como Flexbox e Grid.",
		Level:        2,
		Category:     TrackFrontend,
		Prerequisite: "css_basics",
		Icon:         "grid-outline",
	},
	{
		ID:           "js_intro",
		Name:         "Introdução ao JavaScript",
		Description:  "Fundamentos da linguagem JavaScript.",
		Level:        1,
		Category:     TrackProgramming,
		Prerequisite: "html_intro",
		Icon:         "logo-javascript",
	},
	{
		ID:           "js_dom",
		Name:         "JavaScript e DOM",
		Description:  "Manipulação do DOM com JavaScript.",
		Level:        2,
		Category:     TrackProgramming,
		Prerequisite: "js_intro",
		Icon:         "construct-outline",
	},
	{
		ID:           "responsive",
		Name:         "Design Responsivo",
		Description:  "Criação de sites que funcionam em diferentes dispositivos.",
		Level:        3,
		Category:     TrackFrontend,
		Prerequisite: "css_layout",
		Icon:         "phone-portrait-outline",
	},
}

// DefaultPathTopic is where the tutor chat starts.
const DefaultPathTopic = "html_intro"

func init() {
	if err := validatePath(path); err != nil {
		panic(err)
	}
}

// Path returns the learning path in display order.
func Path() []PathTopic {
	return slices.Clone(path)
}

// PathTopicByID returns a path topic and whether it exists.
func PathTopicByID(id string) (PathTopic, bool) {
	for _, p := range path {
		if p.ID == id {
			return p, true
		}
	}
	return PathTopic{}, false
}

// PathTopicName returns the display name for id, or id itself when unknown.
func PathTopicName(id string) string {
	if p, ok := PathTopicByID(id); ok {
		return p.Name
	}
	return id
}

// Prerequisites returns the chain of prerequisites for id, nearest first.
func Prerequisites(id string) []PathTopic {
	var chain []PathTopic
	p, ok := PathTopicByID(id)
	for ok && p.Prerequisite != "" {
		p, ok = PathTopicByID(p.Prerequisite)
		if ok {
			chain = append(chain, p)
		}
	}
	return chain
}

// Dependents returns the path topics that list id as their prerequisite.
func Dependents(id string) []PathTopic {
	var out []PathTopic
	for _, p := range path {
		if p.Prerequisite == id {
			out = append(out, p)
		}
	}
	return out
}

// validatePath checks ids are unique, prerequisites exist and the chain
// has no cycles.
func validatePath(topics []PathTopic) error {
	byID := make(map[string]PathTopic, len(topics))
	for _, p := range topics {
		if _, dup := byID[p.ID]; dup {
			return fmt.Errorf("duplicate path topic %q", p.ID)
		}
		byID[p.ID] = p
	}
	for _, p := range topics {
		seen := map[string]bool{p.ID: true}
		for cur := p; cur.Prerequisite != ""; {
			next, ok := byID[cur.Prerequisite]
			if !ok {
				return fmt.Errorf("path topic %q: unknown prerequisite %q", cur.ID, cur.Prerequisite)
			}
			if seen[next.ID] {
				return fmt.Errorf("path topic %q: prerequisite cycle", p.ID)
			}
			seen[next.ID] = true
			cur = next
		}
	}
	return nil
}
