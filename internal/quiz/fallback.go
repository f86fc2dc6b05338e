package quiz

import (
	"fmt"
	"strings"
)

// FallbackSize is the number of questions every offline set contains,
// whatever count was requested.
const FallbackSize = 3

// bankQuestion is a canned question without id or category.
type bankQuestion struct {
	text        string
	options     [OptionCount]string
	correct     int
	explanation string
}

// fallbackBanks maps a lower-cased topic to its canned question set.
var fallbackBanks = map[string][]bankQuestion{
	"html": {
		{
			text:        "O que significa a sigla HTML?",
			options:     [OptionCount]string{"Hyper Text Markup Language", "High Tech Modern Language", "Hyperlink Text Management Language", "Home Tool Markup Language"},
			correct:     0,
			explanation: "HTML stands for Hyper Text Markup Language, which is the standard markup language for creating Web pages.",
		},
		{
			text:        "Qual tag é usada para criar um parágrafo em HTML?",
			options:     [OptionCount]string{"<paragraph>", "<p>", "<para>", "<text>"},
			correct:     1,
			explanation: "The <p> tag defines a paragraph in HTML documents.",
		},
		{
			text:        "Qual elemento HTML define o título da página que aparece na aba do navegador?",
			options:     [OptionCount]string{"<header>", "<heading>", "<title>", "<h1>"},
			correct:     2,
			explanation: "The <title> tag defines the document's title that is shown in a browser's title bar or a page's tab.",
		},
	},
	"css": {
		{
			text:        "Qual propriedade CSS é usada para mudar a cor do texto?",
			options:     [OptionCount]string{"text-color", "font-color", "color", "text-style"},
			correct:     2,
			explanation: "The color property is used to set the color of the text.",
		},
		{
			text:        "Qual propriedade CSS é usada para definir a fonte do texto?",
			options:     [OptionCount]string{"text-font", "font-family", "font-style", "text-family"},
			correct:     1,
			explanation: "The font-family property specifies the font for text.",
		},
		{
			text:        "Como você pode adicionar uma sombra a um elemento em CSS?",
			options:     [OptionCount]string{"shadow-effect", "text-shadow", "box-shadow", "element-shadow"},
			correct:     2,
			explanation: "The box-shadow property attaches one or more shadows to an element.",
		},
	},
	"javascript": {
		{
			text:        "Qual função é usada para imprimir algo no console em JavaScript?",
			options:     [OptionCount]string{"console.print()", "console.log()", "print()", "log()"},
			correct:     1,
			explanation: "console.log() is used to output a message to the web console.",
		},
		{
			text:        "Como você declara uma variável em JavaScript moderno?",
			options:     [OptionCount]string{"var", "let", "const", "both let and const"},
			correct:     3,
			explanation: "Both let and const are used to declare variables in modern JavaScript. let is used for variables that can be reassigned, while const is for constants.",
		},
		{
			text:        "O que faz o método Array.map()?",
			options:     [OptionCount]string{"Modifica o array original", "Cria um novo array com os resultados da função aplicada a cada elemento", "Filtra o array", "Combina todos os elementos do array"},
			correct:     1,
			explanation: "The map() method creates a new array with the results of calling a function for every array element.",
		},
	},
}

// genericBank is used for topics without a canned set. %s is the topic.
// The correct index is drawn at random on every call.
var genericBank = []bankQuestion{
	{
		text:        "O que é %s?",
		options:     [OptionCount]string{"Uma linguagem de programação", "Uma ferramenta de desenvolvimento", "Um framework de desenvolvimento", "Uma plataforma web"},
		explanation: "Esta é uma pergunta de exemplo sobre %s.",
	},
	{
		text:        "Qual é a principal característica de %s?",
		options:     [OptionCount]string{"Facilidade de uso", "Performance", "Escalabilidade", "Compatibilidade"},
		explanation: "Esta é outra pergunta de exemplo sobre %s.",
	},
	{
		text:        "Quando %s foi criado?",
		options:     [OptionCount]string{"Anos 1990", "Anos 2000", "Anos 2010", "Anos 2020"},
		explanation: "Esta é mais uma pergunta de exemplo sobre %s.",
	},
}

// placeholderBank is returned when resolution fails unexpectedly.
var placeholderBank = []bankQuestion{
	{
		text:        "Questão de exemplo 1",
		options:     [OptionCount]string{"Opção A", "Opção B", "Opção C", "Opção D"},
		correct:     0,
		explanation: "Esta é uma questão de exemplo.",
	},
	{
		text:        "Questão de exemplo 2",
		options:     [OptionCount]string{"Opção A", "Opção B", "Opção C", "Opção D"},
		correct:     1,
		explanation: "Esta é outra questão de exemplo.",
	},
	{
		text:        "Questão de exemplo 3",
		options:     [OptionCount]string{"Opção A", "Opção B", "Opção C", "Opção D"},
		correct:     2,
		explanation: "Esta é mais uma questão de exemplo.",
	},
}

// HasCannedSet reports whether topic has a fixed offline question set.
func HasCannedSet(topic string) bool {
	_, ok := fallbackBanks[topicKey(topic)]
	return ok
}

// Fallback returns the offline question set for topic. intn picks the
// correct index for generic questions and must return a value in [0, n).
func Fallback(topic string, category Category, intn func(n int) int) []Question {
	if bank, ok := fallbackBanks[topicKey(topic)]; ok {
		return fromBank(bank, category)
	}

	out := make([]Question, len(genericBank))
	for i, bq := range genericBank {
		out[i] = Question{
			ID:            i + 1,
			Question:      fmt.Sprintf(bq.text, topic),
			Options:       bq.options[:],
			CorrectAnswer: intn(OptionCount),
			Explanation:   fmt.Sprintf(bq.explanation, topic),
			Category:      category,
		}
	}
	return out
}

// Placeholder returns the last-resort question set.
func Placeholder(category Category) []Question {
	return fromBank(placeholderBank, category)
}

func fromBank(bank []bankQuestion, category Category) []Question {
	out := make([]Question, len(bank))
	for i, bq := range bank {
		opts := bq.options
		out[i] = Question{
			ID:            i + 1,
			Question:      bq.text,
			Options:       opts[:],
			CorrectAnswer: bq.correct,
			Explanation:   bq.explanation,
			Category:      category,
		}
	}
	return out
}

// topicKey matches canned sets case-insensitively. Surrounding spaces are
// significant.
func topicKey(topic string) string {
	return strings.ToLower(topic)
}
