package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/devtutor/internal/llm"
)

// historyWindow caps how many transcript messages are sent as context.
const historyWindow = 12

func systemPrompt(topicName string, mode Mode) string {
	var b strings.Builder
	b.WriteString("Você é um tutor paciente de desenvolvimento web. ")
	fmt.Fprintf(&b, "O tópico atual é %q e o aluno está no nível %s.\n\n", topicName, mode.Label())
	switch mode {
	case ModeBeginner:
		b.WriteString("Explique com linguagem simples e exemplos curtos. Evite jargão sem explicação.\n")
	case ModeIntermediate:
		b.WriteString("Foque em aplicações práticas, boas práticas e problemas comuns.\n")
	case ModeAdvanced:
		b.WriteString("Aborde nuances, casos de uso complexos e comparações com alternativas.\n")
	}
	b.WriteString("Responda sempre em português, em no máximo três parágrafos curtos, em texto simples sem Markdown.")
	return b.String()
}

// historyMessages converts the tail of a transcript into provider messages.
// The result starts with a user turn and never repeats a role, since some
// providers reject either.
func historyMessages(msgs []Message) []llm.Message {
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}

	var out []llm.Message
	for _, m := range msgs {
		role := llm.RoleUser
		if m.Sender == SenderTutor {
			role = llm.RoleAssistant
		}
		if len(out) == 0 && role != llm.RoleUser {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + m.Text
			continue
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}
