package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/devtutor/internal/tutor"
	"github.com/abhisek/devtutor/internal/ui/components"
	"github.com/abhisek/devtutor/internal/ui/layout"
)

func (c *ChatScreen) View(width, height int) string {
	cw := min(width-2, 100)

	head := c.renderHeader(cw)
	foot := c.renderFooter(cw)

	bodyHeight := max(height-lipgloss.Height(head)-lipgloss.Height(foot)-2, 3)
	body := c.renderTranscript(cw, bodyHeight)

	content := lipgloss.JoinVertical(lipgloss.Left, head, "", body, "", foot)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (c *ChatScreen) renderHeader(cw int) string {
	th := c.theme
	badge := lipgloss.NewStyle().
		Foreground(th.Palette().TutorText).
		Background(th.TrackColor(string(c.topic.Category))).
		Padding(0, 1).
		Render(c.topic.Category.Label())

	modes := make([]string, 0, len(tutor.Modes()))
	for _, m := range tutor.Modes() {
		if m == c.mode {
			modes = append(modes, th.ButtonActive().Padding(0, 1).Render(m.Label()))
		} else {
			modes = append(modes, th.Dim().Padding(0, 1).Render(m.Label()))
		}
	}

	line := th.Title().Render(c.topic.Name) + "  " + badge
	gap := max(cw-lipgloss.Width(line)-lipgloss.Width(strings.Join(modes, " ")), 1)
	line += strings.Repeat(" ", gap) + strings.Join(modes, " ")

	if correct, attempted, pct := c.transcript.Score(); attempted > 0 {
		line += "\n" + th.Subtitle().Render(
			fmt.Sprintf("Desempenho: %d/%d exercícios (%d%%)", correct, attempted, pct))
	}
	return line
}

// renderTranscript draws the message bubbles and keeps the last lines that
// fit, shifted by the scroll offset.
func (c *ChatScreen) renderTranscript(cw, height int) string {
	th := c.theme
	if !c.loaded {
		return th.Hint().Render("Carregando conversa...")
	}

	bubbleWidth := cw * 3 / 4
	var blocks []string
	for _, m := range c.transcript.Messages {
		blocks = append(blocks, c.renderMessage(m, cw, bubbleWidth))
	}
	if c.pending != "" {
		blocks = append(blocks, c.renderMessage(tutor.Message{Sender: tutor.SenderUser, Text: c.pending}, cw, bubbleWidth))
	}
	if len(blocks) == 0 {
		return th.Hint().Render("Envie uma mensagem para começar a conversa com o tutor.")
	}
	if c.busy && c.pending != "" {
		blocks = append(blocks, th.Hint().Render("Tutor está digitando"+c.spinner.View()))
	}
	if c.thanks {
		blocks = append(blocks, th.Correct().Render("Obrigado!")+" "+th.Hint().Render("Seu feedback ajuda a melhorar o tutor."))
	}

	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")
	maxScroll := max(len(lines)-height, 0)
	c.scroll = min(c.scroll, maxScroll)
	end := len(lines) - c.scroll
	start := max(end-height, 0)
	return strings.Join(lines[start:end], "\n")
}

func (c *ChatScreen) renderMessage(m tutor.Message, cw, bubbleWidth int) string {
	th := c.theme
	if m.Sender == tutor.SenderUser {
		bubble := th.UserBubble().Width(min(lipgloss.Width(m.Text)+2, bubbleWidth)).Render(m.Text)
		return lipgloss.PlaceHorizontal(cw, lipgloss.Right, bubble)
	}

	bubble := th.TutorBubble().Width(min(lipgloss.Width(m.Text)+2, bubbleWidth)).Render(m.Text)
	switch m.Feedback {
	case tutor.FeedbackHelpful:
		bubble += "\n" + th.Hint().Render("marcada como útil")
	case tutor.FeedbackUnhelpful:
		bubble += "\n" + th.Hint().Render("marcada como não útil")
	}
	return bubble
}

func (c *ChatScreen) renderFooter(cw int) string {
	th := c.theme
	var parts []string

	if c.err != "" {
		parts = append(parts, th.Incorrect().Render(c.err))
	}

	if c.awaitingEvaluation() {
		parts = append(parts,
			th.Body().Bold(true).Render("Conseguiu resolver este exercício?"),
			c.evaluation.View(th),
		)
	}

	// Suggestions start the conversation; later they only show once the
	// learner starts browsing them.
	browsing := c.suggestion >= 0 || len(c.transcript.Messages) <= 1
	if browsing && c.input.Value() == "" && !c.busy {
		var sug []string
		for i, s := range c.suggestions() {
			if i == c.suggestion {
				sug = append(sug, th.Selected().Render("▸ "+s))
			} else {
				sug = append(sug, th.Dim().Render("  "+s))
			}
		}
		parts = append(parts, layout.Wrap(strings.Join(sug, "\n"), cw))
	}

	parts = append(parts, components.Card(c.theme, c.input.View(th), cw))
	return strings.Join(parts, "\n")
}
