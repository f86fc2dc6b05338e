package tutor

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Mode is the depth the tutor pitches its answers at.
type Mode string

const (
	ModeBeginner     Mode = "iniciante"
	ModeIntermediate Mode = "intermediario"
	ModeAdvanced     Mode = "avancado"
)

// DefaultMode is used until the learner picks another.
const DefaultMode = ModeBeginner

// Modes returns all modes in display order.
func Modes() []Mode {
	return []Mode{ModeBeginner, ModeIntermediate, ModeAdvanced}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown tutor mode %q", s)
}

// Label returns the display label.
func (m Mode) Label() string {
	switch m {
	case ModeBeginner:
		return "Iniciante"
	case ModeIntermediate:
		return "Intermediário"
	case ModeAdvanced:
		return "Avançado"
	default:
		return string(m)
	}
}

// Next cycles through the modes.
func (m Mode) Next() Mode {
	modes := Modes()
	for i, known := range modes {
		if m == known {
			return modes[(i+1)%len(modes)]
		}
	}
	return DefaultMode
}

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderTutor Sender = "tutor"
)

// Feedback values recorded on tutor messages.
const (
	FeedbackHelpful   = "thumbs_up"
	FeedbackUnhelpful = "thumbs_down"
)

// Message is one entry in a chat transcript.
type Message struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Sender        Sender    `json:"sender"`
	Timestamp     time.Time `json:"timestamp"`
	Feedback      string    `json:"feedback,omitempty"`
	FeedbackShown bool      `json:"feedbackShown,omitempty"`
}

// Transcript is the persisted chat state for one path topic.
type Transcript struct {
	Messages                 []Message `json:"messages"`
	CorrectExercisesCount    int       `json:"correctExercisesCount"`
	TotalExercisesAttempted  int       `json:"totalExercisesAttempted"`
	LastMessageIsExercise    bool      `json:"lastMessageIsExercise"`
	HasEvaluatedLastExercise bool      `json:"hasEvaluatedLastExercise"`
}

// Score reports exercise results. percent is rounded and zero when nothing
// was attempted.
func (t Transcript) Score() (correct, attempted, percent int) {
	correct, attempted = t.CorrectExercisesCount, t.TotalExercisesAttempted
	if attempted > 0 {
		percent = int(math.Round(float64(correct) / float64(attempted) * 100))
	}
	return correct, attempted, percent
}

// AwaitingEvaluation reports whether the last tutor message is an exercise
// the learner has not yet marked as solved or not.
func (t Transcript) AwaitingEvaluation() bool {
	if !t.LastMessageIsExercise || t.HasEvaluatedLastExercise || len(t.Messages) == 0 {
		return false
	}
	return t.Messages[len(t.Messages)-1].Sender == SenderTutor
}

func (t *Transcript) message(id string) *Message {
	for i := range t.Messages {
		if t.Messages[i].ID == id {
			return &t.Messages[i]
		}
	}
	return nil
}
