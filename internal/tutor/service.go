// Package tutor runs the per-topic tutor chat: transcripts, exercises,
// feedback and tutor replies.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/devtutor/internal/llm"
	"github.com/abhisek/devtutor/internal/store"
	"github.com/abhisek/devtutor/internal/topics"
)

const (
	transcriptPrefix = "chat_history_"
	modeKey          = "tutor.current_mode"
)

var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrNothingToEvaluate = errors.New("no exercise awaiting evaluation")
	ErrMessageNotFound   = errors.New("message not found")
)

// ProviderSource returns the provider used for tutor replies. A nil
// provider with a nil error means no credential is configured.
type ProviderSource func(ctx context.Context) (llm.Provider, error)

// Config holds tutor settings.
type Config struct {
	// ReplyDelay is waited before an offline reply is posted.
	ReplyDelay  time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard tutor settings.
func DefaultConfig() Config {
	return Config{
		ReplyDelay:  1500 * time.Millisecond,
		MaxTokens:   512,
		Temperature: 0.5,
	}
}

// Service manages tutor conversations.
type Service struct {
	kv        store.KV
	providers ProviderSource
	cfg       Config
	logger    zerolog.Logger
	intn      func(n int) int
	now       func() time.Time

	// mu serializes transcript read-modify-write cycles. It is not held
	// while a reply is being produced.
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRand overrides the random source for offline replies.
func WithRand(intn func(n int) int) Option {
	return func(s *Service) { s.intn = intn }
}

// WithClock overrides the message timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a tutor Service. providers may be nil, in which case
// every reply comes from the offline content.
func NewService(kv store.KV, providers ProviderSource, cfg Config, opts ...Option) *Service {
	s := &Service{
		kv:        kv,
		providers: providers,
		cfg:       cfg,
		logger:    zerolog.Nop(),
		intn:      rand.IntN,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the transcript for topic, empty if none is stored.
func (s *Service) Load(ctx context.Context, topic string) (Transcript, error) {
	raw, ok, err := s.kv.Get(ctx, transcriptPrefix+topic)
	if err != nil {
		return Transcript{}, fmt.Errorf("load transcript %s: %w", topic, err)
	}
	if !ok {
		return Transcript{Messages: []Message{}}, nil
	}
	var t Transcript
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Transcript{}, fmt.Errorf("decode transcript %s: %w", topic, err)
	}
	if t.Messages == nil {
		t.Messages = []Message{}
	}
	return t, nil
}

func (s *Service) save(ctx context.Context, topic string, t Transcript) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode transcript %s: %w", topic, err)
	}
	if err := s.kv.Set(ctx, transcriptPrefix+topic, string(data)); err != nil {
		return fmt.Errorf("save transcript %s: %w", topic, err)
	}
	return nil
}

// update applies fn to the stored transcript and saves the result.
func (s *Service) update(ctx context.Context, topic string, fn func(*Transcript) error) (Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Load(ctx, topic)
	if err != nil {
		return Transcript{}, err
	}
	if err := fn(&t); err != nil {
		return Transcript{}, err
	}
	if err := s.save(ctx, topic, t); err != nil {
		return Transcript{}, err
	}
	return t, nil
}

func (s *Service) newMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: s.now(),
	}
}

// Open returns the transcript for topic, posting a welcome message when
// the conversation is new.
func (s *Service) Open(ctx context.Context, topic string) (Transcript, error) {
	return s.update(ctx, topic, func(t *Transcript) error {
		if len(t.Messages) == 0 {
			t.Messages = append(t.Messages, s.newMessage(SenderTutor, welcomeMessage(topics.PathTopicName(topic))))
		}
		return nil
	})
}

// Send posts text from the learner and the tutor's reply. Messages asking
// for practice get the topic's exercise.
func (s *Service) Send(ctx context.Context, topic string, mode Mode, text string) (Transcript, error) {
	if strings.TrimSpace(text) == "" {
		return Transcript{}, ErrEmptyMessage
	}

	history, err := s.update(ctx, topic, func(t *Transcript) error {
		t.Messages = append(t.Messages, s.newMessage(SenderUser, text))
		t.LastMessageIsExercise = false
		t.HasEvaluatedLastExercise = false
		return nil
	})
	if err != nil {
		return Transcript{}, err
	}

	exercise := IsExerciseRequest(text)
	var reply string
	if exercise {
		s.wait(ctx)
		reply = Exercise(topic)
	} else {
		reply = s.reply(ctx, topic, mode, history.Messages)
	}

	return s.update(ctx, topic, func(t *Transcript) error {
		t.Messages = append(t.Messages, s.newMessage(SenderTutor, reply))
		t.LastMessageIsExercise = exercise
		return nil
	})
}

// Evaluate records whether the learner solved the pending exercise and
// posts the tutor's response.
func (s *Service) Evaluate(ctx context.Context, topic string, solved bool) (Transcript, error) {
	return s.update(ctx, topic, func(t *Transcript) error {
		if !t.AwaitingEvaluation() {
			return ErrNothingToEvaluate
		}
		t.HasEvaluatedLastExercise = true
		t.TotalExercisesAttempted++
		reply := UnsolvedReply
		if solved {
			t.CorrectExercisesCount++
			reply = SolvedReply
		}
		t.Messages = append(t.Messages, s.newMessage(SenderTutor, reply))
		return nil
	})
}

// Feedback marks a tutor message as helpful or not.
func (s *Service) Feedback(ctx context.Context, topic, messageID string, helpful bool) (Transcript, error) {
	return s.update(ctx, topic, func(t *Transcript) error {
		m := t.message(messageID)
		if m == nil || m.Sender != SenderTutor {
			return fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
		}
		m.Feedback = FeedbackUnhelpful
		if helpful {
			m.Feedback = FeedbackHelpful
		}
		m.FeedbackShown = true
		return nil
	})
}

// Mode returns the learner's current tutor mode.
func (s *Service) Mode(ctx context.Context) (Mode, error) {
	raw, ok, err := s.kv.Get(ctx, modeKey)
	if err != nil {
		return DefaultMode, fmt.Errorf("load tutor mode: %w", err)
	}
	if !ok {
		return DefaultMode, nil
	}
	m, err := ParseMode(raw)
	if err != nil {
		return DefaultMode, nil
	}
	return m, nil
}

// ChangeMode switches to mode and announces it in topic's conversation.
// Selecting the current mode changes nothing.
func (s *Service) ChangeMode(ctx context.Context, topic string, mode Mode) (Transcript, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Transcript{}, err
	}
	current, err := s.Mode(ctx)
	if err != nil {
		return Transcript{}, err
	}
	if current == mode {
		return s.Load(ctx, topic)
	}
	if err := s.kv.Set(ctx, modeKey, string(mode)); err != nil {
		return Transcript{}, fmt.Errorf("save tutor mode: %w", err)
	}
	return s.Send(ctx, topic, mode, modeChangeMessage(mode))
}

// Reset deletes topic's conversation.
func (s *Service) Reset(ctx context.Context, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, transcriptPrefix+topic); err != nil {
		return fmt.Errorf("reset transcript %s: %w", topic, err)
	}
	return nil
}

// TopicStats summarizes one stored conversation.
type TopicStats struct {
	Topic     string
	Messages  int
	Correct   int
	Attempted int
	Percent   int
	UpdatedAt time.Time
}

// Stats summarizes every stored conversation, ordered by topic id.
func (s *Service) Stats(ctx context.Context) ([]TopicStats, error) {
	entries, err := s.kv.List(ctx, transcriptPrefix)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	out := make([]TopicStats, 0, len(entries))
	for _, e := range entries {
		var t Transcript
		if err := json.Unmarshal([]byte(e.Value), &t); err != nil {
			s.logger.Warn().Err(err).Str("key", e.Key).Msg("skipping unreadable transcript")
			continue
		}
		correct, attempted, pct := t.Score()
		out = append(out, TopicStats{
			Topic:     strings.TrimPrefix(e.Key, transcriptPrefix),
			Messages:  len(t.Messages),
			Correct:   correct,
			Attempted: attempted,
			Percent:   pct,
			UpdatedAt: e.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

// reply produces the tutor's answer to the conversation so far. Remote
// failures fall back to offline content.
func (s *Service) reply(ctx context.Context, topic string, mode Mode, history []Message) string {
	topicName := topics.PathTopicName(topic)
	log := s.logger.With().Str("topic", topic).Str("mode", string(mode)).Logger()

	if s.providers != nil {
		provider, err := s.providers(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("tutor provider unavailable")
		case provider != nil:
			text, err := s.generate(ctx, provider, topicName, mode, history)
			if err == nil {
				return text
			}
			log.Warn().Err(err).Msg("tutor reply generation failed, using offline reply")
		}
	}

	s.wait(ctx)
	return CannedReply(topic, topicName, mode, s.intn)
}

func (s *Service) generate(ctx context.Context, provider llm.Provider, topicName string, mode Mode, history []Message) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTutor)

	msgs := historyMessages(history)
	if len(msgs) == 0 {
		return "", errors.New("no learner message to answer")
	}

	resp, err := provider.Generate(ctx, llm.Request{
		System:      systemPrompt(topicName, mode),
		Messages:    msgs,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("tutor generation: %w", err)
	}
	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", errors.New("tutor generation: empty reply")
	}
	return text, nil
}

// wait sleeps for the reply delay, returning early if ctx ends.
func (s *Service) wait(ctx context.Context) {
	if s.cfg.ReplyDelay <= 0 {
		return
	}
	t := time.NewTimer(s.cfg.ReplyDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
