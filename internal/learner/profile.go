// Package learner handles onboarding: the learner's name, email and
// session id.
package learner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/devtutor/internal/store"
)

const profileKey = "learner.profile"

var (
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidEmail = errors.New("invalid email")
)

// ValidationError carries the message shown next to the offending field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var (
	namePattern  = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ\s]+$`)
	nameStrip    = regexp.MustCompile(`[^A-Za-zÀ-ÖØ-öø-ÿ\s]`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// SanitizeName drops every character a name may not contain.
func SanitizeName(s string) string {
	return nameStrip.ReplaceAllString(s, "")
}

// ValidateName accepts non-blank names made of letters (accented Latin
// included) and spaces.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "O nome é obrigatório.", Err: ErrInvalidName}
	}
	if !namePattern.MatchString(name) {
		return &ValidationError{Field: "name", Message: "O nome deve conter apenas letras e espaços.", Err: ErrInvalidName}
	}
	return nil
}

// ValidateEmail checks for a non-blank, roughly well-formed address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "O email é obrigatório.", Err: ErrInvalidEmail}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Formato de email inválido.", Err: ErrInvalidEmail}
	}
	return nil
}

// Profile identifies the local learner.
type Profile struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewProfile validates name and email and assigns a fresh session id.
// The name is checked before the email, so only the first problem is
// reported.
func NewProfile(name, email string) (Profile, error) {
	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}
	if err := ValidateEmail(email); err != nil {
		return Profile{}, err
	}
	return Profile{
		Name:      name,
		Email:     email,
		SessionID: "session-" + uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// FirstName returns the first word of the learner's name.
func (p Profile) FirstName() string {
	if f := strings.Fields(p.Name); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Repo persists the profile in the key-value table.
type Repo struct {
	kv store.KV
}

// NewRepo creates a Repo over kv.
func NewRepo(kv store.KV) *Repo {
	return &Repo{kv: kv}
}

// Save stores p, replacing any previous profile.
func (r *Repo) Save(ctx context.Context, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := r.kv.Set(ctx, profileKey, string(data)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Load returns the stored profile. ok is false before onboarding.
func (r *Repo) Load(ctx context.Context) (p Profile, ok bool, err error) {
	raw, ok, err := r.kv.Get(ctx, profileKey)
	if err != nil {
		return Profile{}, false, fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		return Profile{}, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, true, nil
}

// Clear forgets the learner.
func (r *Repo) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, profileKey)
}
