// Package theme holds the light and dark palettes and the styles built
// from them. Screens receive a *Theme and read styles from it, so a toggle
// takes effect on the next render.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Name identifies a palette.
type Name string

const (
	Light Name = "light"
	Dark  Name = "dark"
)

// Palette is the set of colors a theme is built from.
type Palette struct {
	Primary       color.Color
	Secondary     color.Color
	Accent        color.Color
	Text          color.Color
	TextSecondary color.Color
	TextMuted     color.Color
	TextInverted  color.Color
	Background    color.Color
	BgSecondary   color.Color
	Card          color.Color
	Border        color.Color
	InputBorder   color.Color
	Success       color.Color
	Error         color.Color
	Warning       color.Color
	UserBubble    color.Color
	UserText      color.Color
	TutorBubble   color.Color
	TutorText     color.Color

	// Track colors on the learning path.
	Frontend    color.Color
	Programming color.Color
}

var lightPalette = Palette{
	Primary:       lipgloss.Color("#4a90e2"),
	Secondary:     lipgloss.Color("#5cdb95"),
	Accent:        lipgloss.Color("#f76c6c"),
	Text:          lipgloss.Color("#11181C"),
	TextSecondary: lipgloss.Color("#687076"),
	TextMuted:     lipgloss.Color("#999999"),
	TextInverted:  lipgloss.Color("#FFFFFF"),
	Background:    lipgloss.Color("#FFFFFF"),
	BgSecondary:   lipgloss.Color("#F9F9F9"),
	Card:          lipgloss.Color("#FFFFFF"),
	Border:        lipgloss.Color("#EEEEEE"),
	InputBorder:   lipgloss.Color("#DDDDDD"),
	Success:       lipgloss.Color("#5cdb95"),
	Error:         lipgloss.Color("#ff6b6b"),
	Warning:       lipgloss.Color("#ffbe76"),
	UserBubble:    lipgloss.Color("#E1F0FF"),
	UserText:      lipgloss.Color("#11181C"),
	TutorBubble:   lipgloss.Color("#4a90e2"),
	TutorText:     lipgloss.Color("#FFFFFF"),
	Frontend:      lipgloss.Color("#4a90e2"),
	Programming:   lipgloss.Color("#e24a90"),
}

var darkPalette = Palette{
	Primary:       lipgloss.Color("#5ca0e2"),
	Secondary:     lipgloss.Color("#3daa74"),
	Accent:        lipgloss.Color("#f87c7c"),
	Text:          lipgloss.Color("#ECEDEE"),
	TextSecondary: lipgloss.Color("#9BA1A6"),
	TextMuted:     lipgloss.Color("#777777"),
	TextInverted:  lipgloss.Color("#11181C"),
	Background:    lipgloss.Color("#121212"),
	BgSecondary:   lipgloss.Color("#1E1E1E"),
	Card:          lipgloss.Color("#2A2A2A"),
	Border:        lipgloss.Color("#333333"),
	InputBorder:   lipgloss.Color("#555555"),
	Success:       lipgloss.Color("#3daa74"),
	Error:         lipgloss.Color("#e06464"),
	Warning:       lipgloss.Color("#e0a964"),
	UserBubble:    lipgloss.Color("#2D5272"),
	UserText:      lipgloss.Color("#ECEDEE"),
	TutorBubble:   lipgloss.Color("#3a6ca3"),
	TutorText:     lipgloss.Color("#FFFFFF"),
	Frontend:      lipgloss.Color("#6a8eff"),
	Programming:   lipgloss.Color("#ff6a8e"),
}

// Theme is the active palette. The zero value is not usable; call New.
type Theme struct {
	name Name
	p    Palette
}

// New returns a theme using the named palette. Unknown names get Dark.
func New(name Name) *Theme {
	t := &Theme{}
	t.Set(name)
	return t
}

// Set switches to the named palette.
func (t *Theme) Set(name Name) {
	if name == Light {
		t.name, t.p = Light, lightPalette
		return
	}
	t.name, t.p = Dark, darkPalette
}

// Toggle flips between light and dark and returns the new name.
func (t *Theme) Toggle() Name {
	if t.name == Dark {
		t.Set(Light)
	} else {
		t.Set(Dark)
	}
	return t.name
}

func (t *Theme) Name() Name       { return t.name }
func (t *Theme) IsDark() bool     { return t.name == Dark }
func (t *Theme) Palette() Palette { return t.p }

// Typography

func (t *Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.p.Primary)
}

func (t *Theme) Subtitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.TextSecondary)
}

func (t *Theme) Body() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.Text)
}

func (t *Theme) Hint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.TextMuted).Italic(true)
}

// States

func (t *Theme) Selected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.Primary).Bold(true)
}

func (t *Theme) Unselected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.Text)
}

func (t *Theme) Dim() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.TextSecondary)
}

func (t *Theme) Correct() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.Success).Bold(true)
}

func (t *Theme) Incorrect() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.Error).Bold(true)
}

func (t *Theme) Warning() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.p.Warning)
}

// Layout

func (t *Theme) Bar() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.p.BgSecondary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.p.Border)
}

func (t *Theme) Card() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.p.Border).
		Padding(0, 1)
}

// AccentCard returns a card whose border is c, used for per-topic colors.
func (t *Theme) AccentCard(c color.Color) lipgloss.Style {
	return t.Card().BorderForeground(c)
}

// Chat

func (t *Theme) UserBubble() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.p.UserBubble).
		Foreground(t.p.UserText).
		Padding(0, 1)
}

func (t *Theme) TutorBubble() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.p.TutorBubble).
		Foreground(t.p.TutorText).
		Padding(0, 1)
}

// Components

func (t *Theme) ButtonActive() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.p.Primary).
		Foreground(t.p.TextInverted).
		Bold(true).
		Padding(0, 2)
}

func (t *Theme) ButtonInactive() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.p.Border).
		Foreground(t.p.Text).
		Padding(0, 2)
}

// TrackColor returns the color for a learning-path track name.
func (t *Theme) TrackColor(track string) color.Color {
	if track == "programming" {
		return t.p.Programming
	}
	return t.p.Frontend
}
