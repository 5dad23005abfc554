package home

import (
	"charm.land/lipgloss/v2"

	"github.com/mathrush/mathrush/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle     MascotVariant = iota // no games yet, or nothing to celebrate
	MascotChampion                      // the latest game set the best score
	MascotRusty                         // the latest game ended without a point
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ +×÷ │
└─────┘`

const mascotChampion = `┌─────┐
│ ★ ★ │
│  ▿  │
│ +×÷ │
└─╥═╥─┘
  ╚═╝`

const mascotRusty = `┌─────┐
│ - - │
│  ~  │
│ +×÷ │
└─────┘`

// mascotFor picks the variant from the latest and best scores.
func mascotFor(played bool, latest, best int) MascotVariant {
	switch {
	case !played:
		return MascotIdle
	case latest > 0 && latest >= best:
		return MascotChampion
	case latest == 0:
		return MascotRusty
	}
	return MascotIdle
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotChampion:
		art, fg = mascotChampion, theme.ArcadeYellow
	case MascotRusty:
		art, fg = mascotRusty, theme.TextDim
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
