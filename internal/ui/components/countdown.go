package components

import (
	"fmt"
	"image/color"

	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"

	"github.com/mathrush/mathrush/internal/ui/theme"
)

// urgentFraction is the share of the round below which the bar turns red.
const urgentFraction = 0.3

// Countdown renders the per-round timer as a shrinking bar.
type Countdown struct {
	bar progress.Model
}

// NewCountdown creates a countdown bar of the given width.
func NewCountdown(width int) Countdown {
	return Countdown{
		bar: progress.New(
			progress.WithWidth(width),
			progress.WithoutPercentage(),
			progress.WithFillCharacters('█', '░'),
			progress.WithColorFunc(func(total, _ float64) color.Color {
				if total <= urgentFraction {
					return theme.Error
				}
				return theme.Secondary
			}),
		),
	}
}

// SetWidth resizes the bar.
func (c *Countdown) SetWidth(w int) {
	c.bar.SetWidth(w)
}

// View renders the bar with the remaining seconds beside it.
func (c Countdown) View(remaining, total int, urgent bool) string {
	frac := 0.0
	if total > 0 {
		frac = float64(remaining) / float64(total)
	}
	label := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if urgent {
		label = theme.Urgent
	}
	return c.bar.ViewAs(frac) + "  " + label.Render(fmt.Sprintf("%2ds", remaining))
}
