package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/skybeat/internal/core"
)

// Palette maps screen colors to lipgloss styles.
type Palette map[core.Color]lipgloss.Style

// DefaultPalette returns the ANSI palette.
func DefaultPalette() Palette {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Palette{
		core.ColorDefault:       lipgloss.NewStyle(),
		core.ColorRed:           fg("1"),
		core.ColorGreen:         fg("2"),
		core.ColorYellow:        fg("3"),
		core.ColorBlue:          fg("4"),
		core.ColorMagenta:       fg("5"),
		core.ColorCyan:          fg("6"),
		core.ColorWhite:         fg("7"),
		core.ColorBrightRed:     fg("9"),
		core.ColorBrightGreen:   fg("10"),
		core.ColorBrightYellow:  fg("11"),
		core.ColorBrightBlue:    fg("12"),
		core.ColorBrightMagenta: fg("13"),
		core.ColorBrightCyan:    fg("14"),
		core.ColorBrightWhite:   fg("15"),
		core.ColorOrange:        fg("208"),
		core.ColorGray:          fg("245"),
	}
}

// LevelPalette returns the default palette with the level's accent color
// (a "#rrggbb" string) applied to cyan cells, where the HUD and movers live.
// An empty accent keeps the defaults.
func LevelPalette(accent, background string) Palette {
	p := DefaultPalette()
	if accent != "" {
		p[core.ColorCyan] = lipgloss.NewStyle().Foreground(lipgloss.Color(accent))
	}
	if background != "" {
		for c, s := range p {
			p[c] = s.Background(lipgloss.Color(background))
		}
	}
	return p
}

// RenderScreen converts a Screen buffer to a styled string with the default palette.
func RenderScreen(s *core.Screen) string {
	return DefaultPalette().Render(s)
}

// Render converts a Screen buffer to a styled string.
// Adjacent cells with the same color share one styled run.
func (p Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			style, ok := p[color]
			if !ok {
				style = p[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
