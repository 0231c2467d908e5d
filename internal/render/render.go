// Package render turns mobs into the short human-readable strings the
// prompt and error messages use.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"streamsort/pkg/mobtypes"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	arrowStyle  = lipgloss.NewStyle().Faint(true)
)

// Render constructs the display string of a mob.
func Render(m mobtypes.Mob) string {
	switch m.Kind {
	case mobtypes.KindTrack:
		return fmt.Sprintf("%q by %s", m.Name, m.By())
	case mobtypes.KindAlbum:
		return fmt.Sprintf("*%s* by %s, %d songs", m.Name, m.By(), m.TrackCount)
	case mobtypes.KindArtist:
		return m.Name
	case mobtypes.KindPlaylist:
		return fmt.Sprintf("%s, %d songs", m.Name, m.TrackCount)
	case mobtypes.KindUser:
		return m.Name
	case mobtypes.KindSet:
		return m.Name
	}
	return "(nothing)"
}

// Prompt renders the REPL prompt for the current focus.
func Prompt(m mobtypes.Mob) string {
	return promptStyle.Render(Render(m)) + arrowStyle.Render(" > ")
}
