package handlers

import (
	"strings"

	"typefast/internal/typefast/auth"
	"typefast/internal/typefast/game"
)

// formatScoreboard renders a registry snapshot as one wire message: the
// "Scoreboard:" prefix followed by newline-separated "username: score" rows.
func formatScoreboard(entries []auth.ScoreEntry) string {
	var b strings.Builder

	b.WriteString("Scoreboard: ")
	for i, entry := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(entry.Username)
		b.WriteString(": ")
		b.WriteString(game.FormatScore(entry.Score))
	}

	return strings.TrimSpace(b.String())
}
