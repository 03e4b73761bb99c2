package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the model as a string.
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LESSCACHE") + " " + detailStyle.Render(m.summary()) + "\n\n")

	// Keep the newest rows visible when the terminal is short.
	rows := m.rows
	if avail := m.height - 3; m.height > 0 && len(rows) > avail && avail > 0 {
		rows = rows[len(rows)-avail:]
	}

	nameWidth := 0
	for _, r := range rows {
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
	}

	for _, r := range rows {
		icon, style := m.decorate(r.State)
		line := fmt.Sprintf("%s %-*s %s", style.Render(icon), nameWidth, r.Name, style.Render(string(r.State)))
		if r.Runs > 1 {
			line += detailStyle.Render(fmt.Sprintf(" ×%d", r.Runs))
		}
		if r.Detail != "" {
			line += "  " + detailStyle.Render(truncate(r.Detail, m.width-lipgloss.Width(line)-2))
		}
		s.WriteString(line + "\n")
	}

	return s.String()
}

func (m *Model) decorate(state State) (string, lipgloss.Style) {
	switch state {
	case StateCompiled:
		return "✓", compiledStyle
	case StateCached:
		return "⚡", cachedStyle
	case StateFailed:
		return "✗", failedStyle
	default:
		return m.spinner.View(), runningStyle
	}
}

func (m *Model) summary() string {
	var compiled, cached, failed int
	for _, r := range m.rows {
		switch r.State {
		case StateCompiled:
			compiled++
		case StateCached:
			cached++
		case StateFailed:
			failed++
		case StateRunning:
		}
	}
	s := fmt.Sprintf("%d compiled, %d cached, %d failed", compiled, cached, failed)
	if !m.ended {
		s += " (q to quit)"
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
