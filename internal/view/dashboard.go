// Package view renders a desk snapshot as a text dashboard.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/bilgisen/chronos/internal/desk"
	"github.com/bilgisen/chronos/internal/models"
	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 76

type styles struct {
	panel    lipgloss.Style
	title    lipgloss.Style
	muted    lipgloss.Style
	errorBox lipgloss.Style
	bullish  lipgloss.Style
	bearish  lipgloss.Style
	neutral  lipgloss.Style
	posted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1).
			Width(panelWidth),
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#818CF8")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		errorBox: r.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#F43F5E")).Foreground(lipgloss.Color("#FB7185")).Padding(0, 1),
		bullish:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		bearish:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		neutral:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#9CA3AF")),
		posted:   r.NewStyle().Foreground(lipgloss.Color("#38BDF8")),
	}
}

// Render writes the dashboard for snap to w. Colors are only emitted when w is a terminal.
func Render(w io.Writer, snap desk.Snapshot) error {
	s := newStyles(lipgloss.NewRenderer(w))

	out := lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render("CHRONOS // AI AUTONOMOUS"),
		Ticker(snap),
		header(s, snap),
		feed(s, snap),
		audit(s, snap),
	)
	_, err := fmt.Fprintln(w, out)
	return err
}

// Ticker is the one-line status banner.
func Ticker(snap desk.Snapshot) string {
	syndication := "STBY"
	if snap.Settings.AutoPostToX {
		syndication = "ENABLED"
	}
	location := "Bypassed"
	if snap.LocationAcquired {
		location = "Acquired"
	}
	return fmt.Sprintf("AUTO-SIGNAL  Neural cycles repeating every %dm... Syndication %s... Tracking %s... Location: %s...",
		snap.Settings.UpdateIntervalMinutes, syndication, snap.Settings.Topic, location)
}

// FormatCountdown renders seconds as h:mm:ss, or mm:ss under an hour.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

func header(s styles, snap desk.Snapshot) string {
	var b strings.Builder

	status := "Scan Grid ready"
	if snap.Loading {
		status = "SCANNING (" + string(snap.State) + ")"
	}
	fmt.Fprintf(&b, "Next Cycle %s   %s\n", FormatCountdown(snap.Countdown), status)

	account := "UNLINKED"
	switch {
	case snap.Settings.IsXConnected:
		account = "LINKED"
	case snap.Linking:
		account = "LINKING"
	}
	local := "off"
	if snap.Settings.LocalMode {
		local = "on"
	}
	fmt.Fprintf(&b, "X account %s   Local mode %s", account, local)

	if snap.Error != "" {
		b.WriteString("\n")
		b.WriteString(s.errorBox.Render("System Error: " + snap.Error))
	}
	return s.panel.Render(b.String())
}

func feed(s styles, snap desk.Snapshot) string {
	var b strings.Builder
	b.WriteString(s.title.Render("Feed"))

	switch {
	case len(snap.History) == 0 && snap.Loading:
		b.WriteString("\nSynchronizing Intel\n")
		b.WriteString(s.muted.Render("Scanning Global Intelligence Nodes..."))
	case len(snap.History) == 0:
		b.WriteString("\n")
		b.WriteString(s.muted.Render("Matrix Empty - Start Scan"))
	}

	for i, item := range snap.History {
		b.WriteString("\n")
		b.WriteString(card(s, item, i == 0))
	}
	return s.panel.Render(b.String())
}

func card(s styles, item models.NewsItem, latest bool) string {
	var b strings.Builder

	if latest {
		b.WriteString("[LATEST] ")
	}
	b.WriteString(item.Title)
	b.WriteString("\n")

	b.WriteString(sentimentStyle(s, item.Sentiment).Render(strings.ToUpper(string(item.Sentiment))))
	fmt.Fprintf(&b, "  %s  %s  %s", item.Location, item.Topic, item.Timestamp.Format("15:04"))
	if item.IsPostedToX {
		b.WriteString("  ")
		b.WriteString(s.posted.Render("Broadcasting Success"))
	}
	b.WriteString("\n")
	b.WriteString(item.Summary)

	for _, src := range item.Sources {
		b.WriteString("\n")
		b.WriteString(s.muted.Render("  - " + src.Title + " <" + src.URL + ">"))
	}
	return b.String()
}

func sentimentStyle(s styles, sentiment models.Sentiment) lipgloss.Style {
	switch sentiment {
	case models.SentimentBullish:
		return s.bullish
	case models.SentimentBearish:
		return s.bearish
	default:
		return s.neutral
	}
}

func audit(s styles, snap desk.Snapshot) string {
	var b strings.Builder
	b.WriteString(s.title.Render("Neural Audit"))

	if len(snap.Log) == 0 {
		b.WriteString("\n")
		b.WriteString(s.muted.Render("No cycles recorded..."))
	}
	for i, entry := range snap.Log {
		fmt.Fprintf(&b, "\n#%d %s", len(snap.Log)-i, entry.String())
	}
	return s.panel.Render(b.String())
}
