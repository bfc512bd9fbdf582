package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/verte-zerg/typerace/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
)

// DisplayName returns name or "Anonymous".
func DisplayName(name *string) string {
	if name == nil || *name == "" {
		return "Anonymous"
	}
	return *name
}

// RenderLeaderboard prints ranked results as a table.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results yet. Be the first to set a record!")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			DisplayName(e.PlayerName),
			strconv.Itoa(e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
			fmt.Sprintf("%ds", e.Duration),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "Player", "WPM", "Accuracy", "Duration").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return mutedStyle
			default:
				return cellStyle
			}
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// RenderShared prints a shared result with its WPM history.
func RenderShared(w io.Writer, r model.SharedResult) error {
	lines := []string{
		fmt.Sprintf("%s · %d WPM · %d%% accuracy · %ds",
			DisplayName(r.PlayerName), r.WPM, r.Accuracy, r.Duration),
		r.Excerpt,
	}
	if spark := HistorySparkline(r.WPMHistory); spark != "" {
		lines = append(lines, "WPM  "+spark)
	}
	lines = append(lines, "Shared "+r.CreatedAt.Local().Format("2006-01-02 15:04"))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
