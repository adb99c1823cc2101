package format

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/agentprobe/agentprobe/internal/plan"
)

type Formatter struct {
	answerStyle lipgloss.Style
	metaStyle   lipgloss.Style
	headerStyle lipgloss.Style
	passStyle   lipgloss.Style
	failStyle   lipgloss.Style
	borderStyle lipgloss.Style
}

func New() *Formatter {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	green := lipgloss.Color("42")
	red := lipgloss.Color("196")

	return &Formatter{
		answerStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1),
		metaStyle: lipgloss.NewStyle().
			Foreground(gray),
		headerStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1),
		passStyle: lipgloss.NewStyle().
			Foreground(green).
			Padding(0, 1),
		failStyle: lipgloss.NewStyle().
			Foreground(red).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(purple),
	}
}

// Answer renders the agent's reply with its correlation metadata underneath.
func (f *Formatter) Answer(response string, data map[string]string) string {
	var b strings.Builder
	b.WriteString(f.answerStyle.Render(response))
	b.WriteString("\n")
	b.WriteString(f.metaStyle.Render(fmt.Sprintf(
		"session %s  language %s", data["session_id"], data["language"],
	)))
	return b.String()
}

// Summary renders a pass/fail table for a plan run.
func (f *Formatter) Summary(results []plan.CaseResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return f.headerStyle
			}
			if col == 1 && row >= 0 && row < len(results) {
				r := results[row]
				if r.Err != nil || !r.Passed {
					return f.failStyle
				}
				return f.passStyle
			}
			return f.metaStyle.Padding(0, 1)
		}).
		Headers("Case", "Status", "Elapsed", "Detail")

	for _, r := range results {
		status := "PASS"
		detail := truncateString(r.Response, 50)
		switch {
		case r.Err != nil:
			status = "ERROR"
			detail = truncateString(r.Err.Error(), 50)
		case !r.Passed:
			status = "FAIL"
		}
		t.Row(r.Name, status, r.Elapsed.Round(10*time.Millisecond).String(), detail)
	}

	failed := plan.Failed(results)
	line := fmt.Sprintf("%d/%d cases passed", len(results)-failed, len(results))
	return t.String() + "\n" + f.metaStyle.Render(line)
}

func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
