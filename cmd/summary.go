package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"word-styler/internal/app"
	"word-styler/internal/history"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// renderSummary draws the end-of-run box: one block per document and the
// totals.
func renderSummary(res app.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("word-styler"))
	for _, d := range res.Documents {
		b.WriteString("\n\n")
		name := filepath.Base(d.Input)
		if d.Err != nil {
			fmt.Fprintf(&b, "%s %s\n", errorStyle.Render("✗"), name)
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("etapa:"), d.Err.Stage)
			fmt.Fprintf(&b, "  %s %v\n", dimStyle.Render("erro:"), d.Err.Err)
			fmt.Fprintf(&b, "  %s %s", dimStyle.Render("dica:"), d.Err.Suggestion)
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", successStyle.Render("✓"), name)
		fmt.Fprintf(&b, "  %s %d/%d marcados, %d chamadas, US$ %.4f\n",
			dimStyle.Render("IA:"), d.Stats.Marked, d.Stats.TotalParagraphs, d.Stats.APICalls, d.Stats.EstimatedCostUSD)
		fmt.Fprintf(&b, "  %s %d estilizados, %d removidos, %d partes\n",
			dimStyle.Render("documento:"), d.Styled, d.Removed, d.Parts)
		fmt.Fprintf(&b, "  %s %s", dimStyle.Render("saída:"), d.OutputDir)
		for _, f := range d.Files {
			fmt.Fprintf(&b, "\n    %s %s", f.Name, dimStyle.Render("("+f.HumanSize()+")"))
		}
		if d.ZipPath != "" {
			fmt.Fprintf(&b, "\n  %s %s", dimStyle.Render("zip:"), filepath.Base(d.ZipPath))
		}
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %d   %s %d   %s %s",
		successStyle.Render("concluídos:"), res.Succeeded,
		errorStyle.Render("falhas:"), res.Failed,
		dimStyle.Render("tempo:"), formatDurationMS(res.ElapsedMS))
	return boxStyle.Render(b.String())
}

func renderHistory(runs []history.Run) string {
	if len(runs) == 0 {
		return dimStyle.Render("nenhuma execução registrada") + "\n"
	}
	var b strings.Builder
	for _, r := range runs {
		mark := successStyle.Render("✓")
		if r.Status != "ok" {
			mark = errorStyle.Render("✗")
		}
		fmt.Fprintf(&b, "%s %s  %s  %s  %d/%d marcados  US$ %.4f  %s",
			mark, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Book, filepath.Base(r.Input),
			r.Marked, r.Total, r.CostUSD, formatDurationMS(r.DurationMS))
		if r.Stage != "" {
			fmt.Fprintf(&b, "  %s", errorStyle.Render(r.Stage+": "+r.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatDurationMS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60_000 {
		return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
	}
	minutes := ms / 60_000
	remainMS := ms % 60_000
	if remainMS == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm%.1fs", minutes, float64(remainMS)/1000.0)
}
