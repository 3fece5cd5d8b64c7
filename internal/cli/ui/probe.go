package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/client"
)

// maxSummaryWidth bounds the summary column of the probe table
const maxSummaryWidth = 60

// RenderProbeResults renders one table row per probed endpoint
func RenderProbeResults(results []client.ProbeResult) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Endpoint", "Status", "Content-Type", "Summary"})

	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.Path, color.RedString("error"), "", Truncate(r.Err.Error(), maxSummaryWidth)})
			continue
		}
		t.AppendRow(table.Row{
			r.Path,
			coloredStatusCode(r.StatusCode),
			r.ContentType,
			Truncate(oneLine(r.Summary), maxSummaryWidth),
		})
	}

	return t.Render()
}

func coloredStatusCode(code int) string {
	s := fmt.Sprintf("%d", code)
	switch {
	case code >= 200 && code < 300:
		return color.GreenString(s)
	case code >= 300 && code < 400:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most width display cells, ending in "..."
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// MaskToken shows only the first characters of a token
func MaskToken(token string) string {
	const visible = 10
	if runewidth.StringWidth(token) <= visible {
		return token
	}
	return runewidth.Truncate(token, visible+3, "...")
}
