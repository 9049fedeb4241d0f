package summary

import (
	"fmt"
	"strings"

	"github.com/narrate/narrate/internal/model"
)

// Section markers requested from the provider. The parser locates sections
// by these exact strings, so prompt and parser must agree verbatim; treat
// them as a versioned micro-protocol and change both together or neither.
const (
	markerSummary  = "**Weekly Summary:**"
	markerTheme    = "**Key Theme:**"
	markerInsights = "**Insights & Reflections:**"
)

// BuildPrompt assembles the single text block sent to the provider. Entries
// must already be in chronological order; each is numbered and dated so the
// narrative can follow the week's actual progression.
func BuildPrompt(window model.WeekWindow, entries []*model.Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a thoughtful, reflective journaling assistant. Review the journal entries below, written between %s and %s, and compose a weekly reflection.\n\n",
		FormatLongDate(window.Start), FormatLongDate(window.End))

	for i, e := range entries {
		fmt.Fprintf(&b, "Entry %d (%s):\n%s\n\n", i+1, FormatLongDate(e.CreationTime), e.Content)
	}

	fmt.Fprintf(&b, "Respond with exactly three labeled sections:\n\n")
	fmt.Fprintf(&b, "%s\nA narrative summary of the week in 2-3 paragraphs.\n\n", markerSummary)
	fmt.Fprintf(&b, "%s\nThe central theme of the week in 1-2 sentences.\n\n", markerTheme)
	fmt.Fprintf(&b, "%s\n3-4 bullet points with gentle observations.\n\n", markerInsights)
	b.WriteString("Keep the tone supportive and non-judgmental. Describe patterns you notice rather than prescribing what the writer should do.")

	return b.String()
}
