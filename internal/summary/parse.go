package summary

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Sentinel values substituted when a section is missing from the provider's
// response. Parsing is total: a malformed response degrades to sentinels
// instead of failing, so a low-information summary is still rendered.
const (
	SentinelSummary = "No summary available"
	SentinelTheme   = "No theme identified"
)

var (
	summaryRe  = regexp.MustCompile(`(?s)\*\*Weekly Summary:\*\*\s*(.*?)\s*(?:\*\*Key Theme:\*\*|$)`)
	themeRe    = regexp.MustCompile(`(?s)\*\*Key Theme:\*\*\s*(.*?)\s*(?:\*\*Insights & Reflections:\*\*|$)`)
	insightsRe = regexp.MustCompile(`(?s)\*\*Insights & Reflections:\*\*\s*(.*)$`)
	bulletRe   = regexp.MustCompile(`(?m)^\s*[-•]\s*`)
)

// ParseResponse extracts the three sections from the provider's response.
// A provider that returns the JSON object {"summary","theme","insights"} is
// taken at face value; everything else goes through the marker-regex
// compatibility path. Missing sections yield sentinels; missing bullets
// yield an empty insight list. It never returns an error.
func ParseResponse(text string) (summary, theme string, insights []string) {
	summary = SentinelSummary
	theme = SentinelTheme
	insights = []string{}

	if s, th, ins, ok := parseStructured(text); ok {
		if s != "" {
			summary = s
		}
		if th != "" {
			theme = th
		}
		return summary, theme, append(insights, ins...)
	}

	if m := summaryRe.FindStringSubmatch(text); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			summary = s
		}
	}
	if m := themeRe.FindStringSubmatch(text); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			theme = s
		}
	}
	if m := insightsRe.FindStringSubmatch(text); m != nil {
		for _, frag := range bulletRe.Split(m[1], -1) {
			if s := strings.TrimSpace(frag); s != "" {
				insights = append(insights, s)
			}
		}
	}
	return summary, theme, insights
}

// parseStructured accepts a bare JSON object response. Markdown code fences
// around the object are tolerated since models often add them unasked.
func parseStructured(text string) (summary, theme string, insights []string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}
	if !strings.HasPrefix(trimmed, "{") {
		return "", "", nil, false
	}

	var out struct {
		Summary  string   `json:"summary"`
		Theme    string   `json:"theme"`
		Insights []string `json:"insights"`
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return "", "", nil, false
	}
	for _, s := range out.Insights {
		if v := strings.TrimSpace(s); v != "" {
			insights = append(insights, v)
		}
	}
	return strings.TrimSpace(out.Summary), strings.TrimSpace(out.Theme), insights, true
}
