package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/provider"
)

// MinEntries is the eligibility gate: a summary is only generated from a
// window holding at least this many entries.
const MinEntries = 5

// EligibilityError reports a window with too few entries. It is a normal,
// expected outcome rather than a failure; callers branch on it by type and
// render the real count ("you have N of 5 entries").
type EligibilityError struct {
	EntryCount int
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("not enough entries to generate a summary: %d of %d", e.EntryCount, MinEntries)
}

// EntryReader is the slice of the store the pipeline needs. All reads are
// owner-scoped by userID.
type EntryReader interface {
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Entry, error)
	CountRange(ctx context.Context, userID string, start, end time.Time) (int, error)
}

// Pipeline orchestrates eligibility checking, prompt construction, provider
// invocation and response parsing for one user's weekly summary. It is
// stateless; concurrent invocations are independent. There is no
// deduplication of concurrent generations for the same user.
type Pipeline struct {
	entries EntryReader
	prov    provider.Provider
	log     zerolog.Logger
	now     func() time.Time
}

func NewPipeline(entries EntryReader, prov provider.Provider, log zerolog.Logger) *Pipeline {
	return &Pipeline{entries: entries, prov: prov, log: log, now: time.Now}
}

// CheckEligibility counts the user's entries in the trailing 7-day window.
// A storage failure propagates; the count is never fabricated.
func (p *Pipeline) CheckEligibility(ctx context.Context, userID string) (model.EligibilityResult, error) {
	window := ComputeWindow(p.now())
	return p.eligibility(ctx, userID, window)
}

func (p *Pipeline) eligibility(ctx context.Context, userID string, window model.WeekWindow) (model.EligibilityResult, error) {
	n, err := p.entries.CountRange(ctx, userID, window.Start, window.End)
	if err != nil {
		return model.EligibilityResult{}, fmt.Errorf("failed to fetch entries: %w", err)
	}
	return model.EligibilityResult{CanGenerate: n >= MinEntries, EntryCount: n}, nil
}

// GenerateSummary runs the full pipeline: eligibility gate, window fetch,
// prompt construction, provider call, response parse. The provider is never
// invoked when the window holds fewer than MinEntries entries. Provider
// failures come back as *provider.Error; parse anomalies never fail, they
// degrade to sentinel values.
func (p *Pipeline) GenerateSummary(ctx context.Context, userID string) (*model.WeeklySummary, error) {
	window := ComputeWindow(p.now())

	elig, err := p.eligibility(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	if !elig.CanGenerate {
		return nil, &EligibilityError{EntryCount: elig.EntryCount}
	}

	entries, err := p.entries.ListRange(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	// The store orders ascending already; re-sort so prompt order never
	// depends on driver behavior.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreationTime.Before(entries[j].CreationTime)
	})

	prompt := BuildPrompt(window, entries)

	p.log.Debug().
		Str("user_id", userID).
		Int("entry_count", len(entries)).
		Str("provider", p.prov.Name()).
		Msg("generating weekly summary")

	raw, err := p.prov.Complete(ctx, prompt)
	if err != nil {
		return nil, provider.Classify(err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, &provider.Error{Category: provider.CategoryEmptyResponse, Message: "provider returned empty output"}
	}

	summaryText, theme, insights := ParseResponse(raw)
	if theme == SentinelTheme {
		p.log.Warn().Str("user_id", userID).Msg("summary response missing section markers; using sentinels")
	}

	return &model.WeeklySummary{
		Summary:  summaryText,
		Theme:    theme,
		Insights: insights,
		Period: model.SummaryPeriod{
			Start: FormatLongDate(window.Start),
			End:   FormatLongDate(window.End),
		},
	}, nil
}
