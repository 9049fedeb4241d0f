package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/provider"
)

// --- Fakes ---

type fakeEntries struct {
	entries []*model.Entry
	err     error
}

func (f *fakeEntries) inRange(start, end time.Time) []*model.Entry {
	var out []*model.Entry
	for _, e := range f.entries {
		if !e.CreationTime.Before(start) && !e.CreationTime.After(end) {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeEntries) ListRange(_ context.Context, _ string, start, end time.Time) ([]*model.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.inRange(start, end), nil
}

func (f *fakeEntries) CountRange(_ context.Context, _ string, start, end time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.inRange(start, end)), nil
}

type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) Name() string { return "fake" }

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func newTestPipeline(entries *fakeEntries, prov *fakeProvider) *Pipeline {
	p := NewPipeline(entries, prov, zerolog.Nop())
	p.now = func() time.Time { return testNow }
	return p
}

func entriesAtDayOffsets(userID string, offsets ...int) []*model.Entry {
	var out []*model.Entry
	for i, d := range offsets {
		out = append(out, &model.Entry{
			EntryID:      fmt.Sprintf("e%d", i),
			UserID:       userID,
			Content:      fmt.Sprintf("entry on day %d", d),
			CreationTime: testNow.AddDate(0, 0, d),
		})
	}
	return out
}

// --- Tests ---

func TestCheckEligibility_Threshold(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 50} {
		fe := &fakeEntries{}
		for i := 0; i < n; i++ {
			fe.entries = append(fe.entries, &model.Entry{
				EntryID:      fmt.Sprintf("e%d", i),
				UserID:       "u1",
				Content:      "x",
				CreationTime: testNow.Add(-time.Duration(i) * time.Hour),
			})
		}
		p := newTestPipeline(fe, &fakeProvider{})

		res, err := p.CheckEligibility(context.Background(), "u1")
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if res.EntryCount != n {
			t.Fatalf("n=%d: entryCount=%d", n, res.EntryCount)
		}
		if res.CanGenerate != (n >= 5) {
			t.Fatalf("n=%d: canGenerate=%v", n, res.CanGenerate)
		}
	}
}

func TestCheckEligibility_WindowBounds(t *testing.T) {
	// Only the entry 6 days old counts; 8 days old is outside the window.
	fe := &fakeEntries{entries: entriesAtDayOffsets("u1", -8, -6)}
	p := newTestPipeline(fe, &fakeProvider{})

	res, err := p.CheckEligibility(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if res.EntryCount != 1 {
		t.Fatalf("entryCount=%d, want 1", res.EntryCount)
	}
}

func TestCheckEligibility_StorageErrorPropagates(t *testing.T) {
	fe := &fakeEntries{err: errors.New("connection reset")}
	p := newTestPipeline(fe, &fakeProvider{})

	_, err := p.CheckEligibility(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "failed to fetch entries") {
		t.Fatalf("want wrapped storage error, got %v", err)
	}
}

func TestGenerateSummary_RefusesBelowThreshold(t *testing.T) {
	fe := &fakeEntries{entries: entriesAtDayOffsets("u1", -1, -2, -3)}
	fp := &fakeProvider{response: wellFormedResponse}
	p := newTestPipeline(fe, fp)

	_, err := p.GenerateSummary(context.Background(), "u1")
	var ee *EligibilityError
	if !errors.As(err, &ee) {
		t.Fatalf("want EligibilityError, got %v", err)
	}
	if ee.EntryCount != 3 {
		t.Fatalf("entryCount=%d, want 3", ee.EntryCount)
	}
	if fp.calls != 0 {
		t.Fatalf("provider must not be called below threshold; calls=%d", fp.calls)
	}
}

func TestGenerateSummary_ChronologicalPromptOrder(t *testing.T) {
	// Store returns newest first; the prompt must still read oldest first.
	fe := &fakeEntries{entries: entriesAtDayOffsets("u1", -1, -2, -3, -4, -5, -6)}
	prov := &capturingProvider{response: wellFormedResponse}
	p := NewPipeline(fe, prov, zerolog.Nop())
	p.now = func() time.Time { return testNow }
	if _, err := p.GenerateSummary(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}

	prev := -1
	for i, d := range []int{-6, -5, -4, -3, -2, -1} {
		label := fmt.Sprintf("entry on day %d", d)
		pos := strings.Index(prov.prompt, label)
		if pos < 0 {
			t.Fatalf("prompt missing %q", label)
		}
		if pos < prev {
			t.Fatalf("entry %d out of order in prompt", i)
		}
		prev = pos
	}
	if !strings.Contains(prov.prompt, "Entry 1 (") || !strings.Contains(prov.prompt, "Entry 6 (") {
		t.Fatalf("prompt entries not numbered:\n%s", prov.prompt)
	}
}

type capturingProvider struct {
	response string
	prompt   string
}

func (c *capturingProvider) Complete(_ context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.response, nil
}
func (c *capturingProvider) Name() string { return "capturing" }

func TestGenerateSummary_ParseCompleteness(t *testing.T) {
	fe := &fakeEntries{entries: entriesAtDayOffsets("u1", -1, -2, -3, -4, -5, -6)}
	fp := &fakeProvider{response: wellFormedResponse}
	p := newTestPipeline(fe, fp)

	out, err := p.GenerateSummary(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if out.Summary == SentinelSummary || out.Theme == SentinelTheme {
		t.Fatalf("expected structured parse, got sentinels: %+v", out)
	}
	if len(out.Insights) != 4 {
		t.Fatalf("insights: got %d, want 4", len(out.Insights))
	}
	if out.Period.Start != "Monday, August 24, 2026" || out.Period.End != "Monday, August 31, 2026" {
		t.Fatalf("period: %+v", out.Period)
	}
}

func TestGenerateSummary_ParseDegradation(t *testing.T) {
	fe := &fakeEntries{entries: entriesAtDayOffsets("u1", -1, -2, -3, -4, -5)}
	fp := &fakeProvider{response: "**Weekly Summary:**\nA week of small steps."}
	p := newTestPipeline(fe, fp)

	out, err := p.GenerateSummary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("degraded parse must not fail: %v", err)
	}
	if out.Summary != "A week of small steps." {
		t.Fatalf("summary: %q", out.Summary)
	}
	if out.Theme != SentinelTheme {
		t.Fatalf("theme should be sentinel, got %q", out.Theme)
	}
	if len(out.Insights) != 0 {
		t.Fatalf("insights should be empty, got %v", out.Insights)
	}
}

func TestGenerateSummary_EmptyResponseFails(t *testing.T) {
	fe := &fakeEntries{entries: entriesAtDayOffsets("u1", -1, -2, -3, -4, -5)}
	fp := &fakeProvider{response: "   \n"}
	p := newTestPipeline(fe, fp)

	_, err := p.GenerateSummary(context.Background(), "u1")
	var perr *provider.Error
	if !errors.As(err, &perr) || perr.Category != provider.CategoryEmptyResponse {
		t.Fatalf("want EMPTY_RESPONSE, got %v", err)
	}
}

func TestGenerateSummary_RateLimitClassification(t *testing.T) {
	fe := &fakeEntries{entries: entriesAtDayOffsets("u1", -1, -2, -3, -4, -5)}
	fp := &fakeProvider{err: errors.New("rate limit exceeded")}
	p := newTestPipeline(fe, fp)

	_, err := p.GenerateSummary(context.Background(), "u1")
	var perr *provider.Error
	if !errors.As(err, &perr) || perr.Category != provider.CategoryRateLimited {
		t.Fatalf("want RATE_LIMITED, got %v", err)
	}
}

func TestGenerateSummary_StorageErrorWins(t *testing.T) {
	fe := &fakeEntries{err: errors.New("db down")}
	fp := &fakeProvider{response: wellFormedResponse}
	p := newTestPipeline(fe, fp)

	_, err := p.GenerateSummary(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "failed to fetch entries") {
		t.Fatalf("want storage error, got %v", err)
	}
	if fp.calls != 0 {
		t.Fatalf("provider must not be called on storage failure")
	}
}
