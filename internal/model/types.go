package model

import "time"

// User represents an account in the system.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	DisplayName  *string   `json:"displayName,omitempty"`
	PasswordHash string    `json:"-"`
	TimeZone     string    `json:"timeZone"`
	Status       string    `json:"status"`
	CreationTime time.Time `json:"creationTime"`
}

// Entry is a dated journal record. Entries are immutable after creation;
// every read is scoped to the owning user.
type Entry struct {
	EntryID      string    `json:"entryId"`
	UserID       string    `json:"userId"`
	Content      string    `json:"content"`
	CreationTime time.Time `json:"creationTime"`
}

// WeekWindow is the trailing 7-day interval used to select entries for a
// summary. Both bounds are inclusive at day resolution, in UTC. It is
// derived on every pipeline invocation and never persisted.
type WeekWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// EligibilityResult is the gate checked before invoking the provider.
type EligibilityResult struct {
	CanGenerate bool `json:"canGenerate"`
	EntryCount  int  `json:"entryCount"`
}

// SummaryPeriod carries the human-readable bounds of the window a summary
// was generated from.
type SummaryPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklySummary is the structured output of a successful generation.
type WeeklySummary struct {
	Summary  string        `json:"summary"`
	Theme    string        `json:"theme"`
	Insights []string      `json:"insights"`
	Period   SummaryPeriod `json:"period"`
}

// ListEntriesRequest captures filters used when listing entries.
type ListEntriesRequest struct {
	UserID string
	Limit  int
	Before *time.Time
	After  *time.Time
}
