package reconcile

import (
	"fmt"
	"time"
)

// Action tags every audit entry with the kind of state change it records.
type Action string

// Audit actions, one per state-changing step of a run.
const (
	ActionRemovedCommonKey    Action = "removed-common-key"
	ActionSanitizedDashboard  Action = "sanitized-dashboard"
	ActionClassifiedExact     Action = "classified-exact"
	ActionClassifiedDifferent Action = "classified-different"
	ActionDecisionRemove      Action = "decision-remove"
	ActionDecisionKeep        Action = "decision-keep"
)

// Entry is one audit record: what happened, to which subject, when.
type Entry struct {
	Time    time.Time
	Subject string // attribute identifier or top-level key
	Action  Action
	Detail  string // optional free text, e.g. which subkeys differed
}

// String serializes the entry to a single log line.
func (e Entry) String() string {
	line := fmt.Sprintf("[%s] %s: %s", e.Time.Format("2006-01-02 15:04:05"), e.Action, e.Subject)
	if e.Detail != "" {
		line += " - " + e.Detail
	}
	return line
}

// Log is the append-only audit record of one engine run. Entries are
// replay-stable: Entries always yields them in the order recorded.
type Log struct {
	entries []Entry
}

// NewLog creates an empty audit log.
func NewLog() *Log {
	return &Log{}
}

// Record appends an entry. There is no removal operation.
func (l *Log) Record(entry Entry) {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	l.entries = append(l.entries, entry)
}

// Entries returns the recorded entries in order. The returned slice is
// a copy; the log itself stays append-only.
func (l *Log) Entries() []Entry {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	return len(l.entries)
}
