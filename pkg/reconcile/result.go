package reconcile

import (
	"github.com/configkit/ddmigrate/pkg/differ"
	"github.com/configkit/ddmigrate/pkg/document"
)

// Result is the outcome of one engine run: the pruned working document,
// the comparison data it was driven by, every decision, and the full
// audit trail.
type Result struct {
	// Document is the final working copy: common keys removed,
	// dashboards sanitized, removed attributes pruned. The loaded
	// inputs are never touched.
	Document *document.Document

	// Report is the comparison the run was driven by.
	Report *differ.Report

	// Decisions maps every classified attribute identifier to its
	// decision. After a finalized run there is exactly one entry per
	// classified attribute.
	Decisions map[string]Decision

	// Log is the append-only audit record of the run.
	Log *Log

	// Canceled reports whether the decision provider canceled mid-run.
	// A canceled run still finalizes; undecided attributes were kept.
	Canceled bool

	// Stats summarizes the run.
	Stats Stats
}

// Stats are counters for a finalized run.
type Stats struct {
	KeysRemoved         int
	AttributesSanitized int
	ExactMatches        int
	DifferentAttributes int
	AttributesRemoved   int
	AttributesKept      int
}

// Removed returns the identifiers the run decided to remove, in
// client encounter order.
func (r *Result) Removed() []string {
	return r.decided(Remove)
}

// Kept returns the identifiers the run decided to keep, in client
// encounter order.
func (r *Result) Kept() []string {
	return r.decided(Keep)
}

func (r *Result) decided(want Decision) []string {
	var ids []string
	for _, attr := range r.Report.Attributes {
		if r.Decisions[attr.ID] == want {
			ids = append(ids, attr.ID)
		}
	}
	return ids
}
