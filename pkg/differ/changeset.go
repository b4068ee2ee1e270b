// Package differ provides functionality for comparing client and product
// documents and classifying their shared attributes.
package differ

import (
	"fmt"
	"strings"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a key present only in the product record.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a key present in both records with
	// differing values.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a key present only in the client record.
	ChangeTypeRemove ChangeType = "remove"
)

// Classification is the verdict for an attribute common to both documents.
type Classification string

const (
	// Exact means the client and product records are structurally equal
	// once the excluded field is dropped from both sides.
	Exact Classification = "exact"
	// Different means the records differ outside the excluded field.
	Different Classification = "different"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     // Field path within the attribute (e.g. "validation.max")
	OldValue string     // Client value (string representation)
	NewValue string     // Product value (string representation)
	Type     ChangeType // Type of change
}

// String renders a change the way the audit log and report print it.
func (c FieldChange) String() string {
	switch c.Type {
	case ChangeTypeAdd:
		return fmt.Sprintf("%s: missing in client, product has '%s'", c.Path, c.NewValue)
	case ChangeTypeRemove:
		return fmt.Sprintf("%s: missing in product, client has '%s'", c.Path, c.OldValue)
	default:
		return fmt.Sprintf("%s: client='%s' vs product='%s'", c.Path, c.OldValue, c.NewValue)
	}
}

// AttributeReport is the classification of one common attribute, with
// the informational key-level diff for Different attributes.
type AttributeReport struct {
	ID             string
	Classification Classification
	Changes        []FieldChange // empty for Exact
}

// Report is the full comparison of a client document against a product
// document: common top-level keys and classified common attributes, both
// in client encounter order.
type Report struct {
	CommonKeys []string
	Attributes []AttributeReport
}

// Exact returns the reports classified as exact matches, in order.
func (r *Report) Exact() []AttributeReport {
	return r.filter(Exact)
}

// Different returns the reports classified as different, in order.
func (r *Report) Different() []AttributeReport {
	return r.filter(Different)
}

func (r *Report) filter(c Classification) []AttributeReport {
	var out []AttributeReport
	for _, attr := range r.Attributes {
		if attr.Classification == c {
			out = append(out, attr)
		}
	}
	return out
}

// IsEmpty returns true if nothing was found in common.
func (r *Report) IsEmpty() bool {
	return len(r.CommonKeys) == 0 && len(r.Attributes) == 0
}

// String returns a human-readable summary of the report.
func (r *Report) String() string {
	if r.IsEmpty() {
		return "No common keys or attributes"
	}
	parts := []string{}
	if len(r.CommonKeys) > 0 {
		parts = append(parts, fmt.Sprintf("%d common key(s)", len(r.CommonKeys)))
	}
	if exact := r.Exact(); len(exact) > 0 {
		parts = append(parts, fmt.Sprintf("%d exact match(es)", len(exact)))
	}
	if diff := r.Different(); len(diff) > 0 {
		parts = append(parts, fmt.Sprintf("%d different attribute(s)", len(diff)))
	}
	return strings.Join(parts, ", ")
}
