// Package casing normalizes attribute captions and descriptions in
// converted dictionaries: captions get consistent title casing and
// descriptions end with a sentence terminator.
package casing

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/configkit/ddmigrate/pkg/document"
	"github.com/configkit/ddmigrate/pkg/logging"
)

// Attribute fields the fixer touches.
const (
	CaptionField     = "caption"
	DescriptionField = "description"
)

// Fixer rewrites caption and description text.
type Fixer interface {
	FixCaption(ctx context.Context, text string) (string, error)
	FixDescription(ctx context.Context, text string) (string, error)
}

// smallWords stay lowercase inside a title unless they lead it.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "in": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "with": true,
}

// HeuristicFixer applies rule-based casing without external services.
type HeuristicFixer struct {
	caser cases.Caser
}

// NewHeuristicFixer creates a rule-based fixer.
func NewHeuristicFixer() *HeuristicFixer {
	return &HeuristicFixer{caser: cases.Title(language.English)}
}

// FixCaption title-cases a caption, keeping connective words lowercase.
func (f *HeuristicFixer) FixCaption(_ context.Context, text string) (string, error) {
	words := strings.Fields(text)
	for i, word := range words {
		lower := strings.ToLower(word)
		if i > 0 && smallWords[lower] {
			words[i] = lower
			continue
		}
		// Leave acronyms and mixed-case identifiers alone.
		if word != strings.ToLower(word) && word != f.caser.String(lower) {
			continue
		}
		words[i] = f.caser.String(lower)
	}
	return strings.Join(words, " "), nil
}

// FixDescription ensures the description ends with a sentence terminator.
func (f *HeuristicFixer) FixDescription(_ context.Context, text string) (string, error) {
	return EnsurePeriod(text), nil
}

// EnsurePeriod appends a period unless the text already ends with
// sentence punctuation. Empty text is returned unchanged.
func EnsurePeriod(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return trimmed
	}
	return trimmed + "."
}

// FixDocument runs the fixer over every attribute's caption and
// description. Returns the identifiers of modified attributes in
// encounter order.
func FixDocument(ctx context.Context, fixer Fixer, doc *document.Document) ([]string, error) {
	attrs := doc.Attributes()
	if attrs == nil {
		return nil, nil
	}

	var modified []string
	for _, id := range attrs.Keys() {
		record := attrs.Object(id)
		if record == nil {
			continue
		}
		changed, err := fixRecord(logging.WithAttribute(ctx, id), fixer, record)
		if err != nil {
			return modified, err
		}
		if changed {
			modified = append(modified, id)
		}
	}
	return modified, nil
}

func fixRecord(ctx context.Context, fixer Fixer, record *document.Object) (bool, error) {
	changed := false

	if caption, ok := record.Get(CaptionField); ok {
		if text, isString := caption.(string); isString && text != "" {
			fixed, err := fixer.FixCaption(ctx, text)
			if err != nil {
				return changed, err
			}
			if fixed != text {
				record.Set(CaptionField, fixed)
				changed = true
			}
		}
	}

	if description, ok := record.Get(DescriptionField); ok {
		if text, isString := description.(string); isString && text != "" {
			fixed, err := fixer.FixDescription(ctx, text)
			if err != nil {
				return changed, err
			}
			if fixed != text {
				record.Set(DescriptionField, fixed)
				changed = true
			}
		}
	}

	return changed, nil
}
