// Package reconcile drives the migration of a client document against a
// product document: common top-level keys are removed, dashboards
// sanitized, common attributes classified, and a decision provider is
// consulted before any classified attribute is pruned. Every state
// change is audit logged.
package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/configkit/ddmigrate/pkg/differ"
	"github.com/configkit/ddmigrate/pkg/document"
	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/logging"
	"github.com/configkit/ddmigrate/pkg/sanitize"
)

// Engine orchestrates one document migration. An engine value is
// stateless between runs; each Run owns its working copy and audit log
// exclusively.
type Engine interface {
	// Run migrates client against product and returns the finalized
	// result. A nil product skips key removal and classification but
	// still sanitizes. The loaded client document is cloned, never
	// mutated. Cancellation from the decider is recovered via the
	// implicit-keep policy and is not an error.
	Run(ctx context.Context, client, product *document.Document) (*Result, error)
}

// engine is the default implementation of Engine.
type engine struct {
	differ  differ.Differ
	decider Decider
	logger  *zerolog.Logger
}

// Option configures an Engine
type Option func(*engine) error

// New creates an Engine with options. A decider must be provided.
func New(opts ...Option) (Engine, error) {
	e := &engine{
		differ: differ.New(),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.decider == nil {
		return nil, errors.NewConfigError("engine", "decider is required", nil)
	}
	return e, nil
}

// WithDecider sets the decision provider.
func WithDecider(decider Decider) Option {
	return func(e *engine) error {
		if decider == nil {
			return errors.NewConfigError("engine", "decider cannot be nil", nil)
		}
		e.decider = decider
		return nil
	}
}

// WithDiffer overrides the differ, e.g. to change the excluded field.
func WithDiffer(d differ.Differ) Option {
	return func(e *engine) error {
		if d == nil {
			return errors.NewConfigError("engine", "differ cannot be nil", nil)
		}
		e.differ = d
		return nil
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *engine) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// run carries the mutable state of one engine run.
type run struct {
	engine      *engine
	working     *document.Document
	log         *Log
	result      *Result
	removedKeys []string
	canceled    bool
}

// Run migrates client against product.
func (e *engine) Run(ctx context.Context, client, product *document.Document) (*Result, error) {
	if client == nil {
		return nil, errors.NewConfigError("engine", "client document is required", nil)
	}

	r := &run{
		engine:  e,
		working: client.Clone(),
		log:     NewLog(),
	}
	r.result = &Result{
		Document:  r.working,
		Decisions: make(map[string]Decision),
		Log:       r.log,
	}

	r.removeCommonKeys(product)
	r.sanitizeDashboards()
	r.classify(product)

	if err := r.reconcile(ctx); err != nil {
		return nil, err
	}

	r.result.Canceled = r.canceled
	e.logger.Info().
		Int("keys_removed", r.result.Stats.KeysRemoved).
		Int("attributes_removed", r.result.Stats.AttributesRemoved).
		Int("attributes_kept", r.result.Stats.AttributesKept).
		Bool("canceled", r.canceled).
		Msg("Run finalized")

	return r.result, nil
}

// removeCommonKeys deletes every non-attributes top-level key present
// in both documents. Skipped entirely without a product document.
func (r *run) removeCommonKeys(product *document.Document) {
	if product == nil {
		r.engine.logger.Warn().Msg("No product document; skipping common key removal")
		return
	}
	for _, key := range r.engine.differ.TopLevel(r.working, product) {
		r.log.Record(Entry{Subject: key, Action: ActionRemovedCommonKey})
		r.working.Delete(key)
		r.removedKeys = append(r.removedKeys, key)
		r.result.Stats.KeysRemoved++
	}
}

// sanitizeDashboards strips VRA/CCM from every attribute's dashboard
// identifier. Unconditional and product-independent.
func (r *run) sanitizeDashboards() {
	attrs := r.working.Attributes()
	for _, id := range attrs.Keys() {
		record := attrs.Object(id)
		if !sanitize.Pending(record) {
			continue
		}
		r.log.Record(Entry{Subject: id, Action: ActionSanitizedDashboard, Detail: "removed VRA/CCM subkeys"})
		sanitize.Record(record)
		r.result.Stats.AttributesSanitized++
	}
}

// classify builds the comparison report and records one classification
// entry per common attribute. Without a product nothing is classified.
func (r *run) classify(product *document.Document) {
	r.result.Report = r.engine.differ.Report(r.working, product)
	// The common keys were already removed from the working copy; the
	// report carries the ones actually removed.
	r.result.Report.CommonKeys = r.removedKeys
	for _, attr := range r.result.Report.Attributes {
		if attr.Classification == differ.Exact {
			r.log.Record(Entry{Subject: attr.ID, Action: ActionClassifiedExact})
			r.result.Stats.ExactMatches++
			continue
		}
		r.log.Record(Entry{
			Subject: attr.ID,
			Action:  ActionClassifiedDifferent,
			Detail:  fmt.Sprintf("%d difference(s)", len(attr.Changes)),
		})
		r.result.Stats.DifferentAttributes++
	}
}

// reconcile drives the confirmation protocol: the exact-match group
// first, then the different group. Exactly one decision and one
// decision entry per classified attribute, including implicit keeps
// after cancellation.
func (r *run) reconcile(ctx context.Context) error {
	groups := []Group{
		{Classification: differ.Exact, Attributes: r.result.Report.Exact()},
		{Classification: differ.Different, Attributes: r.result.Report.Different()},
	}

	for i, group := range groups {
		if len(group.Attributes) == 0 {
			continue
		}
		if r.canceled {
			r.keepRemaining(group.Attributes)
			continue
		}
		if err := r.reconcileGroup(ctx, group); err != nil {
			if !errors.IsCanceled(err) {
				return err
			}
			// Implicit-keep policy: everything undecided in this group and
			// any remaining groups is kept and logged, then the run
			// finalizes normally.
			r.canceled = true
			r.keepRemaining(group.Attributes)
			for _, rest := range groups[i+1:] {
				r.keepRemaining(rest.Attributes)
			}
			return nil
		}
	}
	return nil
}

func (r *run) reconcileGroup(ctx context.Context, group Group) error {
	mode, err := r.engine.decider.ChooseMode(ctx, group)
	if err != nil {
		return err
	}

	switch mode {
	case WholeCategory:
		decision, err := r.engine.decider.DecideGroup(ctx, group)
		if err != nil {
			return err
		}
		for _, attr := range group.Attributes {
			r.apply(attr, decision, "")
		}
	case OneByOne:
		for _, attr := range group.Attributes {
			if r.canceled {
				r.keep(attr)
				continue
			}
			decision, err := r.engine.decider.DecideOne(ctx, attr)
			if err != nil {
				if !errors.IsCanceled(err) {
					return err
				}
				r.canceled = true
				r.keep(attr)
				continue
			}
			r.apply(attr, decision, "")
		}
		if r.canceled {
			return errors.ErrCanceled
		}
	default:
		return errors.NewConfigError("engine", fmt.Sprintf("unknown mode %q", mode), nil)
	}
	return nil
}

// keepRemaining records an implicit keep for every undecided attribute.
func (r *run) keepRemaining(attrs []differ.AttributeReport) {
	for _, attr := range attrs {
		if _, decided := r.result.Decisions[attr.ID]; decided {
			continue
		}
		r.keep(attr)
	}
}

func (r *run) keep(attr differ.AttributeReport) {
	r.apply(attr, Keep, "implicit keep after cancellation")
}

// apply records the decision entry, then applies it to the working copy.
func (r *run) apply(attr differ.AttributeReport, decision Decision, detail string) {
	r.result.Decisions[attr.ID] = decision

	if decision == Remove {
		r.log.Record(Entry{Subject: attr.ID, Action: ActionDecisionRemove, Detail: detail})
		r.working.Attributes().Delete(attr.ID)
		r.result.Stats.AttributesRemoved++
		return
	}

	r.log.Record(Entry{Subject: attr.ID, Action: ActionDecisionKeep, Detail: detail})
	r.result.Stats.AttributesKept++
}
