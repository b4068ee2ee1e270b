package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configkit/ddmigrate/pkg/differ"
	"github.com/configkit/ddmigrate/pkg/document"
	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/logging"
	"github.com/configkit/ddmigrate/pkg/reconcile"
)

func mustParse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.ParseJSON([]byte(src))
	require.NoError(t, err)
	return doc
}

// fixture returns a client and product pair with two common top-level
// keys, two exact attributes (cpu, net), two different attributes
// (mem, disk), and one client-only attribute (custom). cpu carries
// dashboard subkeys that sanitization strips.
func fixture(t *testing.T) (*document.Document, *document.Document) {
	t.Helper()
	client := mustParse(t, `{
		"name": "client",
		"version": 2,
		"only_client": true,
		"attributes": {
			"cpu": {"caption": "CPU", "dashboard_identifier": {"VRA": 1, "id": "cpu"}},
			"mem": {"caption": "Memory used"},
			"disk": {"caption": "Disk client", "unit": "GB"},
			"net": {"caption": "Net"},
			"custom": {"caption": "Custom"}
		}
	}`)
	product := mustParse(t, `{
		"name": "product",
		"version": 2,
		"attributes": {
			"cpu": {"caption": "CPU", "dashboard_identifier": {"id": "cpu-product"}},
			"mem": {"caption": "Memory"},
			"disk": {"caption": "Disk product", "unit": "GB"},
			"net": {"caption": "Net"}
		}
	}`)
	return client, product
}

func newEngine(t *testing.T, decider reconcile.Decider) reconcile.Engine {
	t.Helper()
	engine, err := reconcile.New(
		reconcile.WithDecider(decider),
		reconcile.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)
	return engine
}

func TestNewRequiresDecider(t *testing.T) {
	_, err := reconcile.New()
	require.Error(t, err)
}

func TestRunRequiresClient(t *testing.T) {
	engine := newEngine(t, reconcile.PolicyDecider{Decision: reconcile.Keep})
	_, err := engine.Run(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestRunRemoveAll(t *testing.T) {
	client, product := fixture(t)
	engine := newEngine(t, reconcile.PolicyDecider{Decision: reconcile.Remove})

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)
	assert.False(t, result.Canceled)

	// Common top-level keys are gone, client-only keys stay.
	assert.False(t, result.Document.Has("name"))
	assert.False(t, result.Document.Has("version"))
	assert.True(t, result.Document.Has("only_client"))
	assert.Equal(t, []string{"name", "version"}, result.Report.CommonKeys)

	// Every classified attribute was removed; the unclassified
	// client-only attribute is retained.
	assert.Equal(t, []string{"custom"}, result.Document.AttributeIDs())
	assert.Equal(t, []string{"cpu", "mem", "disk", "net"}, result.Removed())
	assert.Empty(t, result.Kept())

	assert.Equal(t, 2, result.Stats.KeysRemoved)
	assert.Equal(t, 1, result.Stats.AttributesSanitized)
	assert.Equal(t, 2, result.Stats.ExactMatches)
	assert.Equal(t, 2, result.Stats.DifferentAttributes)
	assert.Equal(t, 4, result.Stats.AttributesRemoved)
	assert.Equal(t, 0, result.Stats.AttributesKept)
}

func TestRunKeepAll(t *testing.T) {
	client, product := fixture(t)
	engine := newEngine(t, reconcile.PolicyDecider{Decision: reconcile.Keep})

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)

	assert.Equal(t, []string{"cpu", "mem", "disk", "net", "custom"}, result.Document.AttributeIDs())
	assert.Equal(t, []string{"cpu", "mem", "disk", "net"}, result.Kept())

	// Keeping still strips dashboard subkeys.
	dashboard := result.Document.Attribute("cpu").Object("dashboard_identifier")
	assert.False(t, dashboard.Has("VRA"))
	assert.True(t, dashboard.Has("id"))
}

func TestRunDoesNotMutateInputs(t *testing.T) {
	client, product := fixture(t)
	before, err := client.EncodeJSON()
	require.NoError(t, err)

	engine := newEngine(t, reconcile.PolicyDecider{Decision: reconcile.Remove})
	_, err = engine.Run(context.Background(), client, product)
	require.NoError(t, err)

	after, err := client.EncodeJSON()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.True(t, product.Has("name"))
}

func TestRunWithoutProduct(t *testing.T) {
	client, _ := fixture(t)
	engine := newEngine(t, reconcile.PolicyDecider{Decision: reconcile.Remove})

	result, err := engine.Run(context.Background(), client, nil)
	require.NoError(t, err)

	// No key removal, no classification, no decisions. Sanitization
	// still runs.
	assert.True(t, result.Document.Has("name"))
	assert.Empty(t, result.Report.CommonKeys)
	assert.Empty(t, result.Report.Attributes)
	assert.Empty(t, result.Decisions)
	assert.Equal(t, 1, result.Stats.AttributesSanitized)
	assert.False(t, result.Document.Attribute("cpu").Object("dashboard_identifier").Has("VRA"))
}

func TestRunMixedModes(t *testing.T) {
	client, product := fixture(t)
	decider := &reconcile.ScriptedDecider{
		Modes:   []reconcile.Mode{reconcile.WholeCategory, reconcile.OneByOne},
		Group:   []reconcile.Decision{reconcile.Remove},
		Singles: []reconcile.Decision{reconcile.Keep, reconcile.Remove},
	}
	engine := newEngine(t, decider)

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)
	assert.False(t, result.Canceled)

	// Whole-category remove on the exact group, then keep mem and
	// remove disk one by one.
	assert.Equal(t, []string{"cpu", "disk", "net"}, result.Removed())
	assert.Equal(t, []string{"mem"}, result.Kept())
	assert.Equal(t, []string{"mem", "custom"}, result.Document.AttributeIDs())
}

func TestRunExactGroupDecidedFirst(t *testing.T) {
	client, product := fixture(t)
	engine := newEngine(t, reconcile.PolicyDecider{Decision: reconcile.Keep})

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)

	var decided []string
	for _, entry := range result.Log.Entries() {
		if entry.Action == reconcile.ActionDecisionKeep || entry.Action == reconcile.ActionDecisionRemove {
			decided = append(decided, entry.Subject)
		}
	}
	assert.Equal(t, []string{"cpu", "net", "mem", "disk"}, decided)
}

func TestRunCancelMidGroup(t *testing.T) {
	client, product := fixture(t)
	// Call 1 chooses one-by-one for the exact group, call 2 removes
	// cpu, call 3 cancels while deciding net.
	decider := &reconcile.ScriptedDecider{
		Modes:    []reconcile.Mode{reconcile.OneByOne},
		Singles:  []reconcile.Decision{reconcile.Remove},
		CancelAt: 3,
	}
	engine := newEngine(t, decider)

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)
	assert.True(t, result.Canceled)

	// The decision taken before cancellation stands; every undecided
	// attribute in this and later groups is kept.
	assert.Equal(t, []string{"cpu"}, result.Removed())
	assert.Equal(t, []string{"mem", "disk", "net"}, result.Kept())
	assert.Equal(t, []string{"mem", "disk", "net", "custom"}, result.Document.AttributeIDs())
}

func TestRunCancelAtModeChoice(t *testing.T) {
	client, product := fixture(t)
	decider := &reconcile.ScriptedDecider{CancelAt: 1}
	engine := newEngine(t, decider)

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)
	assert.True(t, result.Canceled)

	assert.Empty(t, result.Removed())
	assert.Equal(t, []string{"cpu", "mem", "disk", "net"}, result.Kept())

	for _, entry := range result.Log.Entries() {
		if entry.Action == reconcile.ActionDecisionKeep {
			assert.Equal(t, "implicit keep after cancellation", entry.Detail)
		}
	}
}

func TestRunOneDecisionPerClassifiedAttribute(t *testing.T) {
	client, product := fixture(t)
	decider := &reconcile.ScriptedDecider{CancelAt: 2, Modes: []reconcile.Mode{reconcile.OneByOne}}
	engine := newEngine(t, decider)

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)

	require.Len(t, result.Decisions, len(result.Report.Attributes))
	perAttr := make(map[string]int)
	for _, entry := range result.Log.Entries() {
		if entry.Action == reconcile.ActionDecisionKeep || entry.Action == reconcile.ActionDecisionRemove {
			perAttr[entry.Subject]++
		}
	}
	for _, attr := range result.Report.Attributes {
		assert.Equal(t, 1, perAttr[attr.ID], "attribute %s", attr.ID)
	}
	assert.NotContains(t, result.Decisions, "custom")
}

func TestRunAuditPhaseOrder(t *testing.T) {
	client, product := fixture(t)
	engine := newEngine(t, reconcile.PolicyDecider{Decision: reconcile.Remove})

	result, err := engine.Run(context.Background(), client, product)
	require.NoError(t, err)

	rank := func(a reconcile.Action) int {
		switch a {
		case reconcile.ActionRemovedCommonKey:
			return 0
		case reconcile.ActionSanitizedDashboard:
			return 1
		case reconcile.ActionClassifiedExact, reconcile.ActionClassifiedDifferent:
			return 2
		default:
			return 3
		}
	}
	entries := result.Log.Entries()
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, rank(entries[i-1].Action), rank(entries[i].Action))
	}
}

func TestRunLogsSummary(t *testing.T) {
	client, product := fixture(t)
	tl := logging.NewTestLogger(t)
	engine, err := reconcile.New(
		reconcile.WithDecider(reconcile.PolicyDecider{Decision: reconcile.Remove}),
		reconcile.WithLogger(tl.Logger),
	)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), client, product)
	require.NoError(t, err)

	assert.True(t, tl.Contains("Run finalized"))
	assert.True(t, tl.Contains(`"keys_removed":2`))
	assert.True(t, tl.Contains(`"attributes_removed":4`))
	assert.NotEmpty(t, tl.Lines())
}

func TestScriptedDeciderExhaustionCancels(t *testing.T) {
	decider := &reconcile.ScriptedDecider{}
	_, err := decider.ChooseMode(context.Background(), reconcile.Group{Classification: differ.Exact})
	assert.True(t, errors.IsCanceled(err))
}
