package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configkit/ddmigrate/pkg/document"
	"github.com/configkit/ddmigrate/pkg/sanitize"
)

func mustParse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.ParseJSON([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestDashboardStripsSubkeys(t *testing.T) {
	doc := mustParse(t, `{
		"attributes": {
			"x": {"dashboard_identifier": {"VRA": 1, "CCM": 2, "z": 3}, "v": 5},
			"y": {"dashboard_identifier": {"z": 1}},
			"z": {"v": 7}
		}
	}`)

	modified := sanitize.Dashboard(doc)

	assert.Equal(t, []string{"x"}, modified)

	dashboard := doc.Attribute("x").Object("dashboard_identifier")
	assert.False(t, dashboard.Has("VRA"))
	assert.False(t, dashboard.Has("CCM"))
	assert.True(t, dashboard.Has("z"))

	// Untouched attributes keep their shape.
	assert.True(t, doc.Attribute("y").Object("dashboard_identifier").Has("z"))
	assert.True(t, doc.Attribute("z").Has("v"))
}

func TestDashboardIsIdempotent(t *testing.T) {
	doc := mustParse(t, `{
		"attributes": {
			"x": {"dashboard_identifier": {"VRA": 1, "CCM": 2, "z": 3}}
		}
	}`)

	require.Equal(t, []string{"x"}, sanitize.Dashboard(doc))

	once, err := doc.EncodeJSON()
	require.NoError(t, err)

	assert.Empty(t, sanitize.Dashboard(doc))
	twice, err := doc.EncodeJSON()
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestDashboardIgnoresNonMappingIdentifier(t *testing.T) {
	doc := mustParse(t, `{
		"attributes": {
			"x": {"dashboard_identifier": "plain-string"}
		}
	}`)

	assert.Empty(t, sanitize.Dashboard(doc))
	v, _ := doc.Attribute("x").Get("dashboard_identifier")
	assert.Equal(t, "plain-string", v)
}

func TestDashboardWithoutAttributes(t *testing.T) {
	doc := mustParse(t, `{"name": "host"}`)
	assert.Empty(t, sanitize.Dashboard(doc))
}

func TestPendingAndRecord(t *testing.T) {
	doc := mustParse(t, `{
		"attributes": {
			"x": {"dashboard_identifier": {"VRA": 1}},
			"y": {"dashboard_identifier": {"z": 1}}
		}
	}`)

	assert.True(t, sanitize.Pending(doc.Attribute("x")))
	assert.False(t, sanitize.Pending(doc.Attribute("y")))

	assert.True(t, sanitize.Record(doc.Attribute("x")))
	assert.False(t, sanitize.Pending(doc.Attribute("x")))
	assert.False(t, sanitize.Record(doc.Attribute("x")))
}
