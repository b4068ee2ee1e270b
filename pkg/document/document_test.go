package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configkit/ddmigrate/pkg/document"
)

func mustParse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.ParseJSON([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestParseJSONPreservesKeyOrder(t *testing.T) {
	doc := mustParse(t, `{"zebra": 1, "alpha": 2, "mike": 3}`)
	assert.Equal(t, []string{"zebra", "alpha", "mike"}, doc.Keys())
}

func TestParseJSONRejectsNonObjects(t *testing.T) {
	_, err := document.ParseJSON([]byte(`[1, 2, 3]`))
	assert.Error(t, err)

	_, err = document.ParseJSON([]byte(`{"a": 1} trailing`))
	assert.Error(t, err)

	_, err = document.ParseJSON([]byte(`{"a": `))
	assert.Error(t, err)
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	src := `{"b": {"nested": [1, 2.5, "three", true, null]}, "a": "last"}`
	doc := mustParse(t, src)

	encoded, err := doc.EncodeJSON()
	require.NoError(t, err)

	again, err := document.ParseJSON(encoded)
	require.NoError(t, err)

	assert.Equal(t, doc.Keys(), again.Keys())
	assert.True(t, document.Equal(doc.Root(), again.Root()))
}

func TestAttributesAccessors(t *testing.T) {
	doc := mustParse(t, `{
		"name": "host",
		"attributes": {
			"cpu": {"v": 1},
			"memory": {"v": 2}
		}
	}`)

	assert.Equal(t, []string{"cpu", "memory"}, doc.AttributeIDs())
	require.NotNil(t, doc.Attribute("cpu"))
	assert.Nil(t, doc.Attribute("disk"))

	// Missing attributes collection behaves as empty.
	bare := mustParse(t, `{"name": "host"}`)
	assert.Nil(t, bare.Attributes())
	assert.Empty(t, bare.AttributeIDs())
}

func TestCloneIsIndependent(t *testing.T) {
	doc := mustParse(t, `{"a": 1, "attributes": {"x": {"v": 5}}}`)
	clone := doc.Clone()

	clone.Delete("a")
	clone.Attributes().Delete("x")

	assert.True(t, doc.Has("a"))
	assert.NotNil(t, doc.Attribute("x"))
	assert.False(t, clone.Has("a"))
}

func TestObjectSetKeepsPosition(t *testing.T) {
	obj := document.NewObject()
	obj.Set("first", 1)
	obj.Set("second", 2)
	obj.Set("first", 10)

	assert.Equal(t, []string{"first", "second"}, obj.Keys())
	v, _ := obj.Get("first")
	assert.Equal(t, 10, v)
}

func TestEqualIgnoresMapOrder(t *testing.T) {
	a := mustParse(t, `{"x": 1, "y": 2}`)
	b := mustParse(t, `{"y": 2, "x": 1}`)
	assert.True(t, document.Equal(a.Root(), b.Root()))
}

func TestEqualIsOrderSensitiveForArrays(t *testing.T) {
	a := mustParse(t, `{"list": [1, 2]}`)
	b := mustParse(t, `{"list": [2, 1]}`)
	assert.False(t, document.Equal(a.Root(), b.Root()))
}

func TestEqualAcrossNumberRepresentations(t *testing.T) {
	// JSON decoding yields json.Number, YAML decoding yields int64; the
	// same document must compare equal either way.
	fromJSON := mustParse(t, `{"n": 42, "f": 2.5}`)
	fromYAML, err := document.ParseYAML([]byte("n: 42\nf: 2.5\n"))
	require.NoError(t, err)

	assert.True(t, document.Equal(fromJSON.Root(), fromYAML.Root()))
}

func TestParseYAMLPreservesKeyOrder(t *testing.T) {
	doc, err := document.ParseYAML([]byte("zebra: 1\nalpha:\n  inner: true\nmike: [a, b]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "alpha", "mike"}, doc.Keys())

	encoded, err := doc.EncodeYAML()
	require.NoError(t, err)
	again, err := document.ParseYAML(encoded)
	require.NoError(t, err)
	assert.Equal(t, doc.Keys(), again.Keys())
}

func TestWithoutDropsOnlyNamedKey(t *testing.T) {
	doc := mustParse(t, `{"a": 1, "volatile": 2, "b": 3}`)
	view := doc.Root().Without("volatile")

	assert.Equal(t, []string{"a", "b"}, view.Keys())
	// The original is untouched.
	assert.True(t, doc.Has("volatile"))
}

func TestFormat(t *testing.T) {
	doc := mustParse(t, `{"s": "text", "n": 3, "b": false, "nil": null, "arr": [1]}`)

	get := func(key string) document.Value {
		v, _ := doc.Get(key)
		return v
	}

	assert.Equal(t, "text", document.Format(get("s")))
	assert.Equal(t, "3", document.Format(get("n")))
	assert.Equal(t, "false", document.Format(get("b")))
	assert.Equal(t, "null", document.Format(get("nil")))
	assert.Equal(t, "[1]", document.Format(get("arr")))
}
