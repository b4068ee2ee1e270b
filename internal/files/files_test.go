package files_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configkit/ddmigrate/internal/files"
	"github.com/configkit/ddmigrate/pkg/document"
	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/reconcile"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscoverPairsByName(t *testing.T) {
	clientDir := t.TempDir()
	productDir := t.TempDir()

	writeFile(t, clientDir, "host__data_dictionary.json", `{}`)
	writeFile(t, clientDir, "app__data_dictionary.json", `{}`)
	writeFile(t, clientDir, "notes.txt", "ignored")
	writeFile(t, productDir, "host__data_dictionary.json", `{}`)

	pairs, err := files.Discover(clientDir, productDir, "", "")
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	// Sorted by name.
	assert.Equal(t, "app__data_dictionary.json", pairs[0].Name)
	assert.Equal(t, "host__data_dictionary.json", pairs[1].Name)

	assert.False(t, pairs[0].HasProduct())
	assert.True(t, pairs[1].HasProduct())
	assert.Equal(t, filepath.Join(productDir, "host__data_dictionary.json"), pairs[1].ProductPath)

	// Output defaults to the "DD v2.1" directory under the client dir.
	assert.Equal(t, filepath.Join(clientDir, files.OutputDirName, "host__data_dictionary.json"), pairs[1].OutputPath)
	assert.Equal(t, filepath.Join(clientDir, files.OutputDirName, "host__data_dictionary.log"), pairs[1].AuditPath)
}

func TestDiscoverCustomOutputAndPattern(t *testing.T) {
	clientDir := t.TempDir()
	outputDir := t.TempDir()
	writeFile(t, clientDir, "host.json", `{}`)

	pairs, err := files.Discover(clientDir, t.TempDir(), outputDir, "*.json")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, filepath.Join(outputDir, "host.json"), pairs[0].OutputPath)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "host", "attributes": {"cpu": {"caption": "CPU"}}}`)
	yamlPath := writeFile(t, dir, "doc.yaml", "name: host\nattributes:\n  cpu:\n    caption: CPU\n")

	for _, path := range []string{jsonPath, yamlPath} {
		doc, err := files.Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "attributes"}, doc.Keys())
		assert.Equal(t, []string{"cpu"}, doc.AttributeIDs())
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{"name":`)
	_, err := files.Load(path)
	assert.True(t, errors.IsMalformed(err))
}

func TestLoadMissing(t *testing.T) {
	_, err := files.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.False(t, errors.IsMalformed(err))
}

func TestLoadPairWithoutProduct(t *testing.T) {
	clientDir := t.TempDir()
	writeFile(t, clientDir, "host__data_dictionary.json", `{"name": "host"}`)

	pairs, err := files.Discover(clientDir, t.TempDir(), "", "")
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	client, product, err := files.LoadPair(pairs[0])
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Nil(t, product)
}

func TestLoadPairMalformedProduct(t *testing.T) {
	clientDir := t.TempDir()
	productDir := t.TempDir()
	writeFile(t, clientDir, "host__data_dictionary.json", `{"name": "host"}`)
	writeFile(t, productDir, "host__data_dictionary.json", `not json`)

	pairs, err := files.Discover(clientDir, productDir, "", "")
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	_, _, err = files.LoadPair(pairs[0])
	assert.True(t, errors.IsMalformed(err))
}

func TestWriteCreatesDirectory(t *testing.T) {
	doc, err := document.ParseJSON([]byte(`{"b": 1, "a": 2}`))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "DD v2.1", "out.json")
	require.NoError(t, files.Write(path, doc))

	loaded, err := files.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, loaded.Keys())
}

func TestWriteAudit(t *testing.T) {
	log := reconcile.NewLog()
	log.Record(reconcile.Entry{Subject: "version", Action: reconcile.ActionRemovedCommonKey})
	log.Record(reconcile.Entry{Subject: "cpu", Action: reconcile.ActionDecisionKeep, Detail: "implicit keep after cancellation"})

	path := filepath.Join(t.TempDir(), "logs", "host.log")
	require.NoError(t, files.WriteAudit(path, "host__data_dictionary.json", log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "Conversion Log for: host__data_dictionary.json\n"))
	assert.Contains(t, text, "Started: ")
	assert.Contains(t, text, "removed-common-key: version")
	assert.Contains(t, text, "decision-keep: cpu - implicit keep after cancellation")
	assert.Contains(t, text, "Completed: ")

	// Entry order is preserved.
	assert.Less(t, strings.Index(text, "version"), strings.Index(text, "cpu"))
}
