// Package files handles discovery, loading, and writing of data
// dictionary documents and their audit logs.
package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/configkit/ddmigrate/pkg/document"
	"github.com/configkit/ddmigrate/pkg/errors"
)

// DefaultPattern matches the client data dictionary files this tool
// migrates.
const DefaultPattern = "*__data_dictionary.json"

// OutputDirName is the directory created under the client directory for
// converted output.
const OutputDirName = "DD v2.1"

// Pair is a client document matched with its optional product sibling
// and the output locations derived from it.
type Pair struct {
	Name        string // file name, e.g. host__data_dictionary.json
	ClientPath  string
	ProductPath string // empty when no product file exists
	OutputPath  string
	AuditPath   string // audit log next to the output, .log extension
}

// HasProduct reports whether a product document exists for this pair.
func (p Pair) HasProduct() bool {
	return p.ProductPath != ""
}

// Discover finds client documents matching pattern in clientDir and
// pairs each with the same-named file in productDir if one exists. An
// absent product file is not an error. Results are sorted by name so
// batch runs are reproducible.
func Discover(clientDir, productDir, outputDir, pattern string) ([]Pair, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if outputDir == "" {
		outputDir = filepath.Join(clientDir, OutputDirName)
	}

	matches, err := filepath.Glob(filepath.Join(clientDir, pattern))
	if err != nil {
		return nil, errors.WrapIO("globbing", clientDir, err)
	}

	pairs := make([]Pair, 0, len(matches))
	for _, clientPath := range matches {
		name := filepath.Base(clientPath)
		pair := Pair{
			Name:       name,
			ClientPath: clientPath,
			OutputPath: filepath.Join(outputDir, name),
			AuditPath:  filepath.Join(outputDir, stem(name)+".log"),
		}
		productPath := filepath.Join(productDir, name)
		if _, err := os.Stat(productPath); err == nil {
			pair.ProductPath = productPath
		}
		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs, nil
}

// Load reads a document from path, choosing the codec by extension.
// Parse failures surface as ErrMalformedDocument.
func Load(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("reading", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := document.ParseYAML(data)
		if err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
		return doc, nil
	default:
		doc, err := document.ParseJSON(data)
		if err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
		return doc, nil
	}
}

// LoadPair loads both sides of a pair. The product document is nil when
// the pair has none; a malformed product document is fatal for the pair
// just like a malformed client document.
func LoadPair(pair Pair) (client, product *document.Document, err error) {
	client, err = Load(pair.ClientPath)
	if err != nil {
		return nil, nil, err
	}
	if pair.HasProduct() {
		product, err = Load(pair.ProductPath)
		if err != nil {
			return nil, nil, err
		}
	}
	return client, product, nil
}

// Write serializes a document to path, choosing the codec by extension
// and creating the parent directory if needed.
func Write(path string, doc *document.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("creating directory", filepath.Dir(path), err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = doc.EncodeYAML()
	default:
		data, err = doc.EncodeJSON()
	}
	if err != nil {
		return errors.WrapIO("encoding", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("writing", path, err)
	}
	return nil
}

// stem returns the file name without its extension.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
