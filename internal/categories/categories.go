// Package categories patches converted dictionaries with attribute
// categories reviewed out of band: a categorized sibling file maps
// attribute identifiers to category names, and the matching converted
// file gets its attributes' category field updated in place.
package categories

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/configkit/ddmigrate/internal/files"
	"github.com/configkit/ddmigrate/pkg/document"
	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/logging"
)

// CategoryField is the attribute field the update writes.
const CategoryField = "category"

// Suffix marks a categorized attribute file, e.g.
// host__data_dictionary_categorized_attributes.json.
const Suffix = "_categorized_attributes"

// DirName is the directory holding categorized files, under the client
// directory.
const DirName = "categorized"

// Pair is a categorized file matched with the converted file it patches.
type Pair struct {
	Name            string // converted file name, e.g. host__data_dictionary.json
	CategorizedPath string
	TargetPath      string
}

// HasTarget reports whether the converted file exists.
func (p Pair) HasTarget() bool {
	if p.TargetPath == "" {
		return false
	}
	_, err := os.Stat(p.TargetPath)
	return err == nil
}

// Discover finds categorized files in categorizedDir and pairs each with
// its converted sibling in targetDir. Results are sorted by name.
func Discover(categorizedDir, targetDir string) ([]Pair, error) {
	matches, err := filepath.Glob(filepath.Join(categorizedDir, "*"+Suffix+".json"))
	if err != nil {
		return nil, errors.WrapIO("globbing", categorizedDir, err)
	}

	pairs := make([]Pair, 0, len(matches))
	for _, path := range matches {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		name = strings.TrimSuffix(name, Suffix) + ".json"
		pairs = append(pairs, Pair{
			Name:            name,
			CategorizedPath: path,
			TargetPath:      filepath.Join(targetDir, name),
		})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs, nil
}

// Mapping is an ordered attribute identifier to category name mapping.
// Order follows the categorized file so updates replay deterministically.
type Mapping struct {
	categories *document.Object
	Duplicates []string // identifiers listed under more than one category
}

// Len returns the number of mapped attribute identifiers.
func (m *Mapping) Len() int {
	return m.categories.Len()
}

// IDs returns the mapped attribute identifiers in file order.
func (m *Mapping) IDs() []string {
	return m.categories.Keys()
}

// Category returns the category for an attribute identifier.
func (m *Mapping) Category(id string) (string, bool) {
	v, ok := m.categories.Get(id)
	if !ok {
		return "", false
	}
	category, _ := v.(string)
	return category, true
}

// LoadMapping flattens a categorized document into a Mapping. The file
// shape is entity -> group -> category -> [attribute ids]; an identifier
// listed under several categories keeps the last one and is reported in
// Duplicates.
func LoadMapping(doc *document.Document) *Mapping {
	mapping := &Mapping{categories: document.NewObject()}
	for _, entity := range doc.Keys() {
		groups := doc.Root().Object(entity)
		if groups == nil {
			continue
		}
		for _, group := range groups.Keys() {
			byCategory := groups.Object(group)
			if byCategory == nil {
				continue
			}
			for _, category := range byCategory.Keys() {
				ids, _ := byCategory.Get(category)
				list, ok := ids.([]document.Value)
				if !ok {
					continue
				}
				for _, item := range list {
					id, ok := item.(string)
					if !ok {
						continue
					}
					if mapping.categories.Has(id) {
						mapping.Duplicates = append(mapping.Duplicates, id)
					}
					mapping.categories.Set(id, category)
				}
			}
		}
	}
	return mapping
}

// Result summarizes one Apply over a converted document.
type Result struct {
	Updated    []string // attributes whose category changed
	AlreadySet []string // attributes already carrying the mapped category
	NotFound   []string // mapped identifiers absent from the document
}

// Apply patches the category field of every mapped attribute in doc.
// Attributes the mapping does not name are untouched.
func Apply(doc *document.Document, mapping *Mapping) Result {
	var result Result
	for _, id := range mapping.IDs() {
		category, _ := mapping.Category(id)
		record := doc.Attribute(id)
		if record == nil {
			result.NotFound = append(result.NotFound, id)
			continue
		}
		if current, _ := record.Get(CategoryField); current == category {
			result.AlreadySet = append(result.AlreadySet, id)
			continue
		}
		record.Set(CategoryField, category)
		result.Updated = append(result.Updated, id)
	}
	return result
}

// UpdateFile loads a pair's converted document, applies the categorized
// mapping, and writes the document back only when something changed.
func UpdateFile(pair Pair) (Result, error) {
	mappingDoc, err := files.Load(pair.CategorizedPath)
	if err != nil {
		return Result{}, err
	}
	mapping := LoadMapping(mappingDoc)
	for _, id := range mapping.Duplicates {
		logging.Warn().Str("attribute", id).Str("file", pair.Name).
			Msg("Attribute categorized more than once; keeping the last category")
	}

	doc, err := files.Load(pair.TargetPath)
	if err != nil {
		return Result{}, err
	}

	result := Apply(doc, mapping)
	if len(result.Updated) == 0 {
		return result, nil
	}
	if err := files.Write(pair.TargetPath, doc); err != nil {
		return result, err
	}
	return result, nil
}
