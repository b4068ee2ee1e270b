package differ

import (
	"github.com/configkit/ddmigrate/pkg/document"
)

// DefaultExcludedField is the volatile field dropped from attribute
// records before comparison.
const DefaultExcludedField = "dashboard_identifier"

// Differ compares client documents against product documents.
type Differ interface {
	// TopLevel returns the top-level keys common to both documents,
	// excluding "attributes", in client encounter order. A nil product
	// yields no common keys.
	TopLevel(client, product *document.Document) []string

	// Attributes returns the attribute identifiers common to both
	// documents, in client encounter order. Either side's missing
	// attribute collection behaves as empty.
	Attributes(client, product *document.Document) []string

	// Classify compares a client attribute record against its product
	// counterpart with the excluded field dropped from both sides.
	Classify(clientAttr, productAttr *document.Object) Classification

	// Changes computes the key-level diff between two attribute records
	// with the excluded field dropped. Informational only; never affects
	// classification.
	Changes(clientAttr, productAttr *document.Object) []FieldChange

	// Report runs the full comparison: common top-level keys plus a
	// classification for every common attribute.
	Report(client, product *document.Document) *Report
}

// differ is the default implementation of Differ.
type differ struct {
	excluded string
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{excluded: DefaultExcludedField}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TopLevel returns the common top-level keys, excluding "attributes".
func (d *differ) TopLevel(client, product *document.Document) []string {
	if client == nil || product == nil {
		return nil
	}
	var common []string
	for _, key := range client.Keys() {
		if key == document.AttributesKey {
			continue
		}
		if product.Has(key) {
			common = append(common, key)
		}
	}
	return common
}

// Attributes returns the common attribute identifiers.
func (d *differ) Attributes(client, product *document.Document) []string {
	clientAttrs := client.Attributes()
	productAttrs := product.Attributes()
	if clientAttrs.Len() == 0 || productAttrs.Len() == 0 {
		return nil
	}
	var common []string
	for _, id := range clientAttrs.Keys() {
		if productAttrs.Has(id) {
			common = append(common, id)
		}
	}
	return common
}

// Classify compares two attribute records for deep structural equality
// with the excluded field dropped from both sides.
func (d *differ) Classify(clientAttr, productAttr *document.Object) Classification {
	if d.equal(clientAttr, productAttr) {
		return Exact
	}
	return Different
}

// Report runs the full comparison of client against product.
func (d *differ) Report(client, product *document.Document) *Report {
	report := &Report{CommonKeys: d.TopLevel(client, product)}
	clientAttrs := client.Attributes()
	productAttrs := product.Attributes()
	for _, id := range d.Attributes(client, product) {
		clientVal, _ := clientAttrs.Get(id)
		productVal, _ := productAttrs.Get(id)

		clientAttr, clientIsObj := clientVal.(*document.Object)
		productAttr, productIsObj := productVal.(*document.Object)

		attr := AttributeReport{ID: id}
		switch {
		case clientIsObj && productIsObj:
			attr.Classification = d.Classify(clientAttr, productAttr)
			if attr.Classification == Different {
				attr.Changes = d.Changes(clientAttr, productAttr)
			}
		default:
			// Attribute records are normally mappings; a scalar record is
			// compared by raw value.
			if d.equal(clientVal, productVal) {
				attr.Classification = Exact
			} else {
				attr.Classification = Different
				attr.Changes = d.valueChanges(clientVal, productVal, id)
			}
		}
		report.Attributes = append(report.Attributes, attr)
	}
	return report
}

// equal is document.Equal with the excluded field dropped from every
// object level, mirroring the comparison the classification is defined by.
func (d *differ) equal(a, b document.Value) bool {
	aObj, aIsObj := a.(*document.Object)
	bObj, bIsObj := b.(*document.Object)
	if aIsObj && bIsObj {
		aView := aObj.Without(d.excluded)
		bView := bObj.Without(d.excluded)
		if aView.Len() != bView.Len() {
			return false
		}
		for _, key := range aView.Keys() {
			bVal, ok := bView.Get(key)
			if !ok {
				return false
			}
			aVal, _ := aView.Get(key)
			if !d.equal(aVal, bVal) {
				return false
			}
		}
		return true
	}
	if aIsObj != bIsObj {
		return false
	}
	return document.Equal(a, b)
}
