// Package document provides the in-memory model for configuration
// documents: ordered key/value objects with a distinguished attributes
// collection, plus order-preserving JSON and YAML codecs and deep
// structural equality.
package document

// AttributesKey is the top-level key holding the attribute collection.
const AttributesKey = "attributes"

// Document is a configuration document: an ordered mapping of top-level
// keys in which the "attributes" key holds a mapping from attribute
// identifier to attribute record.
type Document struct {
	root *Object
}

// New creates an empty document.
func New() *Document {
	return &Document{root: NewObject()}
}

// FromObject wraps an ordered object as a document.
func FromObject(root *Object) *Document {
	if root == nil {
		root = NewObject()
	}
	return &Document{root: root}
}

// Keys returns the top-level keys in encounter order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return d.root.Keys()
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return d.root.Len()
}

// Get returns a top-level value and whether it is present.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	return d.root.Get(key)
}

// Has reports whether a top-level key is present.
func (d *Document) Has(key string) bool {
	return d != nil && d.root.Has(key)
}

// Set stores a top-level value, preserving encounter order for
// existing keys.
func (d *Document) Set(key string, value Value) {
	d.root.Set(key, value)
}

// Delete removes a top-level key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	if d == nil {
		return false
	}
	return d.root.Delete(key)
}

// Attributes returns the attribute collection, or nil if the document
// has no "attributes" key or its value is not an object. Callers treat
// nil as an empty collection.
func (d *Document) Attributes() *Object {
	if d == nil {
		return nil
	}
	return d.root.Object(AttributesKey)
}

// AttributeIDs returns the attribute identifiers in encounter order,
// or nil if the document has no attribute collection.
func (d *Document) AttributeIDs() []string {
	return d.Attributes().Keys()
}

// Attribute returns a single attribute record by identifier, or nil.
func (d *Document) Attribute(id string) *Object {
	return d.Attributes().Object(id)
}

// Clone returns a deep copy of the document. The engine only ever
// mutates clones; loaded inputs stay pristine.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{root: d.root.Clone()}
}

// Root returns the underlying ordered object.
func (d *Document) Root() *Object {
	if d == nil {
		return nil
	}
	return d.root
}
