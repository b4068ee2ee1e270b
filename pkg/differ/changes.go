package differ

import (
	"github.com/configkit/ddmigrate/pkg/document"
)

// Changes computes the key-level diff between a client record and a
// product record, excluded field dropped. Paths are dotted from the
// record root; sequences are compared whole.
func (d *differ) Changes(clientAttr, productAttr *document.Object) []FieldChange {
	return d.objectChanges(clientAttr, productAttr, "")
}

func (d *differ) objectChanges(client, product *document.Object, path string) []FieldChange {
	changes := []FieldChange{}

	clientView := client.Without(d.excluded)
	productView := product.Without(d.excluded)

	// Client keys first in encounter order, then product-only keys, so
	// the diff reads in document order.
	keys := clientView.Keys()
	for _, key := range productView.Keys() {
		if !clientView.Has(key) {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		keyPath := key
		if path != "" {
			keyPath = path + "." + key
		}

		clientVal, inClient := clientView.Get(key)
		productVal, inProduct := productView.Get(key)

		switch {
		case !inClient:
			changes = append(changes, FieldChange{
				Path:     keyPath,
				NewValue: document.Format(productVal),
				Type:     ChangeTypeAdd,
			})
		case !inProduct:
			changes = append(changes, FieldChange{
				Path:     keyPath,
				OldValue: document.Format(clientVal),
				Type:     ChangeTypeRemove,
			})
		default:
			changes = append(changes, d.valueChanges(clientVal, productVal, keyPath)...)
		}
	}

	return changes
}

func (d *differ) valueChanges(clientVal, productVal document.Value, path string) []FieldChange {
	clientObj, clientIsObj := clientVal.(*document.Object)
	productObj, productIsObj := productVal.(*document.Object)
	if clientIsObj && productIsObj {
		return d.objectChanges(clientObj, productObj, path)
	}

	if d.equal(clientVal, productVal) {
		return nil
	}

	return []FieldChange{{
		Path:     path,
		OldValue: document.Format(clientVal),
		NewValue: document.Format(productVal),
		Type:     ChangeTypeUpdate,
	}}
}
