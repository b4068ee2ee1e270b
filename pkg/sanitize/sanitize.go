// Package sanitize strips dashboard-specific content from client
// documents before attribute reconciliation.
package sanitize

import (
	"github.com/configkit/ddmigrate/pkg/document"
)

// DashboardField is the attribute field holding dashboard identifiers.
const DashboardField = "dashboard_identifier"

// Subkeys removed from every dashboard identifier mapping.
var dashboardSubkeys = []string{"VRA", "CCM"}

// Dashboard removes the VRA and CCM subkeys from the dashboard
// identifier of every attribute in the document. It runs unconditionally,
// is idempotent, and does not depend on a product document. Returns the
// identifiers of the attributes that were modified, in encounter order.
func Dashboard(doc *document.Document) []string {
	attrs := doc.Attributes()
	if attrs == nil {
		return nil
	}

	var modified []string
	for _, id := range attrs.Keys() {
		if Record(attrs.Object(id)) {
			modified = append(modified, id)
		}
	}
	return modified
}

// Pending reports whether a single attribute record still carries
// dashboard subkeys that Record would remove.
func Pending(record *document.Object) bool {
	dashboard := record.Object(DashboardField)
	if dashboard == nil {
		return false
	}
	for _, subkey := range dashboardSubkeys {
		if dashboard.Has(subkey) {
			return true
		}
	}
	return false
}

// Record sanitizes a single attribute record and reports whether it
// was modified.
func Record(record *document.Object) bool {
	if record == nil {
		return false
	}
	dashboard := record.Object(DashboardField)
	if dashboard == nil {
		return false
	}
	changed := false
	for _, subkey := range dashboardSubkeys {
		if dashboard.Delete(subkey) {
			changed = true
		}
	}
	return changed
}
