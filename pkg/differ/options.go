package differ

// Option is a functional option for configuring a Differ
type Option func(*differ)

// WithExcludedField overrides the volatile field dropped from attribute
// records before comparison.
func WithExcludedField(field string) Option {
	return func(d *differ) {
		if field != "" {
			d.excluded = field
		}
	}
}
