package dedupe

// Option applies a configuration option to the in-memory Deduper.
type Option func(*inMemoryDeduper)

// WithKeyFunc normalizes every key before it is looked up or stored.
func WithKeyFunc(fn func(string) string) Option {
	return func(d *inMemoryDeduper) {
		if fn != nil {
			d.keyFn = fn
		}
	}
}
