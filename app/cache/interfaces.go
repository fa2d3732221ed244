package cache

// Store is a flat key→value store with an existence check. Entries are
// written at most once per key and never updated in place, so readers need no
// locking: a momentarily absent entry is just a miss.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Has(key string) bool
}
