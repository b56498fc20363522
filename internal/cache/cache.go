package cache

import "strings"

// Cache defines the interface for caching adapter output between runs.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from an adapter tag and a natural key
// (e.g. a day bucket or a query string). The natural key is sanitized so the
// result is safe as a file name.
func Key(adapterTag, naturalKey string) string {
	return adapterTag + "-" + Sanitize(naturalKey)
}

// Sanitize replaces every non-alphanumeric character with an underscore.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
