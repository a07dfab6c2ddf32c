package cache

// Keyer maps a request to a cache key.
type Keyer interface {
	// PageKey returns the key for one page of a paginated GET.
	PageKey(url string) string
	// QueryKey returns the key for a POSTed query document and its variables.
	QueryKey(url string, body []byte) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PageKey returns "page:" followed by the hash of the URL.
func (DefaultKeyer) PageKey(url string) string {
	return "page:" + Hash([]byte(url))
}

// QueryKey returns "query:" followed by the hash of the URL and body.
func (DefaultKeyer) QueryKey(url string, body []byte) string {
	return "query:" + Hash(append([]byte(url+"\n"), body...))
}

// ScopedKeyer wraps a Keyer with a prefix so that callers with different
// credentials get separate namespaces.
//
// Example usage:
//
//	// Responses fetched with a personal token
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), TokenScope(token))
//
//	// Anonymous responses
//	anonKeyer := NewScopedKeyer(NewDefaultKeyer(), TokenScope(""))
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(url string) string {
	return k.prefix + k.inner.PageKey(url)
}

// QueryKey generates a prefixed query key.
func (k *ScopedKeyer) QueryKey(url string, body []byte) string {
	return k.prefix + k.inner.QueryKey(url, body)
}
