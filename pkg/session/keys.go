package session

import "strings"

// DefaultPrefix is the key the original single-document layout used. It is
// now both the namespace root and the legacy key.
const DefaultPrefix = "ficha-anestesica:v1"

const chartSuffix = ":chart"

// Keys derives storage keys from a fixed prefix.
type Keys struct {
	Prefix string
}

// NewKeys trims trailing separators; an empty prefix falls back to DefaultPrefix.
func NewKeys(prefix string) Keys {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{Prefix: prefix}
}

// Namespace is the shared prefix of every session-scoped key.
func (k Keys) Namespace() string {
	return k.Prefix + ":"
}

// Session returns the document key for id.
func (k Keys) Session(id string) string {
	return k.Namespace() + id
}

// Chart returns the chart image key for id.
func (k Keys) Chart(id string) string {
	return k.Session(id) + chartSuffix
}

// SID returns the key holding the session id in session-lifetime storage.
func (k Keys) SID() string {
	return k.Namespace() + "sid"
}

// Legacy returns the pre-namespacing document key.
func (k Keys) Legacy() string {
	return k.Prefix
}

// IsChart reports whether key is a chart key.
func (k Keys) IsChart(key string) bool {
	return strings.HasPrefix(key, k.Namespace()) && strings.HasSuffix(key, chartSuffix)
}
