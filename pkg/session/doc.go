// Package session derives the storage namespace for one form-editing session.
//
// A session id is generated lazily, cached in-process and kept in a
// session-lifetime Storage so a reload within the same session resolves the
// same id. Every ficha key is derived from that id:
//
//	<prefix>:<id>        document
//	<prefix>:<id>:chart  rendered vitals chart (PNG data URI)
//	<prefix>:sid         the id itself
//	<prefix>             pre-namespacing legacy document
package session
