// Package state defines the persistence-facing contract of the ficha store: a
// string key-value medium that holds one serialized document per key.
//
// Responsibilities:
//   - Backend only gets, sets, deletes and lists raw payloads; it knows nothing
//     about the document shape, defaults or sessions.
//   - The ficha Store owns the read/merge/write cycle and the key layout
//     derived by pkg/session.
//   - Concrete media live in sub-packages (pgbackend, dynamobackend) or, for
//     tests and examples, in MemoryBackend.
//
// Data flow:
//
//	ficha.Store -> Backend.Get -> hydrate -> patch -> Backend.Set
//
// Consistency:
//
//	Backends are last-writer-wins. Callers that need to detect a concurrent
//	writer compare ETag(payload) before writing and surface ErrETagMismatch.
//
// Legacy keys:
//
//	Documents written before session namespacing live under the bare prefix.
//	Moving them is the Store's job (read-old/write-new), not the Backend's.
package state
