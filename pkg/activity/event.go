package activity

import (
	"strings"
	"time"
)

// Verbs emitted by the ficha store.
const (
	VerbFichaUpdated   = "ficha.updated"
	VerbFichaReset     = "ficha.reset"
	VerbSessionsPurged = "ficha.sessions.purged"
	VerbFichaMigrated  = "ficha.migrated"
)

// Object types a sink can file events under.
const (
	ObjectTypeFicha     = "ficha"
	ObjectTypeNamespace = "ficha.namespace"
)

// Event is one store change. Session events carry SessionID; sweeps across
// every session carry Namespace instead.
type Event struct {
	Verb      string
	ActorID   string
	SessionID string
	Namespace string
	Key       string
	Section   string
	Operation string
	// Index is the removed position for sequence removals.
	Index      *int
	Count      int
	Channel    string
	OccurredAt time.Time
}

// ObjectType is ficha.namespace for sweeps and ficha otherwise.
func (e Event) ObjectType() string {
	if e.SessionID == "" && e.Namespace != "" {
		return ObjectTypeNamespace
	}
	return ObjectTypeFicha
}

// ObjectID is the session id, falling back to the namespace and then the key.
func (e Event) ObjectID() string {
	switch {
	case e.SessionID != "":
		return e.SessionID
	case e.Namespace != "":
		return e.Namespace
	default:
		return e.Key
	}
}

// Metadata flattens the descriptive fields. Empty strings, a nil Index and a
// zero Count are left out.
func (e Event) Metadata() map[string]any {
	meta := make(map[string]any, 5)
	for name, value := range map[string]string{
		"key":       e.Key,
		"section":   e.Section,
		"operation": e.Operation,
	} {
		if value != "" {
			meta[name] = value
		}
	}
	if e.Index != nil {
		meta["index"] = *e.Index
	}
	if e.Count > 0 {
		meta["count"] = e.Count
	}
	return meta
}

func (e Event) routable() bool {
	return e.Verb != "" && e.ObjectID() != ""
}

// Normalize trims identifiers, detaches Index from the caller and stamps
// OccurredAt when it is zero.
func Normalize(event Event) Event {
	out := event
	for _, field := range []*string{
		&out.Verb, &out.ActorID, &out.SessionID, &out.Namespace,
		&out.Key, &out.Section, &out.Operation, &out.Channel,
	} {
		*field = strings.TrimSpace(*field)
	}
	if event.Index != nil {
		index := *event.Index
		out.Index = &index
	}
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now()
	}
	return out
}
